package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/klokku/kalendar/internal/app"
	"github.com/klokku/kalendar/internal/config"
	"github.com/klokku/kalendar/internal/console"
	"github.com/klokku/kalendar/internal/database"
	"github.com/klokku/kalendar/internal/event_bus"
	"github.com/klokku/kalendar/internal/seed"
	"github.com/klokku/kalendar/internal/utils"
	"github.com/klokku/kalendar/pkg/appstate"
	"github.com/klokku/kalendar/pkg/assistant"
	"github.com/klokku/kalendar/pkg/event"
	"github.com/klokku/kalendar/pkg/gateway"
	"github.com/klokku/kalendar/pkg/store"
	"github.com/klokku/kalendar/pkg/view"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"go.uber.org/automaxprocs/maxprocs"
)

const assistantOffline = "offline"

func init() {
	// .env is optional
	_ = godotenv.Load()

	level := os.Getenv("LOG_LEVEL")
	if level != "" {
		logrusLevel, err := log.ParseLevel(level)
		if err != nil {
			log.Fatal(err)
		}
		log.SetLevel(logrusLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

func main() {
	application := &cli.App{
		Name:  "kalendar",
		Usage: "Calendar with a chat assistant",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "./config/application.yaml", Usage: "path to the YAML configuration"},
		},
		Commands: []*cli.Command{
			serveCommand(),
			seedCommand(),
			agendaCommand(),
			chatCommand(),
		},
	}

	if err := application.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (config.Application, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return config.Application{}, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the calendar API server",
		Action: func(c *cli.Context) error {
			if _, err := maxprocs.Set(maxprocs.Logger(log.Debugf)); err != nil {
				log.Warnf("failed to set GOMAXPROCS: %v", err)
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			server, err := app.NewApplication(c.Context, cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return server.Run()
		},
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Insert sample events into the database",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Usage: "YAML fixture; built-in samples when omitted"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			fixture, err := seed.Builtin()
			if path := c.String("file"); path != "" {
				fixture, err = seed.LoadFile(path)
			}
			if err != nil {
				return err
			}

			db, err := database.Open(c.Context, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := database.Migrate(c.Context, cfg.Database); err != nil {
				return err
			}

			service := event.NewService(event.NewRepository(db))
			now := utils.SystemClock{Location: cfg.Client.Location()}.Now()
			n, err := seed.Run(c.Context, service, fixture, now)
			if err != nil {
				return err
			}
			log.Infof("Seeded %d events", n)
			return nil
		},
	}
}

func agendaCommand() *cli.Command {
	return &cli.Command{
		Name:  "agenda",
		Usage: "Print a calendar view",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "view", Value: string(view.Month), Usage: "month, week, 3day or day"},
			&cli.StringFlag{Name: "date", Usage: "reference date as YYYY-MM-DD, today when omitted"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			mode, err := view.ParseMode(c.String("view"))
			if err != nil {
				return err
			}

			clock := utils.SystemClock{Location: cfg.Client.Location()}
			term := newConsole(cfg, clock)
			defer term.Close()

			if date := c.String("date"); date != "" {
				selected, err := time.ParseInLocation("2006-01-02", date, cfg.Client.Location())
				if err != nil {
					return fmt.Errorf("invalid --date: %w", err)
				}
				term.Dispatch(appstate.SelectDate{Date: selected})
			}
			term.Dispatch(appstate.SetView{Mode: mode})

			if err := term.Load(c.Context); err != nil {
				return err
			}
			return term.Agenda()
		},
	}
}

func chatCommand() *cli.Command {
	return &cli.Command{
		Name:  "chat",
		Usage: "Talk to the calendar assistant",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "offline", Usage: "use the built-in keyword assistant instead of the language model"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if c.Bool("offline") {
				cfg.Client.Assistant = assistantOffline
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			clock := utils.SystemClock{Location: cfg.Client.Location()}
			term := newConsole(cfg, clock)
			defer term.Close()

			if err := term.Load(ctx); err != nil {
				return err
			}
			return term.Chat(ctx, os.Stdin)
		},
	}
}

// newConsole wires the gateway client, event store and assistant session for the terminal.
func newConsole(cfg config.Application, clock utils.Clock) *console.Console {
	bus := event_bus.NewEventBus()
	client := gateway.NewClient(cfg.Client.GatewayUrl, &http.Client{})
	events := store.New(client, bus)

	var interpreter assistant.Interpreter
	if cfg.Client.Assistant == assistantOffline {
		interpreter = assistant.NewKeywordInterpreter(events, clock)
	} else {
		interpreter = assistant.NewRemoteInterpreter(client, events, cfg.Client.TimezoneName())
	}
	session := assistant.NewSession(interpreter, bus)

	return console.New(os.Stdout, events, session, bus, clock, cfg.Client.FirstDayOfWeek())
}
