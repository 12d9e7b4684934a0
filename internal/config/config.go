package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

// OpenAIPlaceholderKey is the value shipped in sample env files. It is treated as "no key".
const OpenAIPlaceholderKey = "your_api_key_here"

type Application struct {
	Server   Server   `koanf:"server"`
	Database Database `koanf:"db"`
	AI       AI       `koanf:"ai"`
	Client   Client   `koanf:"client"`
}

type Server struct {
	Port          int    `koanf:"port"`
	AllowedOrigin string `koanf:"allowedorigin"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

type AI struct {
	OpenAI OpenAI `koanf:"openai"`
	Ollama Ollama `koanf:"ollama"`
}

type OpenAI struct {
	BaseUrl string `koanf:"baseurl"`
	Model   string `koanf:"model"`
	ApiKey  string `koanf:"apikey"`
}

// Enabled reports whether a usable API key was configured.
func (o OpenAI) Enabled() bool {
	return o.ApiKey != "" && o.ApiKey != OpenAIPlaceholderKey
}

type Ollama struct {
	BaseUrl string `koanf:"baseurl"`
	Model   string `koanf:"model"`
}

type Client struct {
	GatewayUrl string `koanf:"gatewayurl"`
	Timezone   string `koanf:"timezone"`
	WeekStart  string `koanf:"weekstart"`
	// Assistant is either "remote" or "offline".
	Assistant string `koanf:"assistant"`
}

// Location resolves the configured IANA timezone, falling back to the local zone.
func (c Client) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	location, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Warnf("unknown timezone %q, using local time: %v", c.Timezone, err)
		return time.Local
	}
	return location
}

// TimezoneName is the IANA name of Location, the zone the assistant is told the user is in.
// The local zone is named from TZ or the /etc/localtime link.
func (c Client) TimezoneName() string {
	location := c.Location()
	if location != time.Local {
		return location.String()
	}
	return localZoneName()
}

func localZoneName() string {
	if tz := strings.TrimPrefix(os.Getenv("TZ"), ":"); tz != "" {
		if _, err := time.LoadLocation(tz); err == nil {
			return tz
		}
	}
	if target, err := os.Readlink("/etc/localtime"); err == nil {
		if _, name, found := strings.Cut(target, "zoneinfo/"); found {
			if _, err := time.LoadLocation(name); err == nil {
				return name
			}
		}
	}
	if _, offset := time.Now().In(time.Local).Zone(); offset != 0 {
		log.Warnf("could not name the local timezone (UTC offset %ds), sending UTC", offset)
	}
	return "UTC"
}

// FirstDayOfWeek parses WeekStart ("sunday", "monday", ...). Sunday when empty or unknown.
func (c Client) FirstDayOfWeek() time.Weekday {
	name := strings.ToLower(strings.TrimSpace(c.WeekStart))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.ToLower(d.String()) == name {
			return d
		}
	}
	if name != "" {
		log.Warnf("unknown week start %q, using Sunday", c.WeekStart)
	}
	return time.Sunday
}

func Defaults() Application {
	return Application{
		Server: Server{
			Port:          8080,
			AllowedOrigin: "http://localhost:3000",
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "kalendar",
			Pass:   "",
			Name:   "kalendar",
			Schema: "kalendar",
		},
		AI: AI{
			OpenAI: OpenAI{
				BaseUrl: "https://api.openai.com",
				Model:   "gpt-3.5-turbo",
			},
			Ollama: Ollama{
				BaseUrl: "http://127.0.0.1:11434",
				Model:   "deepseek-r1:8b",
			},
		},
		Client: Client{
			GatewayUrl: "http://localhost:8080",
			WeekStart:  "sunday",
			Assistant:  "remote",
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "KALENDAR_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "KALENDAR_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	// plain OPENAI_API_KEY is accepted as well
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && k.String("ai.openai.apikey") == "" {
		if err := k.Set("ai.openai.apikey", key); err != nil {
			return Application{}, err
		}
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
