package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrEventNotFound = errors.New("event not found")

type Repository interface {
	StoreEvent(ctx context.Context, event Event) (Event, error)
	GetEvent(ctx context.Context, id string) (Event, error)
	ListEvents(ctx context.Context) ([]Event, error)
	UpdateEvent(ctx context.Context, event Event) (Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const eventColumns = `id, title, description, start_time, end_time, color, created_at, updated_at`

func (r *RepositoryImpl) StoreEvent(ctx context.Context, event Event) (Event, error) {
	query := `INSERT INTO event (
                    id,
                    title,
                    description,
                    start_time,
                    end_time,
                    color,
                    created_at,
                    updated_at
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING ` + eventColumns

	row := r.db.QueryRow(ctx, query,
		event.ID,
		event.Title,
		event.Description,
		event.Start,
		event.End,
		event.Color,
		event.CreatedAt,
		event.UpdatedAt,
	)
	stored, err := scanEvent(row)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return Event{}, err
	}
	return stored, nil
}

func (r *RepositoryImpl) GetEvent(ctx context.Context, id string) (Event, error) {
	query := `SELECT ` + eventColumns + ` FROM event WHERE id = $1`

	stored, err := scanEvent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Event{}, ErrEventNotFound
		}
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return Event{}, err
	}
	return stored, nil
}

func (r *RepositoryImpl) ListEvents(ctx context.Context) ([]Event, error) {
	query := `SELECT ` + eventColumns + ` FROM event ORDER BY start_time, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query events: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	events := make([]Event, 0, 16)
	for rows.Next() {
		stored, err := scanEvent(rows)
		if err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		events = append(events, stored)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("could not read events: %w", err)
		log.Error(err)
		return nil, err
	}
	return events, nil
}

func (r *RepositoryImpl) UpdateEvent(ctx context.Context, event Event) (Event, error) {
	query := `UPDATE event SET
                 title = $2,
                 description = $3,
                 start_time = $4,
                 end_time = $5,
                 color = $6,
                 updated_at = $7
             WHERE id = $1
             RETURNING ` + eventColumns

	row := r.db.QueryRow(ctx, query,
		event.ID,
		event.Title,
		event.Description,
		event.Start,
		event.End,
		event.Color,
		event.UpdatedAt,
	)
	updated, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Event{}, ErrEventNotFound
		}
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return Event{}, err
	}
	return updated, nil
}

func (r *RepositoryImpl) DeleteEvent(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM event WHERE id = $1`, id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEventNotFound
	}
	return nil
}

func scanEvent(row pgx.Row) (Event, error) {
	var e Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Start, &e.End, &e.Color, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}
