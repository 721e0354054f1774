package postgres

import (
	"context"
	"errors"
	"fmt"
	"reservation_service/internal/config"
	"reservation_service/internal/models"
	"reservation_service/internal/storage"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier описывает то, что репозиторию нужно от пула. *pgxpool.Pool его реализует.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepo struct {
	pool  *pgxpool.Pool
	db    querier
	table string
}

// Connect создает подключение к базе данных и возвращает репозиторий.
func Connect(ctx context.Context, cfg *config.Config) (*PostgresRepo, error) {
	const op = "storage.postgres.Connect"

	poolConfig, err := poolConfig(cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse config: %w", op, err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create pool: %w", op, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: failed to ping: %w", op, err)
	}

	return &PostgresRepo{
		pool:  pool,
		db:    pool,
		table: cfg.Postgres.Table,
	}, nil
}

// SaveReservation вставляет одну бронь и возвращает её id.
func (r *PostgresRepo) SaveReservation(ctx context.Context, reservation models.Reservation) (models.StoredReservation, error) {
	const op = "storage.postgres.SaveReservation"

	stored := models.StoredReservation{Reservation: reservation}

	err := r.db.QueryRow(
		ctx,
		insertQuery(r.table),
		reservation.Name,
		reservation.Email,
		reservation.Date,
		reservation.Time,
	).Scan(&stored.ID, &stored.CreatedAt)
	if err != nil {
		return models.StoredReservation{}, fmt.Errorf("%s: %w", op, mapSaveError(err))
	}

	return stored, nil
}

// Close закрывает соединение с базой данных.
func (r *PostgresRepo) Close() {
	r.pool.Close()
}

// mapSaveError превращает нарушения ограничений таблицы в storage.ErrInvalidReservation.
func mapSaveError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.NotNullViolation, pgerrcode.CheckViolation, pgerrcode.StringDataRightTruncationDataException:
			return fmt.Errorf("%w: %s", storage.ErrInvalidReservation, pgErr.Message)
		}
	}

	return err
}

func insertQuery(table string) string {
	return fmt.Sprintf(
		`INSERT INTO %s (name, email, date, time) VALUES ($1, $2, $3, $4) RETURNING id, created_at;`,
		pgx.Identifier{table}.Sanitize(),
	)
}

// poolConfig формирует конфигурацию пула. Ключ доступа, если задан, идет в пароль.
func poolConfig(cfg config.Postgres) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}

	if cfg.Key != "" {
		poolConfig.ConnConfig.Password = cfg.Key
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 0
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = time.Minute * 30

	return poolConfig, nil
}
