package redis

import (
	"context"
	"fmt"
	"reservation_service/internal/models"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const unnotifiedSetKey = "reservations:unnotified"

// RedisRepo хранит брони, которые сохранены, но по которым не ушли письма.
// Записи только накапливаются, повторная отправка здесь не делается.
type RedisRepo struct {
	client *redis.Client
	now    func() time.Time
}

func New(ctx context.Context, address string, password string, db int) (*RedisRepo, error) {
	const op = "storage.redis.New"

	rdb := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &RedisRepo{client: rdb, now: time.Now}, nil
}

// FlagUnnotified в одной транзакции записывает бронь с причиной ошибки
// в хэш reservation:unnotified:{id} и добавляет id в набор reservations:unnotified.
func (r *RedisRepo) FlagUnnotified(ctx context.Context, reservation models.StoredReservation, cause error) error {
	const op = "storage.redis.FlagUnnotified"

	key := unnotifiedKey(reservation.ID)
	fields := unnotifiedFields(reservation, cause, r.now())

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fields...)
		pipe.SAdd(ctx, unnotifiedSetKey, reservation.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Close закрывает соединение с базой данных.
func (r *RedisRepo) Close() {
	r.client.Close()
}

func unnotifiedKey(id int64) string {
	return "reservation:unnotified:" + strconv.FormatInt(id, 10)
}

// unnotifiedFields возвращает пары поле-значение для HSET в постоянном порядке.
func unnotifiedFields(reservation models.StoredReservation, cause error, failedAt time.Time) []any {
	fields := []any{
		"name", reservation.Name,
		"email", reservation.Email,
		"date", reservation.Date,
		"time", reservation.Time,
		"failed_at", failedAt.UTC().Format(time.RFC3339),
	}
	if cause != nil {
		fields = append(fields, "error", cause.Error())
	}

	return fields
}
