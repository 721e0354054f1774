package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"reservation_service/internal/models"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFailedAt = time.Date(2024, 5, 30, 12, 0, 0, 0, time.FixedZone("UTC+3", 3*60*60))

func stored() models.StoredReservation {
	return models.StoredReservation{
		ID: 7,
		Reservation: models.Reservation{
			Name:  "Jane Doe",
			Email: "jane@example.com",
			Date:  "2024-06-01",
			Time:  "18:00",
		},
	}
}

func TestUnnotifiedKey(t *testing.T) {
	assert.Equal(t, "reservation:unnotified:42", unnotifiedKey(42))
}

func TestUnnotifiedFields(t *testing.T) {
	fields := unnotifiedFields(stored(), errors.New("smtp: 550 rejected"), testFailedAt)

	assert.Equal(t, []any{
		"name", "Jane Doe",
		"email", "jane@example.com",
		"date", "2024-06-01",
		"time", "18:00",
		"failed_at", "2024-05-30T09:00:00Z",
		"error", "smtp: 550 rejected",
	}, fields)
}

func TestUnnotifiedFields_NoCause(t *testing.T) {
	fields := unnotifiedFields(models.StoredReservation{}, nil, testFailedAt)

	assert.NotContains(t, fields, "error")
	assert.Len(t, fields, 10)
}

func TestRedisRepo_FlagUnnotified(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := &RedisRepo{client: db, now: func() time.Time { return testFailedAt }}

	cause := errors.New("owner email: 421 try again later")

	mock.ExpectTxPipeline()
	mock.ExpectHSet("reservation:unnotified:7", unnotifiedFields(stored(), cause, testFailedAt)...).SetVal(6)
	mock.ExpectSAdd("reservations:unnotified", int64(7)).SetVal(1)
	mock.ExpectTxPipelineExec()

	err := repo.FlagUnnotified(context.Background(), stored(), cause)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisRepo_FlagUnnotified_Error(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := &RedisRepo{client: db, now: func() time.Time { return testFailedAt }}

	mock.ExpectTxPipeline()
	mock.ExpectHSet("reservation:unnotified:7", unnotifiedFields(stored(), nil, testFailedAt)...).
		SetErr(errors.New("READONLY You can't write against a read only replica"))

	err := repo.FlagUnnotified(context.Background(), stored(), nil)

	assert.ErrorContains(t, err, "storage.redis.FlagUnnotified")
}
