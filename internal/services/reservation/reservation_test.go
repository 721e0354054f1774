package reservation

import (
	"context"
	"errors"
	"testing"

	"reservation_service/internal/lib/logger/handlers/slogdiscard"
	"reservation_service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testFrom  = "Coffee Shop <no-reply@yourdomain.com>"
	testOwner = "owner@example.com"
)

type mockStorage struct {
	saved []models.Reservation
	err   error
}

func (m *mockStorage) SaveReservation(_ context.Context, r models.Reservation) (models.StoredReservation, error) {
	if m.err != nil {
		return models.StoredReservation{}, m.err
	}
	m.saved = append(m.saved, r)

	return models.StoredReservation{ID: int64(len(m.saved)), Reservation: r}, nil
}

type sentEmail struct {
	from, to, subject, html string
}

type mockSender struct {
	sent []sentEmail
	// failOn: номер вызова (с 1), на котором вернуть ошибку.
	failOn int
	err    error
}

func (m *mockSender) SendEmail(_ context.Context, from, to, subject, html string) error {
	if m.failOn == len(m.sent)+1 {
		return m.err
	}
	m.sent = append(m.sent, sentEmail{from: from, to: to, subject: subject, html: html})

	return nil
}

type mockLedger struct {
	flagged []models.StoredReservation
	causes  []error
	err     error
}

func (m *mockLedger) FlagUnnotified(_ context.Context, r models.StoredReservation, cause error) error {
	m.flagged = append(m.flagged, r)
	m.causes = append(m.causes, cause)

	return m.err
}

func janeDoe() models.Reservation {
	return models.Reservation{
		Name:  "Jane Doe",
		Email: "jane@example.com",
		Date:  "2024-06-01",
		Time:  "18:00",
	}
}

func TestService_Create_Success(t *testing.T) {
	storage := &mockStorage{}
	sender := &mockSender{}
	ledger := &mockLedger{}
	svc := New(slogdiscard.NewDiscardLogger(), storage, sender, ledger, testFrom, testOwner)

	err := svc.Create(context.Background(), janeDoe())
	require.NoError(t, err)

	assert.Equal(t, []models.Reservation{janeDoe()}, storage.saved)
	require.Len(t, sender.sent, 2)

	customer := sender.sent[0]
	assert.Equal(t, testFrom, customer.from)
	assert.Equal(t, "jane@example.com", customer.to)
	assert.Equal(t, "Reservation Confirmation", customer.subject)
	assert.Contains(t, customer.html, "Hi Jane Doe,")

	owner := sender.sent[1]
	assert.Equal(t, testFrom, owner.from)
	assert.Equal(t, testOwner, owner.to)
	assert.Equal(t, "New Reservation", owner.subject)
	assert.Contains(t, owner.html, "Jane Doe booked for 2024-06-01 at 18:00.")
	assert.Contains(t, owner.html, "Email: jane@example.com")

	assert.Empty(t, ledger.flagged)
}

func TestService_Create_SaveError(t *testing.T) {
	dbErr := errors.New("connection refused")
	storage := &mockStorage{err: dbErr}
	sender := &mockSender{}
	ledger := &mockLedger{}
	svc := New(slogdiscard.NewDiscardLogger(), storage, sender, ledger, testFrom, testOwner)

	err := svc.Create(context.Background(), janeDoe())

	assert.ErrorIs(t, err, ErrSaveFailed)
	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, ErrNotifyFailed)
	assert.Empty(t, sender.sent)
	assert.Empty(t, ledger.flagged)
}

func TestService_Create_EmailError(t *testing.T) {
	smtpErr := errors.New("550 mailbox unavailable")

	tests := []struct {
		name        string
		failOn      int
		wantSent    int
		wantInCause string
	}{
		{
			name:        "customer email fails, owner not attempted",
			failOn:      1,
			wantSent:    0,
			wantInCause: "customer email",
		},
		{
			name:        "owner email fails after customer was notified",
			failOn:      2,
			wantSent:    1,
			wantInCause: "owner email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := &mockStorage{}
			sender := &mockSender{failOn: tt.failOn, err: smtpErr}
			ledger := &mockLedger{}
			svc := New(slogdiscard.NewDiscardLogger(), storage, sender, ledger, testFrom, testOwner)

			err := svc.Create(context.Background(), janeDoe())

			assert.ErrorIs(t, err, ErrNotifyFailed)
			assert.ErrorIs(t, err, smtpErr)
			assert.NotErrorIs(t, err, ErrSaveFailed)

			// запись уже в базе и не откатывается
			assert.Len(t, storage.saved, 1)
			assert.Len(t, sender.sent, tt.wantSent)

			require.Len(t, ledger.flagged, 1)
			assert.Equal(t, int64(1), ledger.flagged[0].ID)
			assert.Equal(t, janeDoe(), ledger.flagged[0].Reservation)
			assert.ErrorContains(t, ledger.causes[0], tt.wantInCause)
		})
	}
}

func TestService_Create_LedgerErrorIgnored(t *testing.T) {
	smtpErr := errors.New("timeout")
	sender := &mockSender{failOn: 1, err: smtpErr}
	ledger := &mockLedger{err: errors.New("redis down")}
	svc := New(slogdiscard.NewDiscardLogger(), &mockStorage{}, sender, ledger, testFrom, testOwner)

	err := svc.Create(context.Background(), janeDoe())

	assert.ErrorIs(t, err, ErrNotifyFailed)
	assert.ErrorIs(t, err, smtpErr)
	assert.Len(t, ledger.flagged, 1)
}

func TestService_Create_NilLedger(t *testing.T) {
	sender := &mockSender{failOn: 2, err: errors.New("boom")}
	svc := New(slogdiscard.NewDiscardLogger(), &mockStorage{}, sender, nil, testFrom, testOwner)

	err := svc.Create(context.Background(), janeDoe())

	assert.ErrorIs(t, err, ErrNotifyFailed)
}
