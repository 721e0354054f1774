package reservation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	emailsender "reservation_service/internal/email_sender"
	"reservation_service/internal/lib/logger/sl"
	"reservation_service/internal/models"
)

var (
	ErrSaveFailed   = errors.New("failed to save reservation")
	ErrNotifyFailed = errors.New("failed to send reservation emails")
)

type Storage interface {
	SaveReservation(ctx context.Context, reservation models.Reservation) (models.StoredReservation, error)
}

type Sender interface {
	SendEmail(ctx context.Context, from, to, subject, html string) error
}

// FailureLedger хранит брони, которые сохранены, но по которым не ушли письма.
type FailureLedger interface {
	FlagUnnotified(ctx context.Context, reservation models.StoredReservation, cause error) error
}

type Service struct {
	log        *slog.Logger
	storage    Storage
	sender     Sender
	ledger     FailureLedger
	from       string
	ownerEmail string
}

// * New возвращает сервис броней. ledger может быть nil.
func New(
	log *slog.Logger,
	storage Storage,
	sender Sender,
	ledger FailureLedger,
	from string,
	ownerEmail string,
) *Service {
	return &Service{
		log:        log,
		storage:    storage,
		sender:     sender,
		ledger:     ledger,
		from:       from,
		ownerEmail: ownerEmail,
	}
}

// * Create сохраняет бронь, затем отправляет письмо клиенту и владельцу, строго по очереди.
// * Если сохранить не удалось, письма не отправляются.
// * Если не ушло письмо, сохраненная запись остается как есть.
func (s *Service) Create(ctx context.Context, reservation models.Reservation) error {
	const op = "reservation.Create"

	log := s.log.With(
		slog.String("op", op),
	)

	stored, err := s.storage.SaveReservation(ctx, reservation)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrSaveFailed, err)
	}

	log.Info("reservation saved", slog.Int64("reservation_id", stored.ID))

	if err := s.notify(ctx, reservation); err != nil {
		s.flagUnnotified(ctx, log, stored, err)

		return fmt.Errorf("%s: %w: %w", op, ErrNotifyFailed, err)
	}

	log.Info("reservation emails sent", slog.Int64("reservation_id", stored.ID))

	return nil
}

func (s *Service) notify(ctx context.Context, reservation models.Reservation) error {
	subject, body := emailsender.CustomerMessage(reservation)
	if err := s.sender.SendEmail(ctx, s.from, reservation.Email, subject, body); err != nil {
		return fmt.Errorf("customer email: %w", err)
	}

	subject, body = emailsender.OwnerMessage(reservation)
	if err := s.sender.SendEmail(ctx, s.from, s.ownerEmail, subject, body); err != nil {
		return fmt.Errorf("owner email: %w", err)
	}

	return nil
}

// flagUnnotified пишет бронь в журнал. Ошибка журнала только логируется.
func (s *Service) flagUnnotified(ctx context.Context, log *slog.Logger, stored models.StoredReservation, cause error) {
	if s.ledger == nil {
		return
	}

	if err := s.ledger.FlagUnnotified(ctx, stored, cause); err != nil {
		log.Error("failed to flag unnotified reservation",
			slog.Int64("reservation_id", stored.ID),
			sl.Err(err),
		)
	}
}
