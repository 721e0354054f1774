package createreservation

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	resp "reservation_service/internal/lib/api/response"
	"reservation_service/internal/lib/logger/sl"
	"reservation_service/internal/models"
	"reservation_service/internal/services/reservation"
	"reservation_service/internal/storage"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
)

type ReservationCreator interface {
	Create(ctx context.Context, reservation models.Reservation) error
}

func New(log *slog.Logger, creator ReservationCreator) http.HandlerFunc {
	validate := validator.New()

	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.create-reservation.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if r.Method != http.MethodPost {
			log.Warn("method not allowed", slog.String("method", r.Method))

			w.Header().Set("Allow", http.MethodPost)
			resp.JSON(w, r, http.StatusMethodNotAllowed, resp.Error(resp.MsgMethodNotAllowed))

			return
		}

		// тело, которое не удалось разобрать, считаем заявкой без полей
		var req models.Reservation
		if err := render.Decode(r, &req); err != nil {
			log.Warn("failed to decode request body", sl.Err(err))

			resp.JSON(w, r, http.StatusBadRequest, resp.Error(resp.MsgMissingFields))

			return
		}

		if err := validate.Struct(req); err != nil {
			log.Warn("invalid request", sl.Err(err))

			resp.JSON(w, r, http.StatusBadRequest, resp.Error(resp.MsgMissingFields))

			return
		}

		err := creator.Create(r.Context(), req)
		if err != nil {
			if errors.Is(err, reservation.ErrSaveFailed) {
				if errors.Is(err, storage.ErrInvalidReservation) {
					log.Warn("reservation rejected by storage", sl.Err(err))
				} else {
					log.Error("failed to save reservation", sl.Err(err))
				}

				resp.JSON(w, r, http.StatusInternalServerError, resp.Error(resp.MsgDatabaseError))

				return
			}

			// TODO: добавить счетчик сохраненных броней без писем, когда появятся метрики
			log.Error("failed to send emails", sl.Err(err))

			resp.JSON(w, r, http.StatusInternalServerError, resp.Error(resp.MsgEmailError))

			return
		}

		log.Info("reservation created")

		resp.JSON(w, r, http.StatusOK, resp.OK())
	}
}
