// Package notification отправляет клиентам письма о подтверждении бронирования.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/staycation/internal/lib/datekey"
	"github.com/magabrotheeeer/staycation/internal/lib/sl"
	"github.com/magabrotheeeer/staycation/internal/lib/smtp"
	"github.com/magabrotheeeer/staycation/internal/metrics"
	"github.com/magabrotheeeer/staycation/internal/models"
)

const bookingSubject = "Подтверждение бронирования"

// Service обрабатывает события о новых бронированиях.
type Service struct {
	dialer  smtp.Dialer
	metrics *metrics.Metrics
	log     *slog.Logger
}

// New создает Service.
func New(dialer smtp.Dialer, m *metrics.Metrics, log *slog.Logger) *Service {
	return &Service{dialer: dialer, metrics: m, log: log}
}

// HandleBookingCreated разбирает событие BookingCreated и отправляет письмо клиенту.
func (s *Service) HandleBookingCreated(ctx context.Context, body []byte) error {
	const op = "notification.HandleBookingCreated"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var event models.BookingCreated
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal booking event", sl.Op(op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if event.Email == "" {
		return fmt.Errorf("%s: booking %d has no recipient", op, event.BookingID)
	}

	if err := smtp.Send(s.dialer, event.Email, bookingSubject, BookingBody(event)); err != nil {
		s.metrics.Notification(false)
		s.log.Error("failed to send booking confirmation",
			slog.Int64("booking_id", event.BookingID),
			slog.String("to", event.Email),
			sl.Err(err),
		)
		return fmt.Errorf("%s: %w", op, err)
	}

	s.metrics.Notification(true)
	s.log.Info("booking confirmation sent",
		slog.Int64("booking_id", event.BookingID),
		slog.String("to", event.Email),
	)
	return nil
}

// BookingBody текст письма о бронировании.
func BookingBody(event models.BookingCreated) string {
	name := event.Name
	if name == "" {
		name = event.Email
	}
	return fmt.Sprintf("Здравствуйте, %s!\n\n"+
		"Ваше бронирование №%d в отеле %s подтверждено.\n"+
		"Дата заезда: %s.\n"+
		"Стоимость: %.2f.\n\n"+
		"Хорошего отдыха!",
		name, event.BookingID, event.HotelName,
		datekey.Format(event.CheckInDate), event.TotalCost)
}
