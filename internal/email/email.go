package email

import (
	"context"

	"github.com/Domenick1991/travelbooking/internal/kafka"
	"github.com/rs/zerolog"
)

type Sender struct {
	logger zerolog.Logger
}

func NewSender(logger zerolog.Logger) *Sender {
	return &Sender{logger: logger.With().Str("component", "email").Logger()}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	s.logger.Info().
		Str("user_id", event.UserID).
		Str("type", event.Type).
		Str("item_type", event.ItemType).
		Str("booking_id", event.BookingID).
		Msg("sending booking notification")
	return nil
}
