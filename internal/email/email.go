package email

import (
	"context"
	"strings"

	"github.com/Domenick1991/thsrbook/internal/kafka"
	"github.com/Domenick1991/thsrbook/pkg/logger"
)

// Sender delivers reservation notices. It only logs them; there is no mail
// transport configured.
type Sender struct {
	logger logger.Logger
}

func NewSender(log logger.Logger) *Sender {
	return &Sender{logger: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.ReservationEvent) error {
	s.logger.Info("Reservation notice",
		"type", event.Type,
		"ticket_id", event.TicketID,
		"route", event.FromStation+" -> "+event.ToStation,
		"date", event.Date,
		"train", event.TrainCode,
		"seats", strings.Join(event.SeatLabels, ", "),
	)
	return nil
}
