package email

import (
	"context"
	"testing"

	"github.com/Domenick1991/thsrbook/internal/kafka"
	"github.com/Domenick1991/thsrbook/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func TestSender_Send(t *testing.T) {
	s := NewSender(logger.NewNop())
	err := s.Send(context.Background(), kafka.ReservationEvent{
		Type:       kafka.EventReservationConfirmed,
		TicketID:   "09415637",
		SeatLabels: []string{"7車12A"},
	})
	assert.NoError(t, err)
}
