package main

import (
	"context"

	"github.com/Domenick1991/thsrbook/internal/kafka"
	"github.com/Domenick1991/thsrbook/internal/service/history"
	"github.com/Domenick1991/thsrbook/pkg/logger"
	"github.com/Domenick1991/thsrbook/pkg/metrics"
	kafkaGo "github.com/segmentio/kafka-go"
)

type notifier interface {
	Send(ctx context.Context, event kafka.ReservationEvent) error
}

// newEventHandler stores each reservation event in history and sends a
// notice. Undecodable messages are logged and skipped; a storage failure
// stops consumption so the message is read again after restart.
func newEventHandler(historySvc history.HistoryUseCase, sender notifier, m *metrics.Metrics, log logger.Logger) func(context.Context, kafkaGo.Message) error {
	return func(ctx context.Context, msg kafkaGo.Message) error {
		event, err := kafka.DecodeReservationEvent(msg)
		if err != nil {
			log.Warn("Skipping reservation event", "offset", msg.Offset, "error", err)
			return nil
		}
		m.EventsConsumed.Inc()

		if err := historySvc.Record(ctx, event.Reservation()); err != nil {
			return err
		}
		if err := sender.Send(ctx, event); err != nil {
			log.Warn("Failed to send reservation notice", "ticket_id", event.TicketID, "error", err)
			return nil
		}
		m.NotificationsSent.Inc()
		return nil
	}
}
