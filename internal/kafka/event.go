package kafka

import (
	"time"

	"github.com/Domenick1991/thsrbook/internal/domain"
)

const EventReservationConfirmed = "reservation_confirmed"

// ReservationEvent announces a confirmed booking to downstream consumers.
type ReservationEvent struct {
	Type        string    `json:"type"`
	RunID       string    `json:"run_id"`
	TicketID    string    `json:"ticket_id"`
	TotalPrice  string    `json:"total_price"`
	Date        string    `json:"date"`
	FromStation string    `json:"from_station"`
	ToStation   string    `json:"to_station"`
	DepartTime  string    `json:"depart_time"`
	ArriveTime  string    `json:"arrive_time"`
	TrainCode   string    `json:"train_code"`
	CabinLabel  string    `json:"cabin_label"`
	SeatLabels  []string  `json:"seat_labels"`
	BookedAt    time.Time `json:"booked_at"`
}

func NewReservationEvent(r *domain.Reservation) ReservationEvent {
	s := r.Summary
	return ReservationEvent{
		Type:        EventReservationConfirmed,
		RunID:       r.RunID,
		TicketID:    s.TicketID,
		TotalPrice:  s.TotalPrice,
		Date:        s.Date,
		FromStation: s.FromStation,
		ToStation:   s.ToStation,
		DepartTime:  s.DepartTime,
		ArriveTime:  s.ArriveTime,
		TrainCode:   s.TrainCode,
		CabinLabel:  s.CabinLabel,
		SeatLabels:  s.SeatLabels,
		BookedAt:    r.BookedAt,
	}
}

// Reservation converts the event back into the stored form.
func (e ReservationEvent) Reservation() *domain.Reservation {
	return &domain.Reservation{
		RunID: e.RunID,
		Summary: domain.ConfirmationSummary{
			TicketID:    e.TicketID,
			TotalPrice:  e.TotalPrice,
			Date:        e.Date,
			FromStation: e.FromStation,
			ToStation:   e.ToStation,
			DepartTime:  e.DepartTime,
			ArriveTime:  e.ArriveTime,
			TrainCode:   e.TrainCode,
			CabinLabel:  e.CabinLabel,
			SeatLabels:  e.SeatLabels,
		},
		BookedAt: e.BookedAt,
	}
}
