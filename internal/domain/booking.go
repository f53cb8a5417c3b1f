package domain

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the outbound date format the booking form accepts.
const DateLayout = "2006/01/02"

// BookingDraft is the reusable, user-editable part of a booking.
type BookingDraft struct {
	StartStation   Station        `json:"start_station"`
	DestStation    Station        `json:"dest_station"`
	OutboundDate   string         `json:"outbound_date"`
	OutboundTime   string         `json:"outbound_time"`
	SeatPreference SeatPreference `json:"seat_preference"`
	CabinClass     CabinClass     `json:"cabin_class"`
	Tickets        TicketCounts   `json:"tickets"`
}

func (d BookingDraft) Validate() error {
	if d.StartStation == d.DestStation {
		return errors.New("start and destination stations must differ")
	}
	if _, err := time.Parse(DateLayout, d.OutboundDate); err != nil {
		return fmt.Errorf("outbound date %q: expected YYYY/MM/DD", d.OutboundDate)
	}
	if d.OutboundTime == "" {
		return errors.New("outbound time slot is required")
	}
	return d.Tickets.Validate()
}

// BookingPage is the session metadata scraped from the initial booking page.
type BookingPage struct {
	SessionID    string
	SearchMethod string
	TimeSlots    []string
	CaptchaURL   string
}

// BookingRequest is the full first-stage submission. Inbound and train-id
// fields stay nil: only one-way searches by time are issued.
type BookingRequest struct {
	Draft           BookingDraft
	SearchMethod    string
	TripType        TripType
	CaptchaSolution string
	InboundDate     *string
	InboundTime     *string
	OutboundTrainID *int
	InboundTrainID  *int
}

type TrainOption struct {
	ID             int
	Departure      string
	Arrival        string
	Duration       string
	Discount       string
	SelectionToken string
}

type TrainSelectionRequest struct {
	SelectionToken string
}

// PassengerIdentityRecord is the reusable part of the ticket confirmation.
// IdentityIDs holds document numbers per category, in passenger order.
type PassengerIdentityRecord struct {
	PersonalID  string                      `json:"personal_id"`
	Phone       string                      `json:"phone"`
	IdentityIDs map[TicketCategory][]string `json:"identity_ids,omitempty"`
}

// TicketConfirmationRequest is the final submission. IdentityFields maps
// positional form keys to passenger identity numbers.
type TicketConfirmationRequest struct {
	Identity       PassengerIdentityRecord
	IdentityFields map[string]string
	MemberToken    string
}

type ConfirmationSummary struct {
	TicketID    string   `json:"ticket_id"`
	TotalPrice  string   `json:"total_price"`
	Date        string   `json:"date"`
	FromStation string   `json:"from_station"`
	ToStation   string   `json:"to_station"`
	DepartTime  string   `json:"depart_time"`
	ArriveTime  string   `json:"arrive_time"`
	TrainCode   string   `json:"train_code"`
	CabinLabel  string   `json:"cabin_label"`
	SeatLabels  []string `json:"seat_labels"`
}

// Preset is a saved booking draft and identity record pair.
type Preset struct {
	Booking            BookingDraft            `json:"booking"`
	TicketConfirmation PassengerIdentityRecord `json:"ticket_confirmation"`
}

// Reservation is a confirmed booking as kept in history.
type Reservation struct {
	ID       int64
	RunID    string
	Summary  ConfirmationSummary
	BookedAt time.Time
}
