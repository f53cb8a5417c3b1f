// Package console is the interactive operator of the booking CLI.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/thsrbook/internal/codec"
	"github.com/Domenick1991/thsrbook/internal/domain"
)

// maxAttempts bounds how often an invalid answer is asked again.
const maxAttempts = 3

type Console struct {
	in  *bufio.Reader
	out io.Writer
	loc *time.Location
	now func() time.Time
}

func New(in io.Reader, out io.Writer, loc *time.Location) *Console {
	if loc == nil {
		loc = time.Local
	}
	return &Console{
		in:  bufio.NewReader(in),
		out: out,
		loc: loc,
		now: time.Now,
	}
}

// Ask prints question and returns the trimmed answer line.
func (c *Console) Ask(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(c.out, question)
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (c *Console) askDefault(ctx context.Context, question, def string) (string, error) {
	answer, err := c.Ask(ctx, fmt.Sprintf("%s (default: %s): ", question, def))
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// askInt asks for a number in [lo, hi], repeating on invalid input.
func (c *Console) askInt(ctx context.Context, question string, def, lo, hi int) (int, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		answer, err := c.askDefault(ctx, question, strconv.Itoa(def))
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= lo && n <= hi {
			return n, nil
		}
		fmt.Fprintf(c.out, "Please enter a number between %d and %d.\n", lo, hi)
	}
	return 0, fmt.Errorf("no valid answer to %q", question)
}

// askYesNo returns def on an empty answer.
func (c *Console) askYesNo(ctx context.Context, question string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	answer, err := c.Ask(ctx, fmt.Sprintf("%s [%s]: ", question, hint))
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// DraftBooking asks for every booking field, offering the site's time slots.
func (c *Console) DraftBooking(ctx context.Context, page domain.BookingPage) (domain.BookingDraft, error) {
	var draft domain.BookingDraft

	stations := domain.Stations()
	fmt.Fprintln(c.out, "Stations:")
	for i, s := range stations {
		fmt.Fprintf(c.out, "  %2d. %s\n", i+1, s)
	}
	start, err := c.askInt(ctx, "Start station", int(domain.Nangang)+1, 1, len(stations))
	if err != nil {
		return draft, err
	}
	dest, err := c.askInt(ctx, "Destination station", int(domain.Zuoying)+1, 1, len(stations))
	if err != nil {
		return draft, err
	}
	draft.StartStation = stations[start-1]
	draft.DestStation = stations[dest-1]

	if draft.OutboundDate, err = c.askDate(ctx); err != nil {
		return draft, err
	}

	fmt.Fprintln(c.out, "Departure times:")
	for i, slot := range page.TimeSlots {
		fmt.Fprintf(c.out, "  %2d. %s\n", i+1, slot)
	}
	slot, err := c.askInt(ctx, "Departure time", 1, 1, len(page.TimeSlots))
	if err != nil {
		return draft, err
	}
	draft.OutboundTime = page.TimeSlots[slot-1]

	seats := domain.SeatPreferences()
	seat, err := c.askInt(ctx, fmt.Sprintf("Seat preference %s", choices(seats)), 1, 1, len(seats))
	if err != nil {
		return draft, err
	}
	draft.SeatPreference = seats[seat-1]

	cabins := domain.CabinClasses()
	cabin, err := c.askInt(ctx, fmt.Sprintf("Cabin class %s", choices(cabins)), 1, 1, len(cabins))
	if err != nil {
		return draft, err
	}
	draft.CabinClass = cabins[cabin-1]

	for _, category := range domain.TicketCategories() {
		def := 0
		if category == domain.Adult {
			def = 1
		}
		n, err := c.askInt(ctx, fmt.Sprintf("Number of %s tickets", category), def, 0, 10)
		if err != nil {
			return draft, err
		}
		draft.Tickets.Set(category, n)
	}

	return draft, draft.Validate()
}

func (c *Console) askDate(ctx context.Context) (string, error) {
	today := c.now().In(c.loc).Format(domain.DateLayout)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		answer, err := c.askDefault(ctx, "Departure date (YYYY/MM/DD)", today)
		if err != nil {
			return "", err
		}
		if _, err := time.ParseInLocation(domain.DateLayout, answer, c.loc); err == nil {
			return answer, nil
		}
		fmt.Fprintln(c.out, "Please use the YYYY/MM/DD format.")
	}
	return "", errors.New("no valid departure date")
}

// ChooseTrain prints the train table and returns the 0-based choice.
func (c *Console) ChooseTrain(ctx context.Context, trains []domain.TrainOption) (int, error) {
	c.PrintTrains(trains)
	answer, err := c.askDefault(ctx, "Select train", "1")
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(trains) {
		return 0, fmt.Errorf("train selection %q is not between 1 and %d", answer, len(trains))
	}
	return n - 1, nil
}

func (c *Console) PrintTrains(trains []domain.TrainOption) {
	header := []string{"Option", "Train", "Depart", "Arrive", "Duration", "Discount"}
	cols := []int{8, 7, 8, 8, 10, 0}
	row := func(cells ...string) {
		var b strings.Builder
		for i, cell := range cells {
			b.WriteString(pad(cell, cols[i]))
		}
		fmt.Fprintln(c.out, strings.TrimRight(b.String(), " "))
	}

	row(header...)
	for i, t := range trains {
		row(strconv.Itoa(i+1), fmt.Sprintf("%04d", t.ID), t.Departure, t.Arrival, t.Duration, t.Discount)
	}
}

// IdentifyPassengers asks for the buyer's details and one identity number
// per positional key.
func (c *Console) IdentifyPassengers(ctx context.Context, keys []codec.IdentityKey) (domain.PassengerIdentityRecord, error) {
	var record domain.PassengerIdentityRecord
	var err error

	if record.PersonalID, err = c.askRequired(ctx, "Personal ID: "); err != nil {
		return record, err
	}
	if record.Phone, err = c.Ask(ctx, "Phone number (optional): "); err != nil {
		return record, err
	}

	for _, k := range keys {
		id, err := c.askRequired(ctx, fmt.Sprintf("ID of %s passenger #%d: ", k.Category, k.Index+1))
		if err != nil {
			return record, err
		}
		if record.IdentityIDs == nil {
			record.IdentityIDs = map[domain.TicketCategory][]string{}
		}
		record.IdentityIDs[k.Category] = append(record.IdentityIDs[k.Category], id)
	}
	return record, nil
}

func (c *Console) askRequired(ctx context.Context, question string) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		answer, err := c.Ask(ctx, question)
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
	}
	return "", fmt.Errorf("no answer to %q", strings.TrimSpace(question))
}

// ChoosePreset lists the presets and returns the chosen one, or nil for a
// new interactive booking.
func (c *Console) ChoosePreset(ctx context.Context, presets []domain.Preset) (*domain.Preset, error) {
	if len(presets) == 0 {
		return nil, nil
	}
	fmt.Fprintln(c.out, "Presets:")
	fmt.Fprintln(c.out, "   0. New booking")
	for i, p := range presets {
		b := p.Booking
		fmt.Fprintf(c.out, "  %2d. %s -> %s %s %s, %s\n", i+1, b.StartStation, b.DestStation, b.OutboundDate, b.OutboundTime, b.Tickets)
	}
	n, err := c.askInt(ctx, "Preset", 0, 0, len(presets))
	if err != nil || n == 0 {
		return nil, err
	}
	return &presets[n-1], nil
}

// OfferSave asks whether the finished booking should become a preset.
func (c *Console) OfferSave(ctx context.Context) (bool, error) {
	return c.askYesNo(ctx, "Save this booking as a preset?", false)
}

func (c *Console) PrintSummary(s *domain.ConfirmationSummary) {
	fmt.Fprintln(c.out, "Booking confirmed")
	fmt.Fprintf(c.out, "  Ticket ID:   %s\n", s.TicketID)
	fmt.Fprintf(c.out, "  Total price: %s\n", s.TotalPrice)
	fmt.Fprintf(c.out, "  Date:        %s\n", s.Date)
	fmt.Fprintf(c.out, "  From:        %s\n", s.FromStation)
	fmt.Fprintf(c.out, "  To:          %s\n", s.ToStation)
	fmt.Fprintf(c.out, "  Depart:      %s\n", s.DepartTime)
	fmt.Fprintf(c.out, "  Arrive:      %s\n", s.ArriveTime)
	fmt.Fprintf(c.out, "  Train:       %s\n", s.TrainCode)
	for _, seat := range s.SeatLabels {
		fmt.Fprintf(c.out, "  %s %s\n", s.CabinLabel, seat)
	}
}

func choices[T fmt.Stringer](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d=%s", i+1, v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
