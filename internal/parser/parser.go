package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Domenick1991/thsrbook/internal/domain"
	"github.com/Domenick1991/thsrbook/pkg/logger"
)

const (
	selectorFeedbackError = "span.feedbackPanelERROR"

	selectorSearchByTime = `input[name="bookingMethod"][data-target="search-by-time"]`
	selectorTimeSlots    = `select[name="toTimeTable"] > option:not([selected])`
	selectorCaptchaImage = "#BookingS1Form_homeCaptcha_passCode"

	selectorTrainRow       = "label"
	selectorTrainCode      = "#QueryCode"
	selectorTrainDeparture = "#QueryDeparture"
	selectorTrainArrival   = "#QueryArrival"
	selectorTrainDuration  = ".duration > span:nth-of-type(2)"
	selectorTrainToken     = `input[name="TrainQueryDataViewPanel:TrainGroup"]`
	selectorEarlyBird      = "p.early-bird"
	selectorStudent        = "p.student"

	selectorMemberChecked = `input[name="TicketMemberSystemInputPanel:TakerMemberSystemDataView:memberSystemRadioGroup"][checked]`

	selectorTicketID   = "p.pnr-code > span:first-child"
	selectorTotalPrice = "#setTrainTotalPriceValue"
	selectorDate       = "span.date > span"
	selectorFrom       = "p.departure-stn > span"
	selectorTo         = "p.arrival-stn > span"
	selectorDepart     = "#setTrainDeparture0"
	selectorArrive     = "#setTrainArrival0"
	selectorTrain      = "#setTrainCode0"
	selectorInfoTitle  = "p.info-title"
	selectorSeatLabels = "div.seat-label > span"

	// CabinTitle is the row title preceding the cabin label on the
	// confirmation page.
	CabinTitle = "車廂"
)

// ResponseParser extracts typed results from pages returned by the booking site.
type ResponseParser struct {
	logger logger.Logger
}

func NewResponseParser(logger logger.Logger) *ResponseParser {
	return &ResponseParser{logger: logger}
}

// ExtractValidationErrors returns the site's feedback messages in document
// order. An empty result means the submission was accepted.
func (p *ResponseParser) ExtractValidationErrors(doc Node) []string {
	var messages []string
	for _, n := range doc.Find(selectorFeedbackError) {
		if text := n.Text(); text != "" {
			messages = append(messages, text)
		}
	}
	return messages
}

// CheckSubmission turns feedback messages into a ValidationRejectedError.
func (p *ResponseParser) CheckSubmission(doc Node) error {
	if messages := p.ExtractValidationErrors(doc); len(messages) > 0 {
		p.logger.Warn("Submission rejected", "messages", messages)
		return &domain.ValidationRejectedError{Messages: messages}
	}
	return nil
}

// ExtractBookingPage reads the search-method token, the selectable time
// slots and the CAPTCHA image source. SessionID is left for the caller.
func (p *ResponseParser) ExtractBookingPage(doc Node) (domain.BookingPage, error) {
	var page domain.BookingPage

	method, err := attrOf(doc, selectorSearchByTime, "value")
	if err != nil {
		return page, err
	}
	page.SearchMethod = method

	for _, option := range doc.Find(selectorTimeSlots) {
		value, ok := option.Attr("value")
		if !ok {
			return page, malformed("time slot option without value")
		}
		page.TimeSlots = append(page.TimeSlots, value)
	}
	if len(page.TimeSlots) == 0 {
		return page, malformed("no time slots in %s", selectorTimeSlots)
	}

	src, err := attrOf(doc, selectorCaptchaImage, "src")
	if err != nil {
		return page, err
	}
	page.CaptchaURL = src

	p.logger.Debug("Parsed booking page", "search_method", page.SearchMethod, "time_slots", len(page.TimeSlots))
	return page, nil
}

// ExtractTrainOptions parses every train row. A row missing any required
// element means the page layout changed and fails the whole extraction.
func (p *ResponseParser) ExtractTrainOptions(doc Node) ([]domain.TrainOption, error) {
	rows := doc.Find(selectorTrainRow)
	trains := make([]domain.TrainOption, 0, len(rows))
	for i, row := range rows {
		train, err := parseTrainRow(row)
		if err != nil {
			return nil, fmt.Errorf("train row %d: %w", i+1, err)
		}
		trains = append(trains, train)
	}
	p.logger.Debug("Parsed train options", "count", len(trains))
	return trains, nil
}

func parseTrainRow(row Node) (domain.TrainOption, error) {
	var train domain.TrainOption

	code, err := textOf(row, selectorTrainCode)
	if err != nil {
		return train, err
	}
	train.ID, err = strconv.Atoi(code)
	if err != nil {
		return train, malformed("train code %q is not numeric", code)
	}
	if train.Departure, err = textOf(row, selectorTrainDeparture); err != nil {
		return train, err
	}
	if train.Arrival, err = textOf(row, selectorTrainArrival); err != nil {
		return train, err
	}
	if train.Duration, err = textOf(row, selectorTrainDuration); err != nil {
		return train, err
	}
	if train.SelectionToken, err = attrOf(row, selectorTrainToken, "value"); err != nil {
		return train, err
	}

	var discounts []string
	for _, selector := range []string{selectorEarlyBird, selectorStudent} {
		if found := row.Find(selector); len(found) > 0 {
			discounts = append(discounts, found[0].Text())
		}
	}
	train.Discount = strings.Join(discounts, ", ")
	return train, nil
}

// ExtractMemberToken returns the value of the pre-checked member system option.
func (p *ResponseParser) ExtractMemberToken(doc Node) (string, error) {
	return attrOf(doc, selectorMemberChecked, "value")
}

// ExtractConfirmationSummary reads the booking result page.
func (p *ResponseParser) ExtractConfirmationSummary(doc Node) (*domain.ConfirmationSummary, error) {
	summary := &domain.ConfirmationSummary{}
	fields := []struct {
		selector string
		dst      *string
	}{
		{selectorTicketID, &summary.TicketID},
		{selectorTotalPrice, &summary.TotalPrice},
		{selectorDate, &summary.Date},
		{selectorFrom, &summary.FromStation},
		{selectorTo, &summary.ToStation},
		{selectorDepart, &summary.DepartTime},
		{selectorArrive, &summary.ArriveTime},
		{selectorTrain, &summary.TrainCode},
	}
	for _, f := range fields {
		value, err := textOf(doc, f.selector)
		if err != nil {
			return nil, err
		}
		*f.dst = value
	}

	cabin, err := cabinLabel(doc)
	if err != nil {
		return nil, err
	}
	summary.CabinLabel = cabin

	for _, seat := range doc.Find(selectorSeatLabels) {
		summary.SeatLabels = append(summary.SeatLabels, seat.Text())
	}

	p.logger.Debug("Parsed confirmation summary", "ticket_id", summary.TicketID, "seats", len(summary.SeatLabels))
	return summary, nil
}

func cabinLabel(doc Node) (string, error) {
	for _, title := range doc.Find(selectorInfoTitle) {
		if title.Text() != CabinTitle {
			continue
		}
		value, ok := title.NextElement()
		if !ok {
			return "", malformed("cabin title has no value element")
		}
		return textOf(value, "span")
	}
	return "", malformed("no %s titled %q", selectorInfoTitle, CabinTitle)
}

func first(n Node, selector string) (Node, error) {
	found := n.Find(selector)
	if len(found) == 0 {
		return nil, malformed("missing %s", selector)
	}
	return found[0], nil
}

func textOf(n Node, selector string) (string, error) {
	el, err := first(n, selector)
	if err != nil {
		return "", err
	}
	return el.Text(), nil
}

func attrOf(n Node, selector, attr string) (string, error) {
	el, err := first(n, selector)
	if err != nil {
		return "", err
	}
	value, ok := el.Attr(attr)
	if !ok {
		return "", malformed("%s has no %s attribute", selector, attr)
	}
	return value, nil
}

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", domain.ErrMalformedDocument, fmt.Sprintf(format, args...))
}
