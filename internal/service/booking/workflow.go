package booking

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/Domenick1991/thsrbook/config"
	"github.com/Domenick1991/thsrbook/internal/codec"
	"github.com/Domenick1991/thsrbook/internal/domain"
	"github.com/Domenick1991/thsrbook/internal/kafka"
	"github.com/Domenick1991/thsrbook/internal/parser"
	"github.com/Domenick1991/thsrbook/pkg/logger"
	"github.com/Domenick1991/thsrbook/pkg/metrics"
	"github.com/google/uuid"
)

// Transport performs the HTTP exchanges of one session.
type Transport interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
	PostForm(ctx context.Context, rawURL string, form url.Values) ([]byte, error)
	Cookie(rawURL, name string) (string, bool)
}

// CaptchaSolver shows the CAPTCHA image to a human and returns the answer.
type CaptchaSolver interface {
	Solve(ctx context.Context, image []byte) (string, error)
}

// Operator supplies whatever a preset does not: the booking draft, the
// train choice and passenger identities.
type Operator interface {
	DraftBooking(ctx context.Context, page domain.BookingPage) (domain.BookingDraft, error)
	ChooseTrain(ctx context.Context, trains []domain.TrainOption) (int, error)
	IdentifyPassengers(ctx context.Context, keys []codec.IdentityKey) (domain.PassengerIdentityRecord, error)
}

// Recorder keeps confirmed reservations in history.
type Recorder interface {
	Record(ctx context.Context, reservation *domain.Reservation) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type Option func(*Workflow)

func WithRecorder(r Recorder) Option {
	return func(w *Workflow) {
		w.recorder = r
	}
}

func WithProducer(p Producer, topic string) Option {
	return func(w *Workflow) {
		w.producer = p
		w.topic = topic
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Workflow) {
		w.metrics = m
	}
}

// WithIdentityCategories sets the ticket categories whose passengers must
// provide an identity document number.
func WithIdentityCategories(categories []domain.TicketCategory) Option {
	return func(w *Workflow) {
		w.identityCategories = categories
	}
}

// Workflow drives one booking session through its five stages. A session's
// tokens are single-use, so a failed workflow cannot be resumed and a new
// Workflow must be created for another attempt.
type Workflow struct {
	site     config.SiteConfig
	client   Transport
	parser   *parser.ResponseParser
	captcha  CaptchaSolver
	operator Operator
	logger   logger.Logger

	recorder           Recorder
	producer           Producer
	topic              string
	metrics            *metrics.Metrics
	identityCategories []domain.TicketCategory

	runID       string
	state       State
	page        domain.BookingPage
	captchaCode string
	draft       domain.BookingDraft
	trains      []domain.TrainOption
	memberToken string
	identity    domain.PassengerIdentityRecord
	summary     *domain.ConfirmationSummary
}

func NewWorkflow(
	site config.SiteConfig,
	client Transport,
	responseParser *parser.ResponseParser,
	captcha CaptchaSolver,
	operator Operator,
	log logger.Logger,
	opts ...Option,
) *Workflow {
	runID := uuid.NewString()
	w := &Workflow{
		site:               site,
		client:             client,
		parser:             responseParser,
		captcha:            captcha,
		operator:           operator,
		logger:             log.With("run_id", runID),
		identityCategories: []domain.TicketCategory{domain.Disabled, domain.Elder},
		runID:              runID,
		state:              StateInit,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Workflow) RunID() string { return w.runID }

func (w *Workflow) State() State { return w.state }

// Draft returns the draft submitted in the booking stage.
func (w *Workflow) Draft() domain.BookingDraft { return w.draft }

// Identity returns the identity record used for confirmation.
func (w *Workflow) Identity() domain.PassengerIdentityRecord { return w.identity }

// Run drives every stage. A nil preset means the operator is asked for the
// draft and the passenger identities.
func (w *Workflow) Run(ctx context.Context, preset *domain.Preset) (summary *domain.ConfirmationSummary, err error) {
	defer func() {
		if err != nil && !errors.Is(err, domain.ErrInvalidState) {
			w.state = StateFailed
		}
	}()

	page, err := w.Start(ctx)
	if err != nil {
		return nil, err
	}
	if err := w.SolveCaptcha(ctx); err != nil {
		return nil, err
	}

	var draft domain.BookingDraft
	if preset != nil {
		draft = preset.Booking
	} else if draft, err = w.operator.DraftBooking(ctx, page); err != nil {
		return nil, fmt.Errorf("draft booking: %w", err)
	}

	trains, err := w.SubmitBooking(ctx, draft)
	if err != nil {
		return nil, err
	}

	index, err := w.operator.ChooseTrain(ctx, trains)
	if err != nil {
		return nil, fmt.Errorf("choose train: %w", err)
	}
	if err := w.SelectTrain(ctx, index); err != nil {
		return nil, err
	}

	var identity domain.PassengerIdentityRecord
	if preset != nil {
		identity = preset.TicketConfirmation
	} else if identity, err = w.operator.IdentifyPassengers(ctx, w.IdentityKeys()); err != nil {
		return nil, fmt.Errorf("identify passengers: %w", err)
	}

	return w.Confirm(ctx, identity)
}

// Start opens the booking page, which establishes the session and yields
// the form metadata.
func (w *Workflow) Start(ctx context.Context) (domain.BookingPage, error) {
	err := w.stage("start", StateInit, StateCaptchaPending, func() error {
		pageURL := w.site.URL(w.site.BookingPagePath)
		body, err := w.client.Get(ctx, pageURL)
		if err != nil {
			return err
		}
		doc, err := parser.ParseHTMLBytes(body)
		if err != nil {
			return err
		}

		page, err := w.parser.ExtractBookingPage(doc)
		if err != nil {
			return err
		}
		sessionID, ok := w.client.Cookie(pageURL, w.site.SessionCookie)
		if !ok {
			return fmt.Errorf("%w: no %s cookie", domain.ErrMalformedDocument, w.site.SessionCookie)
		}
		page.SessionID = sessionID
		if page.CaptchaURL, err = w.resolve(page.CaptchaURL); err != nil {
			return err
		}

		w.page = page
		w.logger.Debug("Session started", "time_slots", page.TimeSlots)
		return nil
	})
	return w.page, err
}

// SolveCaptcha downloads the CAPTCHA image within the session and asks the
// solver for its answer.
func (w *Workflow) SolveCaptcha(ctx context.Context) error {
	return w.stage("captcha", StateCaptchaPending, StateBookingReady, func() error {
		image, err := w.client.Get(ctx, w.page.CaptchaURL)
		if err != nil {
			return fmt.Errorf("download captcha: %w", err)
		}
		answer, err := w.captcha.Solve(ctx, image)
		if err != nil {
			return err
		}
		w.captchaCode = strings.TrimSpace(answer)
		return nil
	})
}

// SubmitBooking posts the booking form and returns the offered trains.
func (w *Workflow) SubmitBooking(ctx context.Context, draft domain.BookingDraft) ([]domain.TrainOption, error) {
	err := w.stage("booking", StateBookingReady, StateTrainsListed, func() error {
		if err := draft.Validate(); err != nil {
			return err
		}
		if !slices.Contains(w.page.TimeSlots, draft.OutboundTime) {
			w.logger.Warn("Time slot not offered by the booking page", "time_slot", draft.OutboundTime)
		}

		form, err := codec.EncodeBookingForm(domain.BookingRequest{
			Draft:           draft,
			SearchMethod:    w.page.SearchMethod,
			TripType:        domain.OneWay,
			CaptchaSolution: w.captchaCode,
		})
		if err != nil {
			return err
		}

		submitURL := strings.ReplaceAll(w.site.URL(w.site.BookingSubmitPath), "{session}", w.page.SessionID)
		doc, err := w.submit(ctx, submitURL, form)
		if err != nil {
			return err
		}
		trains, err := w.parser.ExtractTrainOptions(doc)
		if err != nil {
			return err
		}
		if len(trains) == 0 {
			return domain.ErrNoTrains
		}

		w.draft = draft
		w.trains = trains
		w.logger.Info("Trains listed", "count", len(trains), "tickets", draft.Tickets.String())
		return nil
	})
	return w.trains, err
}

// SelectTrain submits the train at the given 0-based index.
func (w *Workflow) SelectTrain(ctx context.Context, index int) error {
	return w.stage("train_selection", StateTrainsListed, StateConfirmationReady, func() error {
		if index < 0 || index >= len(w.trains) {
			return fmt.Errorf("train option %d out of range 1..%d", index+1, len(w.trains))
		}
		train := w.trains[index]

		form := codec.EncodeTrainSelectionForm(domain.TrainSelectionRequest{SelectionToken: train.SelectionToken})
		doc, err := w.submit(ctx, w.site.URL(w.site.TrainSubmitPath), form)
		if err != nil {
			return err
		}
		token, err := w.parser.ExtractMemberToken(doc)
		if err != nil {
			return err
		}

		w.memberToken = token
		w.logger.Info("Train selected", "train", train.ID, "depart", train.Departure)
		return nil
	})
}

// IdentityKeys lists the positional identity fields the submitted draft needs.
func (w *Workflow) IdentityKeys() []codec.IdentityKey {
	descriptors := codec.Describe(w.draft.Tickets, w.identityCategories)
	return codec.GenerateIdentityKeys(descriptors, codec.PassengerIdentityKeyTemplate)
}

// Confirm submits the passenger details and returns the booked ticket.
func (w *Workflow) Confirm(ctx context.Context, identity domain.PassengerIdentityRecord) (*domain.ConfirmationSummary, error) {
	err := w.stage("confirmation", StateConfirmationReady, StateDone, func() error {
		fields, err := codec.BindIdentities(w.IdentityKeys(), identity)
		if err != nil {
			return err
		}

		form := codec.EncodeConfirmationForm(domain.TicketConfirmationRequest{
			Identity:       identity,
			IdentityFields: fields,
			MemberToken:    w.memberToken,
		})
		doc, err := w.submit(ctx, w.site.URL(w.site.ConfirmSubmitPath), form)
		if err != nil {
			return err
		}
		summary, err := w.parser.ExtractConfirmationSummary(doc)
		if err != nil {
			return err
		}

		w.identity = identity
		w.summary = summary
		return nil
	})
	if err != nil {
		return nil, err
	}

	w.logger.Info("Reservation confirmed", "ticket_id", w.summary.TicketID, "train", w.summary.TrainCode)
	w.afterConfirm(ctx)
	return w.summary, nil
}

// afterConfirm records and announces the reservation. Failures here do not
// undo the booking and are only logged.
func (w *Workflow) afterConfirm(ctx context.Context) {
	if w.metrics != nil {
		w.metrics.ReservationsBooked.Inc()
	}

	reservation := &domain.Reservation{
		RunID:    w.runID,
		Summary:  *w.summary,
		BookedAt: time.Now(),
	}
	if w.recorder != nil {
		if err := w.recorder.Record(ctx, reservation); err != nil {
			w.logger.Warn("Failed to record reservation", "ticket_id", w.summary.TicketID, "error", err)
		}
	}
	if w.producer != nil && w.topic != "" {
		event := kafka.NewReservationEvent(reservation)
		if err := w.producer.Publish(ctx, w.topic, w.summary.TicketID, event); err != nil {
			w.logger.Warn("Failed to publish reservation event", "ticket_id", w.summary.TicketID, "error", err)
		}
	}
}

func (w *Workflow) submit(ctx context.Context, rawURL string, form url.Values) (parser.Node, error) {
	w.logger.Debug("Submitting form", "url", rawURL, "fields", len(form))
	body, err := w.client.PostForm(ctx, rawURL, form)
	if err != nil {
		return nil, err
	}
	doc, err := parser.ParseHTMLBytes(body)
	if err != nil {
		return nil, err
	}
	if err := w.parser.CheckSubmission(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (w *Workflow) resolve(ref string) (string, error) {
	base, err := url.Parse(w.site.BaseURL)
	if err != nil {
		return "", fmt.Errorf("base url: %w", err)
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("%w: bad url %q", domain.ErrMalformedDocument, ref)
	}
	return base.ResolveReference(u).String(), nil
}

// stage runs fn if the workflow is in state from, moving it to state to on
// success and to StateFailed otherwise.
func (w *Workflow) stage(name string, from, to State, fn func() error) error {
	if w.state.Terminal() {
		return fmt.Errorf("%w: %s called but workflow is already %s", domain.ErrInvalidState, name, w.state)
	}
	if w.state != from {
		return fmt.Errorf("%w: %s requires %s, workflow is %s", domain.ErrInvalidState, name, from, w.state)
	}

	start := time.Now()
	err := fn()
	if w.metrics != nil {
		w.metrics.StageDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		w.state = StateFailed
		if w.metrics != nil {
			w.metrics.StageFailures.WithLabelValues(name, failureKind(err)).Inc()
		}
		w.logger.Error("Workflow stage failed", "stage", name, "error", err)
		return fmt.Errorf("%s: %w", name, err)
	}

	w.logger.Debug("Workflow stage done", "stage", name, "state", to.String())
	w.state = to
	return nil
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidationRejected):
		return "validation_rejected"
	case errors.Is(err, domain.ErrMalformedDocument):
		return "malformed_document"
	case errors.Is(err, domain.ErrMalformedCount):
		return "malformed_count"
	case errors.Is(err, domain.ErrMissingIdentity):
		return "missing_identity"
	case errors.Is(err, domain.ErrNoTrains):
		return "no_trains"
	default:
		return "other"
	}
}
