package booking

import (
	"context"
	"net/url"

	"github.com/Domenick1991/thsrbook/internal/codec"
	"github.com/Domenick1991/thsrbook/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Get(ctx context.Context, rawURL string) ([]byte, error) {
	args := m.Called(ctx, rawURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockTransport) PostForm(ctx context.Context, rawURL string, form url.Values) ([]byte, error) {
	args := m.Called(ctx, rawURL, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockTransport) Cookie(rawURL, name string) (string, bool) {
	args := m.Called(rawURL, name)
	return args.String(0), args.Bool(1)
}

type MockCaptchaSolver struct {
	mock.Mock
}

func (m *MockCaptchaSolver) Solve(ctx context.Context, image []byte) (string, error) {
	args := m.Called(ctx, image)
	return args.String(0), args.Error(1)
}

type MockOperator struct {
	mock.Mock
}

func (m *MockOperator) DraftBooking(ctx context.Context, page domain.BookingPage) (domain.BookingDraft, error) {
	args := m.Called(ctx, page)
	return args.Get(0).(domain.BookingDraft), args.Error(1)
}

func (m *MockOperator) ChooseTrain(ctx context.Context, trains []domain.TrainOption) (int, error) {
	args := m.Called(ctx, trains)
	return args.Int(0), args.Error(1)
}

func (m *MockOperator) IdentifyPassengers(ctx context.Context, keys []codec.IdentityKey) (domain.PassengerIdentityRecord, error) {
	args := m.Called(ctx, keys)
	return args.Get(0).(domain.PassengerIdentityRecord), args.Error(1)
}

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(ctx context.Context, reservation *domain.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}
