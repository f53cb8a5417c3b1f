package captcha

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Domenick1991/thsrbook/config"
	"github.com/Domenick1991/thsrbook/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPrompter struct {
	mock.Mock
}

func (m *MockPrompter) Ask(ctx context.Context, question string) (string, error) {
	args := m.Called(ctx, question)
	return args.String(0), args.Error(1)
}

func newSolver(t *testing.T, prompt Prompter, openViewer bool, opts ...Option) (*Solver, string) {
	path := filepath.Join(t.TempDir(), "tmp", "captcha.png")
	s := NewSolver(config.CaptchaConfig{LocalPath: path, OpenViewer: openViewer}, prompt, logger.NewNop(), opts...)
	return s, path
}

func pngImage(t *testing.T) []byte {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSolver_Solve(t *testing.T) {
	prompt := &MockPrompter{}
	prompt.On("Ask", mock.Anything, mock.AnythingOfType("string")).Return("ABCD", nil)
	s, path := newSolver(t, prompt, true)
	var opened string
	s.open = func(p string) error {
		opened = p
		return nil
	}

	answer, err := s.Solve(context.Background(), []byte("png"))

	require.NoError(t, err)
	assert.Equal(t, "ABCD", answer)
	assert.Equal(t, path, opened)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)
}

func TestSolver_ViewerFailureIsNotFatal(t *testing.T) {
	prompt := &MockPrompter{}
	prompt.On("Ask", mock.Anything, mock.Anything).Return("ABCD", nil)
	s, _ := newSolver(t, prompt, true)
	s.open = func(string) error { return errors.New("no display") }

	answer, err := s.Solve(context.Background(), []byte("png"))

	require.NoError(t, err)
	assert.Equal(t, "ABCD", answer)
}

func TestSolver_ViewerDisabled(t *testing.T) {
	prompt := &MockPrompter{}
	prompt.On("Ask", mock.Anything, mock.Anything).Return("ABCD", nil)
	s, _ := newSolver(t, prompt, false)
	s.open = func(string) error {
		t.Fatal("viewer must not open")
		return nil
	}

	_, err := s.Solve(context.Background(), []byte("png"))
	require.NoError(t, err)
}

func TestSolver_Errors(t *testing.T) {
	prompt := &MockPrompter{}
	prompt.On("Ask", mock.Anything, mock.Anything).Return("", nil)
	s, _ := newSolver(t, prompt, false)

	_, err := s.Solve(context.Background(), nil)
	assert.ErrorContains(t, err, "empty captcha image")

	_, err = s.Solve(context.Background(), []byte("png"))
	assert.ErrorContains(t, err, "empty captcha answer")
}

func TestSolver_Preview(t *testing.T) {
	prompt := &MockPrompter{}
	prompt.On("Ask", mock.Anything, mock.Anything).Return("ABCD", nil)
	var out bytes.Buffer
	s, _ := newSolver(t, prompt, false, WithPreview(&out))

	_, err := s.Solve(context.Background(), pngImage(t))

	require.NoError(t, err)
	assert.Contains(t, out.String(), "\x1bP")
}

func TestSolver_PreviewOfUndecodableImageIsNotFatal(t *testing.T) {
	prompt := &MockPrompter{}
	prompt.On("Ask", mock.Anything, mock.Anything).Return("ABCD", nil)
	var out bytes.Buffer
	s, _ := newSolver(t, prompt, false, WithPreview(&out))

	answer, err := s.Solve(context.Background(), []byte("not an image"))

	require.NoError(t, err)
	assert.Equal(t, "ABCD", answer)
	assert.Empty(t, out.String())
}
