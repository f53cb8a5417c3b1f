// Package captcha shows the booking CAPTCHA to a human and collects the answer.
package captcha

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/Domenick1991/thsrbook/config"
	"github.com/Domenick1991/thsrbook/pkg/logger"
	"github.com/mattn/go-sixel"
)

type Prompter interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Solver writes the image to disk, optionally opens it in the system
// viewer, and asks the prompter for the code.
type Solver struct {
	path       string
	openViewer bool
	prompt     Prompter
	open       func(path string) error
	preview    io.Writer
	logger     logger.Logger
}

type Option func(*Solver)

// WithPreview draws the image to w as sixel graphics before asking.
func WithPreview(w io.Writer) Option {
	return func(s *Solver) {
		s.preview = w
	}
}

func NewSolver(cfg config.CaptchaConfig, prompt Prompter, log logger.Logger, opts ...Option) *Solver {
	s := &Solver{
		path:       cfg.LocalPath,
		openViewer: cfg.OpenViewer,
		prompt:     prompt,
		open:       openFile,
		logger:     log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Solver) Solve(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty captcha image")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return "", fmt.Errorf("create captcha dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return "", fmt.Errorf("save captcha: %w", err)
	}
	s.logger.Debug("Captcha saved", "path", s.path, "bytes", len(data))

	if s.preview != nil {
		if err := renderSixel(s.preview, data); err != nil {
			s.logger.Warn("Could not draw captcha preview", "error", err)
		}
	}
	if s.openViewer {
		if err := s.open(s.path); err != nil {
			s.logger.Warn("Could not open captcha viewer", "path", s.path, "error", err)
		}
	}

	answer, err := s.prompt.Ask(ctx, fmt.Sprintf("Captcha saved to %s. Input captcha: ", s.path))
	if err != nil {
		return "", err
	}
	if answer == "" {
		return "", errors.New("empty captcha answer")
	}
	return answer, nil
}

func renderSixel(w io.Writer, data []byte) error {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode captcha: %w", err)
	}
	if err := sixel.NewEncoder(w).Encode(img); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w)
	return err
}

func openFile(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	return cmd.Start()
}
