package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/forPelevin/shortreel/internal/domain/ffargs"
	"github.com/forPelevin/shortreel/internal/types"
)

// ErrUnavailable is returned when the engine cannot be initialized.
var ErrUnavailable = errors.New("ffmpeg not ready")

// Session is an ffmpeg-backed engine. Its workspace directory is the
// engine's private file namespace; commands run with it as working dir
// and refer to files by bare name.
type Session struct {
	ffmpeg    string
	workspace string
	logger    *slog.Logger

	mu       sync.Mutex
	ready    bool
	version  string
	listener func(float64)
}

func New(ffmpegPath, workspace string, logger *slog.Logger) *Session {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{
		ffmpeg:    ffmpegPath,
		workspace: workspace,
		logger:    logger.With("component", "engine"),
	}
}

// EnsureReady resolves and verifies the ffmpeg binary and creates the
// workspace. Success is cached; a failure is retried on the next call.
func (s *Session) EnsureReady(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return nil
	}

	bin, err := exec.LookPath(s.ffmpeg)
	if err != nil {
		return fmt.Errorf("%w: locate %s: %v", ErrUnavailable, s.ffmpeg, err)
	}
	out, err := exec.CommandContext(ctx, bin, "-hide_banner", "-version").CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: ffmpeg -version: %v\n%s", ErrUnavailable, err, string(out))
	}
	version, _, _ := strings.Cut(string(out), "\n")

	if s.workspace == "" {
		dir, err := os.MkdirTemp("", "shortreel-engine-")
		if err != nil {
			return fmt.Errorf("%w: create workspace: %v", ErrUnavailable, err)
		}
		s.workspace = dir
	} else if err := os.MkdirAll(s.workspace, 0o755); err != nil {
		return fmt.Errorf("%w: create workspace: %v", ErrUnavailable, err)
	}

	s.ffmpeg = bin
	s.version = strings.TrimSpace(version)
	s.ready = true
	s.logger.Info("engine ready", "binary", bin, "version", s.version, "workspace", s.workspace)
	return nil
}

func (s *Session) Workspace() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workspace
}

func (s *Session) WriteFile(_ context.Context, name string, data []byte) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("engine write %s: %w", name, err)
	}
	return nil
}

func (s *Session) ReadFile(_ context.Context, name string) ([]byte, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("engine read %s: %w", name, err)
	}
	return b, nil
}

func (s *Session) OnProgress(fn func(float64)) {
	s.mu.Lock()
	s.listener = fn
	s.mu.Unlock()
}

// Run executes one ffmpeg invocation inside the workspace and blocks until
// it exits. Progress is parsed from ffmpeg's -progress stream; all listener
// calls happen before Run returns.
func (s *Session) Run(ctx context.Context, c types.Command) error {
	s.mu.Lock()
	ready, dir, bin, listener := s.ready, s.workspace, s.ffmpeg, s.listener
	s.mu.Unlock()
	if !ready {
		return fmt.Errorf("%w: not initialized", ErrUnavailable)
	}
	if len(c.Args) == 0 {
		return errors.New("ffmpeg: empty command")
	}

	args := append([]string{"-hide_banner", "-nostdin", "-y", "-nostats", "-progress", "pipe:1"}, c.Args...)
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg stdout: %w", err)
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start: %w", err)
	}
	notify(listener, 0)
	readProgress(stdout, c.Duration, listener)
	err = cmd.Wait()
	if err != nil {
		return fmt.Errorf("ffmpeg: %w\n%s", err, tail(stderr.String(), 20))
	}
	notify(listener, 1)
	s.logger.Debug("command finished", "output", c.Args[len(c.Args)-1], "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

func (s *Session) path(name string) (string, error) {
	if !ffargs.ValidName(name) {
		return "", fmt.Errorf("engine: invalid file name %q", name)
	}
	s.mu.Lock()
	ready, dir := s.ready, s.workspace
	s.mu.Unlock()
	if !ready {
		return "", fmt.Errorf("%w: not initialized", ErrUnavailable)
	}
	return filepath.Join(dir, name), nil
}

// readProgress consumes key=value blocks until EOF. out_time_us is the
// encoded position; "progress=end" marks completion.
func readProgress(r io.Reader, total time.Duration, fn func(float64)) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		key, val, ok := strings.Cut(strings.TrimSpace(sc.Text()), "=")
		if !ok {
			continue
		}
		switch key {
		case "out_time_us", "out_time_ms":
			// Both keys carry microseconds.
			us, err := strconv.ParseInt(val, 10, 64)
			if err != nil || total <= 0 {
				continue
			}
			notify(fn, float64(time.Duration(us)*time.Microsecond)/float64(total))
		case "progress":
			if val == "end" {
				notify(fn, 1)
			}
		}
	}
	_, _ = io.Copy(io.Discard, r)
}

func notify(fn func(float64), p float64) {
	if fn == nil {
		return
	}
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	fn(p)
}

func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
