package ports

import (
	"context"
	"time"

	"github.com/forPelevin/shortreel/internal/types"
)

// Engine is a transcoding session with its own private file namespace.
// A session runs one command at a time; callers serialize access.
type Engine interface {
	EnsureReady(ctx context.Context) error
	WriteFile(ctx context.Context, name string, data []byte) error
	ReadFile(ctx context.Context, name string) ([]byte, error)
	Run(ctx context.Context, cmd types.Command) error
	// OnProgress replaces the single listener. fn receives per-command
	// fractions in [0,1].
	OnProgress(fn func(float64))
}

type DurationProbe interface {
	AudioDuration(ctx context.Context, audio types.Blob) (time.Duration, error)
}

type FontSource interface {
	Font(ctx context.Context) ([]byte, error)
}

type ProgressObserver interface {
	OnProgress(types.ProgressState)
}

// ObserverFunc adapts a plain function to ProgressObserver.
type ObserverFunc func(types.ProgressState)

func (f ObserverFunc) OnProgress(s types.ProgressState) { f(s) }
