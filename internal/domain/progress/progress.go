package progress

import (
	"math"
	"sync"

	"github.com/forPelevin/shortreel/internal/ports"
	"github.com/forPelevin/shortreel/internal/types"
)

// Fraction maps a step index plus the current step's own progress onto the
// whole run. totalSteps is the scene count plus one merge step.
func Fraction(completedSteps int, stepProgress float64, totalSteps int) float64 {
	if totalSteps <= 0 {
		return 0
	}
	stepProgress = clamp01(stepProgress)
	return clamp01((float64(completedSteps) + stepProgress) / float64(totalSteps))
}

// Tracker forwards states to an observer while keeping the run's contract:
// 0 is reported once and first, 1 once and last, and the fraction never
// goes backwards. Safe for use from the engine's progress goroutine.
type Tracker struct {
	mu     sync.Mutex
	obs    ports.ProgressObserver
	scenes int
	last   types.ProgressState
	begun  bool
	done   bool
}

func NewTracker(obs ports.ProgressObserver, scenes int) *Tracker {
	return &Tracker{obs: obs, scenes: scenes}
}

func (t *Tracker) Start() {
	first := 0
	t.emit(types.ProgressState{Fraction: 0, Scene: &first, Total: t.scenes}, false)
}

// Scene reports progress of the scene at index (0-based).
func (t *Tracker) Scene(index int, stepProgress float64) {
	i := index
	t.emit(types.ProgressState{
		Fraction: Fraction(index, stepProgress, t.scenes+1),
		Scene:    &i,
		Total:    t.scenes,
	}, false)
}

func (t *Tracker) Merge(stepProgress float64) {
	t.emit(types.ProgressState{
		Fraction: Fraction(t.scenes, stepProgress, t.scenes+1),
		Total:    t.scenes,
	}, false)
}

func (t *Tracker) Complete() {
	t.emit(types.ProgressState{Fraction: 1, Total: t.scenes}, true)
}

func (t *Tracker) emit(s types.ProgressState, final bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return
	}
	if !final && s.Fraction >= 1 {
		return
	}
	if t.begun {
		if s.Fraction < t.last.Fraction {
			return
		}
		if s.Fraction == t.last.Fraction && (s.Fraction == 0 || sameStep(s, t.last)) {
			return
		}
	}
	t.begun = true
	t.done = final
	t.last = s
	if t.obs != nil {
		t.obs.OnProgress(s)
	}
}

func sameStep(a, b types.ProgressState) bool {
	if a.Scene == nil || b.Scene == nil {
		return a.Scene == nil && b.Scene == nil
	}
	return *a.Scene == *b.Scene
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
