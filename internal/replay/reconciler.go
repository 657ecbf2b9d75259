package replay

import (
	"fmt"
	"log/slog"

	"github.com/roach88/scorebook/internal/engine"
	"github.com/roach88/scorebook/internal/game"
	"github.com/roach88/scorebook/internal/stats"
)

// LabelStart tags the checkpoint taken before the first event.
const LabelStart = "START"

// Checkpoint is a deep copy of the replay position at an event index.
// Replaying events[NextEventIndex:] from it reproduces a full replay.
type Checkpoint struct {
	NextEventIndex int                `json:"nextEventIndex"`
	HalfInning     game.HalfInningKey `json:"halfInning"`
	State          *game.State        `json:"state"`
	Stats          stats.State        `json:"stats"`
	Label          string             `json:"label"`

	// PA is the plate appearance open at the checkpoint, if any.
	PA *PAContext `json:"pa,omitempty"`
}

// Observer receives replay progress. Implementations must not block.
type Observer interface {
	// EventApplied is called once per replayed event. reattributed is true
	// when the event's statistics moved to a different batter or pitcher.
	EventApplied(name game.Name, reattributed bool)

	// CheckpointCreated is called for each checkpoint taken.
	CheckpointCreated(label string)

	// ReplayFailed is called when a replay or patch aborts.
	ReplayFailed(code ErrorCode)
}

type nopObserver struct{}

func (nopObserver) EventApplied(game.Name, bool) {}
func (nopObserver) CheckpointCreated(string)     {}
func (nopObserver) ReplayFailed(ErrorCode)       {}

// Result is the outcome of a replay.
type Result struct {
	State       *game.State
	Stats       stats.State
	Checkpoints []Checkpoint
}

// Reconciler re-derives state and statistics from an event log, applying
// the plate-appearance attribution rules to every terminal event.
//
// A Reconciler holds no mutable state; it is safe to reuse and to share
// between goroutines as long as its Observer is.
type Reconciler struct {
	initial     *game.State
	rules       game.Rules
	logger      *slog.Logger
	observer    Observer
	checkpoints bool
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithObserver registers an observer for replay progress.
func WithObserver(o Observer) Option {
	return func(r *Reconciler) {
		if o != nil {
			r.observer = o
		}
	}
}

// WithCheckpoints turns checkpoint collection on or off. Default: on.
func WithCheckpoints(enabled bool) Option {
	return func(r *Reconciler) {
		r.checkpoints = enabled
	}
}

// New creates a Reconciler rooted at initial. initial is copied.
func New(initial *game.State, rules game.Rules, opts ...Option) *Reconciler {
	r := &Reconciler{
		initial:     initial.Clone(),
		rules:       rules,
		logger:      slog.Default(),
		observer:    nopObserver{},
		checkpoints: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile replays every event from the initial state.
func (r *Reconciler) Reconcile(events []game.Event) (Result, error) {
	s := r.initial.Clone()
	st := stats.NewState(s)
	var start []Checkpoint
	if r.checkpoints {
		start = []Checkpoint{r.checkpoint(0, s, st, nil, LabelStart)}
	}
	res, err := r.run(s, st, nil, 0, events)
	if err != nil {
		return Result{}, err
	}
	res.Checkpoints = append(start, res.Checkpoints...)
	return res, nil
}

// Resume replays events[cp.NextEventIndex:] from cp. The result is
// identical to a full replay of events; its checkpoints start with cp.
func (r *Reconciler) Resume(cp Checkpoint, events []game.Event) (Result, error) {
	if cp.NextEventIndex < 0 || cp.NextEventIndex > len(events) {
		return Result{}, fmt.Errorf("resume: checkpoint index %d outside log of %d events", cp.NextEventIndex, len(events))
	}
	res, err := r.run(cp.State.Clone(), cp.Stats.Clone(), cp.PA.Clone(), cp.NextEventIndex, events)
	if err != nil {
		return Result{}, err
	}
	if r.checkpoints {
		res.Checkpoints = append([]Checkpoint{cloneCheckpoint(cp)}, res.Checkpoints...)
	}
	return res, nil
}

// ReconcileFromNearestCheckpoint re-derives events after an edit at
// editedIndex, resuming from the latest checkpoint taken at or before it.
// checkpoints must come from a replay of the same log prefix. With no
// usable checkpoint it replays the whole log.
func (r *Reconciler) ReconcileFromNearestCheckpoint(checkpoints []Checkpoint, events []game.Event, editedIndex int) (Result, error) {
	nearest := -1
	for i, cp := range checkpoints {
		if cp.NextEventIndex <= editedIndex && cp.NextEventIndex <= len(events) {
			nearest = i
		}
	}
	if nearest < 0 {
		return r.Reconcile(events)
	}

	r.logger.Debug("resuming from checkpoint",
		"label", checkpoints[nearest].Label,
		"next_event_index", checkpoints[nearest].NextEventIndex,
		"edited_index", editedIndex,
	)
	res, err := r.Resume(checkpoints[nearest], events)
	if err != nil {
		return Result{}, err
	}
	if r.checkpoints {
		prefix := make([]Checkpoint, 0, nearest+len(res.Checkpoints))
		for _, cp := range checkpoints[:nearest] {
			prefix = append(prefix, cloneCheckpoint(cp))
		}
		res.Checkpoints = append(prefix, res.Checkpoints...)
	}
	return res, nil
}

// run replays events[from:] starting at s and st with pa open.
func (r *Reconciler) run(s *game.State, st stats.State, pa *PAContext, from int, events []game.Event) (Result, error) {
	var cps []Checkpoint
	last := s.HalfInning()

	for i := from; i < len(events); i++ {
		ev := events[i]

		switch p := ev.Payload.(type) {
		case game.AtBatStart:
			pa = openFromAtBat(s, p)
		default:
			if pa == nil && s.Status == game.StatusInProgress && s.PA.Batter.PlayerID != "" {
				pa = OpenPA(s)
			}
			if pa != nil {
				pa.observe(s, ev)
			}
		}

		res := engine.Apply(s, r.rules, ev)
		if !res.OK() {
			err := rejected(ErrCodeRejected, i, ev, res.Errors)
			r.logger.Warn("replay rejected event",
				"event_id", ev.ID,
				"index", i,
				"name", ev.Name,
				"errors", res.Errors,
			)
			r.observer.ReplayFailed(err.Code)
			return Result{}, err
		}

		delta := res.Delta
		moved := false
		if kind, done := outcome(s, r.rules, ev); done && pa != nil {
			moved = reattribute(&delta, s, ChooseBatter(pa, kind), ChoosePitcher(pa, kind))
			pa = nil
		}

		st = stats.Apply(st, delta)
		s = res.State
		r.observer.EventApplied(ev.Name, moved)

		if now := s.HalfInning(); now != last {
			// The half ended mid-PA (a caught stealing for the third out,
			// say); the batter resumes in a fresh context next time up.
			pa = nil
			if r.checkpoints {
				cps = append(cps, r.checkpoint(i+1, s, st, pa, halfLabel(now)))
			}
			last = now
		}
	}

	return Result{State: s, Stats: st, Checkpoints: cps}, nil
}

func (r *Reconciler) checkpoint(next int, s *game.State, st stats.State, pa *PAContext, label string) Checkpoint {
	r.logger.Debug("checkpoint created", "label", label, "next_event_index", next)
	r.observer.CheckpointCreated(label)
	return Checkpoint{
		NextEventIndex: next,
		HalfInning:     s.HalfInning(),
		State:          s.Clone(),
		Stats:          st.Clone(),
		Label:          label,
		PA:             pa.Clone(),
	}
}

func halfLabel(k game.HalfInningKey) string {
	return fmt.Sprintf("HALF_INNING -> %d %s", k.Inning, k.Half)
}

func cloneCheckpoint(cp Checkpoint) Checkpoint {
	cp.State = cp.State.Clone()
	cp.Stats = cp.Stats.Clone()
	cp.PA = cp.PA.Clone()
	return cp
}
