package harness

import (
	"github.com/roach88/scorebook/internal/game"
	"github.com/roach88/scorebook/internal/replay"
	"github.com/roach88/scorebook/internal/stats"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Events is the replayed log, patched when the scenario patches.
	Events []game.Event `json:"-"`

	// State and Stats are the final replay result. After an expected
	// patch failure they are the unpatched result.
	State *game.State `json:"-"`
	Stats stats.State `json:"-"`

	// Checkpoints is the number of checkpoints the replay took.
	Checkpoints int `json:"checkpoints"`

	// Fingerprint is the digest of State.
	Fingerprint string `json:"fingerprint,omitempty"`

	failure *replay.Error
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{Pass: true, Errors: []string{}}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
