package game

// Name is an event kind.
type Name string

const (
	EventGameStarted           Name = "GAME_STARTED"
	EventGamePaused            Name = "GAME_PAUSED"
	EventGameResumed           Name = "GAME_RESUMED"
	EventGameFinal             Name = "GAME_FINAL"
	EventLineupSet             Name = "LINEUP_SET"
	EventDefenseSet            Name = "DEFENSE_SET"
	EventInningAdvance         Name = "INNING_ADVANCE"
	EventAtBatStart            Name = "AT_BAT_START"
	EventPitch                 Name = "PITCH"
	EventBallInPlay            Name = "BIP"
	EventWalk                  Name = "WALK"
	EventIntentionalWalk       Name = "INTENTIONAL_WALK"
	EventHitByPitch            Name = "HBP"
	EventStrikeout             Name = "STRIKEOUT"
	EventDroppedThirdStrike    Name = "DROPPED_THIRD_STRIKE"
	EventStolenBase            Name = "STOLEN_BASE"
	EventCaughtStealing        Name = "CAUGHT_STEALING"
	EventPickoff               Name = "PICKOFF"
	EventBalk                  Name = "BALK"
	EventWildPitch             Name = "WILD_PITCH"
	EventPassedBall            Name = "PASSED_BALL"
	EventDefensiveIndifference Name = "DEFENSIVE_INDIFFERENCE"
	EventAppealPlay            Name = "APPEAL_PLAY"
	EventCatcherInterference   Name = "CATCHER_INTERFERENCE"
	EventRunScored             Name = "RUN_SCORED"
	EventErrorCharged          Name = "ERROR_CHARGED"
	EventSubstitutionBatter    Name = "SUBSTITUTION_BATTER"
	EventSubstitutionRunner    Name = "SUBSTITUTION_RUNNER"
	EventSubstitutionFielder   Name = "SUBSTITUTION_FIELDER"
	EventPitchingChange        Name = "PITCHING_CHANGE"
)

// Names lists every supported event kind.
var Names = []Name{
	EventGameStarted, EventGamePaused, EventGameResumed, EventGameFinal,
	EventLineupSet, EventDefenseSet, EventInningAdvance, EventAtBatStart,
	EventPitch, EventBallInPlay, EventWalk, EventIntentionalWalk, EventHitByPitch,
	EventStrikeout, EventDroppedThirdStrike, EventStolenBase, EventCaughtStealing,
	EventPickoff, EventBalk, EventWildPitch, EventPassedBall,
	EventDefensiveIndifference, EventAppealPlay, EventCatcherInterference,
	EventRunScored, EventErrorCharged, EventSubstitutionBatter,
	EventSubstitutionRunner, EventSubstitutionFielder, EventPitchingChange,
}

// Terminal reports whether n ends a plate appearance.
func (n Name) Terminal() bool {
	switch n {
	case EventBallInPlay, EventWalk, EventIntentionalWalk, EventHitByPitch,
		EventStrikeout, EventDroppedThirdStrike, EventCatcherInterference:
		return true
	}
	return false
}

// Event is one entry in a game's append-only log.
type Event struct {
	ID         string  `json:"eventId"`
	GameID     string  `json:"gameId"`
	Name       Name    `json:"name"`
	Payload    Payload `json:"payload"`
	CreatedISO string  `json:"createdIso"`
	CreatedBy  string  `json:"createdBy,omitempty"`
}

// Payload is the sealed set of event payload types.
type Payload interface {
	payload()
}

// NoPayload is carried by the game status events.
type NoPayload struct{}

type LineupSet struct {
	TeamSide Side          `json:"teamSide"`
	Slots    []LineupEntry `json:"slots"`
}

type LineupEntry struct {
	Slot     int      `json:"slot"`
	PlayerID string   `json:"player_id"`
	Position Position `json:"position,omitempty"`
}

type DefenseSet struct {
	TeamSide Side                `json:"teamSide"`
	Defense  map[Position]string `json:"defense"`
}

type InningAdvance struct {
	ToInning int  `json:"to_inning_number"`
	ToHalf   Half `json:"to_half"`
}

type AtBatStart struct {
	PAID      string `json:"pa_id"`
	BatterID  string `json:"batter_id"`
	PitcherID string `json:"pitcher_id"`
}

// PitchResult is the outcome of a single pitch.
type PitchResult string

const (
	PitchBall           PitchResult = "BALL"
	PitchCalledStrike   PitchResult = "CALLED_STRIKE"
	PitchSwingingStrike PitchResult = "SWINGING_STRIKE"
	PitchFoul           PitchResult = "FOUL"
	PitchFoulTip        PitchResult = "FOUL_TIP"
	PitchHBP            PitchResult = "HBP"
	PitchInPlay         PitchResult = "IN_PLAY"
	PitchClockBall      PitchResult = "PITCH_CLOCK_BALL"
	PitchClockStrike    PitchResult = "PITCH_CLOCK_STRIKE"
)

func (r PitchResult) Valid() bool {
	switch r {
	case PitchBall, PitchCalledStrike, PitchSwingingStrike, PitchFoul, PitchFoulTip,
		PitchHBP, PitchInPlay, PitchClockBall, PitchClockStrike:
		return true
	}
	return false
}

// IsBall reports whether r adds a ball to the count.
func (r PitchResult) IsBall() bool {
	return r == PitchBall || r == PitchClockBall
}

// IsStrike reports whether r adds a strike that can end the plate
// appearance. Fouls are strikes that never do.
func (r PitchResult) IsStrike() bool {
	return r == PitchCalledStrike || r == PitchSwingingStrike || r == PitchClockStrike
}

func (r PitchResult) IsFoul() bool {
	return r == PitchFoul || r == PitchFoulTip
}

type Pitch struct {
	PAID           string      `json:"pa_id"`
	PitcherID      string      `json:"pitcher_id"`
	BatterID       string      `json:"batter_id"`
	Result         PitchResult `json:"result"`
	PitchMetricsID string      `json:"pitch_metrics_id,omitempty"`
	Notes          string      `json:"notes,omitempty"`
}

// PlateAward is the payload of WALK, INTENTIONAL_WALK, HBP and STRIKEOUT.
type PlateAward struct {
	PAID      string `json:"pa_id"`
	BatterID  string `json:"batter_id"`
	PitcherID string `json:"pitcher_id"`
	Notes     string `json:"notes,omitempty"`
}

type CatcherInterference struct {
	PAID      string `json:"pa_id"`
	BatterID  string `json:"batter_id"`
	CatcherID string `json:"catcher_id"`
	// PitcherID is optional on the wire; the current pitcher is assumed.
	PitcherID string `json:"pitcher_id,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// FielderRef names a fielder by position and player.
type FielderRef struct {
	Pos      Position `json:"pos"`
	PlayerID string   `json:"player_id"`
}

type DroppedThirdStrike struct {
	PAID         string              `json:"pa_id"`
	BatterID     string              `json:"batter_id"`
	PitcherID    string              `json:"pitcher_id"`
	BatterSafe   *bool               `json:"batter_safe"`
	PutoutBy     *FielderRef         `json:"putout_by,omitempty"`
	Assists      []FielderRef        `json:"assists,omitempty"`
	Destinations []RunnerDestination `json:"destinations,omitempty"`
	Runs         []RunAttribution    `json:"runs,omitempty"`
	Notes        string              `json:"notes,omitempty"`
}

// RunnerMove is the payload of STOLEN_BASE and DEFENSIVE_INDIFFERENCE.
type RunnerMove struct {
	RunnerID string `json:"runner_id"`
	From     Base   `json:"from"`
	To       Base   `json:"to"`
	Notes    string `json:"notes,omitempty"`
}

type CaughtStealing struct {
	RunnerID string       `json:"runner_id"`
	From     Base         `json:"from"`
	To       Base         `json:"to"`
	PutoutBy *FielderRef  `json:"putout_by,omitempty"`
	Assists  []FielderRef `json:"assists,omitempty"`
	Notes    string       `json:"notes,omitempty"`
}

type Pickoff struct {
	RunnerID string       `json:"runner_id"`
	AtBase   Base         `json:"at_base"`
	IsOut    *bool        `json:"is_out"`
	PutoutBy *FielderRef  `json:"putout_by,omitempty"`
	Assists  []FielderRef `json:"assists,omitempty"`
	Notes    string       `json:"notes,omitempty"`
}

type Balk struct {
	PitcherID string           `json:"pitcher_id"`
	Runs      []RunAttribution `json:"runs,omitempty"`
	Notes     string           `json:"notes,omitempty"`
}

// MisplayedPitch is the payload of WILD_PITCH and PASSED_BALL. PitcherID
// is set for a wild pitch, CatcherID for a passed ball.
type MisplayedPitch struct {
	PitcherID    string              `json:"pitcher_id,omitempty"`
	CatcherID    string              `json:"catcher_id,omitempty"`
	Destinations []RunnerDestination `json:"destinations,omitempty"`
	Outs         []OutDetail         `json:"outs,omitempty"`
	Runs         []RunAttribution    `json:"runs,omitempty"`
	Notes        string              `json:"notes,omitempty"`
}

type AppealPlay struct {
	RunnerID string `json:"runner_id"`
	AtBase   Base   `json:"at_base"`
	IsOut    *bool  `json:"is_out"`
	Notes    string `json:"notes,omitempty"`
}

type RunScored struct {
	TeamSide Side   `json:"teamSide"`
	RunnerID string `json:"runner_id"`
	Notes    string `json:"notes,omitempty"`
}

type ErrorCharged struct {
	TeamSide   Side     `json:"teamSide"`
	FielderPos Position `json:"fielder_pos,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

// Substitution is the payload of the batter, runner and fielder
// substitution events.
type Substitution struct {
	TeamSide  Side   `json:"teamSide"`
	PlayerIn  string `json:"player_in"`
	PlayerOut string `json:"player_out"`
	Notes     string `json:"notes,omitempty"`
}

type PitchingChange struct {
	TeamSide   Side   `json:"teamSide"`
	PitcherIn  string `json:"pitcher_in"`
	PitcherOut string `json:"pitcher_out"`
	Notes      string `json:"notes,omitempty"`
}

func (NoPayload) payload() {}
func (LineupSet) payload() {}
func (DefenseSet) payload() {}
func (InningAdvance) payload() {}
func (AtBatStart) payload() {}
func (Pitch) payload() {}
func (BallInPlay) payload() {}
func (PlateAward) payload() {}
func (CatcherInterference) payload() {}
func (DroppedThirdStrike) payload() {}
func (RunnerMove) payload() {}
func (CaughtStealing) payload() {}
func (Pickoff) payload() {}
func (Balk) payload() {}
func (MisplayedPitch) payload() {}
func (AppealPlay) payload() {}
func (RunScored) payload() {}
func (ErrorCharged) payload() {}
func (Substitution) payload() {}
func (PitchingChange) payload() {}

// PayloadMatches reports whether p is the payload type carried by n. A nil
// payload matches the status events only.
func PayloadMatches(n Name, p Payload) bool {
	switch n {
	case EventGameStarted, EventGamePaused, EventGameResumed, EventGameFinal:
		if p == nil {
			return true
		}
		_, ok := p.(NoPayload)
		return ok
	case EventLineupSet:
		return is[LineupSet](p)
	case EventDefenseSet:
		return is[DefenseSet](p)
	case EventInningAdvance:
		return is[InningAdvance](p)
	case EventAtBatStart:
		return is[AtBatStart](p)
	case EventPitch:
		return is[Pitch](p)
	case EventBallInPlay:
		return is[BallInPlay](p)
	case EventWalk, EventIntentionalWalk, EventHitByPitch, EventStrikeout:
		return is[PlateAward](p)
	case EventCatcherInterference:
		return is[CatcherInterference](p)
	case EventDroppedThirdStrike:
		return is[DroppedThirdStrike](p)
	case EventStolenBase, EventDefensiveIndifference:
		return is[RunnerMove](p)
	case EventCaughtStealing:
		return is[CaughtStealing](p)
	case EventPickoff:
		return is[Pickoff](p)
	case EventBalk:
		return is[Balk](p)
	case EventWildPitch, EventPassedBall:
		return is[MisplayedPitch](p)
	case EventAppealPlay:
		return is[AppealPlay](p)
	case EventRunScored:
		return is[RunScored](p)
	case EventErrorCharged:
		return is[ErrorCharged](p)
	case EventSubstitutionBatter, EventSubstitutionRunner, EventSubstitutionFielder:
		return is[Substitution](p)
	case EventPitchingChange:
		return is[PitchingChange](p)
	}
	return false
}

func is[T Payload](p Payload) bool {
	_, ok := p.(T)
	return ok
}

// PitchOutcome reports the plate-appearance-ending event a pitch with
// result implies when thrown at count c: WALK on ball four, STRIKEOUT on
// strike three, HBP on a hit batter.
func PitchOutcome(c Count, r Rules, result PitchResult) (Name, bool) {
	switch {
	case result == PitchHBP:
		return EventHitByPitch, true
	case result.IsBall() && c.Balls+1 >= r.BallsForWalk:
		return EventWalk, true
	case result.IsStrike() && c.Strikes+1 >= r.StrikesForOut:
		return EventStrikeout, true
	}
	return "", false
}
