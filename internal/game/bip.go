package game

// BatterResult is the batter's outcome on a ball in play.
type BatterResult string

const (
	Result1B               BatterResult = "1B"
	Result2B               BatterResult = "2B"
	Result3B               BatterResult = "3B"
	ResultHR               BatterResult = "HR"
	ResultGroundRuleDouble BatterResult = "GROUND_RULE_DOUBLE"
	ResultAutomaticDouble  BatterResult = "AUTOMATIC_DOUBLE"
	ResultROE              BatterResult = "ROE"
	ResultFC               BatterResult = "FC"
	ResultOut              BatterResult = "OUT"
)

func (r BatterResult) Valid() bool {
	switch r {
	case Result1B, Result2B, Result3B, ResultHR, ResultGroundRuleDouble,
		ResultAutomaticDouble, ResultROE, ResultFC, ResultOut:
		return true
	}
	return false
}

// IsHit reports whether r is credited as a hit.
func (r BatterResult) IsHit() bool {
	switch r {
	case Result1B, Result2B, Result3B, ResultHR, ResultGroundRuleDouble, ResultAutomaticDouble:
		return true
	}
	return false
}

// TotalBases returns the bases credited for a hit, 0 otherwise.
func (r BatterResult) TotalBases() int {
	switch r {
	case Result1B:
		return 1
	case Result2B, ResultGroundRuleDouble, ResultAutomaticDouble:
		return 2
	case Result3B:
		return 3
	case ResultHR:
		return 4
	}
	return 0
}

// OutSubtype marks sacrifices on a batter out.
type OutSubtype string

const (
	OutSubtypeNone    OutSubtype = "NONE"
	OutSubtypeSacFly  OutSubtype = "SAC_FLY"
	OutSubtypeSacBunt OutSubtype = "SAC_BUNT"
)

type BattedBallType string

const (
	BattedGround BattedBallType = "GB"
	BattedFly    BattedBallType = "FB"
	BattedLine   BattedBallType = "LD"
	BattedPopUp  BattedBallType = "PU"
	BattedBunt   BattedBallType = "BUNT"
	BattedOther  BattedBallType = "OTHER"
)

type BattedBall struct {
	Type        BattedBallType `json:"type,omitempty"`
	FieldedBy   Position       `json:"fielded_by,omitempty"`
	Description string         `json:"description,omitempty"`
}

type OutHow string

const (
	OutForce OutHow = "FORCE"
	OutTag   OutHow = "TAG"
	OutFly   OutHow = "FLY"
)

// OutDetail records one out made on a play.
type OutDetail struct {
	OutNumber int          `json:"out_number"`
	RunnerID  string       `json:"runner_id"`
	How       OutHow       `json:"how"`
	Where     Base         `json:"where"`
	PutoutBy  FielderRef   `json:"putout_by"`
	Assists   []FielderRef `json:"assists,omitempty"`
}

type ErrorType string

const (
	ErrorThrowing ErrorType = "THROWING"
	ErrorFielding ErrorType = "FIELDING"
	ErrorCatching ErrorType = "CATCHING"
)

type ErrorImpact string

const (
	ImpactBatterReachedSafely ErrorImpact = "BATTER_REACHED_SAFELY"
	ImpactBatterExtraBase     ErrorImpact = "BATTER_EXTRA_BASE"
	ImpactRunnerExtraBase     ErrorImpact = "RUNNER_EXTRA_BASE"
	ImpactRunScored           ErrorImpact = "RUN_SCORED"
)

// FieldingError is an error recorded on a play.
type FieldingError struct {
	Type       ErrorType     `json:"type"`
	FielderPos Position      `json:"fielder_pos"`
	Impacts    []ErrorImpact `json:"impacts,omitempty"`
	Notes      string        `json:"notes,omitempty"`
}

type AdvanceReason string

const (
	ReasonOnHit          AdvanceReason = "ON_HIT"
	ReasonOnError        AdvanceReason = "ON_ERROR"
	ReasonOnThrow        AdvanceReason = "ON_THROW"
	ReasonTagUp          AdvanceReason = "TAG_UP"
	ReasonFieldersChoice AdvanceReason = "FIELDERS_CHOICE"
)

// RunnerDestination is where one participant ended up after a play.
type RunnerDestination struct {
	ParticipantID string        `json:"participant_id"`
	From          Base          `json:"from"`
	Final         Final         `json:"final"`
	OutNumber     int           `json:"out_number,omitempty"`
	Reason        AdvanceReason `json:"reason,omitempty"`
}

// Decision is a scorer decision that may be deferred.
type Decision string

const (
	DecisionYes   Decision = "YES"
	DecisionNo    Decision = "NO"
	DecisionLater Decision = "DECIDE_LATER"
)

type Earned string

const (
	EarnedYes   Earned = "EARNED"
	EarnedNo    Earned = "UNEARNED"
	EarnedLater Earned = "DECIDE_LATER"
)

// RunAttribution credits one run explicitly.
type RunAttribution struct {
	RunnerID         string   `json:"runner_id"`
	RBI              Decision `json:"rbi"`
	Earned           Earned   `json:"earned"`
	ChargedPitcherID string   `json:"charged_pitcher_id,omitempty"`
}

type BallInPlay struct {
	PAID                string              `json:"pa_id"`
	BatterID            string              `json:"batter_id"`
	BatterResult        BatterResult        `json:"batter_result"`
	BatterOutSubtype    OutSubtype          `json:"batter_out_subtype,omitempty"`
	BattedBall          *BattedBall         `json:"batted_ball,omitempty"`
	Outs                []OutDetail         `json:"outs"`
	Errors              []FieldingError     `json:"errors,omitempty"`
	Destinations        []RunnerDestination `json:"destinations"`
	Runs                []RunAttribution    `json:"runs,omitempty"`
	PitchMetricsID      string              `json:"pitch_metrics_id,omitempty"`
	BattedBallMetricsID string              `json:"batted_ball_metrics_id,omitempty"`
	Notes               string              `json:"notes,omitempty"`
}
