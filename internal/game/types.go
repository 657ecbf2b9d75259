package game

// Side identifies a team within a game.
type Side string

const (
	SideHome Side = "HOME"
	SideAway Side = "AWAY"
)

// Other returns the opposing side.
func (s Side) Other() Side {
	if s == SideHome {
		return SideAway
	}
	return SideHome
}

// Valid reports whether s is HOME or AWAY.
func (s Side) Valid() bool {
	return s == SideHome || s == SideAway
}

// Half is the half of an inning.
type Half string

const (
	HalfTop    Half = "TOP"
	HalfBottom Half = "BOTTOM"
)

func (h Half) Valid() bool {
	return h == HalfTop || h == HalfBottom
}

// Status is the overall game status.
type Status string

const (
	StatusPreGame    Status = "PRE_GAME"
	StatusInProgress Status = "IN_PROGRESS"
	StatusPaused     Status = "PAUSED"
	StatusFinal      Status = "FINAL"
	StatusSuspended  Status = "SUSPENDED"
)

// Base is a base key as it appears on the wire. BaseHome is only valid as
// an origin (the batter) or as a place where an out is recorded.
type Base string

const (
	BaseHome Base = "HOME"
	Base1B   Base = "1B"
	Base2B   Base = "2B"
	Base3B   Base = "3B"
)

// OccupiableBases lists the bases a runner can stand on, in running order.
var OccupiableBases = []Base{Base1B, Base2B, Base3B}

// Occupiable reports whether a runner can stand on b.
func (b Base) Occupiable() bool {
	return b == Base1B || b == Base2B || b == Base3B
}

// Valid reports whether b is one of the four wire base keys.
func (b Base) Valid() bool {
	return b == BaseHome || b.Occupiable()
}

// Final is the resting place of a participant after a play.
type Final string

const (
	FinalStays Final = "STAYS"
	Final1B    Final = "1B"
	Final2B    Final = "2B"
	Final3B    Final = "3B"
	FinalHome  Final = "HOME"
	FinalOut   Final = "OUT"
)

func (f Final) Valid() bool {
	switch f {
	case FinalStays, Final1B, Final2B, Final3B, FinalHome, FinalOut:
		return true
	}
	return false
}

// Resolve maps f to the base the participant ends on. STAYS resolves to
// from. ok is false for HOME and OUT, which leave no one on base.
func (f Final) Resolve(from Base) (Base, bool) {
	switch f {
	case FinalStays:
		return from, from.Occupiable()
	case Final1B, Final2B, Final3B:
		return Base(f), true
	}
	return "", false
}

// Position is a defensive position.
type Position string

const (
	PosP  Position = "P"
	PosC  Position = "C"
	Pos1B Position = "1B"
	Pos2B Position = "2B"
	Pos3B Position = "3B"
	PosSS Position = "SS"
	PosLF Position = "LF"
	PosCF Position = "CF"
	PosRF Position = "RF"
	PosDH Position = "DH"
)

// FieldPositions are the nine positions a defense must fill.
var FieldPositions = []Position{PosP, PosC, Pos1B, Pos2B, Pos3B, PosSS, PosLF, PosCF, PosRF}

// Positions is FieldPositions plus DH.
var Positions = append(append([]Position(nil), FieldPositions...), PosDH)

func (p Position) Valid() bool {
	for _, q := range Positions {
		if p == q {
			return true
		}
	}
	return false
}

// SubType records how an occupant entered a lineup slot.
type SubType string

const (
	SubNone        SubType = "NONE"
	SubSub         SubType = "SUB"
	SubPinchHitter SubType = "PH"
	SubPinchRunner SubType = "PR"
)

// Role of a lineup occupant.
type Role string

const (
	RoleStarter Role = "STARTER"
	RoleSub     Role = "SUB"
	RolePitcher Role = "PITCHER"
)

// BySide holds one value per team side.
type BySide[T any] struct {
	Home T `json:"HOME"`
	Away T `json:"AWAY"`
}

// Of returns a pointer to the value for s.
func (b *BySide[T]) Of(s Side) *T {
	if s == SideHome {
		return &b.Home
	}
	return &b.Away
}

// Get returns the value for s.
func (b BySide[T]) Get(s Side) T {
	if s == SideHome {
		return b.Home
	}
	return b.Away
}
