package stats

import "fmt"

// Group is a box-score section.
type Group uint8

const (
	Batting Group = iota
	Running
	Fielding
	Pitching
)

var groupNames = [...]string{"batting", "running", "fielding", "pitching"}

// Groups lists every section in display order.
var Groups = []Group{Batting, Running, Fielding, Pitching}

func (g Group) String() string {
	if int(g) < len(groupNames) {
		return groupNames[g]
	}
	return fmt.Sprintf("group(%d)", g)
}

// ParseGroup maps "batting", "running", "fielding" or "pitching" to a Group.
func ParseGroup(s string) (Group, bool) {
	for i, name := range groupNames {
		if name == s {
			return Group(i), true
		}
	}
	return 0, false
}

// Stat is a single counter. Each Stat belongs to exactly one Group.
type Stat uint8

const (
	BatPA Stat = iota
	BatAB
	BatH
	Bat2B
	Bat3B
	BatHR
	BatHRSolo
	BatHR2Run
	BatHR3Run
	BatHRGrandSlam
	BatR
	BatRBI
	BatBB
	BatIBB
	BatHBP
	BatSO
	BatSF
	BatSH
	BatROE
	BatFC
	BatGIDP
	BatDP
	BatTB
	BatLOB

	RunSB
	RunCS
	RunPO
	RunPOA

	FldPO
	FldA
	FldE
	FldDP
	FldTP
	FldPB
	FldWP

	PitOuts
	PitBF
	PitH
	PitR
	PitER
	PitBB
	PitIBB
	PitHBP
	PitSO
	PitHR
	PitHRSolo
	PitHR2Run
	PitHR3Run
	PitHRGrandSlam
	PitWP
	PitBK
	PitPK
	PitPKA
	PitPitches
	PitStrikes
	PitBalls

	numStats
)

type statInfo struct {
	group Group
	name  string
}

var statTable = [numStats]statInfo{
	BatPA:          {Batting, "PA"},
	BatAB:          {Batting, "AB"},
	BatH:           {Batting, "H"},
	Bat2B:          {Batting, "2B"},
	Bat3B:          {Batting, "3B"},
	BatHR:          {Batting, "HR"},
	BatHRSolo:      {Batting, "HR_SOLO"},
	BatHR2Run:      {Batting, "HR_2RUN"},
	BatHR3Run:      {Batting, "HR_3RUN"},
	BatHRGrandSlam: {Batting, "HR_GRANDSLAM"},
	BatR:           {Batting, "R"},
	BatRBI:         {Batting, "RBI"},
	BatBB:          {Batting, "BB"},
	BatIBB:         {Batting, "IBB"},
	BatHBP:         {Batting, "HBP"},
	BatSO:          {Batting, "SO"},
	BatSF:          {Batting, "SF"},
	BatSH:          {Batting, "SH"},
	BatROE:         {Batting, "ROE"},
	BatFC:          {Batting, "FC"},
	BatGIDP:        {Batting, "GIDP"},
	BatDP:          {Batting, "DP"},
	BatTB:          {Batting, "TB"},
	BatLOB:         {Batting, "LOB"},

	RunSB:  {Running, "SB"},
	RunCS:  {Running, "CS"},
	RunPO:  {Running, "PO"},
	RunPOA: {Running, "POA"},

	FldPO: {Fielding, "PO"},
	FldA:  {Fielding, "A"},
	FldE:  {Fielding, "E"},
	FldDP: {Fielding, "DP"},
	FldTP: {Fielding, "TP"},
	FldPB: {Fielding, "PB"},
	FldWP: {Fielding, "WP"},

	PitOuts:        {Pitching, "OUTS_PITCHED"},
	PitBF:          {Pitching, "BF"},
	PitH:           {Pitching, "H"},
	PitR:           {Pitching, "R"},
	PitER:          {Pitching, "ER"},
	PitBB:          {Pitching, "BB"},
	PitIBB:         {Pitching, "IBB"},
	PitHBP:         {Pitching, "HBP"},
	PitSO:          {Pitching, "SO"},
	PitHR:          {Pitching, "HR"},
	PitHRSolo:      {Pitching, "HR_SOLO"},
	PitHR2Run:      {Pitching, "HR_2RUN"},
	PitHR3Run:      {Pitching, "HR_3RUN"},
	PitHRGrandSlam: {Pitching, "HR_GRANDSLAM"},
	PitWP:          {Pitching, "WP"},
	PitBK:          {Pitching, "BK"},
	PitPK:          {Pitching, "PK"},
	PitPKA:         {Pitching, "PKA"},
	PitPitches:     {Pitching, "PITCHES"},
	PitStrikes:     {Pitching, "STRIKES"},
	PitBalls:       {Pitching, "BALLS"},
}

// Group returns the section s belongs to.
func (s Stat) Group() Group { return statTable[s].group }

// Name returns the counter name within its group, e.g. "H".
func (s Stat) Name() string { return statTable[s].name }

// String returns "group.NAME", e.g. "batting.H".
func (s Stat) String() string {
	if s >= numStats {
		return fmt.Sprintf("stat(%d)", s)
	}
	return s.Group().String() + "." + s.Name()
}

func (s Stat) MarshalText() ([]byte, error) {
	if s >= numStats {
		return nil, fmt.Errorf("unknown stat %d", s)
	}
	return []byte(s.String()), nil
}

func (s *Stat) UnmarshalText(b []byte) error {
	for i := range statTable {
		if Stat(i).String() == string(b) {
			*s = Stat(i)
			return nil
		}
	}
	return fmt.Errorf("unknown stat %q", b)
}

// ParseStat resolves a counter by group and name.
func ParseStat(g Group, name string) (Stat, bool) {
	for i, info := range statTable {
		if info.group == g && info.name == name {
			return Stat(i), true
		}
	}
	return 0, false
}

// GroupStats lists the counters of g in table order.
func GroupStats(g Group) []Stat {
	var out []Stat
	for i, info := range statTable {
		if info.group == g {
			out = append(out, Stat(i))
		}
	}
	return out
}
