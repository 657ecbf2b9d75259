package engine

import (
	"regexp"
	"strconv"

	"github.com/roach88/scorebook/internal/game"
	"github.com/roach88/scorebook/internal/stats"
)

func clamp(n, lo, hi int) int {
	return max(lo, min(hi, n))
}

// normalizeCount keeps the count one short of either terminal threshold.
func normalizeCount(s *game.State, r game.Rules) {
	s.Inning.Count.Balls = clamp(s.Inning.Count.Balls, 0, max(0, r.BallsForWalk-1))
	s.Inning.Count.Strikes = clamp(s.Inning.Count.Strikes, 0, max(0, r.StrikesForOut-1))
}

func resetCount(s *game.State, r game.Rules) {
	s.Inning.Count = game.Count{Balls: r.StartingBalls, Strikes: r.StartingStrikes}
	s.PA.PitchCount = 0
}

func currentPitcher(s *game.State) string {
	return s.Teams.Get(s.Defense).OnField.Defense[game.PosP]
}

// ensureLinescore grows both linescores to cover inning.
func ensureLinescore(s *game.State, inning int) {
	for _, side := range []game.Side{game.SideAway, game.SideHome} {
		ls := s.Linescore.Of(side)
		for len(ls.RunsByInning) < inning {
			ls.RunsByInning = append(ls.RunsByInning, 0)
		}
	}
}

// recordRun adds n runs to side's score and to the current inning of its
// linescore. The two always move together.
func recordRun(s *game.State, side game.Side, n int) {
	if n <= 0 {
		return
	}
	s.Team(side).Score.Runs += n
	ensureLinescore(s, s.Inning.Number)
	s.Linescore.Of(side).RunsByInning[s.Inning.Number-1] += n
}

func isTie(s *game.State) bool {
	return s.Teams.Home.Score.Runs == s.Teams.Away.Score.Runs
}

func homeLeads(s *game.State) bool {
	return s.Teams.Home.Score.Runs > s.Teams.Away.Score.Runs
}

// walkOff reports whether the home team has taken the lead in the bottom
// half of the last scheduled inning or later.
func walkOff(s *game.State, r game.Rules) bool {
	return s.Inning.Half == game.HalfBottom && s.Inning.Number >= r.Innings && homeLeads(s)
}

func endGameOnWalkOff(s *game.State, r game.Rules) {
	if s.Status != game.StatusFinal && walkOff(s, r) {
		s.Status = game.StatusFinal
	}
}

var atBatSeq = regexp.MustCompile(`^(.*?)(\d+)$`)

// nextAtBatID increments the trailing number of id ("ab_7" -> "ab_8").
// Identifiers without one are returned unchanged.
func nextAtBatID(id string) string {
	m := atBatSeq.FindStringSubmatch(id)
	if m == nil {
		return id
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return id
	}
	return m[1] + strconv.Itoa(n+1)
}

// resolveBatter points the plate appearance at the offense's lineup,
// starting from NextBatterIndex and skipping slots with no active
// occupant. The scan is bounded by the lineup length.
func resolveBatter(s *game.State) {
	lineup := &s.Team(s.Offense).Lineup
	n := len(lineup.Slots)
	s.PA.Batter.Side = s.Offense
	if n == 0 {
		s.PA.Batter.Slot = 0
		s.PA.Batter.PlayerID = ""
		return
	}

	lineup.NextBatterIndex = ((lineup.NextBatterIndex % n) + n) % n
	for skipped := 0; skipped < n; skipped++ {
		slot := lineup.Slots[lineup.NextBatterIndex]
		if occ, ok := slot.Active(); ok && occ.PlayerID != "" {
			s.PA.Batter.Slot = slot.Slot
			s.PA.Batter.PlayerID = occ.PlayerID
			return
		}
		lineup.NextBatterIndex = (lineup.NextBatterIndex + 1) % n
	}
	s.PA.Batter.Slot = lineup.Slots[lineup.NextBatterIndex].Slot
	s.PA.Batter.PlayerID = ""
}

// startNextPlateAppearance rotates the batting order to the next occupied
// slot, increments the at-bat id and refreshes the pitcher and count.
func startNextPlateAppearance(s *game.State, r game.Rules) {
	lineup := &s.Team(s.Offense).Lineup
	if n := len(lineup.Slots); n > 0 {
		lineup.NextBatterIndex = (lineup.NextBatterIndex + 1) % n
		resolveBatter(s)
		s.PA.AtBatID = nextAtBatID(s.PA.AtBatID)
	}
	s.PA.PitcherID = currentPitcher(s)
	resetCount(s, r)
}

// advanceHalfInning ends the half inning once outs reach the limit. Runners
// still on base are left on base and credited to the batting team in d.
// It then either ends the game or flips to the next half inning.
func advanceHalfInning(s *game.State, r game.Rules, d *stats.Delta) {
	if s.Inning.Outs < r.OutsPerInning || s.Status == game.StatusFinal {
		return
	}

	if lob := s.Bases.Occupied(); lob > 0 {
		d.AddTeam(s.Offense, stats.BatLOB, lob)
		s.Team(s.Offense).Score.LOB += lob
	}

	s.Bases = game.Bases{}
	s.Inning.Outs = 0
	s.Inning.PlacedRunnerID = ""
	resetCount(s, r)

	if s.Inning.Half == game.HalfTop {
		if s.Inning.Number >= r.Innings && homeLeads(s) {
			s.Status = game.StatusFinal
			return
		}
		s.Inning.Half = game.HalfBottom
		s.Offense, s.Defense = game.SideHome, game.SideAway
	} else {
		if s.Inning.Number >= r.Innings && (!isTie(s) || r.AllowTieGames || !r.PlayExtraInnings) {
			s.Status = game.StatusFinal
			return
		}
		s.Inning.Number++
		s.Inning.Half = game.HalfTop
		s.Offense, s.Defense = game.SideAway, game.SideHome
		ensureLinescore(s, s.Inning.Number)
	}

	resolveBatter(s)
	s.PA.PitcherID = currentPitcher(s)
	placeTieBreakerRunner(s, r)
}

// placeTieBreakerRunner puts the tie-breaker runner on base at the start of
// an extra half inning. The runner is the active occupant of the slot
// before the one due up. An occupied target base is left alone.
func placeTieBreakerRunner(s *game.State, r game.Rules) {
	if !r.PlacesTieBreakerRunner(s.Inning.Number) {
		return
	}
	target := game.Base2B
	if r.TieBreaker.RunnerStartsOn == game.Base3B {
		target = game.Base3B
	}
	if s.Bases.At(target) != "" {
		return
	}

	lineup := s.Teams.Get(s.Offense).Lineup
	n := len(lineup.Slots)
	if n == 0 {
		return
	}
	prev := lineup.Slots[(lineup.NextBatterIndex-1+n)%n]
	occ, ok := prev.Active()
	if !ok || occ.PlayerID == "" {
		return
	}
	s.Bases.Set(target, occ.PlayerID)
	s.Inning.PlacedRunnerID = occ.PlayerID
}
