package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/roach88/scorebook/internal/game"
	"github.com/roach88/scorebook/internal/stats"
)

var (
	battingColumns  = []stats.Stat{stats.BatPA, stats.BatAB, stats.BatH, stats.BatR, stats.BatRBI, stats.BatBB, stats.BatSO}
	pitchingColumns = []stats.Stat{stats.PitBF, stats.PitOuts, stats.PitH, stats.PitR, stats.PitER, stats.PitBB, stats.PitSO, stats.PitPitches}
)

// writeLinescore prints runs by inning followed by R, H, E.
func writeLinescore(w io.Writer, lines game.BySide[[]int], score game.BySide[game.Score]) {
	innings := max(len(lines.Away), len(lines.Home))

	var header strings.Builder
	header.WriteString("      ")
	for i := range innings {
		fmt.Fprintf(&header, "%3d", i+1)
	}
	header.WriteString("    R  H  E")
	fmt.Fprintln(w, header.String())

	for _, side := range []game.Side{game.SideAway, game.SideHome} {
		var row strings.Builder
		fmt.Fprintf(&row, "%-6s", side)
		runs := *lines.Of(side)
		for i := range innings {
			if i < len(runs) {
				fmt.Fprintf(&row, "%3d", runs[i])
			} else {
				row.WriteString("  -")
			}
		}
		sc := *score.Of(side)
		fmt.Fprintf(&row, "  %3d%3d%3d", sc.Runs, sc.Hits, sc.Errors)
		fmt.Fprintln(w, row.String())
	}
}

// writeBoxScore prints a batting line for every player who came to the
// plate and a pitching line for every pitcher who faced a batter.
func writeBoxScore(w io.Writer, st stats.State) {
	ids := make([]string, 0, len(st.Players))
	for id := range st.Players {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	writeSection(w, "Batting", battingColumns, ids, st, stats.BatPA)
	writeSection(w, "Pitching", pitchingColumns, ids, st, stats.PitBF)
}

func writeSection(w io.Writer, title string, columns []stats.Stat, ids []string, st stats.State, gate stats.Stat) {
	var lines []string
	for _, id := range ids {
		c := st.Player(id)
		if c.Get(gate) == 0 {
			continue
		}
		var row strings.Builder
		fmt.Fprintf(&row, "  %-8s", id)
		for _, s := range columns {
			fmt.Fprintf(&row, "%*d", columnWidth(s), c.Get(s))
		}
		lines = append(lines, row.String())
	}
	if len(lines) == 0 {
		return
	}

	var header strings.Builder
	fmt.Fprintf(&header, "%-10s", title)
	for _, s := range columns {
		fmt.Fprintf(&header, "%*s", columnWidth(s), s.Name())
	}
	fmt.Fprintln(w, header.String())
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}

func columnWidth(s stats.Stat) int {
	return max(len(s.Name())+1, 4)
}

func sortedKeys(m map[string]int) []string {
	return slices.Sorted(maps.Keys(m))
}
