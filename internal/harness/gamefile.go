package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/scorebook/internal/game"
	"github.com/roach88/scorebook/internal/testutil"
)

// GameFile is a game definition and its event log. Events use the wire
// field names (eventId, name, payload, createdIso, createdBy); missing
// ids are numbered "e-N" by log position and missing timestamps come from
// a deterministic clock. JSON files load too.
type GameFile struct {
	GameID    string           `yaml:"game_id,omitempty"`
	StartTime string           `yaml:"start_time,omitempty"`
	CreatedBy string           `yaml:"created_by,omitempty"`
	Home      TeamSpec         `yaml:"home,omitempty"`
	Away      TeamSpec         `yaml:"away,omitempty"`
	Events    []map[string]any `yaml:"events"`
}

// TeamSpec names a team and its roster. An empty roster means the twelve
// fixture players of that side (a1..a12, h1..h12).
type TeamSpec struct {
	TeamID string   `yaml:"team_id,omitempty"`
	Roster []string `yaml:"roster,omitempty"`
}

// LoadGameFile reads a YAML or JSON game file.
func LoadGameFile(path string) (*GameFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read game file: %w", err)
	}
	var g GameFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&g); err != nil {
		return nil, fmt.Errorf("failed to parse game file: %w", err)
	}
	return &g, nil
}

// ID returns the game id, defaulting to the fixture id.
func (g *GameFile) ID() string {
	if g.GameID == "" {
		return testutil.GameID
	}
	return g.GameID
}

// Initial builds the PRE_GAME state for rules.
func (g *GameFile) Initial(rules game.Rules) (*game.State, error) {
	start := g.StartTime
	if start == "" {
		start = testutil.Epoch.Format(time.RFC3339)
	}
	return game.NewState(game.NewGameParams{
		GameID:       g.ID(),
		StartTimeISO: start,
		CreatedBy:    or(g.CreatedBy, "scorer"),
		HomeTeamID:   or(g.Home.TeamID, "home"),
		AwayTeamID:   or(g.Away.TeamID, "away"),
		HomeRoster:   rosterOr(g.Home.Roster, game.SideHome),
		AwayRoster:   rosterOr(g.Away.Roster, game.SideAway),
	}, rules)
}

// Log decodes the events. offset is the number of events already in the
// log ahead of them and shifts the generated ids and timestamps.
func (g *GameFile) Log(offset int) ([]game.Event, error) {
	clock := testutil.NewDeterministicClock()
	for range offset {
		clock.Next()
	}

	records := make([]map[string]any, len(g.Events))
	for i, raw := range g.Events {
		rec := make(map[string]any, len(raw)+4)
		for k, v := range raw {
			rec[k] = v
		}
		iso := clock.NextISO()
		setDefault(rec, "eventId", fmt.Sprintf("e-%d", offset+i+1))
		setDefault(rec, "gameId", g.ID())
		setDefault(rec, "createdIso", iso)
		setDefault(rec, "createdBy", or(g.CreatedBy, "scorer"))
		records[i] = rec
	}

	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("game events: %w", err)
	}
	events, err := game.DecodeEvents(data)
	if err != nil {
		return nil, fmt.Errorf("game events: %w", err)
	}
	return events, nil
}

// DecodePayload converts a YAML payload map into the payload type of name.
func DecodePayload(name game.Name, payload map[string]any) (game.Payload, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return game.DecodePayload(name, raw)
}

func setDefault(m map[string]any, key string, v any) {
	if _, ok := m[key]; !ok {
		m[key] = v
	}
}

func or(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func rosterOr(roster []string, side game.Side) []string {
	if len(roster) == 0 {
		return testutil.Roster(side)
	}
	return roster
}
