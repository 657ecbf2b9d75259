package game

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Unsupported carries the raw payload of an event whose name is not in
// Names. It decodes without error so the validator can reject it.
type Unsupported struct {
	Raw json.RawMessage `json:"-"`
}

func (Unsupported) payload() {}

// MarshalJSON writes the raw payload back out unchanged.
func (u Unsupported) MarshalJSON() ([]byte, error) {
	if len(u.Raw) == 0 {
		return []byte("null"), nil
	}
	return u.Raw, nil
}

// DecodeError reports a payload that does not match its event name.
type DecodeError struct {
	EventID string
	Name    Name
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("event %q (%s): invalid payload: %v", e.EventID, e.Name, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// UnmarshalJSON decodes the wire envelope and selects the payload type
// from the event name.
func (e *Event) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID         string          `json:"eventId"`
		GameID     string          `json:"gameId"`
		Name       Name            `json:"name"`
		Payload    json.RawMessage `json:"payload"`
		CreatedISO string          `json:"createdIso"`
		CreatedBy  string          `json:"createdBy"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p, err := DecodePayload(raw.Name, raw.Payload)
	if err != nil {
		return &DecodeError{EventID: raw.ID, Name: raw.Name, Err: err}
	}
	*e = Event{
		ID:         raw.ID,
		GameID:     raw.GameID,
		Name:       raw.Name,
		Payload:    p,
		CreatedISO: raw.CreatedISO,
		CreatedBy:  raw.CreatedBy,
	}
	return nil
}

// DecodePayload decodes raw into the payload type carried by name.
func DecodePayload(name Name, raw json.RawMessage) (Payload, error) {
	switch name {
	case EventGameStarted, EventGamePaused, EventGameResumed, EventGameFinal:
		return NoPayload{}, nil
	case EventLineupSet:
		return decodeAs[LineupSet](raw)
	case EventDefenseSet:
		return decodeAs[DefenseSet](raw)
	case EventInningAdvance:
		return decodeAs[InningAdvance](raw)
	case EventAtBatStart:
		return decodeAs[AtBatStart](raw)
	case EventPitch:
		return decodeAs[Pitch](raw)
	case EventBallInPlay:
		return decodeAs[BallInPlay](raw)
	case EventWalk, EventIntentionalWalk, EventHitByPitch, EventStrikeout:
		return decodeAs[PlateAward](raw)
	case EventCatcherInterference:
		return decodeAs[CatcherInterference](raw)
	case EventDroppedThirdStrike:
		return decodeAs[DroppedThirdStrike](raw)
	case EventStolenBase, EventDefensiveIndifference:
		return decodeAs[RunnerMove](raw)
	case EventCaughtStealing:
		return decodeAs[CaughtStealing](raw)
	case EventPickoff:
		return decodeAs[Pickoff](raw)
	case EventBalk:
		return decodeAs[Balk](raw)
	case EventWildPitch, EventPassedBall:
		return decodeAs[MisplayedPitch](raw)
	case EventAppealPlay:
		return decodeAs[AppealPlay](raw)
	case EventRunScored:
		return decodeAs[RunScored](raw)
	case EventErrorCharged:
		return decodeAs[ErrorCharged](raw)
	case EventSubstitutionBatter, EventSubstitutionRunner, EventSubstitutionFielder:
		return decodeAs[Substitution](raw)
	case EventPitchingChange:
		return decodeAs[PitchingChange](raw)
	}
	return Unsupported{Raw: append(json.RawMessage(nil), raw...)}, nil
}

func decodeAs[T Payload](raw json.RawMessage) (Payload, error) {
	var p T
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("payload is required")
	}
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil, err
	}
	return p, nil
}

// DecodeEvents decodes a JSON array of events.
func DecodeEvents(data []byte) ([]Event, error) {
	var events []Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, err
	}
	return events, nil
}
