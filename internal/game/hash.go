package game

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Hash domains. The version suffix allows the encoding to change without
// colliding with old fingerprints.
const (
	DomainState = "scorebook/state/v1"
	DomainEvent = "scorebook/event/v1"
)

// HashWithDomain computes SHA256(domain + 0x00 + data) as lowercase hex.
func HashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint returns a stable digest of s. Two states with equal
// fingerprints are byte-identical under canonical JSON.
func Fingerprint(s *State) (string, error) {
	canonical, err := MarshalCanonical(s)
	if err != nil {
		return "", fmt.Errorf("Fingerprint: %w", err)
	}
	return HashWithDomain(DomainState, canonical), nil
}

// EventDigest returns a stable digest of an event envelope and payload.
func EventDigest(e Event) (string, error) {
	canonical, err := MarshalCanonical(e)
	if err != nil {
		return "", fmt.Errorf("EventDigest: %w", err)
	}
	return HashWithDomain(DomainEvent, canonical), nil
}
