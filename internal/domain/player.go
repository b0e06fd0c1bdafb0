package domain

import (
	"fmt"
	"strconv"
)

// PlayerID is the platform-wide numeric player identifier.
type PlayerID uint64

func (id PlayerID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParsePlayerID parses a decimal player id. Zero is rejected.
func ParsePlayerID(s string) (PlayerID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid player id %q: %w", s, err)
	}
	if v == 0 {
		return 0, fmt.Errorf("invalid player id %q: must be non-zero", s)
	}
	return PlayerID(v), nil
}

// Player is a known player as reported by the host.
type Player struct {
	ID          PlayerID
	DisplayName string
	Language    string
	Connected   bool
}
