package model

// GameMode partitions leaderboard comparisons.
type GameMode string

const (
	GameModeWalls       GameMode = "walls"
	GameModePassThrough GameMode = "pass-through"
)

// Valid reports whether m is a known game mode.
func (m GameMode) Valid() bool {
	return m == GameModeWalls || m == GameModePassThrough
}

// ParseGameMode converts a query value into an optional mode filter.
// An empty string means no filter.
func ParseGameMode(s string) (*GameMode, bool) {
	if s == "" {
		return nil, true
	}
	m := GameMode(s)
	if !m.Valid() {
		return nil, false
	}
	return &m, true
}
