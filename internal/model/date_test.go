package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	d := NewDate(time.Date(2024, 1, 15, 23, 59, 0, 0, time.UTC))

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-01-15"`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.Equal(d.Time))

	assert.Error(t, json.Unmarshal([]byte(`"15/01/2024"`), &back))
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2024-01-13 00:00:00+00:00"))
	assert.Equal(t, "2024-01-13", d.String())

	require.NoError(t, d.Scan([]byte("2024-01-14")))
	assert.Equal(t, "2024-01-14", d.String())

	require.NoError(t, d.Scan(time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-01-15", d.String())

	assert.Error(t, d.Scan(42))
}

func TestParseGameMode(t *testing.T) {
	m, ok := ParseGameMode("")
	assert.True(t, ok)
	assert.Nil(t, m)

	m, ok = ParseGameMode("pass-through")
	assert.True(t, ok)
	if assert.NotNil(t, m) {
		assert.Equal(t, GameModePassThrough, *m)
	}

	_, ok = ParseGameMode("portal")
	assert.False(t, ok)
}
