package tally_test

import (
	"testing"
	"treningsboten/records"
	"treningsboten/tally"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWinnerWritesWinnerEntry(t *testing.T) {
	record := records.InsightsRecord{
		"2024-06-03": {Reps: map[string]int{"U1": 10, "U2": 15}},
	}

	resolved := tally.ResolveWinner(record, "2024-06-03")

	require.True(t, resolved)
	assert.Equal(t, map[string]int{"U1": 10, "U2": 15}, record["2024-06-03"].Reps)
	assert.Equal(t, map[string]int{"U2": 15}, record["2024-06-03"].Winner)
}

func TestResolveWinnerIsIdempotent(t *testing.T) {
	record := records.InsightsRecord{
		"2024-06-03": {Reps: map[string]int{"U1": 10, "U2": 15}},
	}

	require.True(t, tally.ResolveWinner(record, "2024-06-03"))
	first := record["2024-06-03"].Winner

	require.True(t, tally.ResolveWinner(record, "2024-06-03"))
	assert.Equal(t, first, record["2024-06-03"].Winner)
}

func TestResolveWinnerAbsentOrEmptyDateLeavesRecordUnchanged(t *testing.T) {
	record := records.InsightsRecord{
		"2024-06-03": {Reps: map[string]int{}},
	}

	assert.False(t, tally.ResolveWinner(record, "2024-06-03"))
	assert.Nil(t, record["2024-06-03"].Winner)

	assert.False(t, tally.ResolveWinner(record, "2024-06-04"))
	assert.NotContains(t, record, "2024-06-04")
}

func TestResolveWinnerTieGoesToSmallestUserID(t *testing.T) {
	record := records.InsightsRecord{
		"2024-06-03": {Reps: map[string]int{"U9": 15, "U2": 15}},
	}

	require.True(t, tally.ResolveWinner(record, "2024-06-03"))
	assert.Equal(t, map[string]int{"U2": 15}, record["2024-06-03"].Winner)
}

func TestResolveWinnerAllZeroCountsDeclaresNoWinner(t *testing.T) {
	record := records.InsightsRecord{
		"2024-06-03": {Reps: map[string]int{"U1": 0, "U2": 0}},
	}

	assert.False(t, tally.ResolveWinner(record, "2024-06-03"))
	assert.Nil(t, record["2024-06-03"].Winner)
}
