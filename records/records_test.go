package records_test

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"testing"
	"treningsboten/records"
	"treningsboten/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyTallyRoundTripWithWinner(t *testing.T) {
	tally := &records.DailyTally{
		Reps:   map[string]int{"U1": 10, "U2": 15},
		Winner: map[string]int{"U2": 15},
	}

	data, err := json.Marshal(tally)
	require.NoError(t, err)

	// the wire form is flat, with the winner under its reserved key
	var flat map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &flat))
	assert.Contains(t, flat, "U1")
	assert.Contains(t, flat, "winner")

	read := new(records.DailyTally)
	require.NoError(t, json.Unmarshal(data, read))
	assert.Equal(t, tally.Reps, read.Reps)
	assert.Equal(t, tally.Winner, read.Winner)
}

func TestDailyTallyRoundTripWithoutWinner(t *testing.T) {
	tally := &records.DailyTally{Reps: map[string]int{"U1": 42}}

	data, err := json.Marshal(tally)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "winner")

	read := new(records.DailyTally)
	require.NoError(t, json.Unmarshal(data, read))
	assert.Equal(t, map[string]int{"U1": 42}, read.Reps)
	assert.Nil(t, read.Winner)
}

func TestDailyTallyRejectsNonIntegerReps(t *testing.T) {
	read := new(records.DailyTally)
	err := json.Unmarshal([]byte(`{"U1": "ten"}`), read)
	assert.Error(t, err)
}

func newTestRepository(t *testing.T) (r *records.Repository, cleanup func()) {
	dir, err := ioutil.TempDir("", "tmpTest")
	require.NoError(t, err)

	fs, err := store.NewJSONFileStore(dir)
	require.NoError(t, err)

	return records.NewRepository(fs), func() { os.RemoveAll(dir) }
}

func TestActiveChannelsAddRemove(t *testing.T) {
	r, cleanup := newTestRepository(t)
	defer cleanup()

	channels, err := r.ActiveChannels()
	require.NoError(t, err)
	assert.Empty(t, channels)

	require.NoError(t, r.AddActiveChannel("C1"))
	require.NoError(t, r.AddActiveChannel("C2"))
	require.NoError(t, r.AddActiveChannel("C1")) // no duplicate

	channels, err = r.ActiveChannels()
	require.NoError(t, err)
	assert.Equal(t, []string{"C1", "C2"}, channels)

	require.NoError(t, r.RemoveActiveChannel("C1"))
	require.NoError(t, r.RemoveActiveChannel("CUNKNOWN"))

	channels, err = r.ActiveChannels()
	require.NoError(t, err)
	assert.Equal(t, []string{"C2"}, channels)
}

func TestThreadIndexRecordAndResolve(t *testing.T) {
	r, cleanup := newTestRepository(t)
	defer cleanup()

	require.NoError(t, r.EnsureThreadIndex("C1"))
	require.NoError(t, r.RecordThread("C1", "2024-06-03", "1717401600.000200"))

	date, ok, err := r.DateForThread("C1", "1717401600.000200")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2024-06-03", date)

	_, ok, err = r.DateForThread("C1", "9999999999.000000")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAddRepsAccumulates(t *testing.T) {
	r, cleanup := newTestRepository(t)
	defer cleanup()

	require.NoError(t, r.AddReps("C1", "2024-06-03", "U1", 10))
	require.NoError(t, r.AddReps("C1", "2024-06-03", "U1", 5))
	require.NoError(t, r.AddReps("C1", "2024-06-03", "U2", 15))

	record, err := r.Insights("C1")
	require.NoError(t, err)
	require.Contains(t, record, "2024-06-03")
	assert.Equal(t, 15, record["2024-06-03"].Reps["U1"])
	assert.Equal(t, 15, record["2024-06-03"].Reps["U2"])
}

func TestInsightsRoundTripPreservesIntegers(t *testing.T) {
	r, cleanup := newTestRepository(t)
	defer cleanup()

	record := records.InsightsRecord{
		"2024-06-03": {Reps: map[string]int{"U1": 10, "U2": 15}, Winner: map[string]int{"U2": 15}},
		"2024-06-04": {Reps: map[string]int{"U1": 3}},
	}

	require.NoError(t, r.PutInsights("C1", record))

	read, err := r.Insights("C1")
	require.NoError(t, err)
	assert.Equal(t, record, read)
}

func TestUserInfoRoundTrip(t *testing.T) {
	r, cleanup := newTestRepository(t)
	defer cleanup()

	cache, err := r.UserInfo("C1")
	require.NoError(t, err)
	assert.Empty(t, cache)

	cache = records.UserInfoCache{
		"U1": {Name: "Kari Nordmann", DisplayName: "kari", Images: records.ProfileImages{Image48: "https://example.com/48.png"}},
	}
	require.NoError(t, r.PutUserInfo("C1", cache))

	read, err := r.UserInfo("C1")
	require.NoError(t, err)
	assert.Equal(t, cache, read)
}
