package compose_test

import (
	"math/rand"
	"testing"
	"treningsboten/compose"
	"treningsboten/tally"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func newComposer() *compose.Composer {
	return compose.New(viper.New())
}

func TestDailyPromptWithWinner(t *testing.T) {
	c := newComposer()

	msg := c.DailyPrompt("20 push-ups! :muscle:", &tally.Entry{UserID: "U2", Score: 15})

	assert.Contains(t, msg, "20 push-ups! :muscle:")
	assert.Contains(t, msg, "<@U2>")
	assert.Contains(t, msg, "15 repetisjoner")
}

func TestDailyPromptWithoutWinner(t *testing.T) {
	c := newComposer()

	msg := c.DailyPrompt("20 push-ups! :muscle:", nil)

	assert.Contains(t, msg, "20 push-ups! :muscle:")
	assert.NotContains(t, msg, "Gårsdagens vinner")
}

func TestHalfWeekUpdateCallsOutLeader(t *testing.T) {
	c := newComposer()

	msg := c.HalfWeekUpdate([]tally.Entry{
		{UserID: "U2", Score: 15},
		{UserID: "U1", Score: 10},
	})

	assert.Contains(t, msg, "onsdagens halvveis-i-mål")
	assert.Contains(t, msg, "<@U2>: 15 reps :fire:")
	assert.Contains(t, msg, "<@U1>: 10 reps :fire:")
	assert.Contains(t, msg, "Det kan se ut som at <@U2>")
}

func TestFullWeekUpdateDeclaresWinner(t *testing.T) {
	c := newComposer()

	msg := c.FullWeekUpdate([]tally.Entry{
		{UserID: "U1", Score: 40},
		{UserID: "U2", Score: 12},
	})

	assert.Contains(t, msg, "Fredagens ukeoppdatering")
	assert.Contains(t, msg, "vinneren for denne uka")
	assert.Contains(t, msg, "<@U1> med 40 repetisjoner")
}

func TestMonthlySummaryMedalsTopThree(t *testing.T) {
	c := newComposer()

	msg := c.MonthlySummary([]tally.Entry{
		{UserID: "U1", Score: 300},
		{UserID: "U2", Score: 200},
		{UserID: "U3", Score: 100},
	})

	assert.Contains(t, msg, "🥇 <@U1> med 300 repetisjoner")
	assert.Contains(t, msg, "🥈 <@U2> med 200 repetisjoner")
	assert.Contains(t, msg, "🥉 <@U3> med 100 repetisjoner")
}

func TestNoonSnapshotFallsBackWhenEmpty(t *testing.T) {
	c := newComposer()

	msg := c.NoonSnapshot([]tally.Entry{})

	assert.Contains(t, msg, "Ingen har registrert repetisjoner")
}

func TestLateReplyNotice(t *testing.T) {
	c := newComposer()

	msg := c.LateReplyNotice("U1", "2024-06-03")

	assert.Contains(t, msg, "<@U1>")
	assert.Contains(t, msg, "2024-06-03")
}

func TestTemplateOverrideViaConfig(t *testing.T) {
	v := viper.New()
	v.Set("messages."+compose.ScenarioNoonEmpty, "custom fallback")
	c := compose.New(v)

	assert.Equal(t, "custom fallback", c.NoonSnapshot(nil))
}

func TestRandomExercisePicksFromConfiguredList(t *testing.T) {
	v := viper.New()
	v.Set("exercises", []string{"only one"})
	c := compose.New(v)

	rng := rand.New(rand.NewSource(1))
	assert.Equal(t, "only one", c.RandomExercise(rng))
}

func TestRandomExerciseDefaultsToBuiltInList(t *testing.T) {
	c := newComposer()

	rng := rand.New(rand.NewSource(1))
	assert.NotEmpty(t, c.RandomExercise(rng))
}
