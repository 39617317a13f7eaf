// Package compose renders aggregation results into the announcement texts the
// bot posts. Every scenario has a default template (the texts of the original
// Treningsboten) that can be overridden via configuration; placeholders like
// {user}, {score} and {date} are substituted at render time.
package compose

import (
	"fmt"
	"math/rand"
	"strings"
	"treningsboten/tally"

	"github.com/spf13/viper"
)

// Scenario names, used as template configuration keys under "messages"
const (
	ScenarioBotWelcome    = "botWelcome"
	ScenarioMemberWelcome = "memberWelcome"
	ScenarioDailyPrompt   = "dailyPrompt"
	ScenarioWinnerLine    = "winnerLine"
	ScenarioHalfWeek      = "halfWeek"
	ScenarioHalfWeekLead  = "halfWeekLead"
	ScenarioFullWeek      = "fullWeek"
	ScenarioFullWeekWin   = "fullWeekWin"
	ScenarioMonthly       = "monthly"
	ScenarioMonthlyOutro  = "monthlyOutro"
	ScenarioNoon          = "noon"
	ScenarioNoonEmpty     = "noonEmpty"
	ScenarioLateReply     = "lateReply"
	ScenarioStatsLine     = "statsLine"
)

const messagesKeyPrefix = "messages."

var defaultTemplates = map[string]string{
	ScenarioBotWelcome: "Hei! Jeg heter *Treningsboten*! :tada:\nHer kan du forvente daglige treningsøvelser som skal gjennomføres. \n" +
		"For hver post, skal det svares i tråden :thread: hvor mange repetisjoner du klarte.\n" +
		"Det vil komme en oppsummering i løpet av uka, kanskje også underveis i uka om noen står skikkelig på.",
	ScenarioMemberWelcome: "Hei! Velkommen til *Treningsboten*! :tada:\nHer kan du forvente daglige treningsøvelser som skal gjennomføres. \n" +
		"For hver post, skal det svares i tråden :thread: hvor mange repetisjoner du klarte.\n" +
		"Det vil komme en oppsummering i løpet av uka, kanskje også underveis i uka om noen står skikkelig på.",
	ScenarioDailyPrompt: "Dagens øvelse :muscle:\n\n{exercise}\n\nSvar i tråden :thread: med antall repetisjoner du klarte!",
	ScenarioWinnerLine:  "\n\nGårsdagens vinner er <@{user}> med {score} repetisjoner! :trophy:",
	ScenarioHalfWeek:    "Hei superhelter 🚀 Her kommer onsdagens halvveis-i-mål oppdatering.\n\nStatistikk for uken (hittil):\n{stats}",
	ScenarioHalfWeekLead: "\nDet kan se ut som at <@{user}> ligger an til å *vinne* denne ukas fitness-trofee:trophy: " +
		"kan noen klare å ta han igjen?:bangbang:\n\nStå på ut uken!💪🏻",
	ScenarioFullWeek: "Hei superhelter 🚀 Fredagens ukeoppdatering er her!\n\nStatistikk for hele uken:\n{stats}",
	ScenarioFullWeekWin: "\nOg vinneren for denne uka er \n\n<@{user}> med {score} repetisjoner! 🎉 \n\n" +
		"Hvem tar utfordringen og overgår dette før helgen? 💪\n\nGod helg og lad opp til nye utfordringer neste uke! 🚀",
	ScenarioMonthly:      "Hei superhelter 🚀 Månedens oppsummering er her!\n\n🏆 *Månedens topp 3* 🏆\n\n{stats}",
	ScenarioMonthlyOutro: "\nFantastisk innsats alle sammen! La oss gjøre neste måned enda bedre! 🚀🎉",
	ScenarioNoon:         "Status så langt i dag :muscle:\n{stats}\nFortsett sånn! 🚀",
	ScenarioNoonEmpty:    "Ingen har registrert repetisjoner ennå i dag. På tide å komme i gang! 💪",
	ScenarioLateReply: "Hei <@{user}>! Denne tråden gjelder {date}, så svaret ditt teller dessverre ikke lenger. " +
		"Følg med på dagens øvelse! :hourglass:",
	ScenarioStatsLine: "<@{user}>: {score} reps :fire:\n",
}

var medals = []string{"🥇", "🥈", "🥉"}

// Composer renders announcement messages from the configured templates
type Composer struct {
	config *viper.Viper
}

// New creates a Composer, layering the default templates under any
// per-scenario overrides already set on the configuration
func New(v *viper.Viper) (c *Composer) {
	for scenario, template := range defaultTemplates {
		v.SetDefault(messagesKeyPrefix+scenario, template)
	}

	return &Composer{config: v}
}

func (c *Composer) template(scenario string) (t string) {
	return c.config.GetString(messagesKeyPrefix + scenario)
}

// BotWelcome is posted when the bot itself joins a channel
func (c *Composer) BotWelcome() (msg string) {
	return c.template(ScenarioBotWelcome)
}

// MemberWelcome is posted when another member joins a tracked channel
func (c *Composer) MemberWelcome() (msg string) {
	return c.template(ScenarioMemberWelcome)
}

// DailyPrompt renders the daily exercise prompt, appending yesterday's winner
// line when a winner was resolved
func (c *Composer) DailyPrompt(exercise string, winner *tally.Entry) (msg string) {
	msg = strings.NewReplacer("{exercise}", exercise).Replace(c.template(ScenarioDailyPrompt))

	if winner != nil {
		msg += replaceEntry(c.template(ScenarioWinnerLine), *winner)
	}

	return msg
}

// HalfWeekUpdate renders the Wednesday mid-week standings with a callout of
// the current leader
func (c *Composer) HalfWeekUpdate(entries []tally.Entry) (msg string) {
	if len(entries) == 0 {
		return strings.NewReplacer("{stats}", c.template(ScenarioNoonEmpty)+"\n").Replace(c.template(ScenarioHalfWeek))
	}

	msg = strings.NewReplacer("{stats}", c.statsLines(entries)).Replace(c.template(ScenarioHalfWeek))
	msg += replaceEntry(c.template(ScenarioHalfWeekLead), entries[0])

	return msg
}

// FullWeekUpdate renders the Friday standings and declares the weekly winner
func (c *Composer) FullWeekUpdate(entries []tally.Entry) (msg string) {
	if len(entries) == 0 {
		return strings.NewReplacer("{stats}", c.template(ScenarioNoonEmpty)+"\n").Replace(c.template(ScenarioFullWeek))
	}

	msg = strings.NewReplacer("{stats}", c.statsLines(entries)).Replace(c.template(ScenarioFullWeek))
	msg += replaceEntry(c.template(ScenarioFullWeekWin), entries[0])

	return msg
}

// MonthlySummary renders the medal-ranked monthly top 3
func (c *Composer) MonthlySummary(entries []tally.Entry) (msg string) {
	var b strings.Builder
	for i, entry := range entries {
		if i >= len(medals) {
			break
		}

		fmt.Fprintf(&b, "%s <@%s> med %d repetisjoner:fire:\n", medals[i], entry.UserID, entry.Score)
	}

	msg = strings.NewReplacer("{stats}", b.String()).Replace(c.template(ScenarioMonthly))
	msg += c.template(ScenarioMonthlyOutro)

	return msg
}

// NoonSnapshot renders the current day's standings, or the no-data fallback
// when nobody has replied yet
func (c *Composer) NoonSnapshot(entries []tally.Entry) (msg string) {
	if len(entries) == 0 {
		return c.template(ScenarioNoonEmpty)
	}

	return strings.NewReplacer("{stats}", c.statsLines(entries)).Replace(c.template(ScenarioNoon))
}

// LateReplyNotice renders the in-thread notice sent when a reply arrives on a
// later day than its thread's date
func (c *Composer) LateReplyNotice(userID string, date string) (msg string) {
	return strings.NewReplacer("{user}", userID, "{date}", date).Replace(c.template(ScenarioLateReply))
}

func (c *Composer) statsLines(entries []tally.Entry) (lines string) {
	var b strings.Builder
	for _, entry := range entries {
		b.WriteString(replaceEntry(c.template(ScenarioStatsLine), entry))
	}

	return b.String()
}

func replaceEntry(template string, entry tally.Entry) (msg string) {
	return strings.NewReplacer("{user}", entry.UserID, "{score}", fmt.Sprintf("%d", entry.Score)).Replace(template)
}

// RandomExercise picks the day's exercise from the configured list (the
// built-in list when none is configured)
func (c *Composer) RandomExercise(rng *rand.Rand) (exercise string) {
	exercises := c.config.GetStringSlice(exercisesKey)
	if len(exercises) == 0 {
		exercises = defaultExercises
	}

	return exercises[rng.Intn(len(exercises))]
}
