package bot

import (
	"time"
	"treningsboten/dates"
	"treningsboten/metrics"
	"treningsboten/records"
	"treningsboten/schedule"
	"treningsboten/tally"

	"github.com/marcsantiago/gocron"
	"github.com/slack-go/slack"
)

// Job pairs a named scheduled action with its schedule
type Job struct {
	Name     string
	Schedule schedule.Definition
	Run      func()
}

// ScheduledJobs returns every recurring job of the bot with its schedule, all
// in the bot's home timezone
func (b *Bot) ScheduledJobs() (jobs []Job) {
	return []Job{
		{Name: "resolveWinners", Schedule: schedule.EveryDayAt("00:05"), Run: b.ResolveYesterdaysWinners},
		{Name: "dailyPrompt", Schedule: schedule.EveryDayAt("10:00"), Run: b.SendDailyPrompts},
		{Name: "noonSnapshot", Schedule: schedule.EveryDayAt("12:00"), Run: b.SendNoonSnapshots},
		{Name: "halfWeekUpdate", Schedule: schedule.EveryWeekdayAt(time.Wednesday, "12:00"), Run: b.SendHalfWeekUpdates},
		{Name: "fullWeekUpdate", Schedule: schedule.EveryWeekdayAt(time.Friday, "12:00"), Run: b.SendFullWeekUpdates},
		{Name: "monthlySummary", Schedule: schedule.EveryDayAt("14:00"), Run: b.SendMonthlySummaries},
		{Name: "reconcileChannels", Schedule: schedule.EveryMinutes(55), Run: b.ReconcileChannels},
		{Name: "refreshUserInfo", Schedule: schedule.EveryDayAt("06:30"), Run: b.RefreshUserInfo},
	}
}

// StartScheduler registers all jobs and runs the scheduler until the process
// terminates. Every invocation is counted and recovered so a panicking job
// can't take the process down
func (b *Bot) StartScheduler() (err error) {
	gocron.ChangeLoc(b.location)
	sc := gocron.NewScheduler()

	for _, job := range b.ScheduledJobs() {
		j, err := schedule.NewJob(sc, job.Schedule)
		if err != nil {
			return err
		}

		b.logger.Info().Str("job", job.Name).Str("schedule", job.Schedule.String()).Msg("scheduling job")
		j.Do(b.guarded(job))
	}

	_, t := sc.NextRun()
	b.logger.Info().Time("firstRun", t).Msg("starting scheduler")

	<-sc.Start()

	return nil
}

func (b *Bot) guarded(job Job) (run func()) {
	return func() {
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error().Interface("panic", r).Str("job", job.Name).Msg("recovered panicking job")
			}
		}()

		metrics.JobRuns.WithLabelValues(job.Name).Inc()
		job.Run()
	}
}

// forEachActiveChannel runs f once per active channel; per-channel errors are
// logged and the remaining channels still get their turn
func (b *Bot) forEachActiveChannel(jobName string, f func(channelID string) error) {
	channels, err := b.repo.ActiveChannels()
	if err != nil {
		b.logger.Error().Err(err).Str("job", jobName).Msg("failed to load active channels")
		return
	}

	if len(channels) == 0 {
		b.logger.Debug().Str("job", jobName).Msg("no active channels")
		return
	}

	for _, channelID := range channels {
		if err := f(channelID); err != nil {
			b.logger.Error().Err(err).Str("job", jobName).Str("channel", channelID).Msg("job failed for channel")
		}
	}
}

// ResolveYesterdaysWinners computes and persists the winner entry of the just
// completed day for every active channel
func (b *Bot) ResolveYesterdaysWinners() {
	yesterday := b.now().AddDate(0, 0, -1).Format(dates.ISODate)

	b.forEachActiveChannel("resolveWinners", func(channelID string) error {
		return b.repo.ResolveWinnerWith(channelID, func(record records.InsightsRecord) bool {
			return tally.ResolveWinner(record, yesterday)
		})
	})
}

// SendDailyPrompts posts the day's exercise, with yesterday's winner when one
// was resolved, and records the new prompt thread. Runs on business days only
func (b *Bot) SendDailyPrompts() {
	today := b.now()
	if !dates.IsBusinessDay(today) {
		return
	}

	exercise := b.composer.RandomExercise(b.rng)

	b.forEachActiveChannel("dailyPrompt", func(channelID string) error {
		record, err := b.repo.Insights(channelID)
		if err != nil {
			return err
		}

		users, err := b.repo.UserInfo(channelID)
		if err != nil {
			return err
		}

		var winner *tally.Entry
		if w, ok := tally.YesterdaysWinner(record, users, today); ok {
			winner = &w
		}

		timestamp, err := b.send(channelID, "dailyPrompt", b.composer.DailyPrompt(exercise, winner))
		if err != nil {
			return err
		}

		return b.repo.RecordThread(channelID, today.Format(dates.ISODate), timestamp)
	})
}

// SendNoonSnapshots posts the current day's standings. Runs on business days
// only
func (b *Bot) SendNoonSnapshots() {
	today := b.now()
	if !dates.IsBusinessDay(today) {
		return
	}

	b.forEachActiveChannel("noonSnapshot", func(channelID string) error {
		entries, err := b.todaysEntries(channelID, today)
		if err != nil {
			return err
		}

		_, err = b.send(channelID, "noonSnapshot", b.composer.NoonSnapshot(entries))
		return err
	})
}

// todaysEntries returns the leaderboard for the given day in a channel
func (b *Bot) todaysEntries(channelID string, today time.Time) (entries []tally.Entry, err error) {
	record, err := b.repo.Insights(channelID)
	if err != nil {
		return nil, err
	}

	users, err := b.repo.UserInfo(channelID)
	if err != nil {
		return nil, err
	}

	return tally.SummarizeToday(record, users, today.Format(dates.ISODate)), nil
}

// SendHalfWeekUpdates posts the Monday-through-Wednesday standings
func (b *Bot) SendHalfWeekUpdates() {
	b.sendWeekUpdates("halfWeekUpdate", b.composer.HalfWeekUpdate)
}

// SendFullWeekUpdates posts the Monday-through-Friday standings with the
// declared weekly winner
func (b *Bot) SendFullWeekUpdates() {
	b.sendWeekUpdates("fullWeekUpdate", b.composer.FullWeekUpdate)
}

func (b *Bot) sendWeekUpdates(jobName string, render func(entries []tally.Entry) string) {
	today := b.now()

	b.forEachActiveChannel(jobName, func(channelID string) error {
		record, err := b.repo.Insights(channelID)
		if err != nil {
			return err
		}

		users, err := b.repo.UserInfo(channelID)
		if err != nil {
			return err
		}

		entries := tally.ThisWeeksScore(record, users, today)

		_, err = b.send(channelID, jobName, render(entries))
		return err
	})
}

// SendMonthlySummaries posts the monthly top 3 on the last business day of the
// month and does nothing on every other day
func (b *Bot) SendMonthlySummaries() {
	today := b.now()
	if !dates.SameDate(today, dates.LastBusinessDayOfMonth(today)) {
		return
	}

	month := today.Format(dates.ISOMonth)

	b.forEachActiveChannel("monthlySummary", func(channelID string) error {
		record, err := b.repo.Insights(channelID)
		if err != nil {
			return err
		}

		users, err := b.repo.UserInfo(channelID)
		if err != nil {
			return err
		}

		entries := tally.SummarizeMonthly(record, users)[month]
		if len(entries) == 0 {
			b.logger.Debug().Str("channel", channelID).Str("month", month).Msg("no data for channel this month")
			return nil
		}

		_, err = b.send(channelID, "monthlySummary", b.composer.MonthlySummary(entries))
		return err
	})
}

// ReconcileChannels removes channels from the active list when the bot is no
// longer a member there
func (b *Bot) ReconcileChannels() {
	member, err := b.memberChannels()
	if err != nil {
		b.logger.Error().Err(err).Msg("failed to list slack channels")
		return
	}

	b.forEachActiveChannel("reconcileChannels", func(channelID string) error {
		if member[channelID] {
			return nil
		}

		b.logger.Info().Str("channel", channelID).Msg("bot no longer a member, removing channel")
		return b.repo.RemoveActiveChannel(channelID)
	})
}

// memberChannels returns the set of channel ids the bot is currently a member
// of, following conversations.list pagination
func (b *Bot) memberChannels() (member map[string]bool, err error) {
	member = map[string]bool{}
	cursor := ""

	for {
		channels, nextCursor, err := b.client.GetConversations(&slack.GetConversationsParameters{
			Types:  []string{"public_channel", "private_channel"},
			Cursor: cursor,
			Limit:  200,
		})
		if err != nil {
			return nil, err
		}

		for _, channel := range channels {
			if channel.IsMember {
				member[channel.ID] = true
			}
		}

		if nextCursor == "" {
			return member, nil
		}

		cursor = nextCursor
	}
}

// RefreshUserInfo re-fetches the profiles of every member of every active
// channel and replaces the cached user info documents wholesale
func (b *Bot) RefreshUserInfo() {
	b.forEachActiveChannel("refreshUserInfo", func(channelID string) error {
		members, err := b.channelMembers(channelID)
		if err != nil {
			return err
		}

		cache := make(records.UserInfoCache, len(members))
		for _, userID := range members {
			profile, err := b.profiles.Get(userID)
			if err != nil {
				b.logger.Warn().Err(err).Str("user", userID).Msg("failed to fetch profile, skipping user")
				continue
			}

			cache[userID] = profile
		}

		return b.repo.PutUserInfo(channelID, cache)
	})
}

// channelMembers returns the user ids in a channel, following pagination
func (b *Bot) channelMembers(channelID string) (members []string, err error) {
	cursor := ""

	for {
		page, nextCursor, err := b.client.GetUsersInConversation(&slack.GetUsersInConversationParameters{
			ChannelID: channelID,
			Cursor:    cursor,
			Limit:     200,
		})
		if err != nil {
			return nil, err
		}

		members = append(members, page...)

		if nextCursor == "" {
			return members, nil
		}

		cursor = nextCursor
	}
}
