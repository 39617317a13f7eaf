// Package tally is the aggregation engine: pure functions turning a channel's
// insights record and cached user profiles into ranked leaderboards. Nothing
// here touches storage or slack.
package tally

import (
	"sort"
	"time"
	"treningsboten/dates"
	"treningsboten/records"
)

// topCount caps the monthly and all-time leaderboards
const topCount = 3

// Entry is one leaderboard line: a user's score joined with their cached
// profile (a placeholder profile when the cache has no entry)
type Entry struct {
	UserID string `json:"userId"`
	Score  int    `json:"score"`
	records.Profile
}

// SummarizeToday returns today's leaderboard, descending by score. An absent
// date yields an empty slice, never an error. The winner entry is not a user
// and is excluded
func SummarizeToday(record records.InsightsRecord, users records.UserInfoCache, today string) (entries []Entry) {
	tally, ok := record[today]
	if !ok {
		return []Entry{}
	}

	return rank(tally.Reps, users, 0)
}

// ThisWeeksScore returns the running totals for the ISO week of today, summing
// every date from the week's Monday through today inclusive. Dates outside
// that window are excluded even when present in the record
func ThisWeeksScore(record records.InsightsRecord, users records.UserInfoCache, today time.Time) (entries []Entry) {
	totals := map[string]int{}

	for day := dates.StartOfISOWeek(today); !day.After(today); day = day.AddDate(0, 0, 1) {
		tally, ok := record[day.Format(dates.ISODate)]
		if !ok {
			continue
		}

		for userID, reps := range tally.Reps {
			totals[userID] += reps
		}
	}

	return rank(totals, users, 0)
}

// SummarizeMonthly groups all dates by their YYYY-MM prefix and returns each
// month's top performers (at most 3), descending by monthly total
func SummarizeMonthly(record records.InsightsRecord, users records.UserInfoCache) (months map[string][]Entry) {
	totalsByMonth := map[string]map[string]int{}

	for date, tally := range record {
		month := dates.MonthOf(date)
		totals, ok := totalsByMonth[month]
		if !ok {
			totals = map[string]int{}
			totalsByMonth[month] = totals
		}

		for userID, reps := range tally.Reps {
			totals[userID] += reps
		}
	}

	months = make(map[string][]Entry, len(totalsByMonth))
	for month, totals := range totalsByMonth {
		months[month] = rank(totals, users, topCount)
	}

	return months
}

// TopPerformers returns the top 3 users by all-time total, descending. Fewer
// than 3 distinct users yields exactly that many entries
func TopPerformers(record records.InsightsRecord, users records.UserInfoCache) (entries []Entry) {
	totals := map[string]int{}

	for _, tally := range record {
		for userID, reps := range tally.Reps {
			totals[userID] += reps
		}
	}

	return rank(totals, users, topCount)
}

// YesterdaysWinner returns the resolved winner of the date preceding today.
// ok is false when that date or its winner entry is absent
func YesterdaysWinner(record records.InsightsRecord, users records.UserInfoCache, today time.Time) (winner Entry, ok bool) {
	yesterday := today.AddDate(0, 0, -1).Format(dates.ISODate)

	tally, found := record[yesterday]
	if !found || len(tally.Winner) == 0 {
		return Entry{}, false
	}

	for userID, score := range tally.Winner {
		return join(userID, score, users), true
	}

	return Entry{}, false
}

// rank turns a user-to-score map into a leaderboard: descending by score with
// ascending user id as the explicit tie-break so identical input always yields
// identical output ordering. A positive limit truncates the result
func rank(totals map[string]int, users records.UserInfoCache, limit int) (entries []Entry) {
	entries = make([]Entry, 0, len(totals))
	for _, userID := range sortedUserIDs(totals) {
		entries = append(entries, join(userID, totals[userID], users))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	return entries
}

func sortedUserIDs(totals map[string]int) (userIDs []string) {
	userIDs = make([]string, 0, len(totals))
	for userID := range totals {
		userIDs = append(userIDs, userID)
	}

	sort.Strings(userIDs)
	return userIDs
}

func join(userID string, score int, users records.UserInfoCache) (e Entry) {
	profile, ok := users[userID]
	if !ok {
		profile = records.PlaceholderProfile()
	}

	return Entry{UserID: userID, Score: score, Profile: profile}
}
