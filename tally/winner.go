package tally

import (
	"treningsboten/records"
)

// ResolveWinner finds the user with the greatest repetition count for a date
// and writes it back as the tally's winner entry, replacing any previous one.
// Ties go to the lexicographically smallest user id. Returns false, leaving
// the record untouched, when the date is absent or its tally is empty.
//
// The search only looks at per-user reps, never at an existing winner entry,
// so re-running on an already-resolved date recomputes the same winner
func ResolveWinner(record records.InsightsRecord, date string) (resolved bool) {
	tally, ok := record[date]
	if !ok || len(tally.Reps) == 0 {
		return false
	}

	winnerID := ""
	winnerScore := 0
	for _, userID := range sortedUserIDs(tally.Reps) {
		if score := tally.Reps[userID]; score > winnerScore {
			winnerID = userID
			winnerScore = score
		}
	}

	if winnerID == "" {
		// all zero counts, nothing worth declaring
		return false
	}

	tally.Winner = map[string]int{winnerID: winnerScore}

	return true
}
