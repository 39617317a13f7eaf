// Package records defines the documents treningsboten persists (active channel
// list, per-channel thread indexes, daily repetition tallies and cached user
// profiles) and a Repository with typed read/modify/write access to them.
package records

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// WinnerKey is the reserved key holding a date's resolved winner inside its
// tally. It is never a user id and consumers must exclude it when ranking
const WinnerKey = "winner"

// DailyTally holds one date's repetition counts per user, plus the winner
// entry once the date has been resolved
type DailyTally struct {
	Reps   map[string]int
	Winner map[string]int
}

// InsightsRecord maps a YYYY-MM-DD date to its tally for one channel
type InsightsRecord map[string]*DailyTally

// ThreadIndex maps a YYYY-MM-DD date to the slack timestamp of that date's
// prompt thread for one channel
type ThreadIndex struct {
	Threads map[string]string `json:"threads"`
}

// Profile holds the cached display attributes of a slack user
type Profile struct {
	Name        string        `json:"name"`
	DisplayName string        `json:"displayName"`
	Images      ProfileImages `json:"images"`
}

// ProfileImages holds the avatar variants of a slack profile
type ProfileImages struct {
	Image48  string `json:"image_48"`
	Image72  string `json:"image_72"`
	Image192 string `json:"image_192"`
	Image512 string `json:"image_512"`
}

// UserInfoCache maps a user id to their cached profile for one channel
type UserInfoCache map[string]Profile

// PlaceholderProfile is the profile used for users missing from the cache
func PlaceholderProfile() Profile {
	return Profile{Name: "Unknown"}
}

// MarshalJSON flattens the tally to its wire form where user reps and the
// winner entry share one object: {"U1": 10, "winner": {"U2": 15}}
func (t *DailyTally) MarshalJSON() ([]byte, error) {
	flat := make(map[string]interface{}, len(t.Reps)+1)
	for userID, reps := range t.Reps {
		flat[userID] = reps
	}

	if len(t.Winner) > 0 {
		flat[WinnerKey] = t.Winner
	}

	return json.Marshal(flat)
}

// UnmarshalJSON splits the flat wire form back into user reps and the winner
// entry
func (t *DailyTally) UnmarshalJSON(data []byte) (err error) {
	var flat map[string]json.RawMessage
	if err = json.Unmarshal(data, &flat); err != nil {
		return err
	}

	t.Reps = make(map[string]int, len(flat))
	t.Winner = nil

	for key, raw := range flat {
		if key == WinnerKey {
			if err = json.Unmarshal(raw, &t.Winner); err != nil {
				return errors.Wrap(err, "invalid winner entry in tally")
			}

			continue
		}

		var reps int
		if err = json.Unmarshal(raw, &reps); err != nil {
			return errors.Wrapf(err, "invalid repetition count for user [%s]", key)
		}

		t.Reps[key] = reps
	}

	return nil
}
