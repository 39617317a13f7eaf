package records

import (
	"encoding/json"
	"sync"
	"treningsboten/store"

	"github.com/pkg/errors"
)

// activeChannelsKey is the key of the single document listing active channels
const activeChannelsKey = "activeChannels"

// Repository gives typed access to the bot's documents. Every get-then-put
// sequence runs under a per-channel mutex so concurrent handlers can't lose
// updates to the same document (the store itself is whole-document,
// last-writer-wins)
type Repository struct {
	storer store.DocumentStorer

	mutex    sync.Mutex
	channels map[string]*sync.Mutex
}

// NewRepository creates a Repository on top of a DocumentStorer
func NewRepository(storer store.DocumentStorer) (r *Repository) {
	return &Repository{storer: storer, channels: make(map[string]*sync.Mutex)}
}

// lockChannel acquires the mutex serializing writes for one channel (the
// active channels list uses its own reserved slot) and returns the unlock
func (r *Repository) lockChannel(channelID string) (unlock func()) {
	r.mutex.Lock()
	m, ok := r.channels[channelID]
	if !ok {
		m = new(sync.Mutex)
		r.channels[channelID] = m
	}
	r.mutex.Unlock()

	m.Lock()
	return m.Unlock
}

// ActiveChannels returns the ids of all channels the bot posts to. A missing
// document is an empty list
func (r *Repository) ActiveChannels() (channelIDs []string, err error) {
	doc, err := r.storer.GetDocument(store.ActiveChannelsCollection, activeChannelsKey)
	if store.IsNotFound(err) {
		return []string{}, nil
	} else if err != nil {
		return nil, err
	}

	if err = json.Unmarshal(doc, &channelIDs); err != nil {
		return nil, errors.Wrap(err, "invalid active channels document")
	}

	return channelIDs, nil
}

// AddActiveChannel adds a channel to the active list if not already present
func (r *Repository) AddActiveChannel(channelID string) (err error) {
	defer r.lockChannel(activeChannelsKey)()

	channelIDs, err := r.ActiveChannels()
	if err != nil {
		return err
	}

	for _, id := range channelIDs {
		if id == channelID {
			return nil
		}
	}

	return r.putActiveChannels(append(channelIDs, channelID))
}

// RemoveActiveChannel removes a channel from the active list. Removing an
// absent channel is a no-op
func (r *Repository) RemoveActiveChannel(channelID string) (err error) {
	defer r.lockChannel(activeChannelsKey)()

	channelIDs, err := r.ActiveChannels()
	if err != nil {
		return err
	}

	kept := channelIDs[:0]
	for _, id := range channelIDs {
		if id != channelID {
			kept = append(kept, id)
		}
	}

	return r.putActiveChannels(kept)
}

func (r *Repository) putActiveChannels(channelIDs []string) (err error) {
	doc, err := json.Marshal(channelIDs)
	if err != nil {
		return err
	}

	return r.storer.PutDocument(store.ActiveChannelsCollection, activeChannelsKey, doc)
}

// ThreadIndex returns a channel's date-to-thread-timestamp index. A missing
// document is an empty index
func (r *Repository) ThreadIndex(channelID string) (index ThreadIndex, err error) {
	index = ThreadIndex{Threads: map[string]string{}}

	doc, err := r.storer.GetDocument(store.ChannelThreadsCollection, channelID)
	if store.IsNotFound(err) {
		return index, nil
	} else if err != nil {
		return index, err
	}

	if err = json.Unmarshal(doc, &index); err != nil {
		return index, errors.Wrapf(err, "invalid thread index for channel [%s]", channelID)
	}

	if index.Threads == nil {
		index.Threads = map[string]string{}
	}

	return index, nil
}

// EnsureThreadIndex creates an empty thread index document for a channel if
// none exists yet
func (r *Repository) EnsureThreadIndex(channelID string) (err error) {
	defer r.lockChannel(channelID)()

	_, err = r.storer.GetDocument(store.ChannelThreadsCollection, channelID)
	if err == nil {
		return nil
	} else if !store.IsNotFound(err) {
		return err
	}

	return r.putThreadIndex(channelID, ThreadIndex{Threads: map[string]string{}})
}

// RecordThread saves the thread timestamp of the prompt posted on a date
func (r *Repository) RecordThread(channelID string, date string, threadTS string) (err error) {
	defer r.lockChannel(channelID)()

	index, err := r.ThreadIndex(channelID)
	if err != nil {
		return err
	}

	index.Threads[date] = threadTS

	return r.putThreadIndex(channelID, index)
}

// DateForThread resolves a thread timestamp back to the date its prompt was
// posted on. ok is false when the timestamp isn't a tracked thread
func (r *Repository) DateForThread(channelID string, threadTS string) (date string, ok bool, err error) {
	index, err := r.ThreadIndex(channelID)
	if err != nil {
		return "", false, err
	}

	for d, ts := range index.Threads {
		if ts == threadTS {
			return d, true, nil
		}
	}

	return "", false, nil
}

func (r *Repository) putThreadIndex(channelID string, index ThreadIndex) (err error) {
	doc, err := json.Marshal(index)
	if err != nil {
		return err
	}

	return r.storer.PutDocument(store.ChannelThreadsCollection, channelID, doc)
}

// Insights returns a channel's full insights record. A missing document is an
// empty record
func (r *Repository) Insights(channelID string) (record InsightsRecord, err error) {
	record = InsightsRecord{}

	doc, err := r.storer.GetDocument(store.InsightsCollection, channelID)
	if store.IsNotFound(err) {
		return record, nil
	} else if err != nil {
		return nil, err
	}

	if err = json.Unmarshal(doc, &record); err != nil {
		return nil, errors.Wrapf(err, "invalid insights record for channel [%s]", channelID)
	}

	return record, nil
}

// PutInsights replaces a channel's insights record
func (r *Repository) PutInsights(channelID string, record InsightsRecord) (err error) {
	doc, err := json.Marshal(record)
	if err != nil {
		return err
	}

	return r.storer.PutDocument(store.InsightsCollection, channelID, doc)
}

// AddReps adds repetitions to a user's tally for a date. Totals only ever
// increase; repeated replies accumulate
func (r *Repository) AddReps(channelID string, date string, userID string, reps int) (err error) {
	defer r.lockChannel(channelID)()

	record, err := r.Insights(channelID)
	if err != nil {
		return err
	}

	tally, ok := record[date]
	if !ok {
		tally = &DailyTally{Reps: map[string]int{}}
		record[date] = tally
	}

	tally.Reps[userID] += reps

	return r.PutInsights(channelID, record)
}

// ResolveWinnerWith applies resolve to a channel's insights record under the
// channel lock and persists the result when resolve reports a change
func (r *Repository) ResolveWinnerWith(channelID string, resolve func(record InsightsRecord) (changed bool)) (err error) {
	defer r.lockChannel(channelID)()

	record, err := r.Insights(channelID)
	if err != nil {
		return err
	}

	if !resolve(record) {
		return nil
	}

	return r.PutInsights(channelID, record)
}

// UserInfo returns a channel's cached user profiles. A missing document is an
// empty cache
func (r *Repository) UserInfo(channelID string) (cache UserInfoCache, err error) {
	cache = UserInfoCache{}

	doc, err := r.storer.GetDocument(store.UserInfoCollection, channelID)
	if store.IsNotFound(err) {
		return cache, nil
	} else if err != nil {
		return nil, err
	}

	if err = json.Unmarshal(doc, &cache); err != nil {
		return nil, errors.Wrapf(err, "invalid user info cache for channel [%s]", channelID)
	}

	return cache, nil
}

// PutUserInfo replaces a channel's cached user profiles wholesale
func (r *Repository) PutUserInfo(channelID string, cache UserInfoCache) (err error) {
	doc, err := json.Marshal(cache)
	if err != nil {
		return err
	}

	return r.storer.PutDocument(store.UserInfoCollection, channelID, doc)
}
