// Package store provides the persistence contract for treningsboten along with
// its two backends: one JSON document per key on the local filesystem (the
// default) and an embedded leveldb database. Documents are opaque JSON bytes
// grouped in named collections.
package store

import (
	"github.com/pkg/errors"
)

// Collection names used by the bot
const (
	ActiveChannelsCollection = "activeChannels"
	ChannelThreadsCollection = "channelThreads"
	InsightsCollection       = "insights"
	UserInfoCollection       = "userInfo"
)

// ErrNotFound is returned on Get when a collection or key has no document.
// Callers are expected to treat it as "empty default" rather than a failure
var ErrNotFound = errors.New("document not found")

// DocumentStorer is implemented by storage backends holding one JSON document
// per collection/key pair. Put fully replaces the document for a key and the
// last writer wins
type DocumentStorer interface {
	// GetDocument retrieves the document for a key. Returns ErrNotFound
	// (possibly wrapped) when the collection or key doesn't exist
	GetDocument(collection string, key string) (doc []byte, err error)

	// PutDocument adds or fully replaces the document for a key
	PutDocument(collection string, key string, doc []byte) (err error)

	// Close closes the underlying storage
	Close() (err error)
}

// IsNotFound returns true if the error is or wraps ErrNotFound
func IsNotFound(err error) bool {
	return errors.Cause(err) == ErrNotFound
}
