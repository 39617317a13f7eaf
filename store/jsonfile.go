package store

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
)

// collectionDirs maps a collection name to its directory under the storage
// root. The channel thread indexes live alongside the active channels list
// file, matching the layout the companion frontend reads
var collectionDirs = map[string]string{
	ActiveChannelsCollection: "activeChannels",
	ChannelThreadsCollection: "activeChannels",
	InsightsCollection:       "insights",
	UserInfoCollection:       "userInfo",
}

// JSONFileStore is a DocumentStorer writing each document as a standalone
// <key>.json file under <root>/<collection dir>/
type JSONFileStore struct {
	root string
}

// NewJSONFileStore creates a JSONFileStore rooted at storagePath, creating the
// collection directories if they don't exist
func NewJSONFileStore(storagePath string) (fs *JSONFileStore, err error) {
	// Expand '~' as the full home directory path if appropriate
	path, err := homedir.Expand(storagePath)
	if err != nil {
		return nil, err
	}

	for _, dir := range collectionDirs {
		if err := os.MkdirAll(filepath.Join(path, dir), 0755); err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("failed to create storage directory under [%s]", path))
		}
	}

	return &JSONFileStore{root: path}, nil
}

// GetDocument reads the document file for a key. A missing file maps to
// ErrNotFound
func (fs *JSONFileStore) GetDocument(collection string, key string) (doc []byte, err error) {
	path, err := fs.documentPath(collection, key)
	if err != nil {
		return nil, err
	}

	doc, err = ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(ErrNotFound, fmt.Sprintf("no document for [%s/%s]", collection, key))
	} else if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("failed to read document [%s/%s]", collection, key))
	}

	return doc, nil
}

// PutDocument replaces the document file for a key. The write goes through a
// temporary file and a rename so a crash mid-write can't leave a truncated
// document behind
func (fs *JSONFileStore) PutDocument(collection string, key string, doc []byte) (err error) {
	path, err := fs.documentPath(collection, key)
	if err != nil {
		return err
	}

	tmp, err := ioutil.TempFile(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("failed to stage document [%s/%s]", collection, key))
	}

	if _, err = tmp.Write(doc); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(err, fmt.Sprintf("failed to write document [%s/%s]", collection, key))
	}

	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, fmt.Sprintf("failed to write document [%s/%s]", collection, key))
	}

	return errors.Wrap(os.Rename(tmp.Name(), path), fmt.Sprintf("failed to persist document [%s/%s]", collection, key))
}

// Close is a no-op for the file-backed store
func (fs *JSONFileStore) Close() (err error) {
	return nil
}

func (fs *JSONFileStore) documentPath(collection string, key string) (path string, err error) {
	dir, ok := collectionDirs[collection]
	if !ok {
		return "", errors.Wrap(ErrNotFound, fmt.Sprintf("unknown collection [%s]", collection))
	}

	// Keys are channel ids (or the activeChannels list name); anything with a
	// path separator would escape the storage root
	if key == "" || key != filepath.Base(key) {
		return "", fmt.Errorf("invalid document key [%s]", key)
	}

	return filepath.Join(fs.root, dir, key+".json"), nil
}
