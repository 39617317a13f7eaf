package store

import (
	"fmt"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	leveldberrors "github.com/syndtr/goleveldb/leveldb/errors"
)

// LevelDB is a DocumentStorer backed by a leveldb database. Documents are keyed
// by "<collection>/<key>"
type LevelDB struct {
	Name     string
	database *leveldb.DB
}

// NewLevelDB instantiates and opens a new LevelDB instance backed by a leveldb
// database. If the leveldb database doesn't exist, one is created
func NewLevelDB(name string, storagePath string) (ldb *LevelDB, err error) {
	// Expand '~' as the full home directory path if appropriate
	path, err := homedir.Expand(storagePath)
	if err != nil {
		return nil, err
	}

	fullPath := filepath.Join(path, name)
	db, err := leveldb.OpenFile(fullPath, nil)

	if _, ok := err.(*leveldberrors.ErrCorrupted); ok {
		return nil, errors.Wrap(err, fmt.Sprintf("leveldb corrupted. Consider deleting [%s] and restarting if you don't mind losing data", fullPath))
	} else if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("failed to open file with path [%s]", fullPath))
	}

	return &LevelDB{name, db}, nil
}

// Close closes the LevelDB
func (ldb *LevelDB) Close() (err error) {
	return ldb.database.Close()
}

// GetDocument retrieves the document associated to a collection/key pair
func (ldb *LevelDB) GetDocument(collection string, key string) (doc []byte, err error) {
	doc, err = ldb.database.Get([]byte(compositeKey(collection, key)), nil)
	if err == leveldb.ErrNotFound {
		return nil, errors.Wrap(ErrNotFound, fmt.Sprintf("no document for [%s/%s]", collection, key))
	} else if err != nil {
		return nil, err
	}

	return doc, nil
}

// PutDocument adds or replaces the document associated to a collection/key pair
func (ldb *LevelDB) PutDocument(collection string, key string, doc []byte) (err error) {
	return ldb.database.Put([]byte(compositeKey(collection, key)), doc, nil)
}

func compositeKey(collection string, key string) string {
	return collection + "/" + key
}
