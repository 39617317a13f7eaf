// Package mocks contains a mock of the store package interfaces
package mocks

import (
	"github.com/stretchr/testify/mock"
)

// DocumentStorer holds a mock implementing store.DocumentStorer
type DocumentStorer struct {
	mock.Mock
}

// GetDocument mocks an implementation of GetDocument
func (ms *DocumentStorer) GetDocument(collection string, key string) (doc []byte, err error) {
	args := ms.Called(collection, key)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]byte), args.Error(1)
}

// PutDocument mocks an implementation of PutDocument
func (ms *DocumentStorer) PutDocument(collection string, key string, doc []byte) (err error) {
	args := ms.Called(collection, key, doc)

	return args.Error(0)
}

// Close mocks an implementation of Close
func (ms *DocumentStorer) Close() (err error) {
	args := ms.Called()

	return args.Error(0)
}
