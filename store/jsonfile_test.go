package store_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"treningsboten/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFileStoreCreatesCollectionDirectories(t *testing.T) {
	dir, err := ioutil.TempDir("", "tmpTest")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	_, err = store.NewJSONFileStore(dir)
	require.NoError(t, err)

	for _, sub := range []string{"activeChannels", "insights", "userInfo"} {
		info, err := os.Stat(filepath.Join(dir, sub))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestJSONFilePutGetRoundTrip(t *testing.T) {
	dir, err := ioutil.TempDir("", "tmpTest")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	fs, err := store.NewJSONFileStore(dir)
	require.NoError(t, err)
	defer fs.Close()

	doc := []byte(`{"2024-06-03":{"U1":10,"U2":15}}`)
	err = fs.PutDocument(store.InsightsCollection, "C123", doc)
	require.NoError(t, err)

	read, err := fs.GetDocument(store.InsightsCollection, "C123")
	require.NoError(t, err)
	assert.Equal(t, doc, read)

	// the document lands at the documented path
	onDisk, err := ioutil.ReadFile(filepath.Join(dir, "insights", "C123.json"))
	require.NoError(t, err)
	assert.Equal(t, doc, onDisk)
}

func TestJSONFileGetMissingIsNotFound(t *testing.T) {
	dir, err := ioutil.TempDir("", "tmpTest")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	fs, err := store.NewJSONFileStore(dir)
	require.NoError(t, err)

	_, err = fs.GetDocument(store.InsightsCollection, "CUNKNOWN")
	assert.True(t, store.IsNotFound(err))

	_, err = fs.GetDocument("notACollection", "C123")
	assert.True(t, store.IsNotFound(err))
}

func TestJSONFileThreadsShareActiveChannelsDir(t *testing.T) {
	dir, err := ioutil.TempDir("", "tmpTest")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	fs, err := store.NewJSONFileStore(dir)
	require.NoError(t, err)

	err = fs.PutDocument(store.ActiveChannelsCollection, "activeChannels", []byte(`["C123"]`))
	require.NoError(t, err)
	err = fs.PutDocument(store.ChannelThreadsCollection, "C123", []byte(`{"threads":{}}`))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "activeChannels", "activeChannels.json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "activeChannels", "C123.json"))
	assert.NoError(t, err)
}

func TestJSONFileRejectsPathEscapingKeys(t *testing.T) {
	dir, err := ioutil.TempDir("", "tmpTest")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	fs, err := store.NewJSONFileStore(dir)
	require.NoError(t, err)

	err = fs.PutDocument(store.InsightsCollection, "../escape", []byte(`{}`))
	assert.Error(t, err)

	_, err = fs.GetDocument(store.InsightsCollection, "")
	assert.Error(t, err)
}
