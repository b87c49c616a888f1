package selectionlog

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crypto-universe/internal/types"
)

func readEntries(t *testing.T, p string) []Entry {
	t.Helper()
	f, err := os.Open(p)
	require.NoError(t, err)
	defer f.Close()

	var out []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e Entry
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		out = append(out, e)
	}
	require.NoError(t, sc.Err())
	return out
}

func TestHandler_AppendsPerDay(t *testing.T) {
	dir := t.TempDir()
	h := NewHandler(dir, "run-1")
	day := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, h.OnSecuritiesChanged(context.Background(), types.SecurityChanges{
		Time: day, Added: []string{"BTCUSD", "ETHUSD"}, Removed: []string{}, Universe: []string{"BTCUSD", "ETHUSD"},
	}))
	require.NoError(t, h.OnSecuritiesChanged(context.Background(), types.SecurityChanges{
		Time: day, Added: []string{"XRPUSD"}, Removed: []string{"ETHUSD"}, Universe: []string{"BTCUSD", "XRPUSD"},
	}))

	entries := readEntries(t, filepath.Join(dir, "2020-06-01.jsonl"))
	require.Len(t, entries, 2)
	assert.Equal(t, "run-1", entries[0].RunID)
	assert.Equal(t, "2020-06-01", entries[0].Date)
	assert.Equal(t, []string{"BTCUSD", "ETHUSD"}, entries[0].Added)
	assert.Equal(t, []string{"ETHUSD"}, entries[1].Removed)
	assert.Equal(t, []string{"BTCUSD", "XRPUSD"}, entries[1].Universe)
}

func TestCompressOlder(t *testing.T) {
	dir := t.TempDir()
	old := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Now().UTC()
	require.NoError(t, Append(dir, old, Entry{RunID: "r", Added: []string{"BTCUSD"}}))
	require.NoError(t, Append(dir, recent, Entry{RunID: "r"}))

	oldPath := filepath.Join(dir, "2020-06-01.jsonl")
	stale := time.Now().AddDate(0, 0, -10)
	require.NoError(t, os.Chtimes(oldPath, stale, stale))

	require.NoError(t, CompressOlder(dir, 7))

	_, err := os.Stat(oldPath)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(dailyFilepath(dir, recent))
	assert.NoError(t, err)

	f, err := os.Open(oldPath + ".gz")
	require.NoError(t, err)
	defer f.Close()
	gr, err := gzip.NewReader(f)
	require.NoError(t, err)
	var e Entry
	require.NoError(t, json.NewDecoder(gr).Decode(&e))
	assert.Equal(t, []string{"BTCUSD"}, e.Added)
}

func TestCompressOlder_Disabled(t *testing.T) {
	assert.NoError(t, CompressOlder("does-not-exist", 0))
}

func readGzipEntries(t *testing.T, p string) []Entry {
	t.Helper()
	f, err := os.Open(p)
	require.NoError(t, err)
	defer f.Close()
	gr, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gr.Close()

	var out []Entry
	dec := json.NewDecoder(gr)
	for dec.More() {
		var e Entry
		require.NoError(t, dec.Decode(&e))
		out = append(out, e)
	}
	return out
}

func TestCompressOlder_RerunAppendsToExistingArchive(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	plain := filepath.Join(dir, "2020-06-01.jsonl")
	stale := time.Now().AddDate(0, 0, -40)

	require.NoError(t, Append(dir, day, Entry{RunID: "run-1", Added: []string{"BTCUSD"}}))
	require.NoError(t, os.Chtimes(plain, stale, stale))
	require.NoError(t, CompressOlder(dir, 30))

	require.NoError(t, Append(dir, day, Entry{RunID: "run-2", Added: []string{"ETHUSD"}}))
	require.NoError(t, os.Chtimes(plain, stale, stale))
	require.NoError(t, CompressOlder(dir, 30))

	_, err := os.Stat(plain)
	assert.True(t, os.IsNotExist(err))

	entries := readGzipEntries(t, plain+".gz")
	require.Len(t, entries, 2)
	assert.Equal(t, "run-1", entries[0].RunID)
	assert.Equal(t, "run-2", entries[1].RunID)
	assert.Equal(t, []string{"ETHUSD"}, entries[1].Added)
}
