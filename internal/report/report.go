package report

import (
	"bufio"
	"compress/gzip"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"crypto-universe/internal/selectionlog"
)

// symbolRow aggregates one symbol's universe membership within one run.
type symbolRow struct {
	Symbol      string
	Added       int
	Removed     int
	FirstAdded  string
	LastChanged string
	InUniverse  bool
}

func csvPath(dir string) string {
	return filepath.Join(dir, "report", "universe_summary.csv")
}

// logFiles lists plain and gzipped selection logs in dir, oldest day first.
func logFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(name, selectionlog.Ext) || strings.HasSuffix(name, selectionlog.Ext+".gz") {
			files = append(files, filepath.Join(dir, name))
		}
	}
	sort.Strings(files)
	return files, nil
}

func readLog(p string) ([]selectionlog.Entry, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(p, ".gz") {
		gr, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer gr.Close()
		r = gr
	}

	var out []selectionlog.Entry
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var e selectionlog.Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, sc.Err()
}

// latestRunID returns the run whose newest entry was written last.
// Entries with an unparsable time are ignored.
func latestRunID(entries []selectionlog.Entry) string {
	var (
		id     string
		newest time.Time
	)
	for _, e := range entries {
		t, err := time.Parse(time.RFC3339Nano, e.Time)
		if err != nil {
			continue
		}
		if id == "" || !t.Before(newest) {
			id, newest = e.RunID, t
		}
	}
	return id
}

// Summarize aggregates one run's selection logs in dir into
// <dir>/report/universe_summary.csv. An empty runID picks the most recent
// run. It returns an empty path when there is nothing to summarize.
func Summarize(dir, runID string) (string, error) {
	files, err := logFiles(dir)
	if err != nil {
		return "", err
	}

	// files are ordered by day, so entries are in replay order per run
	var all []selectionlog.Entry
	for _, p := range files {
		entries, err := readLog(p)
		if err != nil {
			return "", err
		}
		all = append(all, entries...)
	}
	if runID == "" {
		runID = latestRunID(all)
	}

	aggs := map[string]*symbolRow{}
	row := func(s string) *symbolRow {
		r := aggs[s]
		if r == nil {
			r = &symbolRow{Symbol: s}
			aggs[s] = r
		}
		return r
	}
	var final []string
	for _, e := range all {
		if e.RunID != runID {
			continue
		}
		for _, s := range e.Added {
			r := row(s)
			r.Added++
			r.LastChanged = e.Date
			if r.FirstAdded == "" {
				r.FirstAdded = e.Date
			}
		}
		for _, s := range e.Removed {
			r := row(s)
			r.Removed++
			r.LastChanged = e.Date
		}
		final = e.Universe
	}
	if len(aggs) == 0 {
		return "", nil
	}
	for _, s := range final {
		row(s).InUniverse = true
	}

	keys := make([]string, 0, len(aggs))
	for k := range aggs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	outPath := csvPath(dir)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write([]string{"symbol", "times_added", "times_removed", "first_added", "last_changed", "in_universe"}); err != nil {
		return "", err
	}
	var totalAdded, totalRemoved int
	for _, k := range keys {
		r := aggs[k]
		rec := []string{r.Symbol, strconv.Itoa(r.Added), strconv.Itoa(r.Removed), r.FirstAdded, r.LastChanged, strconv.FormatBool(r.InUniverse)}
		if err := w.Write(rec); err != nil {
			return "", err
		}
		totalAdded += r.Added
		totalRemoved += r.Removed
	}
	_ = w.Write([]string{"TOTAL", strconv.Itoa(totalAdded), strconv.Itoa(totalRemoved), "", "", strconv.Itoa(len(final))})
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return outPath, nil
}
