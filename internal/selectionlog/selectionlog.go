package selectionlog

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"crypto-universe/internal/interfaces"
	"crypto-universe/internal/types"
)

var mu sync.Mutex

// Entry is one persisted change-set.
type Entry struct {
	RunID    string   `json:"run_id"`
	Date     string   `json:"date"`
	Time     string   `json:"time"`
	Added    []string `json:"added"`
	Removed  []string `json:"removed"`
	Universe []string `json:"universe"`
}

// Ext is the extension of uncompressed selection logs.
const Ext = ".jsonl"

func dailyFilepath(dir string, day time.Time) string {
	return filepath.Join(dir, day.UTC().Format("2006-01-02")+Ext)
}

// Append writes e as one JSON line to the file for day.
func Append(dir string, day time.Time, e Entry) error {
	mu.Lock()
	defer mu.Unlock()
	e.Date = day.UTC().Format("2006-01-02")
	e.Time = time.Now().UTC().Format(time.RFC3339Nano)
	p := dailyFilepath(dir, day)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzips selection logs last modified more than retentionDays ago.
func CompressOlder(dir string, retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	mu.Lock()
	defer mu.Unlock()
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() || filepath.Ext(p) != Ext {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		// Re-runs over the same dates reuse file names, so an earlier pass may
		// already have produced the .gz. New lines go in as another gzip member.
		if err := gzipFile(p, p+".gz"); err != nil {
			return fmt.Errorf("compress %s: %w", p, err)
		}
		return os.Remove(p)
	})
}

// gzipFile appends src to dst as a new gzip member. On failure dst is cut
// back to its previous length.
func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	var prevSize int64
	if info, err := os.Stat(dst); err == nil {
		prevSize = info.Size()
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	gw := gzip.NewWriter(out)
	_, err = io.Copy(gw, in)
	if cerr := gw.Close(); err == nil {
		err = cerr
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if prevSize == 0 {
			_ = os.Remove(dst)
		} else {
			_ = os.Truncate(dst, prevSize)
		}
		return err
	}
	return nil
}

// Handler persists every change-set it receives for one run.
type Handler struct {
	dir   string
	runID string
}

var _ interfaces.ChangeHandler = (*Handler)(nil)

func NewHandler(dir, runID string) *Handler {
	return &Handler{dir: dir, runID: runID}
}

func (h *Handler) OnSecuritiesChanged(_ context.Context, changes types.SecurityChanges) error {
	return Append(h.dir, changes.Time, Entry{
		RunID:    h.runID,
		Added:    changes.Added,
		Removed:  changes.Removed,
		Universe: changes.Universe,
	})
}
