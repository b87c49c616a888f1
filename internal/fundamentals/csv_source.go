package fundamentals

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"crypto-universe/internal/interfaces"
	"crypto-universe/internal/types"
)

// Column layout of a daily universe file:
// symbol_id,symbol,open,high,low,close,volume,volume_in_quote,volume_in_usd
const csvFields = 9

// CSVSource reads one universe file per day from <dir>/<yyyymmdd>.csv.
type CSVSource struct {
	dir string
}

var _ interfaces.FundamentalSource = (*CSVSource)(nil)

func NewCSVSource(dir string) *CSVSource {
	return &CSVSource{dir: dir}
}

func (s *CSVSource) path(date time.Time) string {
	return filepath.Join(s.dir, Day(date).Format("20060102")+".csv")
}

func (s *CSVSource) Snapshot(ctx context.Context, date time.Time) (types.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return types.Snapshot{}, err
	}
	p := s.path(date)
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return types.Snapshot{}, fmt.Errorf("%w: %s", ErrSnapshotNotFound, p)
	}
	if err != nil {
		return types.Snapshot{}, err
	}
	defer f.Close()

	records, err := ParseCSV(f)
	if err != nil {
		return types.Snapshot{}, fmt.Errorf("%s: %w", p, err)
	}
	return types.Snapshot{Date: Day(date), Records: records}, nil
}

func (s *CSVSource) History(ctx context.Context, end time.Time, lookback int) ([]types.Snapshot, error) {
	return history(ctx, s.Snapshot, end, lookback)
}

// ParseCSV decodes a universe file. Lines starting with '#' are comments.
// Symbols must be unique within the file.
func ParseCSV(r io.Reader) ([]types.FundamentalRecord, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		out  []types.FundamentalRecord
		seen = map[string]bool{}
	)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		if len(row) < csvFields {
			return nil, fmt.Errorf("line %d: expected %d fields, got %d", line, csvFields, len(row))
		}

		vals := make([]float64, 7)
		for i := range vals {
			field := strings.TrimSpace(row[i+2])
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: field %d %q: %w", line, i+3, field, err)
			}
			if v < 0 && i >= 4 {
				return nil, fmt.Errorf("line %d: negative volume %q", line, field)
			}
			vals[i] = v
		}

		symbol := strings.TrimSpace(row[1])
		if symbol == "" {
			return nil, fmt.Errorf("line %d: empty symbol", line)
		}
		if seen[symbol] {
			return nil, fmt.Errorf("line %d: duplicate symbol %s", line, symbol)
		}
		seen[symbol] = true

		out = append(out, types.FundamentalRecord{
			Symbol:        symbol,
			Open:          vals[0],
			High:          vals[1],
			Low:           vals[2],
			Close:         vals[3],
			Volume:        vals[4],
			VolumeInQuote: vals[5],
			VolumeInUSD:   vals[6],
		})
	}
	return out, nil
}
