// Package ledger reads and writes the punch ledger: one CSV row per punch,
// "Direction,timestamp,memo", with the timestamp carrying an explicit UTC
// offset.
package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/Tiliavir/worklog/internal/model"
)

// FileName is the ledger's name in the home directory.
const FileName = ".worklog.csv"

// timeLayout is the encoded timestamp form, e.g. 2017-01-18T12:50:13-06:00.
const timeLayout = "2006-01-02T15:04:05.999999999-07:00"

// decodeLayouts are tried in order. Fractional seconds parse under each.
var decodeLayouts = []string{
	"2006-01-02T15:04:05-07:00",
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05-0700",
}

// ErrMalformedRow marks a ledger row that cannot be decoded.
var ErrMalformedRow = errors.New("malformed ledger row")

// RowError locates a malformed row. Line is 1-based.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("ledger line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// DefaultPath returns ~/.worklog.csv.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "cannot determine home directory")
	}
	return filepath.Join(home, FileName), nil
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedRow, fmt.Sprintf(format, args...))
}

// DecodeRow turns the three fields of a row into a punch. The instant keeps
// the offset written in the row.
func DecodeRow(fields []string) (model.Punch, error) {
	if len(fields) != 3 {
		return model.Punch{}, malformed("want 3 fields, got %d", len(fields))
	}
	dir, err := model.ParseDirection(fields[0])
	if err != nil {
		return model.Punch{}, malformed("%v", err)
	}
	at, err := ParseTimestamp(fields[1])
	if err != nil {
		return model.Punch{}, malformed("%v", err)
	}
	return model.NewPunch(dir, at, fields[2]), nil
}

// ParseTimestamp reads a timestamp with an explicit numeric offset, either
// -06:00 or -0600 style.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range decodeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return model.FixedOffset(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// EncodeRow returns the fields written for p.
func EncodeRow(p model.Punch) []string {
	return []string{p.Direction.String(), p.Instant.Format(timeLayout), p.Memo}
}

// Read decodes every row from r and returns the punches sorted ascending by
// instant. Rows with equal instants keep their file order. The first bad row
// aborts the read with a *RowError.
func Read(r io.Reader) ([]model.Punch, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var punches []model.Punch
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &RowError{Line: pe.Line, Err: malformed("%v", pe.Err)}
			}
			return nil, errors.Wrap(err, "reading ledger")
		}
		line, _ := cr.FieldPos(0)
		p, err := DecodeRow(fields)
		if err != nil {
			return nil, &RowError{Line: line, Err: err}
		}
		punches = append(punches, p)
	}

	Sort(punches)
	return punches, nil
}

// Sort orders punches ascending by instant, keeping the order of ties.
func Sort(punches []model.Punch) {
	sort.SliceStable(punches, func(i, j int) bool {
		return punches[i].Instant.Before(punches[j].Instant)
	})
}

// Write encodes punches to w in the order given.
func Write(w io.Writer, punches []model.Punch) error {
	cw := csv.NewWriter(w)
	for _, p := range punches {
		if err := cw.Write(EncodeRow(p)); err != nil {
			return errors.Wrap(err, "encoding ledger row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "writing ledger")
}

// Load reads the ledger at path. A missing file is an empty ledger.
func Load(path string) ([]model.Punch, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return []model.Punch{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "opening ledger %s", path)
	}
	defer f.Close()

	punches, err := Read(f)
	if err != nil {
		return nil, errors.WithMessagef(err, "loading %s", path)
	}
	return punches, nil
}

// Append adds one row to the end of the ledger, creating it if needed.
func Append(path string, p model.Punch) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(err, "creating ledger directory")
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return errors.Wrapf(err, "opening ledger %s", path)
	}
	if err := Write(f, []model.Punch{p}); err != nil {
		_ = f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "closing ledger %s", path)
}

// Save atomically replaces the ledger with punches.
func Save(path string, punches []model.Punch) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(err, "creating ledger directory")
	}

	// Write to a temp file then rename over the ledger.
	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return errors.Wrap(err, "creating temp ledger")
	}
	if err := Write(f, punches); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrap(err, "closing temp ledger")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrap(err, "renaming temp ledger")
	}
	return nil
}
