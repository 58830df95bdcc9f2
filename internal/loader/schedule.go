// Package loader reads project schedules from CSV files.
package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/leapstack-labs/leapgantt/pkg/core"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/unicode/norm"
)

// DateLayout is the DD/MM/YYYY layout used by schedule files.
const DateLayout = "02/01/2006"

// Column identifies a required schedule column.
type Column string

// Required columns, in the order they are reported when missing.
const (
	ColumnSeq      Column = "seq"
	ColumnStep     Column = "step"
	ColumnResource Column = "resource"
	ColumnStart    Column = "start"
	ColumnEnd      Column = "end"
	ColumnKind     Column = "kind"
)

// RequiredColumns lists every column a schedule must provide.
var RequiredColumns = []Column{
	ColumnSeq, ColumnStep, ColumnResource, ColumnStart, ColumnEnd, ColumnKind,
}

// DefaultAliases maps header spellings (normalized) to columns. The Chinese
// names are the headers used by the planning spreadsheets.
var DefaultAliases = map[string]Column{
	"工作序号":       ColumnSeq,
	"序号":         ColumnSeq,
	"seq":        ColumnSeq,
	"sequence":   ColumnSeq,
	"no":         ColumnSeq,
	"#":          ColumnSeq,
	"工作步骤":       ColumnStep,
	"step":       ColumnStep,
	"task":       ColumnStep,
	"name":       ColumnStep,
	"负责人":        ColumnResource,
	"resource":   ColumnResource,
	"owner":      ColumnResource,
	"开始时间":       ColumnStart,
	"start":      ColumnStart,
	"start date": ColumnStart,
	"结束时间":       ColumnEnd,
	"end":        ColumnEnd,
	"end date":   ColumnEnd,
	"备注":         ColumnKind,
	"kind":       ColumnKind,
	"type":       ColumnKind,
}

// Options configures Load.
type Options struct {
	// Aliases overrides DefaultAliases when non-nil.
	Aliases map[string]Column
	// Location dates are interpreted in. Defaults to UTC.
	Location *time.Location
	Logger   *slog.Logger
}

// Load reads a schedule CSV and returns its rows sorted by sequence number.
func Load(r io.Reader, opts Options) ([]core.Row, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	aliases := opts.Aliases
	if aliases == nil {
		aliases = DefaultAliases
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule: %w", err)
	}
	data, err := decode(raw)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &core.SchemaError{Missing: columnNames(RequiredColumns)}
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index, err := mapHeader(header, aliases)
	if err != nil {
		return nil, err
	}

	var rows []core.Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if blank(record) {
			continue
		}

		row, err := parseRecord(record, index, line, loc)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, core.ErrNoRows
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Seq < rows[j].Seq
	})

	logger.Debug("schedule loaded", "rows", len(rows), "columns", len(header))
	return rows, nil
}

// decode strips a UTF-8 byte order mark, and falls back to GB18030 for files
// that are not valid UTF-8.
func decode(raw []byte) ([]byte, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if utf8.Valid(raw) {
		return raw, nil
	}
	out, err := simplifiedchinese.GB18030.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("schedule is neither UTF-8 nor GB18030: %w", err)
	}
	// The decoder substitutes U+FFFD for undecodable bytes instead of failing.
	if bytes.ContainsRune(out, utf8.RuneError) {
		return nil, errors.New("schedule is neither UTF-8 nor GB18030")
	}
	return out, nil
}

// NormalizeHeader folds a header cell to the form used as an alias key.
func NormalizeHeader(s string) string {
	s = norm.NFKC.String(s)
	s = strings.Join(strings.Fields(s), " ")
	return strings.ToLower(s)
}

func mapHeader(header []string, aliases map[string]Column) (map[Column]int, error) {
	index := make(map[Column]int, len(RequiredColumns))
	for i, cell := range header {
		col, ok := aliases[NormalizeHeader(cell)]
		if !ok {
			continue
		}
		// First matching header wins.
		if _, seen := index[col]; !seen {
			index[col] = i
		}
	}

	var missing []Column
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &core.SchemaError{Missing: columnNames(missing)}
	}
	return index, nil
}

func parseRecord(record []string, index map[Column]int, line int, loc *time.Location) (core.Row, error) {
	cell := func(col Column) string {
		i := index[col]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	row := core.Row{
		Step:     cell(ColumnStep),
		Resource: cell(ColumnResource),
		Line:     line,
	}

	seq, err := parseSeq(cell(ColumnSeq))
	if err != nil {
		return row, &core.ParseError{Line: line, Column: string(ColumnSeq), Value: cell(ColumnSeq), Err: err}
	}
	row.Seq = seq

	if row.Start, err = ParseDate(cell(ColumnStart), loc); err != nil {
		return row, &core.ParseError{Line: line, Column: string(ColumnStart), Value: cell(ColumnStart), Err: err}
	}
	if row.End, err = ParseDate(cell(ColumnEnd), loc); err != nil {
		return row, &core.ParseError{Line: line, Column: string(ColumnEnd), Value: cell(ColumnEnd), Err: err}
	}

	kind, ok := core.ParseKind(cell(ColumnKind))
	if !ok {
		return row, &core.ParseError{
			Line:   line,
			Column: string(ColumnKind),
			Value:  cell(ColumnKind),
			Err:    fmt.Errorf("expected %s or %s", core.KindTask, core.KindMilestone),
		}
	}
	row.Kind = kind

	return row, nil
}

// ParseDate parses a DD/MM/YYYY date. Single-digit days and months are accepted.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation("2/1/2006", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected DD/MM/YYYY")
	}
	return t, nil
}

// parseSeq accepts integers, including ones written as floats ("3.0").
func parseSeq(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("expected an integer")
	}
	// float64(math.MaxInt) rounds up to 2^63, which is already out of range.
	if f < float64(math.MinInt) || f >= float64(math.MaxInt) {
		return 0, fmt.Errorf("sequence number %s is out of range", s)
	}
	return int(f), nil
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func columnNames(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = string(c)
	}
	return out
}
