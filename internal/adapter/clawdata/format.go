package clawdata

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/storm-surge-setup/internal/domain"
)

// valueWidth is the column width values are padded to before the "=:" marker.
const valueWidth = 26

// dataFile accumulates one solver data file in memory. The first error sticks
// and is returned by bytes.
type dataFile struct {
	name string
	buf  bytes.Buffer
	err  error
}

func newDataFile(name string, stamp time.Time) *dataFile {
	f := &dataFile{name: name}
	fmt.Fprintf(&f.buf, "# %s: solver input, do not edit by hand\n", name)
	fmt.Fprintf(&f.buf, "# generated %s\n\n", stamp.UTC().Format(time.RFC3339))
	return f
}

func (f *dataFile) record(name string, values ...string) {
	if f.err != nil {
		return
	}
	fmt.Fprintf(&f.buf, "%-*s =: %s\n", valueWidth, strings.Join(values, " "), name)
}

// row writes a positional record with no name, as used for list entries.
func (f *dataFile) row(values ...string) {
	if f.err != nil {
		return
	}
	f.buf.WriteString(strings.Join(values, "  "))
	f.buf.WriteByte('\n')
}

func (f *dataFile) blank() {
	f.buf.WriteByte('\n')
}

func (f *dataFile) fail(field, format string, args ...any) {
	if f.err == nil {
		f.err = &domain.ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
	}
}

func (f *dataFile) int(name string, v int) { f.record(name, strconv.Itoa(v)) }
func (f *dataFile) bool(name string, v bool) { f.record(name, fmtBool(v)) }
func (f *dataFile) str(name string, v string) { f.record(name, quote(v)) }
func (f *dataFile) ints(name string, v []int) { f.record(name, mapSlice(v, strconv.Itoa)...) }
func (f *dataFile) float(name string, v float64) { f.record(name, fmtFloat(v)) }
func (f *dataFile) floats(name string, v []float64) { f.record(name, mapSlice(v, fmtFloat)...) }
func (f *dataFile) strs(name string, v []string) { f.record(name, mapSlice(v, quote)...) }

func (f *dataFile) bytes() ([]byte, error) {
	if f.err != nil {
		return nil, fmt.Errorf("render %s: %w", f.name, f.err)
	}
	return f.buf.Bytes(), nil
}

func fmtBool(v bool) string {
	if v {
		return "T"
	}
	return "F"
}

// fmtFloat writes the shortest representation that parses back exactly.
// Infinities use the spelling the solver's list-directed reads accept.
func fmtFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func mapSlice[T, U any](vs []T, f func(T) U) []U {
	out := make([]U, len(vs))
	for i, v := range vs {
		out[i] = f(v)
	}
	return out
}

func toFloats[T ~float64](vs []T) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = float64(v)
	}
	return out
}

func fromFloats[T ~float64](vs []float64) []T {
	if len(vs) == 0 {
		return nil
	}
	out := make([]T, len(vs))
	for i, v := range vs {
		out[i] = T(v)
	}
	return out
}

// record is one parsed line: its value tokens and, for named records, the
// name after "=:".
type record struct {
	line   int
	values []string
	name   string
}

// recordReader walks the records of one data file in order. Like dataFile it
// keeps the first error; getters return zero values once it is set. Errors
// are *domain.FormatError carrying the file name and line.
type recordReader struct {
	source  string
	records []record
	pos     int
	err     error
}

func newRecordReader(r io.Reader, source string) (*recordReader, error) {
	rr := &recordReader{source: source}
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		rec := record{line: line}
		// Names never contain the marker; quoted values may.
		if i := strings.LastIndex(text, "=:"); i >= 0 {
			rec.name = strings.TrimSpace(text[i+2:])
			text = text[:i]
		}
		values, err := tokenize(text)
		if err != nil {
			return nil, &domain.FormatError{Source: source, Line: line, Reason: "values", Err: err}
		}
		rec.values = values
		rr.records = append(rr.records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	return rr, nil
}

// tokenize splits on whitespace, keeping single-quoted strings (with ''
// escapes) as one unquoted token.
func tokenize(s string) ([]string, error) {
	var out []string
	for {
		s = strings.TrimLeft(s, " \t")
		if s == "" {
			return out, nil
		}
		if s[0] != '\'' {
			end := strings.IndexAny(s, " \t")
			if end < 0 {
				end = len(s)
			}
			out = append(out, s[:end])
			s = s[end:]
			continue
		}
		var b strings.Builder
		i := 1
		for {
			if i >= len(s) {
				return nil, fmt.Errorf("unterminated string")
			}
			if s[i] == '\'' {
				if i+1 < len(s) && s[i+1] == '\'' {
					b.WriteByte('\'')
					i += 2
					continue
				}
				break
			}
			b.WriteByte(s[i])
			i++
		}
		out = append(out, b.String())
		s = s[i+1:]
	}
}

func (r *recordReader) setErr(rec record, col int, err error, format string, args ...any) {
	if r.err == nil {
		r.err = &domain.FormatError{Source: r.source, Line: rec.line, Column: col, Reason: fmt.Sprintf(format, args...), Err: err}
	}
}

// next returns the next record, which must carry the given name. An empty name
// expects a positional row. ok is false once an error is recorded.
func (r *recordReader) next(name string) (record, bool) {
	if r.err != nil {
		return record{}, false
	}
	if r.pos >= len(r.records) {
		last := record{}
		if len(r.records) > 0 {
			last = r.records[len(r.records)-1]
		}
		r.setErr(last, 0, nil, "missing record %q", name)
		return record{}, false
	}
	rec := r.records[r.pos]
	r.pos++
	if rec.name != name {
		r.setErr(rec, 0, nil, "expected record %q, found %q", name, rec.name)
		return record{}, false
	}
	return rec, true
}

// finish reports the first error, or trailing records nothing consumed.
func (r *recordReader) finish() error {
	if r.err == nil && r.pos < len(r.records) {
		rec := r.records[r.pos]
		r.setErr(rec, 0, nil, "unexpected record %q", rec.name)
	}
	return r.err
}

func (r *recordReader) scalar(name string) (record, string, bool) {
	rec, ok := r.next(name)
	if !ok {
		return rec, "", false
	}
	if len(rec.values) != 1 {
		r.setErr(rec, 0, nil, "%s: expected one value, got %d", name, len(rec.values))
		return rec, "", false
	}
	return rec, rec.values[0], true
}

func (r *recordReader) int(name string) int {
	rec, s, ok := r.scalar(name)
	if !ok {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		r.setErr(rec, 1, err, "%s", name)
	}
	return v
}

func (r *recordReader) float(name string) float64 {
	rec, s, ok := r.scalar(name)
	if !ok {
		return 0
	}
	v, err := parseFloat(s)
	if err != nil {
		r.setErr(rec, 1, err, "%s", name)
	}
	return v
}

func (r *recordReader) bool(name string) bool {
	rec, s, ok := r.scalar(name)
	if !ok {
		return false
	}
	v, err := parseBool(s)
	if err != nil {
		r.setErr(rec, 1, err, "%s", name)
	}
	return v
}

func (r *recordReader) str(name string) string {
	_, s, _ := r.scalar(name)
	return s
}

func (r *recordReader) strs(name string) []string {
	rec, ok := r.next(name)
	if !ok || len(rec.values) == 0 {
		return nil
	}
	return rec.values
}

func (r *recordReader) ints(name string) []int {
	rec, ok := r.next(name)
	if !ok || len(rec.values) == 0 {
		return nil
	}
	out := make([]int, len(rec.values))
	for i, s := range rec.values {
		v, err := strconv.Atoi(s)
		if err != nil {
			r.setErr(rec, i+1, err, "%s", name)
			return nil
		}
		out[i] = v
	}
	return out
}

// decode reads an integer code and decodes it with from. An unknown code is a
// FormatError on the value's column.
func decode[T any](r *recordReader, name string, from func(int) (T, bool)) T {
	var zero T
	rec, s, ok := r.scalar(name)
	if !ok {
		return zero
	}
	c, err := strconv.Atoi(s)
	if err != nil {
		r.setErr(rec, 1, err, "%s", name)
		return zero
	}
	v, ok := from(c)
	if !ok {
		r.setErr(rec, 1, nil, "%s: unknown code %d", name, c)
		return zero
	}
	return v
}

// decodeAll is decode for a row of integer codes.
func decodeAll[T any](r *recordReader, name string, from func(int) (T, bool)) []T {
	rec, ok := r.next(name)
	if !ok || len(rec.values) == 0 {
		return nil
	}
	out := make([]T, len(rec.values))
	for i, s := range rec.values {
		c, err := strconv.Atoi(s)
		if err != nil {
			r.setErr(rec, i+1, err, "%s", name)
			return nil
		}
		v, ok := from(c)
		if !ok {
			r.setErr(rec, i+1, nil, "%s: unknown code %d", name, c)
			return nil
		}
		out[i] = v
	}
	return out
}

func (r *recordReader) floats(name string) []float64 {
	rec, ok := r.next(name)
	if !ok {
		return nil
	}
	return r.parseFloats(rec, name, -1)
}

// pair reads a named record of exactly two numbers.
func (r *recordReader) pair(name string) [2]float64 {
	rec, ok := r.next(name)
	if !ok {
		return [2]float64{}
	}
	vs := r.parseFloats(rec, name, 2)
	if len(vs) != 2 {
		return [2]float64{}
	}
	return [2]float64{vs[0], vs[1]}
}

// row reads a positional record of exactly n numbers.
func (r *recordReader) row(name string, n int) []float64 {
	rec, ok := r.next("")
	if !ok {
		return make([]float64, n)
	}
	vs := r.parseFloats(rec, name, n)
	if len(vs) != n {
		return make([]float64, n)
	}
	return vs
}

// quoted reads a positional record holding one string.
func (r *recordReader) quoted(name string) string {
	rec, ok := r.next("")
	if !ok {
		return ""
	}
	if len(rec.values) != 1 {
		r.setErr(rec, 0, nil, "%s: expected one string, got %d values", name, len(rec.values))
		return ""
	}
	return rec.values[0]
}

func (r *recordReader) parseFloats(rec record, name string, n int) []float64 {
	if n >= 0 && len(rec.values) != n {
		r.setErr(rec, 0, nil, "%s: expected %d values, got %d", name, n, len(rec.values))
		return nil
	}
	if len(rec.values) == 0 {
		return nil
	}
	out := make([]float64, len(rec.values))
	for i, s := range rec.values {
		v, err := parseFloat(s)
		if err != nil {
			r.setErr(rec, i+1, err, "%s", name)
			return nil
		}
		out[i] = v
	}
	return out
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.NewReplacer("D", "E", "d", "e").Replace(s), 64)
}

func parseBool(s string) (bool, error) {
	switch strings.ToUpper(strings.Trim(s, ".")) {
	case "T", "TRUE":
		return true, nil
	case "F", "FALSE":
		return false, nil
	}
	return false, fmt.Errorf("invalid logical %q", s)
}
