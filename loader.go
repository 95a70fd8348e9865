package plfmip

import (
	"encoding/csv"
	"io"
	"strconv"
)

// BatchReader parses the flat CSV serialization of a problem batch into
// Instance records. Each instance occupies a fixed-shape block of 2+2n
// rows: a header row (kind, n, K, baseline time and its four operation
// times), one right-hand-side row, n x-breakpoint rows and n y-breakpoint
// rows of K+1 columns each.
//
// The whole block is validated before the cursor advances; a malformed row
// fails with ErrMalformedBatch and poisons the reader, because every later
// row offset depends on the declared block shape.
type BatchReader struct {
	r   *csv.Reader
	row int
	err error
}

func NewBatchReader(r io.Reader) *BatchReader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	return &BatchReader{r: cr}
}

// Next returns the next instance in table order, or io.EOF after the last
// complete block.
func (br *BatchReader) Next() (*Instance, error) {
	if br.err != nil {
		return nil, br.err
	}
	header, err := br.r.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		br.err = wrapErrorf(ErrMalformedBatch, "row %d: %v", br.row+1, err)
		return nil, br.err
	}
	br.row++
	inst, err := br.readBlock(header)
	if err != nil {
		br.err = err
		return nil, err
	}
	return inst, nil
}

// ReadBatch collects every instance of a table.
func ReadBatch(r io.Reader) ([]*Instance, error) {
	br := NewBatchReader(r)
	var batch []*Instance
	for {
		inst, err := br.Next()
		if err == io.EOF {
			return batch, nil
		}
		if err != nil {
			return nil, err
		}
		batch = append(batch, inst)
	}
}

func (br *BatchReader) readBlock(header []string) (*Instance, error) {
	if len(header) != 8 {
		return nil, wrapErrorf(ErrMalformedBatch, "row %d: header has %d fields, want 8", br.row, len(header))
	}
	kind, ok := parseKind(header[0])
	if !ok {
		return nil, wrapErrorf(ErrMalformedBatch, "row %d: unknown problem kind %q", br.row, header[0])
	}
	n, err := strconv.Atoi(header[1])
	if err != nil || n < 1 {
		return nil, wrapErrorf(ErrMalformedBatch, "row %d: bad dimension %q", br.row, header[1])
	}
	k, err := strconv.Atoi(header[2])
	if err != nil || k < 1 {
		return nil, wrapErrorf(ErrMalformedBatch, "row %d: bad segment count %q", br.row, header[2])
	}
	var times [5]float64
	for i := range times {
		times[i], err = strconv.ParseFloat(header[3+i], 64)
		if err != nil {
			return nil, wrapErrorf(ErrMalformedBatch, "row %d: bad baseline time %q", br.row, header[3+i])
		}
	}

	rhs, err := br.readFloatRow(-1)
	if err != nil {
		return nil, err
	}
	switch kind {
	case Knapsack, ConcaveKnapsack:
		if len(rhs) != 1 {
			return nil, wrapErrorf(ErrMalformedBatch, "row %d: %s wants a scalar right-hand side, got %d values", br.row, kind, len(rhs))
		}
	case NetworkFlow:
		nr, square := IntSqrt(n)
		if !square || len(rhs) != nr {
			return nil, wrapErrorf(ErrMalformedBatch, "row %d: %s with n=%d wants %d right-hand-side values, got %d", br.row, kind, n, nr, len(rhs))
		}
	}

	x := make([][]float64, n)
	y := make([][]float64, n)
	for i := 0; i < n; i++ {
		if x[i], err = br.readFloatRow(k + 1); err != nil {
			return nil, err
		}
	}
	for i := 0; i < n; i++ {
		if y[i], err = br.readFloatRow(k + 1); err != nil {
			return nil, err
		}
	}

	return &Instance{
		Kind: kind,
		N:    n,
		K:    k,
		Baseline: BaselineTimes{
			Total:    times[0],
			Solver:   times[1],
			LP:       times[2],
			Envelope: times[3],
			PLF:      times[4],
		},
		RHS: rhs,
		X:   x,
		Y:   y,
	}, nil
}

// readFloatRow reads one row and parses all fields. want < 0 accepts any
// column count; otherwise a mismatch is a malformed block.
func (br *BatchReader) readFloatRow(want int) ([]float64, error) {
	rec, err := br.r.Read()
	if err != nil {
		// Running out of rows inside a block is corruption, not a
		// clean end of the table.
		return nil, wrapErrorf(ErrMalformedBatch, "row %d: truncated block: %v", br.row+1, err)
	}
	br.row++
	if want >= 0 && len(rec) != want {
		return nil, wrapErrorf(ErrMalformedBatch, "row %d: got %d columns, want %d", br.row, len(rec), want)
	}
	vals := make([]float64, len(rec))
	for i, f := range rec {
		vals[i], err = strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, wrapErrorf(ErrMalformedBatch, "row %d: bad value %q", br.row, f)
		}
	}
	return vals, nil
}

func parseKind(s string) (Kind, bool) {
	switch s {
	case string(Knapsack):
		return Knapsack, true
	case string(ConcaveKnapsack):
		return ConcaveKnapsack, true
	// The instance generator writes the kind with a space; accept the
	// dashed spelling too.
	case string(NetworkFlow), "network-flow":
		return NetworkFlow, true
	}
	return "", false
}

// WriteRows re-serializes the instance as one table block, the inverse of
// BatchReader.Next modulo floating-point formatting.
func (inst *Instance) WriteRows(w *csv.Writer) error {
	header := []string{
		string(inst.Kind),
		strconv.Itoa(inst.N),
		strconv.Itoa(inst.K),
		FormatFloat(inst.Baseline.Total),
		FormatFloat(inst.Baseline.Solver),
		FormatFloat(inst.Baseline.LP),
		FormatFloat(inst.Baseline.Envelope),
		FormatFloat(inst.Baseline.PLF),
	}
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.Write(formatFloatRow(inst.RHS)); err != nil {
		return err
	}
	for _, row := range inst.X {
		if err := w.Write(formatFloatRow(row)); err != nil {
			return err
		}
	}
	for _, row := range inst.Y {
		if err := w.Write(formatFloatRow(row)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloatRow(vals []float64) []string {
	rec := make([]string, len(vals))
	for i, v := range vals {
		rec[i] = FormatFloat(v)
	}
	return rec
}
