package codec

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tttuuu13/aeroexpress-bot/internal/schedule"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSV is format A: comma-separated rows under a header line naming the
// columns. Columns are matched by header name; unknown columns are ignored.
type CSV struct{}

func (CSV) Format() Format { return FormatCSV }

func (CSV) Decode(data []byte) ([]schedule.TrainRecord, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &DecodeError{Format: FormatCSV, Err: errEmptyInput}
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, &DecodeError{Format: FormatCSV, Err: fmt.Errorf("read header: %w", err)}
	}
	columns := make(map[schedule.Field]int, len(schedule.Fields))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		for _, f := range schedule.Fields {
			if name == f.String() {
				if _, dup := columns[f]; dup {
					return nil, &DecodeError{Format: FormatCSV, Field: f.String(), Err: fmt.Errorf("duplicate column %q", name)}
				}
				columns[f] = i
			}
		}
	}
	for _, f := range schedule.Fields {
		if _, ok := columns[f]; !ok {
			return nil, &DecodeError{Format: FormatCSV, Field: f.String(), Err: fmt.Errorf("header: %w", errMissingField)}
		}
	}

	records := make([]schedule.TrainRecord, 0)
	for n := 1; ; n++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &DecodeError{Format: FormatCSV, Record: n, Err: err}
		}
		cell := func(f schedule.Field) (string, bool) {
			i := columns[f]
			if i >= len(row) {
				return "", false
			}
			return row[i], true
		}
		rec, derr := buildRecord(FormatCSV, n, cell)
		if derr != nil {
			return nil, derr
		}
		records = append(records, rec)
	}
	return records, nil
}

func (CSV) Encode(records []schedule.TrainRecord) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := make([]string, len(schedule.Fields))
	for i, f := range schedule.Fields {
		header[i] = f.String()
	}
	_ = w.Write(header)
	row := make([]string, len(schedule.Fields))
	for _, rec := range records {
		for i, f := range schedule.Fields {
			row[i] = rec.Value(f)
		}
		_ = w.Write(row)
	}
	w.Flush()
	return buf.Bytes()
}

// buildRecord assembles one record from per-field lookups shared by both
// formats. Station names are kept verbatim; times must parse.
func buildRecord(format Format, n int, cell func(schedule.Field) (string, bool)) (schedule.TrainRecord, *DecodeError) {
	var (
		stations [2]string
		times    [2]schedule.TimeOfDay
	)
	for _, f := range schedule.Fields {
		v, ok := cell(f)
		if !ok {
			return schedule.TrainRecord{}, fieldError(format, n, f, errMissingField)
		}
		switch f {
		case schedule.FieldOrigin, schedule.FieldDestination:
			if err := schedule.ValidateStation(v); err != nil {
				return schedule.TrainRecord{}, fieldError(format, n, f, err)
			}
			stations[f-schedule.FieldOrigin] = v
		case schedule.FieldDeparture, schedule.FieldArrival:
			t, err := schedule.ParseTimeOfDay(v)
			if err != nil {
				return schedule.TrainRecord{}, fieldError(format, n, f, err)
			}
			times[f-schedule.FieldDeparture] = t
		}
	}
	rec, err := schedule.NewTrainRecord(stations[0], stations[1], times[0], times[1])
	if err != nil {
		return schedule.TrainRecord{}, &DecodeError{Format: format, Record: n, Err: err}
	}
	return rec, nil
}
