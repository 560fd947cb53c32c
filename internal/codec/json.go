package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tttuuu13/aeroexpress-bot/internal/schedule"
)

// JSON is format B: a top-level array of objects keyed by field name.
type JSON struct{}

type jsonRecord struct {
	Origin      *string `json:"origin"`
	Destination *string `json:"destination"`
	Departure   *string `json:"departure"`
	Arrival     *string `json:"arrival"`
}

type jsonRecordOut struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Departure   string `json:"departure"`
	Arrival     string `json:"arrival"`
}

func (JSON) Format() Format { return FormatJSON }

func (JSON) Decode(data []byte) ([]schedule.TrainRecord, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &DecodeError{Format: FormatJSON, Err: errEmptyInput}
	}
	var raw []jsonRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &DecodeError{Format: FormatJSON, Err: err}
	}
	if raw == nil {
		return nil, &DecodeError{Format: FormatJSON, Err: fmt.Errorf("expected an array of records")}
	}

	records := make([]schedule.TrainRecord, 0, len(raw))
	for i, item := range raw {
		values := map[schedule.Field]*string{
			schedule.FieldOrigin:      item.Origin,
			schedule.FieldDestination: item.Destination,
			schedule.FieldDeparture:   item.Departure,
			schedule.FieldArrival:     item.Arrival,
		}
		rec, derr := buildRecord(FormatJSON, i+1, func(f schedule.Field) (string, bool) {
			v := values[f]
			if v == nil {
				return "", false
			}
			return *v, true
		})
		if derr != nil {
			return nil, derr
		}
		records = append(records, rec)
	}
	return records, nil
}

func (JSON) Encode(records []schedule.TrainRecord) []byte {
	out := make([]jsonRecordOut, len(records))
	for i, rec := range records {
		out[i] = jsonRecordOut{
			Origin:      rec.Origin,
			Destination: rec.Destination,
			Departure:   rec.Departure.String(),
			Arrival:     rec.Arrival.String(),
		}
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		// Only strings are marshalled.
		panic(fmt.Sprintf("codec: encode json: %v", err))
	}
	return append(b, '\n')
}
