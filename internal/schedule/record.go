package schedule

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var ErrInvalidStation = errors.New("schedule: invalid station name")

// Field names one column of a schedule record. The order of Fields is the
// output order of every codec.
type Field int

const (
	FieldOrigin Field = iota
	FieldDestination
	FieldDeparture
	FieldArrival
)

var Fields = []Field{FieldOrigin, FieldDestination, FieldDeparture, FieldArrival}

func (f Field) String() string {
	switch f {
	case FieldOrigin:
		return "origin"
	case FieldDestination:
		return "destination"
	case FieldDeparture:
		return "departure"
	case FieldArrival:
		return "arrival"
	default:
		return "unknown"
	}
}

// TrainRecord is one scheduled trip.
type TrainRecord struct {
	Origin      string
	Destination string
	Departure   TimeOfDay
	Arrival     TimeOfDay
}

// ValidateStation reports whether s can be stored as a station name. Names
// must be valid UTF-8 and must not contain a carriage return; every such name
// survives both file formats unchanged.
func ValidateStation(s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: not valid UTF-8", ErrInvalidStation)
	}
	if strings.ContainsRune(s, '\r') {
		return fmt.Errorf("%w: contains a carriage return", ErrInvalidStation)
	}
	return nil
}

func NewTrainRecord(origin, destination string, departure, arrival TimeOfDay) (TrainRecord, error) {
	if err := ValidateStation(origin); err != nil {
		return TrainRecord{}, fmt.Errorf("origin: %w", err)
	}
	if err := ValidateStation(destination); err != nil {
		return TrainRecord{}, fmt.Errorf("destination: %w", err)
	}
	if !departure.Valid() || !arrival.Valid() {
		return TrainRecord{}, ErrInvalidTime
	}
	return TrainRecord{Origin: origin, Destination: destination, Departure: departure, Arrival: arrival}, nil
}

// Station returns the station stored in f. Time fields yield "".
func (r TrainRecord) Station(f Field) string {
	switch f {
	case FieldOrigin:
		return r.Origin
	case FieldDestination:
		return r.Destination
	default:
		return ""
	}
}

// Value renders f the way codecs write it.
func (r TrainRecord) Value(f Field) string {
	switch f {
	case FieldOrigin:
		return r.Origin
	case FieldDestination:
		return r.Destination
	case FieldDeparture:
		return r.Departure.String()
	case FieldArrival:
		return r.Arrival.String()
	default:
		return ""
	}
}

// Clone returns a copy of records that shares no backing array with it.
// A nil input yields an empty, non-nil slice.
func Clone(records []TrainRecord) []TrainRecord {
	out := make([]TrainRecord, len(records))
	copy(out, records)
	return out
}
