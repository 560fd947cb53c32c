package query

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/tttuuu13/aeroexpress-bot/internal/schedule"
)

// ErrNoRecordSet is returned by callers that guard against querying before a
// file was loaded. The functions here assume a present, possibly empty slice.
var ErrNoRecordSet = errors.New("query: no record set loaded")

// SortKey selects the time field used by Sort.
type SortKey int

const (
	SortByDeparture SortKey = iota + 1
	SortByArrival
)

func (k SortKey) String() string {
	switch k {
	case SortByDeparture:
		return "departure"
	case SortByArrival:
		return "arrival"
	default:
		return "unknown"
	}
}

// Filter keeps records whose station field equals value exactly. Only
// FieldOrigin and FieldDestination are station fields; any other field
// matches nothing.
func Filter(records []schedule.TrainRecord, field schedule.Field, value string) []schedule.TrainRecord {
	out := make([]schedule.TrainRecord, 0, len(records))
	if field != schedule.FieldOrigin && field != schedule.FieldDestination {
		return out
	}
	for _, rec := range records {
		if rec.Station(field) == value {
			out = append(out, rec)
		}
	}
	return out
}

// FilterRoute keeps records that match both the origin and the destination.
func FilterRoute(records []schedule.TrainRecord, origin, destination string) []schedule.TrainRecord {
	out := make([]schedule.TrainRecord, 0, len(records))
	for _, rec := range records {
		if rec.Origin == origin && rec.Destination == destination {
			out = append(out, rec)
		}
	}
	return out
}

// Sort returns a new slice ordered ascending by key. Records with equal keys
// keep their input order.
func Sort(records []schedule.TrainRecord, key SortKey) []schedule.TrainRecord {
	out := schedule.Clone(records)
	switch key {
	case SortByDeparture:
		slices.SortStableFunc(out, func(a, b schedule.TrainRecord) int {
			return cmp.Compare(a.Departure, b.Departure)
		})
	case SortByArrival:
		slices.SortStableFunc(out, func(a, b schedule.TrainRecord) int {
			return cmp.Compare(a.Arrival, b.Arrival)
		})
	}
	return out
}

// ParseError reports a free-text reply that does not have the expected shape.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	if e == nil {
		return "query: parse failed"
	}
	return fmt.Sprintf("query: parse %q: %s", e.Input, e.Reason)
}

// ParseRoute splits an "origin-destination" reply on its single hyphen.
// Station names are not trimmed or case-folded.
func ParseRoute(reply string) (origin, destination string, err error) {
	switch strings.Count(reply, "-") {
	case 0:
		return "", "", &ParseError{Input: reply, Reason: "missing hyphen"}
	case 1:
	default:
		return "", "", &ParseError{Input: reply, Reason: "more than one hyphen"}
	}
	origin, destination, _ = strings.Cut(reply, "-")
	if origin == "" || destination == "" {
		return "", "", &ParseError{Input: reply, Reason: "empty station"}
	}
	return origin, destination, nil
}
