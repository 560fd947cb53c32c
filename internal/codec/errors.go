package codec

import (
	"errors"
	"fmt"

	"github.com/tttuuu13/aeroexpress-bot/internal/schedule"
)

// DecodeError reports why an input file was rejected. Record is the 1-based
// index of the offending record (0 when the whole document is malformed) and
// Field is set when a single field is at fault.
type DecodeError struct {
	Format Format
	Record int
	Field  string
	Err    error
}

func (e *DecodeError) Error() string {
	if e == nil {
		return "codec: decode failed"
	}
	switch {
	case e.Record > 0 && e.Field != "":
		return fmt.Sprintf("decode %s: record %d: field %s: %v", e.Format, e.Record, e.Field, e.Err)
	case e.Record > 0:
		return fmt.Sprintf("decode %s: record %d: %v", e.Format, e.Record, e.Err)
	case e.Field != "":
		return fmt.Sprintf("decode %s: field %s: %v", e.Format, e.Field, e.Err)
	default:
		return fmt.Sprintf("decode %s: %v", e.Format, e.Err)
	}
}

func (e *DecodeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

var (
	errMissingField = errors.New("missing required field")
	errEmptyInput   = errors.New("empty input")
)

func fieldError(f Format, record int, field schedule.Field, err error) *DecodeError {
	return &DecodeError{Format: f, Record: record, Field: field.String(), Err: err}
}
