package codec

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/tttuuu13/aeroexpress-bot/internal/schedule"
)

// Format identifies a supported file format.
type Format int

const (
	FormatCSV Format = iota + 1
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// Filename is the name used when the record set is exported in this format.
func (f Format) Filename() string {
	return "result." + f.String()
}

// Codec converts between raw file bytes and an ordered record sequence.
// Decode is all-or-nothing and reports failures as *DecodeError. Encode keeps
// record order and never fails.
type Codec interface {
	Format() Format
	Decode(data []byte) ([]schedule.TrainRecord, error)
	Encode(records []schedule.TrainRecord) []byte
}

var ErrUnsupportedContentType = errors.New("codec: unsupported content type")

var contentTypes = map[string]Format{
	"text/csv":                    FormatCSV,
	"text/comma-separated-values": FormatCSV,
	"application/json":            FormatJSON,
}

// ForFormat returns the codec for f.
func ForFormat(f Format) (Codec, error) {
	switch f {
	case FormatCSV:
		return CSV{}, nil
	case FormatJSON:
		return JSON{}, nil
	default:
		return nil, fmt.Errorf("codec: unknown format %d", int(f))
	}
}

// ForContentType picks a codec from a declared MIME type. Parameters and case
// are ignored.
func ForContentType(contentType string) (Codec, error) {
	mediaType := strings.ToLower(strings.TrimSpace(contentType))
	if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
		mediaType = parsed
	}
	f, ok := contentTypes[mediaType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedContentType, contentType)
	}
	return ForFormat(f)
}

// ForFilename picks a codec from a file extension.
func ForFilename(name string) (Codec, error) {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(name))) {
	case ".csv":
		return CSV{}, nil
	case ".json":
		return JSON{}, nil
	default:
		return nil, fmt.Errorf("%w: file %q", ErrUnsupportedContentType, name)
	}
}
