package dataprocessing

import (
	"fmt"
	"strings"

	apperrors "svcpulse/internal/errors"
)

// UnknownValue replaces a missing categorical field.
const UnknownValue = "Unknown"

// ColumnLayout maps the named fields of a service-call row onto their
// zero-based column positions.
type ColumnLayout struct {
	Calls          int
	ITSystem       int
	Period         int
	ServiceName    int
	Operation      int
	ServiceVersion int
	SupportSystem  int
}

// DefaultServiceLayout is the column layout of the KOSDY extracts.
func DefaultServiceLayout() ColumnLayout {
	return ColumnLayout{
		Calls:          0,
		ITSystem:       2,
		Period:         6,
		ServiceName:    7,
		Operation:      8,
		ServiceVersion: 9,
		SupportSystem:  10,
	}
}

func (l ColumnLayout) columns() []struct {
	name  string
	index int
} {
	return []struct {
		name  string
		index int
	}{
		{"calls", l.Calls},
		{"it_system", l.ITSystem},
		{"period", l.Period},
		{"service_name", l.ServiceName},
		{"operation", l.Operation},
		{"service_version", l.ServiceVersion},
		{"support_system", l.SupportSystem},
	}
}

// Validate checks that every index is non-negative and that no two fields
// share a column.
func (l ColumnLayout) Validate() error {
	seen := make(map[int]string, 7)
	for _, c := range l.columns() {
		if c.index < 0 {
			return apperrors.NewAppValidationError(fmt.Sprintf("column %s has negative index %d", c.name, c.index))
		}
		if other, ok := seen[c.index]; ok {
			return apperrors.NewAppValidationError(fmt.Sprintf("columns %s and %s share index %d", other, c.name, c.index))
		}
		seen[c.index] = c.name
	}
	return nil
}

// CallEvent is the typed projection of one admitted service-call row.
type CallEvent struct {
	Calls          int64
	ITSystem       string
	Period         string
	ServiceName    string
	Operation      string
	ServiceVersion string
	SupportSystem  string
}

// Extractor projects raw rows onto CallEvents and applies the admission gate.
type Extractor struct {
	layout     ColumnLayout
	nullMarker string
}

// NewExtractor validates layout once and returns an extractor bound to it.
func NewExtractor(layout ColumnLayout, nullMarker string) (*Extractor, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return &Extractor{layout: layout, nullMarker: nullMarker}, nil
}

// Extract returns the event for fields and whether the row is admitted.
// A row is rejected when its service version is missing, blank or equal to
// the null marker.
func (e *Extractor) Extract(fields []string) (CallEvent, bool) {
	version := field(fields, e.layout.ServiceVersion)
	if version == "" || version == e.nullMarker || strings.TrimSpace(version) == "" {
		return CallEvent{}, false
	}

	return CallEvent{
		Calls:          ParseCount(field(fields, e.layout.Calls)),
		ITSystem:       orUnknown(field(fields, e.layout.ITSystem)),
		Period:         field(fields, e.layout.Period),
		ServiceName:    orUnknown(field(fields, e.layout.ServiceName)),
		Operation:      orUnknown(field(fields, e.layout.Operation)),
		ServiceVersion: version,
		SupportSystem:  orUnknown(field(fields, e.layout.SupportSystem)),
	}, true
}

func field(fields []string, i int) string {
	if i >= len(fields) {
		return ""
	}
	return fields[i]
}

func orUnknown(s string) string {
	if s == "" {
		return UnknownValue
	}
	return s
}

// ParseCount reads an optional sign followed by leading decimal digits,
// ignoring anything after them. Input without leading digits, or a value
// that overflows int64, yields 0.
func ParseCount(s string) int64 {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	var n int64
	digits := 0
	for ; digits < len(s); digits++ {
		c := s[digits]
		if c < '0' || c > '9' {
			break
		}
		d := int64(c - '0')
		if n > (1<<63-1-d)/10 {
			return 0
		}
		n = n*10 + d
	}
	if digits == 0 {
		return 0
	}
	if neg {
		return -n
	}
	return n
}
