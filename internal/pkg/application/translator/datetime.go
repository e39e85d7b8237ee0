package translator

import (
	"fmt"
	"strings"
	"time"
)

const (
	naiveLayout  string = "2006-01-02T15:04:05.999999999"
	secondLayout string = "2006-01-02T15:04:05"
)

// FormatDateTime parses an xsd:dateTime lexical form and renders the instant in
// ISO 8601 with microsecond precision. Fractional seconds are only written when
// non-zero and offsets are written as +hh:mm, so that UTC becomes +00:00. Values
// without a zone are written without an offset.
func FormatDateTime(lexical string) (string, error) {
	value := strings.TrimSpace(lexical)

	t, err := time.Parse(time.RFC3339Nano, value)
	zoned := err == nil

	if !zoned {
		t, err = time.Parse(naiveLayout, value)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidDateTime, lexical)
		}
	}

	t = t.Truncate(time.Microsecond)

	var sb strings.Builder
	sb.WriteString(t.Format(secondLayout))

	if us := t.Nanosecond() / int(time.Microsecond); us != 0 {
		fmt.Fprintf(&sb, ".%06d", us)
	}

	if zoned {
		sb.WriteString(t.Format("-07:00"))
	}

	return sb.String(), nil
}
