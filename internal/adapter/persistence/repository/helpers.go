package repository

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Money and percentages are stored as decimal strings so no precision is lost
// to DynamoDB number round-trips through float64.

func decString(d decimal.Decimal) string {
	return d.String()
}

func optDecString(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func formatOptTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

// itemDecoder parses stored strings and keeps the first failure. Empty strings
// decode to zero values.
type itemDecoder struct {
	err error
}

func (d *itemDecoder) fail(field, raw string, err error) {
	if d.err == nil {
		d.err = fmt.Errorf("invalid %s %q: %w", field, raw, err)
	}
}

func (d *itemDecoder) dec(field, s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		d.fail(field, s, err)
		return decimal.Zero
	}
	return v
}

func (d *itemDecoder) optDec(field, s string) *decimal.Decimal {
	if s == "" {
		return nil
	}
	v := d.dec(field, s)
	return &v
}

func (d *itemDecoder) timestamp(field, s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		d.fail(field, s, err)
		return time.Time{}
	}
	return t.UTC()
}

func (d *itemDecoder) optTimestamp(field, s string) *time.Time {
	if s == "" {
		return nil
	}
	t := d.timestamp(field, s)
	return &t
}
