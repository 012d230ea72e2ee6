package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the ISO-8601 calendar date format used on the wire.
const DateLayout = "2006-01-02"

// LocalDate is a calendar date without time of day or zone.
type LocalDate struct {
	time.Time
}

// NewLocalDate truncates t to its calendar date in UTC.
func NewLocalDate(year int, month time.Month, day int) LocalDate {
	return LocalDate{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseLocalDate accepts "YYYY-MM-DD" and RFC3339 values.
func ParseLocalDate(s string) (LocalDate, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return LocalDate{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return LocalDate{}, fmt.Errorf("date %q must be ISO 8601 date or datetime", s)
	}
	return NewLocalDate(t.Year(), t.Month(), t.Day()), nil
}

// MustParseLocalDate is ParseLocalDate for fixtures and constants.
func MustParseLocalDate(s string) LocalDate {
	d, err := ParseLocalDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d LocalDate) String() string {
	return d.Format(DateLayout)
}

func (d LocalDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *LocalDate) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseLocalDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DatePtr is a fixture helper.
func DatePtr(s string) *LocalDate {
	d := MustParseLocalDate(s)
	return &d
}
