// Package validate holds the input checks shared by the CRUD stores. Every
// failure wraps ErrInvalid so handlers can answer 400 with one errors.Is.
package validate

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalid marks a request that can never succeed as sent.
var ErrInvalid = errors.New("invalid input")

// Errorf builds an ErrInvalid-wrapping error.
func Errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// UserID checks that id is a UUID and returns its canonical form.
func UserID(id string) (string, error) {
	u, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", Errorf("user id %q is not a uuid", id)
	}
	return u.String(), nil
}

// Date parses a YYYY-MM-DD calendar date.
func Date(s string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, Errorf("date %q must be YYYY-MM-DD", s)
	}
	return d, nil
}

// DateRange parses an inclusive [from, to] range. Missing bounds default to
// the days ending at today.
func DateRange(from, to string, days int, today time.Time) (time.Time, time.Time, error) {
	end := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if to != "" {
		d, err := Date(to)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = d
	}
	start := end.AddDate(0, 0, -(days - 1))
	if from != "" {
		d, err := Date(from)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = d
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, Errorf("from %s is after to %s", start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	if end.Sub(start) > 366*24*time.Hour {
		return time.Time{}, time.Time{}, Errorf("range longer than a year")
	}
	return start, end, nil
}

// Between checks lo <= v <= hi.
func Between(field string, v, lo, hi float64) error {
	if v < lo || v > hi {
		return Errorf("%s must be between %g and %g", field, lo, hi)
	}
	return nil
}

// Required rejects blank strings.
func Required(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return Errorf("%s is required", field)
	}
	return nil
}
