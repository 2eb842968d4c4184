package schedule

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrInvalidJSON     = errors.New("invalid JSON")
	ErrMissingYear     = errors.New("schedule year missing")
	ErrInvalidSchedule = errors.New("invalid schedule")
)

// DecodeYear parses an uploaded schedule document shaped like the index
// ({"2026": {"3": {...}}}) and returns the validated months of the given year.
// Nothing is returned unless the whole document is valid.
func DecodeYear(raw []byte, year int) (Year, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w - %s", ErrInvalidJSON, err)
	}

	yearRaw, ok := doc[strconv.Itoa(year)]
	if !ok {
		return nil, fmt.Errorf("%w: JSON must contain year %d", ErrMissingYear, year)
	}

	var monthsRaw map[string]*Month
	if err := json.Unmarshal(yearRaw, &monthsRaw); err != nil {
		return nil, fmt.Errorf("%w - %s", ErrInvalidJSON, err)
	}

	y := make(Year, len(monthsRaw))
	for key, month := range monthsRaw {
		m, err := strconv.Atoi(key)
		if err != nil || m < 1 || m > 12 {
			return nil, fmt.Errorf("%w: month key [%s] must be 1..12", ErrInvalidSchedule, key)
		}
		if month == nil {
			return nil, fmt.Errorf("%w: month %d is empty", ErrInvalidSchedule, m)
		}
		if err := month.validate(); err != nil {
			return nil, fmt.Errorf("%w: month %d: %s", ErrInvalidSchedule, m, err)
		}
		y[m] = month
	}

	return y, nil
}

func (m *Month) validate() error {
	for i, w := range m.Weeks {
		if w.WeekNum < FirstWeek || w.WeekNum > LastWeek {
			return fmt.Errorf("week #%d: weekNum %d out of range", i, w.WeekNum)
		}
		if len(w.Days) != DaysPerWeek {
			return fmt.Errorf("week %d: expected %d days, got %d", w.WeekNum, DaysPerWeek, len(w.Days))
		}
		for _, d := range w.Days {
			if _, _, err := ParseDate(d.Date); err != nil {
				return fmt.Errorf("week %d: %w", w.WeekNum, err)
			}
		}
	}
	return nil
}
