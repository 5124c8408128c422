package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ignite/adlens/internal/domain"
)

// DefaultTimezone is used when a schedule has no timezone.
const DefaultTimezone = "America/New_York"

const dateLayout = "2006-01-02"

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimezone, name)
	}
	return loc, nil
}

// parseTimeOfDay parses "HH:MM" on a 24-hour clock.
func parseTimeOfDay(s string) (int, int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[1]) != 2 {
		return 0, 0, ErrInvalidTime
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, ErrInvalidTime
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, ErrInvalidTime
	}
	return h, m, nil
}

// NextRun computes the first run of a new schedule strictly after now, in
// the schedule's timezone.
func NextRun(s *domain.ScheduledReport, now time.Time) (time.Time, error) {
	loc, err := loadLocation(s.Timezone)
	if err != nil {
		return time.Time{}, err
	}
	h, m, err := parseTimeOfDay(s.TimeOfDay)
	if err != nil {
		return time.Time{}, err
	}

	local := now.In(loc)
	y, mo, d := local.Date()
	wd := int(local.Weekday())

	var next time.Time
	switch s.Frequency {
	case domain.FrequencyWeekly:
		next = time.Date(y, mo, d+(7+s.DayOfWeek-wd)%7, h, m, 0, 0, loc)
	case domain.FrequencyBiweekly:
		next = time.Date(y, mo, d+(14+s.DayOfWeek-wd)%14, h, m, 0, 0, loc)
	case domain.FrequencyMonthly:
		next = time.Date(y, mo, s.DayOfMonth, h, m, 0, 0, loc)
	case domain.FrequencyQuarterly:
		quarterStart := time.Month((int(mo)-1)/3*3 + 1)
		next = time.Date(y, quarterStart+3, s.DayOfMonth, h, m, 0, 0, loc)
	default:
		return time.Time{}, ErrInvalidFrequency
	}

	for !next.After(now) {
		next = step(s.Frequency, next)
	}
	return next, nil
}

// Advance moves a schedule forward from its last due time until the next
// run is strictly after now. Missed periods are skipped, not replayed.
func Advance(s *domain.ScheduledReport, due, now time.Time) (time.Time, error) {
	if !s.Frequency.Valid() {
		return time.Time{}, ErrInvalidFrequency
	}
	loc, err := loadLocation(s.Timezone)
	if err != nil {
		return time.Time{}, err
	}
	next := step(s.Frequency, due.In(loc))
	for !next.After(now) {
		next = step(s.Frequency, next)
	}
	return next, nil
}

func step(f domain.ReportFrequency, t time.Time) time.Time {
	switch f {
	case domain.FrequencyWeekly:
		return t.AddDate(0, 0, 7)
	case domain.FrequencyBiweekly:
		return t.AddDate(0, 0, 14)
	case domain.FrequencyMonthly:
		return t.AddDate(0, 1, 0)
	case domain.FrequencyQuarterly:
		return t.AddDate(0, 3, 0)
	}
	return t.AddDate(0, 0, 7)
}

// DateRange returns the inclusive reporting window ending today in the
// schedule's timezone, as YYYY-MM-DD strings.
func DateRange(rt domain.DateRangeType, now time.Time, timezone string) (string, string, error) {
	loc, err := loadLocation(timezone)
	if err != nil {
		return "", "", err
	}
	y, mo, d := now.In(loc).Date()
	end := time.Date(y, mo, d, 0, 0, 0, 0, loc)

	var start time.Time
	switch rt {
	case domain.RangeLast7:
		start = end.AddDate(0, 0, -7)
	case domain.RangeLast14:
		start = end.AddDate(0, 0, -14)
	case domain.RangeLast30:
		start = end.AddDate(0, 0, -30)
	case domain.RangeThisMonth:
		start = time.Date(y, mo, 1, 0, 0, 0, 0, loc)
	case domain.RangeThisQuarter:
		start = time.Date(y, time.Month((int(mo)-1)/3*3+1), 1, 0, 0, 0, 0, loc)
	default:
		return "", "", ErrInvalidRange
	}
	return start.Format(dateLayout), end.Format(dateLayout), nil
}
