package schedule

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/adlens/internal/domain"
)

func newYork(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func TestNextRun(t *testing.T) {
	ny := newYork(t)
	// Wednesday 2024-03-06 10:00 in New York.
	now := time.Date(2024, 3, 6, 10, 0, 0, 0, ny)

	tests := []struct {
		name  string
		sched domain.ScheduledReport
		want  time.Time
	}{
		{
			name:  "weekly later this week crosses DST",
			sched: domain.ScheduledReport{Frequency: domain.FrequencyWeekly, DayOfWeek: 1, TimeOfDay: "09:00"},
			want:  time.Date(2024, 3, 11, 9, 0, 0, 0, ny),
		},
		{
			name:  "weekly today already passed",
			sched: domain.ScheduledReport{Frequency: domain.FrequencyWeekly, DayOfWeek: 3, TimeOfDay: "09:00"},
			want:  time.Date(2024, 3, 13, 9, 0, 0, 0, ny),
		},
		{
			name:  "weekly today still ahead",
			sched: domain.ScheduledReport{Frequency: domain.FrequencyWeekly, DayOfWeek: 3, TimeOfDay: "11:30"},
			want:  time.Date(2024, 3, 6, 11, 30, 0, 0, ny),
		},
		{
			name:  "biweekly",
			sched: domain.ScheduledReport{Frequency: domain.FrequencyBiweekly, DayOfWeek: 1, TimeOfDay: "09:00"},
			want:  time.Date(2024, 3, 18, 9, 0, 0, 0, ny),
		},
		{
			name:  "monthly day passed rolls to next month",
			sched: domain.ScheduledReport{Frequency: domain.FrequencyMonthly, DayOfMonth: 5, TimeOfDay: "08:00"},
			want:  time.Date(2024, 4, 5, 8, 0, 0, 0, ny),
		},
		{
			name:  "monthly day ahead",
			sched: domain.ScheduledReport{Frequency: domain.FrequencyMonthly, DayOfMonth: 15, TimeOfDay: "08:00"},
			want:  time.Date(2024, 3, 15, 8, 0, 0, 0, ny),
		},
		{
			name:  "quarterly starts next quarter",
			sched: domain.ScheduledReport{Frequency: domain.FrequencyQuarterly, DayOfMonth: 1, TimeOfDay: "07:15"},
			want:  time.Date(2024, 4, 1, 7, 15, 0, 0, ny),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextRun(&tt.sched, now)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestNextRun_QuarterlyWrapsYear(t *testing.T) {
	ny := newYork(t)
	now := time.Date(2024, 11, 20, 12, 0, 0, 0, ny)
	s := &domain.ScheduledReport{Frequency: domain.FrequencyQuarterly, DayOfMonth: 1, TimeOfDay: "09:00"}

	got, err := NextRun(s, now)
	require.NoError(t, err)
	assert.True(t, time.Date(2025, 1, 1, 9, 0, 0, 0, ny).Equal(got))
}

func TestNextRun_UsesScheduleTimezone(t *testing.T) {
	now := time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)
	s := &domain.ScheduledReport{
		Frequency:  domain.FrequencyMonthly,
		DayOfMonth: 10,
		TimeOfDay:  "09:00",
		Timezone:   "Europe/London",
	}
	got, err := NextRun(s, now)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10T09:00:00Z", got.UTC().Format(time.RFC3339))
}

func TestNextRun_Invalid(t *testing.T) {
	now := time.Now()

	_, err := NextRun(&domain.ScheduledReport{Frequency: "daily", TimeOfDay: "09:00"}, now)
	assert.ErrorIs(t, err, ErrInvalidFrequency)

	_, err = NextRun(&domain.ScheduledReport{Frequency: domain.FrequencyWeekly, TimeOfDay: "25:00"}, now)
	assert.ErrorIs(t, err, ErrInvalidTime)

	_, err = NextRun(&domain.ScheduledReport{Frequency: domain.FrequencyWeekly, TimeOfDay: "09:00", Timezone: "Mars/Olympus"}, now)
	assert.ErrorIs(t, err, ErrInvalidTimezone)
}

func TestParseTimeOfDay(t *testing.T) {
	for _, ok := range []string{"00:00", "9:05", "23:59"} {
		_, _, err := parseTimeOfDay(ok)
		assert.NoError(t, err, ok)
	}
	for _, bad := range []string{"", "9", "9:5", "24:00", "12:60", "ab:cd", "12:00:00"} {
		_, _, err := parseTimeOfDay(bad)
		assert.ErrorIs(t, err, ErrInvalidTime, bad)
	}
}

func TestAdvance(t *testing.T) {
	ny := newYork(t)

	t.Run("monthly one step", func(t *testing.T) {
		s := &domain.ScheduledReport{Frequency: domain.FrequencyMonthly, DayOfMonth: 15}
		due := time.Date(2024, 3, 15, 9, 0, 0, 0, ny)
		got, err := Advance(s, due, due.Add(time.Minute))
		require.NoError(t, err)
		assert.True(t, time.Date(2024, 4, 15, 9, 0, 0, 0, ny).Equal(got))
	})

	t.Run("weekly skips missed periods", func(t *testing.T) {
		s := &domain.ScheduledReport{Frequency: domain.FrequencyWeekly, DayOfWeek: 1}
		due := time.Date(2024, 1, 1, 9, 0, 0, 0, ny)
		now := time.Date(2024, 3, 6, 10, 0, 0, 0, ny)
		got, err := Advance(s, due, now)
		require.NoError(t, err)
		assert.True(t, time.Date(2024, 3, 11, 9, 0, 0, 0, ny).Equal(got), "got %s", got)
	})

	t.Run("quarterly", func(t *testing.T) {
		s := &domain.ScheduledReport{Frequency: domain.FrequencyQuarterly, DayOfMonth: 1}
		due := time.Date(2024, 4, 1, 9, 0, 0, 0, ny)
		got, err := Advance(s, due, due)
		require.NoError(t, err)
		assert.True(t, time.Date(2024, 7, 1, 9, 0, 0, 0, ny).Equal(got))
	})

	t.Run("biweekly", func(t *testing.T) {
		s := &domain.ScheduledReport{Frequency: domain.FrequencyBiweekly}
		due := time.Date(2024, 3, 4, 9, 0, 0, 0, ny)
		got, err := Advance(s, due, due)
		require.NoError(t, err)
		assert.True(t, time.Date(2024, 3, 18, 9, 0, 0, 0, ny).Equal(got))
	})

	t.Run("invalid frequency", func(t *testing.T) {
		_, err := Advance(&domain.ScheduledReport{Frequency: "hourly"}, time.Now(), time.Now())
		assert.ErrorIs(t, err, ErrInvalidFrequency)
	})
}

func TestDateRange(t *testing.T) {
	// 15:00 UTC is 10:00 in New York.
	now := time.Date(2024, 3, 6, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		rt    domain.DateRangeType
		start string
	}{
		{domain.RangeLast7, "2024-02-28"},
		{domain.RangeLast14, "2024-02-21"},
		{domain.RangeLast30, "2024-02-05"},
		{domain.RangeThisMonth, "2024-03-01"},
		{domain.RangeThisQuarter, "2024-01-01"},
	}
	for _, tt := range tests {
		t.Run(string(tt.rt), func(t *testing.T) {
			start, end, err := DateRange(tt.rt, now, "")
			require.NoError(t, err)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, "2024-03-06", end)
		})
	}
}

func TestDateRange_LocalDateNotUTC(t *testing.T) {
	// Already March 7 in UTC but still March 6 in New York.
	now := time.Date(2024, 3, 7, 3, 0, 0, 0, time.UTC)
	_, end, err := DateRange(domain.RangeLast7, now, "America/New_York")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-06", end)

	_, _, err = DateRange("yesterday", now, "")
	assert.ErrorIs(t, err, ErrInvalidRange)
}
