package stats_test

import (
	"testing"

	"github.com/2beens/runcal/internal/overlay"
	"github.com/2beens/runcal/internal/schedule"
	"github.com/2beens/runcal/internal/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOverlays struct {
	swaps       map[string]string
	completions map[string]bool
	distances   map[string]float64
	goals       map[string]float64
}

func newFakeOverlays() *fakeOverlays {
	return &fakeOverlays{
		swaps:       map[string]string{},
		completions: map[string]bool{},
		distances:   map[string]float64{},
		goals:       map[string]float64{},
	}
}

func (f *fakeOverlays) Swap(key string) (string, bool) {
	v, ok := f.swaps[key]
	return v, ok
}

func (f *fakeOverlays) Completed(key string) bool {
	return f.completions[key]
}

func (f *fakeOverlays) Distance(key string) (float64, bool) {
	v, ok := f.distances[key]
	return v, ok
}

func (f *fakeOverlays) BlankWeekGoal(key string) (float64, bool) {
	v, ok := f.goals[key]
	return v, ok
}

func (f *fakeOverlays) complete(date string) {
	f.completions[overlay.DateKey(2026, date)] = true
}

func (f *fakeOverlays) log(date string, miles float64) {
	f.completions[overlay.DateKey(2026, date)] = true
	f.distances[overlay.DateKey(2026, date)] = miles
}

func newAggregator(t *testing.T) (*stats.Aggregator, *fakeOverlays) {
	t.Helper()
	idx, err := schedule.Default()
	require.NoError(t, err)
	overlays := newFakeOverlays()
	return stats.NewAggregator(2026, idx, overlays), overlays
}

func TestWeeklyStats_ScheduledWeek(t *testing.T) {
	agg, overlays := newAggregator(t)

	s := agg.WeeklyStats(8)
	assert.False(t, s.Blank)
	assert.Equal(t, 20.0, s.Planned)
	assert.Equal(t, 0.0, s.Completed)

	// Monday and the OFF Wednesday
	overlays.complete("2/16")
	overlays.complete("2/18")

	s = agg.WeeklyStats(8)
	assert.Equal(t, 20.0, s.Planned)
	assert.Equal(t, 4.0, s.Completed)
}

func TestWeeklyStats_LoggedDistanceWins(t *testing.T) {
	agg, overlays := newAggregator(t)

	overlays.log("2/16", 4.6)
	overlays.complete("2/17")

	s := agg.WeeklyStats(8)
	assert.InDelta(t, 9.6, s.Completed, 1e-9)
}

func TestWeeklyStats_OffDayAsymmetry(t *testing.T) {
	agg, overlays := newAggregator(t)

	// a run logged on a rest day counts as done but was never planned
	overlays.log("2/18", 3)

	s := agg.WeeklyStats(8)
	assert.Equal(t, 20.0, s.Planned)
	assert.Equal(t, 3.0, s.Completed)
}

func TestWeeklyStats_UsesSwappedText(t *testing.T) {
	agg, overlays := newAggregator(t)

	mon := overlay.SlotKey(2026, schedule.Slot{Month: 2, WeekIndex: 2, DayIndex: 0})
	wed := overlay.SlotKey(2026, schedule.Slot{Month: 2, WeekIndex: 2, DayIndex: 2})
	overlays.swaps[mon] = "OFF"
	overlays.swaps[wed] = "4 mi"

	overlays.complete("2/18")

	s := agg.WeeklyStats(8)
	assert.Equal(t, 20.0, s.Planned)
	// completion stays on the date, miles follow the swapped text
	assert.Equal(t, 4.0, s.Completed)
}

func TestRollingMileage_FollowsSwappedText(t *testing.T) {
	agg, overlays := newAggregator(t)

	mon := overlay.SlotKey(2026, schedule.Slot{Month: 2, WeekIndex: 2, DayIndex: 0})
	wed := overlay.SlotKey(2026, schedule.Slot{Month: 2, WeekIndex: 2, DayIndex: 2})
	overlays.swaps[mon] = "OFF"
	overlays.swaps[wed] = "4 mi"
	// the off day now carries the swapped-in run
	overlays.complete("2/18")

	series := agg.RollingMileage(8, 1)
	require.Len(t, series, 1)
	assert.Equal(t, agg.WeeklyStats(8).Completed, series[0].Miles)
	assert.Equal(t, 4.0, series[0].Miles)
}

func TestWeeklyStats_BlankWeek(t *testing.T) {
	agg, overlays := newAggregator(t)

	s := agg.WeeklyStats(20)
	assert.True(t, s.Blank)
	assert.Equal(t, 0.0, s.Planned)
	assert.Equal(t, 0.0, s.Completed)

	overlays.log("5/11", 3.0)
	overlays.log("5/12", 2.5)
	overlays.goals[overlay.WeekKey(2026, 20)] = 5.5
	// a completed day without logged distance adds nothing in a blank week
	overlays.complete("5/13")
	// a logged but uncompleted distance is ignored
	overlays.distances[overlay.DateKey(2026, "5/14")] = 10

	s = agg.WeeklyStats(20)
	assert.Equal(t, 5.5, s.Planned)
	assert.Equal(t, 5.5, s.Completed)
}

func TestRollingMileage(t *testing.T) {
	agg, overlays := newAggregator(t)

	overlays.complete("3/2")  // week 10, 4 mi planned
	overlays.log("3/3", 5.5)  // week 10
	overlays.log("3/21", 0)   // week 12, zero falls back to planned 8
	overlays.complete("4/1")  // week 14, OFF adds nothing
	overlays.complete("4/2")  // week 14, 6 mi + strides
	overlays.log("4/15", 3.2) // week 16, blank
	overlays.goals["2026-16"] = 40

	series := agg.RollingMileage(14, stats.DefaultWindow)
	require.Len(t, series, 12)
	assert.Equal(t, 3, series[0].Week)
	assert.Equal(t, 14, series[11].Week)

	for _, wm := range series[:7] {
		assert.Equal(t, 0.0, wm.Miles, "week %d", wm.Week)
	}
	assert.Equal(t, 9.5, series[7].Miles)  // week 10
	assert.Equal(t, 0.0, series[8].Miles)  // week 11
	assert.Equal(t, 8.0, series[9].Miles)  // week 12
	assert.Equal(t, 0.0, series[10].Miles) // week 13
	assert.Equal(t, 6.0, series[11].Miles) // week 14

	series = agg.RollingMileage(16, stats.DefaultWindow)
	require.Len(t, series, 12)
	assert.Equal(t, 16, series[11].Week)
	// blank week: logged miles only, goal ignored
	assert.Equal(t, 3.2, series[11].Miles)
}

func TestRollingMileage_WindowCutAtFirstWeek(t *testing.T) {
	agg, _ := newAggregator(t)

	series := agg.RollingMileage(5, stats.DefaultWindow)
	require.Len(t, series, 5)
	assert.Equal(t, 1, series[0].Week)

	series = agg.RollingMileage(60, 0)
	require.Len(t, series, 12)
	assert.Equal(t, 52, series[11].Week)
}

func TestProgressOf(t *testing.T) {
	testCases := []struct {
		name     string
		stats    stats.WeekStats
		expected stats.Progress
	}{
		{
			name:     "nothing planned",
			stats:    stats.WeekStats{Completed: 3},
			expected: stats.Progress{},
		},
		{
			name:     "half way",
			stats:    stats.WeekStats{Planned: 20, Completed: 10},
			expected: stats.Progress{Percentage: 50},
		},
		{
			name:     "exactly met",
			stats:    stats.WeekStats{Planned: 20, Completed: 20},
			expected: stats.Progress{Percentage: 100, Complete: true},
		},
		{
			name:     "over achieved is capped",
			stats:    stats.WeekStats{Planned: 20, Completed: 30},
			expected: stats.Progress{Percentage: 100, Complete: true},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, stats.ProgressOf(tc.stats))
		})
	}
}
