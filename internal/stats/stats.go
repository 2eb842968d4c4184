package stats

import (
	"github.com/2beens/runcal/internal/overlay"
	"github.com/2beens/runcal/internal/schedule"
)

const DefaultWindow = 12

// Overlays is the read side of the overlay store.
type Overlays interface {
	Swap(slotKey string) (string, bool)
	Completed(dateKey string) bool
	Distance(dateKey string) (float64, bool)
	BlankWeekGoal(weekKey string) (float64, bool)
}

type WeekStats struct {
	Week      int     `json:"week"`
	Blank     bool    `json:"blank"`
	Completed float64 `json:"completed"`
	Planned   float64 `json:"planned"`
}

type WeekMileage struct {
	Week  int     `json:"week"`
	Miles float64 `json:"miles"`
}

type Progress struct {
	Percentage float64 `json:"percentage"`
	Complete   bool    `json:"complete"`
}

// Aggregator derives weekly numbers from the schedule and the overlays. It
// holds no state of its own.
type Aggregator struct {
	year     int
	index    schedule.Index
	overlays Overlays
}

func NewAggregator(year int, index schedule.Index, overlays Overlays) *Aggregator {
	return &Aggregator{
		year:     year,
		index:    index,
		overlays: overlays,
	}
}

// EffectiveWorkout returns the text shown for a scheduled day after swaps.
func (a *Aggregator) EffectiveWorkout(ref schedule.WeekRef, dayIndex int) string {
	if text, ok := a.overlays.Swap(overlay.SlotKey(a.year, ref.Slot(dayIndex))); ok {
		return text
	}
	return ref.Week.Days[dayIndex].Workout
}

// WeeklyStats returns the completed and planned miles of a week.
//
// Scheduled weeks plan the miles of every effective workout that is not
// "OFF"; completed days count their logged distance, or the planned miles
// if nothing was logged. A completed day whose effective text is "OFF"
// still counts its logged distance while planning nothing.
//
// Blank weeks plan their goal (0 if unset) and complete the sum of logged
// distances of completed days.
func (a *Aggregator) WeeklyStats(week int) WeekStats {
	ref, ok := a.index.ScheduleForWeek(a.year, week)
	if !ok {
		return a.blankWeekStats(week)
	}

	stats := WeekStats{Week: week}
	for i, day := range ref.Week.Days {
		text := a.EffectiveWorkout(ref, i)
		miles := schedule.ExtractMiles(text)
		if !schedule.IsOff(text) {
			stats.Planned += miles
		}

		dateKey := overlay.DateKey(a.year, day.Date)
		if !a.overlays.Completed(dateKey) {
			continue
		}
		if logged, ok := a.overlays.Distance(dateKey); ok {
			stats.Completed += logged
		} else {
			stats.Completed += miles
		}
	}

	return stats
}

func (a *Aggregator) blankWeekStats(week int) WeekStats {
	stats := WeekStats{Week: week, Blank: true}
	if goal, ok := a.overlays.BlankWeekGoal(overlay.WeekKey(a.year, week)); ok {
		stats.Planned = goal
	}
	stats.Completed = a.loggedCompletedMiles(week)
	return stats
}

func (a *Aggregator) loggedCompletedMiles(week int) float64 {
	dates, ok := schedule.DatesForWeek(a.year, week)
	if !ok {
		return 0
	}

	total := 0.0
	for _, date := range dates {
		dateKey := overlay.DateKey(a.year, date)
		if !a.overlays.Completed(dateKey) {
			continue
		}
		if logged, ok := a.overlays.Distance(dateKey); ok {
			total += logged
		}
	}
	return total
}

// RollingMileage returns the completed miles of each week in the window
// ending at endWeek, oldest first. The window is cut at week 1.
//
// Scheduled days count their logged distance when present and non-zero,
// otherwise the effective planned miles unless the effective text is "OFF".
// The fallback deliberately reads the swapped-in text rather than the
// day's original workout and off-day flag, so a swapped week charts the same
// miles WeeklyStats reports for it.
// Blank weeks count completed, logged miles only; their goals are ignored.
func (a *Aggregator) RollingMileage(endWeek, window int) []WeekMileage {
	if window <= 0 {
		window = DefaultWindow
	}
	endWeek = schedule.ClampWeek(endWeek)
	startWeek := max(schedule.FirstWeek, endWeek-window+1)

	series := make([]WeekMileage, 0, endWeek-startWeek+1)
	for week := startWeek; week <= endWeek; week++ {
		series = append(series, WeekMileage{
			Week:  week,
			Miles: a.completedMiles(week),
		})
	}
	return series
}

func (a *Aggregator) completedMiles(week int) float64 {
	ref, ok := a.index.ScheduleForWeek(a.year, week)
	if !ok {
		return a.loggedCompletedMiles(week)
	}

	total := 0.0
	for i, day := range ref.Week.Days {
		dateKey := overlay.DateKey(a.year, day.Date)
		if !a.overlays.Completed(dateKey) {
			continue
		}
		if logged, ok := a.overlays.Distance(dateKey); ok && logged != 0 {
			total += logged
			continue
		}
		if text := a.EffectiveWorkout(ref, i); !schedule.IsOff(text) {
			total += schedule.ExtractMiles(text)
		}
	}
	return total
}

// ProgressOf returns the completion percentage, capped at 100, and whether
// the week's plan is met.
func ProgressOf(s WeekStats) Progress {
	if s.Planned <= 0 {
		return Progress{}
	}
	return Progress{
		Percentage: min(s.Completed/s.Planned*100, 100),
		Complete:   s.Completed >= s.Planned,
	}
}
