package calendar

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/2beens/runcal/internal/overlay"
	"github.com/2beens/runcal/internal/schedule"
	"github.com/2beens/runcal/internal/stats"
	"github.com/2beens/runcal/internal/swap"
	"github.com/2beens/runcal/internal/telemetry/metrics"
	"github.com/2beens/runcal/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrInvalidDistance = errors.New("please enter a valid distance")
	ErrInvalidGoal     = errors.New("please enter a valid mileage goal")
	ErrInvalidWeek     = errors.New("invalid week")
	ErrInvalidDay      = errors.New("invalid day")
	ErrInvalidMonth    = errors.New("invalid month")
	ErrScheduledWeek   = errors.New("goals can only be set for weeks without a schedule")
)

// Session is the calendar state of one viewer looking at one subject's
// training: the shown week, the mileage chart position, the pending swap
// selection and the subject's overlay store, which it shares with every
// other session showing the same subject.
type Session struct {
	viewerID       string
	subjectID      string
	year           int
	now            func() time.Time
	metricsManager *metrics.Manager

	mutex        sync.Mutex
	week         int
	chartEndWeek int
	index        schedule.Index
	store        *overlay.Store
	swaps        *swap.Engine
	aggregator   *stats.Aggregator
}

func newSession(
	viewerID, subjectID string,
	year int,
	index schedule.Index,
	store *overlay.Store,
	metricsManager *metrics.Manager,
	now func() time.Time,
) *Session {
	week, ok := index.CurrentWeek(year, now())
	if !ok {
		week = schedule.DefaultWeek
	}

	return &Session{
		viewerID:       viewerID,
		subjectID:      subjectID,
		year:           year,
		now:            now,
		metricsManager: metricsManager,
		week:           week,
		chartEndWeek:   week,
		index:          index,
		store:          store,
		swaps:          swap.NewEngine(year, index, store.Swaps()),
		aggregator:     stats.NewAggregator(year, index, store),
	}
}

func (s *Session) ViewerID() string {
	return s.viewerID
}

func (s *Session) SubjectID() string {
	return s.subjectID
}

func (s *Session) Store() *overlay.Store {
	return s.store
}

func (s *Session) Week() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.week
}

func (s *Session) View() WeekView {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.view()
}

// GoToWeek shows the given week, clamped to the valid range.
func (s *Session) GoToWeek(week int) WeekView {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.week = schedule.ClampWeek(week)
	s.swaps.ClearStatus()
	return s.view()
}

// Next steps one week forward. At the last week it stays put.
func (s *Session) Next() WeekView {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.week = schedule.ClampWeek(s.week + 1)
	s.swaps.ClearStatus()
	return s.view()
}

// Prev steps one week back. At the first week it stays put.
func (s *Session) Prev() WeekView {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.week = schedule.ClampWeek(s.week - 1)
	s.swaps.ClearStatus()
	return s.view()
}

func (s *Session) GoToMonth(month int) (WeekView, error) {
	week, ok := schedule.FirstWeekOfMonth(month)
	if !ok {
		return WeekView{}, fmt.Errorf("%w: %d", ErrInvalidMonth, month)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.week = week
	s.swaps.ClearStatus()
	return s.view(), nil
}

// dayRef resolves a day of a week. Scheduled days come with their slot,
// days of blank weeks only have a date.
type dayRef struct {
	date    string
	blank   bool
	weekRef schedule.WeekRef
}

func (s *Session) resolveDay(week, dayIndex int) (dayRef, error) {
	if week < schedule.FirstWeek || week > schedule.LastWeek {
		return dayRef{}, fmt.Errorf("%w: %d", ErrInvalidWeek, week)
	}
	if dayIndex < 0 || dayIndex >= schedule.DaysPerWeek {
		return dayRef{}, fmt.Errorf("%w: %d", ErrInvalidDay, dayIndex)
	}

	if ref, ok := s.index.ScheduleForWeek(s.year, week); ok {
		if dayIndex >= len(ref.Week.Days) {
			return dayRef{}, fmt.Errorf("%w: %d", ErrInvalidDay, dayIndex)
		}
		return dayRef{
			date:    ref.Week.Days[dayIndex].Date,
			weekRef: ref,
		}, nil
	}

	dates, ok := schedule.DatesForWeek(s.year, week)
	if !ok {
		return dayRef{}, fmt.Errorf("%w: %d", ErrInvalidWeek, week)
	}
	return dayRef{
		date:  dates[dayIndex],
		blank: true,
	}, nil
}

// ToggleCompletion flips the completion of a day and shows its week.
func (s *Session) ToggleCompletion(ctx context.Context, week, dayIndex int) (_ WeekView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "calendar.session.togglecompletion")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("week", week), attribute.Int("day", dayIndex))

	s.mutex.Lock()
	defer s.mutex.Unlock()

	day, err := s.resolveDay(week, dayIndex)
	if err != nil {
		return WeekView{}, err
	}

	dateKey := overlay.DateKey(s.year, day.date)
	completed := !s.store.Completed(dateKey)
	if completed {
		s.store.Completions().Set(ctx, dateKey, true)
	} else {
		s.store.Completions().Unset(ctx, dateKey)
	}
	if s.metricsManager != nil {
		s.metricsManager.CounterCompletionToggles.WithLabelValues(strconv.FormatBool(completed)).Inc()
	}

	s.week = week
	return s.view(), nil
}

// LogDistance records the miles run on a day, which also marks the day
// completed. On blank weeks the note is kept as the day's workout text
// and the week goal follows the logged total.
func (s *Session) LogDistance(ctx context.Context, week, dayIndex int, miles float64, note string) (_ WeekView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "calendar.session.logdistance")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("week", week), attribute.Int("day", dayIndex))

	if !validMiles(miles) {
		return WeekView{}, ErrInvalidDistance
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	day, err := s.resolveDay(week, dayIndex)
	if err != nil {
		return WeekView{}, err
	}

	dateKey := overlay.DateKey(s.year, day.date)
	s.store.Distances().Set(ctx, dateKey, miles)
	s.store.Completions().Set(ctx, dateKey, true)
	if s.metricsManager != nil {
		s.metricsManager.CounterDistanceLogs.Inc()
	}

	if day.blank {
		note = strings.TrimSpace(note)
		if note != "" {
			s.store.BlankWeekWorkouts().Set(ctx, dateKey, note)
		} else if _, ok := s.store.BlankWeekWorkout(dateKey); ok {
			s.store.BlankWeekWorkouts().Unset(ctx, dateKey)
		}
		s.store.BlankWeekGoals().Set(ctx, overlay.WeekKey(s.year, week), s.loggedWeekTotal(week))
	}

	s.week = week
	return s.view(), nil
}

// loggedWeekTotal sums every logged distance of a week, completed or not,
// with a floor of 1 so the progress of a blank week stays visible.
func (s *Session) loggedWeekTotal(week int) float64 {
	dates, ok := schedule.DatesForWeek(s.year, week)
	if !ok {
		return 1
	}
	total := 0.0
	for _, date := range dates {
		if miles, ok := s.store.Distance(overlay.DateKey(s.year, date)); ok {
			total += miles
		}
	}
	return max(total, 1)
}

// SetBlankWeekGoal sets the mileage goal of a week without a schedule. The
// next logged distance in that week recomputes it.
func (s *Session) SetBlankWeekGoal(ctx context.Context, week int, miles float64) (_ WeekView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "calendar.session.setblankweekgoal")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("week", week))

	if !validMiles(miles) {
		return WeekView{}, ErrInvalidGoal
	}
	if week < schedule.FirstWeek || week > schedule.LastWeek {
		return WeekView{}, fmt.Errorf("%w: %d", ErrInvalidWeek, week)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.index.ScheduleForWeek(s.year, week); ok {
		return WeekView{}, ErrScheduledWeek
	}

	s.store.BlankWeekGoals().Set(ctx, overlay.WeekKey(s.year, week), miles)

	s.week = week
	return s.view(), nil
}

// SelectSwap feeds a day into the swap selector.
func (s *Session) SelectSwap(ctx context.Context, week, dayIndex int) (_ swap.Result, _ WeekView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "calendar.session.selectswap")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("week", week), attribute.Int("day", dayIndex))

	s.mutex.Lock()
	defer s.mutex.Unlock()

	day, err := s.resolveDay(week, dayIndex)
	if err != nil {
		return swap.Result{}, WeekView{}, err
	}
	if day.blank {
		return swap.Result{}, WeekView{}, swap.ErrSwapUnavailable
	}

	result, err := s.swaps.Select(ctx, day.weekRef.Slot(dayIndex))
	if err != nil {
		return swap.Result{}, WeekView{}, err
	}
	if result.Action == swap.ActionSwapped && s.metricsManager != nil {
		s.metricsManager.CounterSwaps.Inc()
	}

	s.week = week
	return result, s.view(), nil
}

func (s *Session) WeeklyStats(week int) stats.WeekStats {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.aggregator.WeeklyStats(week)
}

// Mileage returns the rolling mileage series ending at endWeek. A zero
// endWeek keeps the chart where it is.
func (s *Session) Mileage(endWeek, window int) []stats.WeekMileage {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if endWeek != 0 {
		s.chartEndWeek = schedule.ClampWeek(endWeek)
	}
	return s.aggregator.RollingMileage(s.chartEndWeek, window)
}

// ReplaceSchedule swaps in a new schedule index, for example after a coach
// upload. A pending swap selection is dropped.
func (s *Session) ReplaceSchedule(index schedule.Index) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.index = index
	s.swaps.SetIndex(index)
	s.aggregator = stats.NewAggregator(s.year, index, s.store)
}

func validMiles(miles float64) bool {
	return !math.IsNaN(miles) && !math.IsInf(miles, 0) && miles >= 0
}

// view builds the week view of the current week. Callers hold the mutex.
func (s *Session) view() WeekView {
	weekStats := s.aggregator.WeeklyStats(s.week)
	v := WeekView{
		Subject:    s.subjectID,
		WeekNumber: s.week,
		Stats:      weekStats,
		Progress:   stats.ProgressOf(weekStats),
		SwapStatus: s.swaps.Status(),
	}

	if ref, ok := s.index.ScheduleForWeek(s.year, s.week); ok {
		s.fillScheduledWeek(&v, ref)
	} else {
		s.fillBlankWeek(&v)
	}
	return v
}

func (s *Session) fillScheduledWeek(v *WeekView, ref schedule.WeekRef) {
	month := s.index[s.year][ref.Month]
	v.Title = weekTitle(month.Month, s.year, s.week)
	v.Phase = month.Phase
	v.StartDate = ref.Week.StartDate
	v.EndDate = ref.Week.EndDate
	v.Total = ref.Week.Total

	todaySlot, hasToday := s.index.TodaySlot(s.year, s.now())
	armed, isArmed := s.swaps.Armed()

	v.Days = make([]DayView, 0, len(ref.Week.Days))
	for i, day := range ref.Week.Days {
		slot := ref.Slot(i)
		dateKey := overlay.DateKey(s.year, day.Date)
		workout := s.aggregator.EffectiveWorkout(ref, i)

		dv := DayView{
			Index:     i,
			Date:      day.Date,
			Weekday:   day.Day,
			Workout:   workout,
			OffDay:    schedule.IsOff(workout),
			Completed: s.store.Completed(dateKey),
			Today:     hasToday && todaySlot == slot,
			Swapping:  isArmed && armed == slot,
		}
		if miles, ok := s.store.Distance(dateKey); ok {
			dv.Distance = &miles
		}
		dv.Display = scheduledDisplay(workout, schedule.ExtractMiles(workout), dv.Distance)
		v.Days = append(v.Days, dv)
	}
}

func (s *Session) fillBlankWeek(v *WeekView) {
	v.Blank = true
	v.Title = weekTitle(schedule.MonthForWeek(s.week), s.year, s.week)
	v.StartDate, _ = schedule.StartDateForWeek(s.week)
	v.EndDate, _ = schedule.EndDateForWeek(s.year, s.week)

	goal, _ := s.store.BlankWeekGoal(overlay.WeekKey(s.year, s.week))
	v.Goal = &goal

	dates, _ := schedule.DatesForWeek(s.year, s.week)
	today := schedule.FormatDate(s.now())
	isThisYear := s.now().Year() == s.year

	v.Days = make([]DayView, 0, schedule.DaysPerWeek)
	for i, name := range weekdayNames {
		dv := DayView{
			Index:   i,
			Weekday: name,
			Display: blankDayDisplay,
		}
		if i < len(dates) {
			dateKey := overlay.DateKey(s.year, dates[i])
			dv.Date = dates[i]
			dv.Today = isThisYear && dates[i] == today
			dv.Completed = s.store.Completed(dateKey)
			dv.Note, _ = s.store.BlankWeekWorkout(dateKey)
			if miles, ok := s.store.Distance(dateKey); ok {
				dv.Distance = &miles
			}
			dv.Display = blankDisplay(dv.Distance, dv.Note)
		}
		v.Days = append(v.Days, dv)
	}
}
