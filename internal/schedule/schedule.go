package schedule

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
)

const (
	OffWorkout  = "OFF"
	DaysPerWeek = 7
	DefaultYear = 2026
)

//go:embed data/*.json
var defaultPlans embed.FS

type Day struct {
	Date    string `json:"date"`
	Day     string `json:"day"`
	Workout string `json:"workout"`
	OffDay  bool   `json:"offDay"`
}

type Week struct {
	WeekNum   int    `json:"weekNum"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Total     string `json:"total"`
	Days      []Day  `json:"days"`
}

type Month struct {
	Month       string `json:"month"`
	Phase       string `json:"phase"`
	Description string `json:"description"`
	Hills       string `json:"hills,omitempty"`
	Weeks       []Week `json:"weeks"`
}

// Year maps month numbers (1..12) to the plan of that month.
type Year map[int]*Month

// Index holds the plans of all known years. It is never mutated after
// construction; merges produce a new Index.
type Index map[int]Year

// Slot addresses a single day by its position in the index.
type Slot struct {
	Month     int `json:"month"`
	WeekIndex int `json:"weekIndex"`
	DayIndex  int `json:"dayIndex"`
}

// Default returns the built-in plan.
func Default() (Index, error) {
	raw, err := defaultPlans.ReadFile(fmt.Sprintf("data/plan_%d.json", DefaultYear))
	if err != nil {
		return nil, fmt.Errorf("read default plan: %w", err)
	}

	idx := Index{}
	if err := json.Unmarshal(raw, &idx); err != nil {
		return nil, fmt.Errorf("unmarshal default plan: %w", err)
	}
	return idx, nil
}

// DayAt returns the scheduled day at the given slot.
func (idx Index) DayAt(year int, slot Slot) (Day, bool) {
	month, ok := idx[year][slot.Month]
	if !ok || month == nil {
		return Day{}, false
	}
	if slot.WeekIndex < 0 || slot.WeekIndex >= len(month.Weeks) {
		return Day{}, false
	}
	week := month.Weeks[slot.WeekIndex]
	if slot.DayIndex < 0 || slot.DayIndex >= len(week.Days) {
		return Day{}, false
	}
	return week.Days[slot.DayIndex], true
}

// Months returns the month numbers of a year in ascending order.
func (y Year) Months() []int {
	months := make([]int, 0, len(y))
	for m := range y {
		months = append(months, m)
	}
	sort.Ints(months)
	return months
}

// WithYear returns a copy of the index where the given year is replaced.
func (idx Index) WithYear(year int, y Year) Index {
	merged := make(Index, len(idx)+1)
	for k, v := range idx {
		merged[k] = v
	}
	merged[year] = y
	return merged
}

// MergeMonths shallow-merges the months of other into a copy of y; months
// present in other replace those in y.
func (y Year) MergeMonths(other Year) Year {
	merged := make(Year, len(y)+len(other))
	for m, month := range y {
		merged[m] = month
	}
	for m, month := range other {
		merged[m] = month
	}
	return merged
}
