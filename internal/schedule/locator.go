package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	FirstWeek   = 1
	LastWeek    = 52
	DefaultWeek = 10
)

// weekStartDates holds the first day of every week of the fixed year.
// Week 1 is anchored on Jan 1st, all later weeks start on Mondays.
var weekStartDates = map[int]string{
	1: "1/1", 2: "1/6", 3: "1/13", 4: "1/20", 5: "1/27",
	6: "2/2", 7: "2/9", 8: "2/16", 9: "2/23",
	10: "3/2", 11: "3/9", 12: "3/16", 13: "3/23", 14: "3/30",
	15: "4/6", 16: "4/13", 17: "4/20", 18: "4/27",
	19: "5/4", 20: "5/11", 21: "5/18", 22: "5/25",
	23: "6/1", 24: "6/8", 25: "6/15", 26: "6/22", 27: "6/29",
	28: "7/6", 29: "7/13", 30: "7/20", 31: "7/27",
	32: "8/3", 33: "8/10", 34: "8/17", 35: "8/24", 36: "8/31",
	37: "9/7", 38: "9/14", 39: "9/21", 40: "9/28",
	41: "10/5", 42: "10/12", 43: "10/19", 44: "10/26",
	45: "11/2", 46: "11/9", 47: "11/16", 48: "11/23", 49: "11/30",
	50: "12/7", 51: "12/14", 52: "12/21",
}

var monthFirstWeek = map[int]int{
	1: 1, 2: 6, 3: 10, 4: 15, 5: 19, 6: 23,
	7: 28, 8: 32, 9: 37, 10: 41, 11: 45, 12: 49,
}

// monthLastWeeks approximates which month a week belongs to, used to title
// weeks that have no schedule.
var monthLastWeeks = []struct {
	lastWeek int
	month    time.Month
}{
	{4, time.January},
	{9, time.February},
	{13, time.March},
	{17, time.April},
	{22, time.May},
	{26, time.June},
	{30, time.July},
	{35, time.August},
	{39, time.September},
	{43, time.October},
	{48, time.November},
}

// WeekRef locates a scheduled week inside the index.
type WeekRef struct {
	Week      Week
	Month     int
	WeekIndex int
}

// Slot returns the slot of the given day of the referenced week.
func (r WeekRef) Slot(dayIndex int) Slot {
	return Slot{Month: r.Month, WeekIndex: r.WeekIndex, DayIndex: dayIndex}
}

// ScheduleForWeek finds the scheduled week with the given number. A week
// without an entry is a blank week and yields false.
func (idx Index) ScheduleForWeek(year, week int) (WeekRef, bool) {
	months, ok := idx[year]
	if !ok {
		return WeekRef{}, false
	}
	for _, m := range months.Months() {
		month := months[m]
		if month == nil {
			continue
		}
		for i, w := range month.Weeks {
			if w.WeekNum == week {
				return WeekRef{Week: w, Month: m, WeekIndex: i}, true
			}
		}
	}
	return WeekRef{}, false
}

// CurrentWeek returns the number of the scheduled week containing today.
// Dates falling into blank weeks are not found.
func (idx Index) CurrentWeek(year int, today time.Time) (int, bool) {
	if today.Year() != year {
		return 0, false
	}
	todayStr := FormatDate(today)
	months := idx[year]
	for _, m := range months.Months() {
		month := months[m]
		if month == nil {
			continue
		}
		for _, w := range month.Weeks {
			for _, d := range w.Days {
				if d.Date == todayStr {
					return w.WeekNum, true
				}
			}
		}
	}
	return 0, false
}

// TodaySlot returns the scheduled slot whose date is today.
func (idx Index) TodaySlot(year int, today time.Time) (Slot, bool) {
	if today.Year() != year {
		return Slot{}, false
	}
	todayStr := FormatDate(today)
	months := idx[year]
	for _, m := range months.Months() {
		month := months[m]
		if month == nil {
			continue
		}
		for wi, w := range month.Weeks {
			for di, d := range w.Days {
				if d.Date == todayStr {
					return Slot{Month: m, WeekIndex: wi, DayIndex: di}, true
				}
			}
		}
	}
	return Slot{}, false
}

func StartDateForWeek(week int) (string, bool) {
	date, ok := weekStartDates[week]
	return date, ok
}

// DatesForWeek returns the 7 consecutive "m/d" dates of a week, starting at
// the week's start date.
func DatesForWeek(year, week int) ([]string, bool) {
	start, ok := weekStartDates[week]
	if !ok {
		return nil, false
	}
	month, day, err := ParseDate(start)
	if err != nil {
		return nil, false
	}

	first := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	dates := make([]string, 0, DaysPerWeek)
	for i := 0; i < DaysPerWeek; i++ {
		dates = append(dates, FormatDate(first.AddDate(0, 0, i)))
	}
	return dates, true
}

func EndDateForWeek(year, week int) (string, bool) {
	dates, ok := DatesForWeek(year, week)
	if !ok {
		return "", false
	}
	return dates[len(dates)-1], true
}

// MonthForWeek returns the name of the month a week roughly falls in.
func MonthForWeek(week int) string {
	for _, m := range monthLastWeeks {
		if week <= m.lastWeek {
			return m.month.String()
		}
	}
	return time.December.String()
}

// FirstWeekOfMonth returns the first week number of a month (1..12).
func FirstWeekOfMonth(month int) (int, bool) {
	week, ok := monthFirstWeek[month]
	return week, ok
}

// ClampWeek limits a week number to [FirstWeek, LastWeek].
func ClampWeek(week int) int {
	if week < FirstWeek {
		return FirstWeek
	}
	if week > LastWeek {
		return LastWeek
	}
	return week
}

// ParseDate parses a "m/d" date.
func ParseDate(date string) (month, day int, err error) {
	parts := strings.Split(date, "/")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid date [%s]: expected m/d", date)
	}
	month, err = strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid month in date [%s]", date)
	}
	day, err = strconv.Atoi(parts[1])
	if err != nil || day < 1 || day > 31 {
		return 0, 0, fmt.Errorf("invalid day in date [%s]", date)
	}
	return month, day, nil
}

// FormatDate formats t as "m/d" without leading zeros.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d/%d", int(t.Month()), t.Day())
}
