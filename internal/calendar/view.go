package calendar

import (
	"fmt"
	"strconv"

	"github.com/2beens/runcal/internal/stats"
)

const blankDayDisplay = "—"

var weekdayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

type DayView struct {
	Index     int      `json:"index"`
	Date      string   `json:"date"`
	Weekday   string   `json:"weekday"`
	Workout   string   `json:"workout,omitempty"`
	Display   string   `json:"display"`
	OffDay    bool     `json:"offDay"`
	Completed bool     `json:"completed"`
	Today     bool     `json:"today"`
	Swapping  bool     `json:"swapping"`
	Distance  *float64 `json:"distance,omitempty"`
	Note      string   `json:"note,omitempty"`
}

// WeekView is everything needed to draw one week of the calendar.
type WeekView struct {
	Subject    string          `json:"subject"`
	Title      string          `json:"title"`
	WeekNumber int             `json:"weekNumber"`
	Blank      bool            `json:"blank"`
	Phase      string          `json:"phase,omitempty"`
	StartDate  string          `json:"startDate"`
	EndDate    string          `json:"endDate"`
	Total      string          `json:"total,omitempty"`
	Goal       *float64        `json:"goal,omitempty"`
	Days       []DayView       `json:"days"`
	Stats      stats.WeekStats `json:"stats"`
	Progress   stats.Progress  `json:"progress"`
	SwapStatus string          `json:"swapStatus,omitempty"`
}

func formatMiles(miles float64) string {
	return strconv.FormatFloat(miles, 'f', -1, 64)
}

// scheduledDisplay renders a scheduled day. With a logged distance the
// planned miles are shown next to the actual ones.
func scheduledDisplay(workout string, plannedMiles float64, logged *float64) string {
	if logged == nil {
		return workout
	}
	if plannedMiles > 0 {
		return fmt.Sprintf("%s (%s mi → %.1f mi)", workout, formatMiles(plannedMiles), *logged)
	}
	return fmt.Sprintf("%.1f mi", *logged)
}

func blankDisplay(logged *float64, note string) string {
	if logged == nil {
		return blankDayDisplay
	}
	if note != "" {
		return fmt.Sprintf("%.1f mi (%s)", *logged, note)
	}
	return fmt.Sprintf("%.1f mi", *logged)
}

func weekTitle(monthName string, year, week int) string {
	return fmt.Sprintf("%s %d - Week %d", monthName, year, week)
}
