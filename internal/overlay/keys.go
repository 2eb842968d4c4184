package overlay

import (
	"fmt"

	"github.com/2beens/runcal/internal/schedule"
)

// DateKey addresses per-calendar-date state: completion, distance and
// blank week workout notes.
func DateKey(year int, date string) string {
	return fmt.Sprintf("%d-%s", year, date)
}

// SlotKey addresses a position in the schedule. Swapped workout texts
// live on slots, never on dates.
func SlotKey(year int, slot schedule.Slot) string {
	return fmt.Sprintf("%d-%d-%d-%d", year, slot.Month, slot.WeekIndex, slot.DayIndex)
}

func WeekKey(year, week int) string {
	return fmt.Sprintf("%d-%d", year, week)
}
