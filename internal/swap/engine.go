package swap

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/runcal/internal/overlay"
	"github.com/2beens/runcal/internal/schedule"
)

var (
	ErrSwapUnavailable = errors.New("swap not available for blank weeks")
	ErrSlotNotFound    = errors.New("slot not found in schedule")
)

type Action string

const (
	ActionSelected  Action = "selected"
	ActionCancelled Action = "cancelled"
	ActionSwapped   Action = "swapped"
)

const StatusSwapped = "Swapped workouts!"

// swapOverlay is the slot keyed text layer swaps are written to.
type swapOverlay interface {
	Get(key string) (string, bool)
	Set(ctx context.Context, key, workout string)
}

type Result struct {
	Action Action        `json:"action"`
	Status string        `json:"status"`
	Slot   schedule.Slot `json:"slot"`
}

// Engine is a two step selector: the first selected day arms it, selecting
// the same day again disarms it and selecting any other day exchanges the
// two days' workout texts. Only slot keyed text moves; completion and
// distance stay on their calendar dates.
type Engine struct {
	year  int
	index schedule.Index
	swaps swapOverlay

	armed  *schedule.Slot
	status string
}

func NewEngine(year int, index schedule.Index, swaps swapOverlay) *Engine {
	return &Engine{
		year:  year,
		index: index,
		swaps: swaps,
	}
}

// SetIndex replaces the schedule the engine resolves slots in and drops
// any pending selection.
func (e *Engine) SetIndex(index schedule.Index) {
	e.index = index
	e.Reset()
}

func (e *Engine) Armed() (schedule.Slot, bool) {
	if e.armed == nil {
		return schedule.Slot{}, false
	}
	return *e.armed, true
}

func (e *Engine) Status() string {
	return e.status
}

// ClearStatus drops the status message but keeps a pending selection.
func (e *Engine) ClearStatus() {
	e.status = ""
}

func (e *Engine) Reset() {
	e.armed = nil
	e.status = ""
}

func (e *Engine) Select(ctx context.Context, slot schedule.Slot) (Result, error) {
	day, ok := e.index.DayAt(e.year, slot)
	if !ok {
		return Result{}, fmt.Errorf("%w: %+v", ErrSlotNotFound, slot)
	}

	if e.armed == nil {
		e.armed = &slot
		e.status = fmt.Sprintf("%s selected. Pick another day to complete swap.", day.Day)
		return Result{Action: ActionSelected, Status: e.status, Slot: slot}, nil
	}

	if *e.armed == slot {
		e.Reset()
		return Result{Action: ActionCancelled, Slot: slot}, nil
	}

	from := *e.armed
	if err := e.Commit(ctx, from, slot); err != nil {
		return Result{}, err
	}
	e.armed = nil
	e.status = StatusSwapped
	return Result{Action: ActionSwapped, Status: e.status, Slot: slot}, nil
}

// Commit exchanges the effective workout texts of two slots.
func (e *Engine) Commit(ctx context.Context, a, b schedule.Slot) error {
	textA, ok := e.EffectiveWorkout(a)
	if !ok {
		return fmt.Errorf("%w: %+v", ErrSlotNotFound, a)
	}
	textB, ok := e.EffectiveWorkout(b)
	if !ok {
		return fmt.Errorf("%w: %+v", ErrSlotNotFound, b)
	}

	e.swaps.Set(ctx, overlay.SlotKey(e.year, a), textB)
	e.swaps.Set(ctx, overlay.SlotKey(e.year, b), textA)
	return nil
}

// EffectiveWorkout returns the swapped text of a slot, or the scheduled
// one if the slot was never swapped.
func (e *Engine) EffectiveWorkout(slot schedule.Slot) (string, bool) {
	day, ok := e.index.DayAt(e.year, slot)
	if !ok {
		return "", false
	}
	if text, swapped := e.swaps.Get(overlay.SlotKey(e.year, slot)); swapped {
		return text, true
	}
	return day.Workout, true
}
