package schedule

import (
	"fmt"
	"sort"

	"github.com/smartcampus/copilot/internal/models"
)

// The weekly grid covers Monday to Friday, 9 AM to 6 PM, one slot per hour.
const (
	DaysPerWeek = 5
	SlotsPerDay = 9
)

// ConflictError reports a placement that overlaps an existing entry.
// Recoverable: the caller decides whether to replace, shift or reject.
type ConflictError struct {
	Entry    models.ScheduleEntry
	Existing models.ScheduleEntry
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("schedule conflict: %q overlaps %q on day %d (slots %d-%d)",
		e.Entry.Title, e.Existing.Title, e.Entry.Day, e.Existing.StartSlot, e.Existing.EndSlot())
}

// ValidationError reports structurally invalid input, rejected before any
// state is touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ValidateEntry checks that an entry fits the weekly grid.
func ValidateEntry(entry models.ScheduleEntry) error {
	if entry.Day < 0 || entry.Day >= DaysPerWeek {
		return &ValidationError{Field: "day", Reason: fmt.Sprintf("must be in [0, %d)", DaysPerWeek)}
	}
	if entry.DurationSlots < 1 {
		return &ValidationError{Field: "duration_slots", Reason: "must be at least 1"}
	}
	if entry.StartSlot < 0 || entry.EndSlot() > SlotsPerDay {
		return &ValidationError{Field: "start_slot", Reason: fmt.Sprintf("entry must fit within %d slots", SlotsPerDay)}
	}
	if entry.Cost < 0 {
		return &ValidationError{Field: "cost", Reason: "must not be negative"}
	}
	return nil
}

// Place returns a new plan with the entry added, or a ConflictError naming
// the colliding entry. The input plan is never mutated.
func Place(plan models.Plan, entry models.ScheduleEntry) (models.Plan, error) {
	if err := ValidateEntry(entry); err != nil {
		return models.Plan{}, err
	}
	for _, existing := range plan.Entries {
		if entry.Overlaps(existing) {
			return models.Plan{}, &ConflictError{Entry: entry, Existing: existing}
		}
	}

	entries := make([]models.ScheduleEntry, 0, len(plan.Entries)+1)
	entries = append(entries, plan.Entries...)
	entries = append(entries, entry)
	return models.Plan{OwnerID: plan.OwnerID, Entries: entries}, nil
}

// Optimize reorders the week by ascending (day, start slot) without
// touching any entry's day, time, duration, title or cost. Applying it to
// an already ordered plan is a no-op.
func Optimize(plan models.Plan) models.Plan {
	entries := make([]models.ScheduleEntry, len(plan.Entries))
	copy(entries, plan.Entries)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Day != entries[j].Day {
			return entries[i].Day < entries[j].Day
		}
		return entries[i].StartSlot < entries[j].StartSlot
	})
	return models.Plan{OwnerID: plan.OwnerID, Entries: entries}
}

// TotalCost sums the cost of every entry in the plan.
func TotalCost(plan models.Plan) float64 {
	var total float64
	for _, e := range plan.Entries {
		total += e.Cost
	}
	return total
}

// OverBudget is a soft signal that the planned week costs more than the
// profile allows. Manually placed entries may exceed the budget; the
// scheduler flags, it does not block.
func OverBudget(plan models.Plan, profile models.Profile) bool {
	return TotalCost(plan) > profile.WeeklyBudget
}
