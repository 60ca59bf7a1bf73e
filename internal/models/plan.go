package models

// ScheduleEntry is one block on the weekly grid. It occupies
// DurationSlots contiguous slots starting at StartSlot within one day.
type ScheduleEntry struct {
	Day           int     `json:"day"`
	StartSlot     int     `json:"start_slot"`
	DurationSlots int     `json:"duration_slots"`
	Title         string  `json:"title"`
	Cost          float64 `json:"cost"`
}

// EndSlot returns the exclusive end of the entry's slot range.
func (e ScheduleEntry) EndSlot() int {
	return e.StartSlot + e.DurationSlots
}

// Overlaps reports whether two entries occupy a common slot. Entries on
// different days never overlap.
func (e ScheduleEntry) Overlaps(other ScheduleEntry) bool {
	if e.Day != other.Day {
		return false
	}
	return e.StartSlot < other.EndSlot() && other.StartSlot < e.EndSlot()
}

// Plan is the complete set of an owner's scheduled entries for the week.
// Each owner has exactly one plan; saving always replaces the whole set.
type Plan struct {
	OwnerID int64           `json:"owner_id"`
	Entries []ScheduleEntry `json:"entries"`
}

// EmptyPlan returns a plan with no entries for the given owner.
func EmptyPlan(ownerID int64) Plan {
	return Plan{OwnerID: ownerID, Entries: []ScheduleEntry{}}
}
