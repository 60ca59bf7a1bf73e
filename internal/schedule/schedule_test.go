package schedule

import (
	"testing"

	"github.com/smartcampus/copilot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceDetectsOverlap(t *testing.T) {
	plan := models.EmptyPlan(1)

	plan, err := Place(plan, models.ScheduleEntry{Day: 0, StartSlot: 0, DurationSlots: 2, Title: "Study Session"})
	require.NoError(t, err)

	// [0,2) and [1,2) share slot 1.
	_, err = Place(plan, models.ScheduleEntry{Day: 0, StartSlot: 1, DurationSlots: 1, Title: "Coffee Break"})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Study Session", conflict.Existing.Title)
	assert.Equal(t, "Coffee Break", conflict.Entry.Title)
}

func TestPlaceAllowsAdjacentAndOtherDays(t *testing.T) {
	plan := models.EmptyPlan(1)

	plan, err := Place(plan, models.ScheduleEntry{Day: 0, StartSlot: 0, DurationSlots: 2, Title: "Study Session"})
	require.NoError(t, err)

	// Back to back is not a conflict.
	plan, err = Place(plan, models.ScheduleEntry{Day: 0, StartSlot: 2, DurationSlots: 1, Title: "Coffee Break"})
	require.NoError(t, err)

	// Same slots on another day are fine.
	plan, err = Place(plan, models.ScheduleEntry{Day: 1, StartSlot: 0, DurationSlots: 2, Title: "AI Ethics Class"})
	require.NoError(t, err)

	assert.Len(t, plan.Entries, 3)
}

func TestPlaceDoesNotMutateInput(t *testing.T) {
	original := models.EmptyPlan(1)
	original, err := Place(original, models.ScheduleEntry{Day: 2, StartSlot: 0, DurationSlots: 1, Title: "Yoga"})
	require.NoError(t, err)

	updated, err := Place(original, models.ScheduleEntry{Day: 2, StartSlot: 3, DurationSlots: 1, Title: "Club Meeting"})
	require.NoError(t, err)

	assert.Len(t, original.Entries, 1)
	assert.Len(t, updated.Entries, 2)
}

func TestValidateEntry(t *testing.T) {
	tests := []struct {
		name  string
		entry models.ScheduleEntry
		field string
	}{
		{"day below range", models.ScheduleEntry{Day: -1, StartSlot: 0, DurationSlots: 1}, "day"},
		{"day above range", models.ScheduleEntry{Day: 5, StartSlot: 0, DurationSlots: 1}, "day"},
		{"zero duration", models.ScheduleEntry{Day: 0, StartSlot: 0, DurationSlots: 0}, "duration_slots"},
		{"negative start", models.ScheduleEntry{Day: 0, StartSlot: -1, DurationSlots: 1}, "start_slot"},
		{"runs past end of day", models.ScheduleEntry{Day: 0, StartSlot: 8, DurationSlots: 2}, "start_slot"},
		{"negative cost", models.ScheduleEntry{Day: 0, StartSlot: 0, DurationSlots: 1, Cost: -5}, "cost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verr *ValidationError
			require.ErrorAs(t, ValidateEntry(tt.entry), &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	assert.NoError(t, ValidateEntry(models.ScheduleEntry{Day: 4, StartSlot: 8, DurationSlots: 1}))
}

func TestOptimizeSortsAndPreservesEntries(t *testing.T) {
	plan := models.Plan{OwnerID: 1, Entries: []models.ScheduleEntry{
		{Day: 3, StartSlot: 4, DurationSlots: 2, Title: "Club Meeting"},
		{Day: 0, StartSlot: 3, DurationSlots: 1, Title: "Coffee Break", Cost: 4.5},
		{Day: 0, StartSlot: 0, DurationSlots: 2, Title: "Study Session"},
		{Day: 1, StartSlot: 1, DurationSlots: 2, Title: "AI Ethics Class"},
	}}

	optimized := Optimize(plan)

	require.Len(t, optimized.Entries, len(plan.Entries))
	titles := make([]string, len(optimized.Entries))
	for i, e := range optimized.Entries {
		titles[i] = e.Title
	}
	assert.Equal(t, []string{"Study Session", "Coffee Break", "AI Ethics Class", "Club Meeting"}, titles)

	// Same entries, just reordered.
	assert.ElementsMatch(t, plan.Entries, optimized.Entries)
	assert.NoError(t, ValidatePlan(optimized))
}

func TestOptimizeIdempotent(t *testing.T) {
	plan := models.Plan{OwnerID: 1, Entries: []models.ScheduleEntry{
		{Day: 4, StartSlot: 1, DurationSlots: 1, Title: "Open Mic Night"},
		{Day: 2, StartSlot: 0, DurationSlots: 1, Title: "Yoga", Cost: 200},
	}}

	once := Optimize(plan)
	twice := Optimize(once)

	assert.Equal(t, once, twice)
}

func TestTotalCostAndOverBudget(t *testing.T) {
	plan := models.Plan{OwnerID: 1, Entries: []models.ScheduleEntry{
		{Day: 0, StartSlot: 0, DurationSlots: 1, Title: "Coffee Break", Cost: 350},
		{Day: 1, StartSlot: 0, DurationSlots: 1, Title: "Yoga", Cost: 200},
		{Day: 2, StartSlot: 0, DurationSlots: 2, Title: "Study Session"},
	}}

	assert.Equal(t, 550.0, TotalCost(plan))
	assert.False(t, OverBudget(plan, models.Profile{WeeklyBudget: 5000}))
	assert.True(t, OverBudget(plan, models.Profile{WeeklyBudget: 500}))
}
