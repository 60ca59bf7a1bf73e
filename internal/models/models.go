package models

// Profile holds a user's recommendation preferences. It is owned by the
// user and only changed through the settings update path; the engines
// treat it as read-only input.
type Profile struct {
	Interests    []string `json:"interests"`
	WeeklyBudget float64  `json:"weekly_budget"`
}

// HasInterest reports whether tag is one of the profile's interests.
func (p Profile) HasInterest(tag string) bool {
	for _, i := range p.Interests {
		if i == tag {
			return true
		}
	}
	return false
}

// Activity is a catalog entry. Immutable for the duration of a request.
type Activity struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Cost          float64  `json:"cost"`
	DurationSlots int      `json:"duration_slots"`
	Tags          []string `json:"tags"`
	Rating        float64  `json:"rating"`
}

// Recommendation pairs an activity with its score and a generated
// explanation. Derived per request, never stored.
type Recommendation struct {
	Activity    Activity `json:"activity"`
	Score       float64  `json:"score"`
	Explanation string   `json:"explanation"`
}
