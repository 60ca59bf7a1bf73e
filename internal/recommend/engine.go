package recommend

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/smartcampus/copilot/internal/models"
)

// Recommend filters the catalog against the profile, ranks the survivors
// and attaches an explanation to each. The result is deterministic for
// identical inputs: ordering is rating descending, then cost ascending,
// then catalog order.
func Recommend(profile models.Profile, catalog []models.Activity) []models.Recommendation {
	recs := make([]models.Recommendation, 0, len(catalog))
	for _, activity := range catalog {
		if !Eligible(profile, activity) {
			continue
		}
		recs = append(recs, models.Recommendation{
			Activity:    activity,
			Score:       activity.Rating,
			Explanation: Explain(profile, activity),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i].Activity, recs[j].Activity
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		return a.Cost < b.Cost
	})
	return recs
}

// Eligible applies the two hard cuts: the activity must fit the weekly
// budget, and it must share a tag with the profile's interests unless the
// profile has none.
func Eligible(profile models.Profile, activity models.Activity) bool {
	if activity.Cost > profile.WeeklyBudget {
		return false
	}
	if len(profile.Interests) == 0 {
		return true
	}
	return len(matchedTags(profile, activity)) > 0
}

// Explain builds the human-readable reason an activity was recommended.
// It is a pure function of (profile, activity); identical inputs always
// produce identical text.
func Explain(profile models.Profile, activity models.Activity) string {
	var b strings.Builder

	matched := matchedTags(profile, activity)
	switch len(matched) {
	case 0:
		fmt.Fprintf(&b, "Popular on campus with a %.1f rating.", activity.Rating)
	case 1:
		fmt.Fprintf(&b, "Matches your interest in %s.", matched[0])
	default:
		fmt.Fprintf(&b, "Matches your interests in %s and %s.",
			strings.Join(matched[:len(matched)-1], ", "), matched[len(matched)-1])
	}

	if activity.Cost == 0 {
		b.WriteString(" It's free.")
	} else {
		fmt.Fprintf(&b, " Costs %s.", FormatCost(activity.Cost))
	}
	return b.String()
}

// FormatCost renders a cost without trailing zeros, e.g. 350 and 4.5.
func FormatCost(cost float64) string {
	return strconv.FormatFloat(cost, 'f', -1, 64)
}

// matchedTags returns the activity tags that appear in the profile's
// interests, in the activity's tag order so the result is stable.
func matchedTags(profile models.Profile, activity models.Activity) []string {
	var matched []string
	for _, tag := range activity.Tags {
		if profile.HasInterest(tag) {
			matched = append(matched, tag)
		}
	}
	return matched
}
