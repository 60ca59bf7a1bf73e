package chat

import "strings"

// Intent is the classified purpose of a free-text message, drawn from a
// fixed closed set. Computed per message, never persisted.
type Intent string

const (
	IntentFindEvents Intent = "find_events"
	IntentBudget     Intent = "budget"
	IntentIdentity   Intent = "identity"
	IntentGreeting   Intent = "greeting"
	IntentPlanDay    Intent = "plan_day"
	IntentUnknown    Intent = "unknown"
)

// rules are tried in order against the lower-cased message; the first
// group with a matching keyword wins. Earlier groups deliberately shadow
// later, broader ones ("what events can I afford this week" is
// FindEvents, not Budget).
var rules = []struct {
	intent   Intent
	keywords []string
}{
	{IntentFindEvents, []string{"event", "happening", "week"}},
	{IntentBudget, []string{"money", "budget", "cost", "save"}},
	{IntentIdentity, []string{"who are you", "ai"}},
	{IntentGreeting, []string{"hello", "hi"}},
	{IntentPlanDay, []string{"plan", "schedule"}},
}

// Classify maps a free-text message to an intent. Pure and stateless;
// each message is classified on its own.
func Classify(message string) Intent {
	lower := strings.ToLower(message)
	for _, rule := range rules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.intent
			}
		}
	}
	return IntentUnknown
}
