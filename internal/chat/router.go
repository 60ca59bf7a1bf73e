package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/smartcampus/copilot/internal/models"
	"github.com/smartcampus/copilot/internal/recommend"
	"github.com/smartcampus/copilot/internal/schedule"
	"github.com/smartcampus/copilot/internal/storage"
	"go.uber.org/zap"
)

// Reply is what the router returns to the caller.
type Reply struct {
	Intent Intent `json:"intent"`
	Text   string `json:"text"`
}

// Directory is the slice of the store the router reads from.
type Directory interface {
	GetProfile(ctx context.Context, ownerID int64) (models.Profile, error)
	GetCatalog(ctx context.Context) ([]models.Activity, error)
}

// Router classifies a message and composes the response, pulling in the
// recommendation engine or the scheduler where the intent calls for it.
// It keeps no conversation history.
type Router struct {
	store     Directory
	planner   *schedule.Service
	assistant *Assistant
	logger    *zap.Logger
}

// NewRouter creates a router. assistant may be nil; the Unknown intent
// then falls back to a canned suggestion.
func NewRouter(store Directory, planner *schedule.Service, assistant *Assistant, logger *zap.Logger) *Router {
	return &Router{
		store:     store,
		planner:   planner,
		assistant: assistant,
		logger:    logger,
	}
}

// Reply classifies the message and builds the response text.
func (r *Router) Reply(ctx context.Context, ownerID int64, displayName, message string) (Reply, error) {
	profile, err := r.store.GetProfile(ctx, ownerID)
	if errors.Is(err, storage.ErrNotFound) {
		profile = models.Profile{}
	} else if err != nil {
		return Reply{}, fmt.Errorf("get profile: %w", err)
	}

	intent := Classify(message)
	switch intent {
	case IntentFindEvents:
		text, err := r.findEvents(ctx, profile)
		if err != nil {
			return Reply{}, err
		}
		return Reply{Intent: intent, Text: text}, nil
	case IntentBudget:
		return Reply{Intent: intent, Text: budgetTip(profile)}, nil
	case IntentIdentity:
		return Reply{Intent: intent, Text: identityBlurb}, nil
	case IntentGreeting:
		return Reply{Intent: intent, Text: greeting(displayName)}, nil
	case IntentPlanDay:
		text, err := r.planSummary(ctx, ownerID, profile)
		if err != nil {
			return Reply{}, err
		}
		return Reply{Intent: intent, Text: text}, nil
	default:
		return Reply{Intent: IntentUnknown, Text: r.fallback(ctx, message)}, nil
	}
}

const maxListedEvents = 3

func (r *Router) findEvents(ctx context.Context, profile models.Profile) (string, error) {
	catalog, err := r.store.GetCatalog(ctx)
	if err != nil {
		return "", fmt.Errorf("get catalog: %w", err)
	}

	recs := recommend.Recommend(profile, catalog)
	if len(recs) == 0 {
		return "I couldn't find any events matching your interests and budget this week. Try widening your interests in your profile.", nil
	}
	if len(recs) > maxListedEvents {
		recs = recs[:maxListedEvents]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "I found %d events for you this week:\n", len(recs))
	for _, rec := range recs {
		fmt.Fprintf(&b, "- %s (%s) — %s\n", rec.Activity.Title, costLabel(rec.Activity.Cost), rec.Explanation)
	}
	b.WriteString("Would you like me to add any of these to your planner?")
	return b.String(), nil
}

func (r *Router) planSummary(ctx context.Context, ownerID int64, profile models.Profile) (string, error) {
	plan, err := r.planner.Load(ctx, ownerID)
	if err != nil {
		return "", err
	}
	if len(plan.Entries) == 0 {
		return "Your planner is empty. Ask me about events this week and I'll suggest some to schedule.", nil
	}

	plan = schedule.Optimize(plan)

	var b strings.Builder
	b.WriteString("Here's your week:\n")
	for _, e := range plan.Entries {
		fmt.Fprintf(&b, "- %s %s: %s (%s)\n", dayName(e.Day), slotLabel(e.StartSlot), e.Title, costLabel(e.Cost))
	}
	total := schedule.TotalCost(plan)
	fmt.Fprintf(&b, "Total planned spend: %s.", costLabel(total))
	if schedule.OverBudget(plan, profile) {
		fmt.Fprintf(&b, " That's over your weekly budget of %s.", costLabel(profile.WeeklyBudget))
	}
	return b.String(), nil
}

func budgetTip(profile models.Profile) string {
	if profile.WeeklyBudget <= 0 {
		return "You haven't set a weekly budget yet. Set one in your profile and I'll keep your plans within it."
	}
	return fmt.Sprintf("With your weekly budget of %s, the free campus events are the best value. I'll flag your planner whenever it runs over.",
		costLabel(profile.WeeklyBudget))
}

const identityBlurb = "I'm your campus copilot. I match events to your interests and budget and keep your weekly schedule conflict-free."

func greeting(displayName string) string {
	if displayName == "" {
		displayName = "there"
	}
	return fmt.Sprintf("Hello %s! I can help you find events, plan your week, or keep an eye on your budget. What's on your mind?", displayName)
}

const unknownFallback = "I'm not sure I follow. Ask me what's happening this week, how to stay within budget, or to plan your day."

func (r *Router) fallback(ctx context.Context, message string) string {
	if r.assistant == nil {
		return unknownFallback
	}
	text, err := r.assistant.Suggest(ctx, message)
	if err != nil {
		r.logger.Error("Assistant fallback failed", zap.Error(err))
		return unknownFallback
	}
	return text
}

var dayNames = [...]string{"Mon", "Tue", "Wed", "Thu", "Fri"}

func dayName(day int) string {
	if day < 0 || day >= len(dayNames) {
		return "?"
	}
	return dayNames[day]
}

// slotLabel renders a grid slot as a clock hour; slot 0 is 9 AM.
func slotLabel(slot int) string {
	hour := 9 + slot
	switch {
	case hour < 12:
		return fmt.Sprintf("%d AM", hour)
	case hour == 12:
		return "12 PM"
	default:
		return fmt.Sprintf("%d PM", hour-12)
	}
}

func costLabel(cost float64) string {
	if cost == 0 {
		return "Free"
	}
	return recommend.FormatCost(cost)
}
