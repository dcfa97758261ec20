package types

import "time"

// MaxPreviousDestinations bounds the switch history kept per session.
const MaxPreviousDestinations = 3

// TravelDates pairs the raw date phrase from the user with its resolved
// calendar interpretation, when one could be derived.
type TravelDates struct {
	Raw        string     `json:"raw"`
	Start      *time.Time `json:"start,omitempty"`
	End        *time.Time `json:"end,omitempty"`
	Descriptor string     `json:"descriptor,omitempty"`
}

// Context is the accumulating per-session memory of travel facts. All
// mutation goes through the methods below so the bookkeeping invariants
// (destination switch history, interest dedup, depth counting) hold no
// matter which component drives the update.
type Context struct {
	CurrentDestination   string       `json:"current_destination,omitempty"`
	PreviousDestinations []string     `json:"previous_destinations,omitempty"`
	Budget               string       `json:"budget_range,omitempty"`
	TravelDates          *TravelDates `json:"travel_dates,omitempty"`
	Interests            []string     `json:"interests,omitempty"`
	ConversationDepth    int          `json:"conversation_depth"`

	// WeatherMentionedFor and WeatherMentionedAt record the last destination
	// for which weather was surfaced, so the engine does not repeat weather
	// data unprompted within a short window.
	WeatherMentionedFor string     `json:"weather_mentioned_for,omitempty"`
	WeatherMentionedAt  *time.Time `json:"weather_mentioned_at,omitempty"`
}

// SetDestination switches the current destination and maintains the switch
// history: the prior destination is appended to PreviousDestinations (once),
// the new destination is removed from it if it was there, and the history is
// trimmed to its most recent entries. Setting the same destination again or
// an empty string is a no-op.
func (c *Context) SetDestination(dest string) {
	if dest == "" || dest == c.CurrentDestination {
		return
	}
	if c.CurrentDestination != "" && !contains(c.PreviousDestinations, c.CurrentDestination) {
		c.PreviousDestinations = append(c.PreviousDestinations, c.CurrentDestination)
	}
	c.PreviousDestinations = remove(c.PreviousDestinations, dest)
	if n := len(c.PreviousDestinations); n > MaxPreviousDestinations {
		c.PreviousDestinations = c.PreviousDestinations[n-MaxPreviousDestinations:]
	}
	c.CurrentDestination = dest
}

// AddInterests appends interest tags preserving insertion order, skipping
// tags the session already holds.
func (c *Context) AddInterests(tags ...string) {
	for _, tag := range tags {
		if tag != "" && !contains(c.Interests, tag) {
			c.Interests = append(c.Interests, tag)
		}
	}
}

// HasInterest reports whether the given interest tag has been recorded.
func (c *Context) HasInterest(tag string) bool {
	return contains(c.Interests, tag)
}

// MarkWeatherMentioned records that weather for dest was just surfaced.
func (c *Context) MarkWeatherMentioned(dest string, at time.Time) {
	c.WeatherMentionedFor = dest
	c.WeatherMentionedAt = &at
}

// WeatherRecentlyMentioned reports whether weather for dest was surfaced
// within the given window ending at now.
func (c *Context) WeatherRecentlyMentioned(dest string, now time.Time, window time.Duration) bool {
	if c.WeatherMentionedFor != dest || c.WeatherMentionedAt == nil {
		return false
	}
	return now.Sub(*c.WeatherMentionedAt) < window
}

// Clone returns a deep copy of the context.
func (c *Context) Clone() Context {
	out := *c
	out.PreviousDestinations = append([]string(nil), c.PreviousDestinations...)
	out.Interests = append([]string(nil), c.Interests...)
	if c.WeatherMentionedAt != nil {
		at := *c.WeatherMentionedAt
		out.WeatherMentionedAt = &at
	}
	if c.TravelDates != nil {
		dates := *c.TravelDates
		if c.TravelDates.Start != nil {
			start := *c.TravelDates.Start
			dates.Start = &start
		}
		if c.TravelDates.End != nil {
			end := *c.TravelDates.End
			dates.End = &end
		}
		out.TravelDates = &dates
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func remove(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
