// Package dates resolves natural-language date references ("tomorrow",
// "next friday", "in 3 weeks", "June") into concrete calendar dates. All
// functions are pure over an injected reference time so callers control the
// clock.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sofialabs/sofia/pkg/types"
)

// weekdayNames maps day references to Monday-based indexes. Full names come
// before abbreviations so "sunday" wins over "sun" on the same text.
var weekdayNames = []struct {
	name string
	day  int
}{
	{"monday", 0}, {"tuesday", 1}, {"wednesday", 2}, {"thursday", 3},
	{"friday", 4}, {"saturday", 5}, {"sunday", 6},
	{"mon", 0}, {"tue", 1}, {"wed", 2}, {"thu", 3}, {"fri", 4}, {"sat", 5}, {"sun", 6},
}

var monthNames = []struct {
	name  string
	month time.Month
}{
	{"january", time.January}, {"february", time.February}, {"march", time.March},
	{"april", time.April}, {"may", time.May}, {"june", time.June},
	{"july", time.July}, {"august", time.August}, {"september", time.September},
	{"october", time.October}, {"november", time.November}, {"december", time.December},
	{"jan", time.January}, {"feb", time.February}, {"mar", time.March},
	{"apr", time.April}, {"jun", time.June}, {"jul", time.July},
	{"aug", time.August}, {"sep", time.September}, {"oct", time.October},
	{"nov", time.November}, {"dec", time.December},
}

var (
	inDaysRe  = regexp.MustCompile(`in (\d+) days?`)
	inWeeksRe = regexp.MustCompile(`in (\d+) weeks?`)
)

// Resolve parses a natural date reference out of text relative to now.
// It returns false when the text carries no recognizable date reference.
func Resolve(text string, now time.Time) (time.Time, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))

	switch {
	case strings.Contains(lower, "today"):
		return now, true
	case strings.Contains(lower, "tomorrow"), strings.Contains(lower, "tmrw"):
		return now.AddDate(0, 0, 1), true
	case strings.Contains(lower, "yesterday"):
		return now.AddDate(0, 0, -1), true
	case strings.Contains(lower, "next week"):
		return now.AddDate(0, 0, 7), true
	case strings.Contains(lower, "next month"):
		// Approximate a month as 30 days out.
		return now.AddDate(0, 0, 30), true
	case strings.Contains(lower, "next year"):
		return now.AddDate(1, 0, 0), true
	case strings.Contains(lower, "this week"), strings.Contains(lower, "this month"):
		return now, true
	}

	for _, wd := range weekdayNames {
		if strings.Contains(lower, wd.name) {
			return nextWeekday(now, wd.day, strings.Contains(lower, "next")), true
		}
	}

	if strings.Contains(lower, "weekend") {
		// The weekend reads as the coming Saturday.
		return nextWeekday(now, 5, true), true
	}

	for _, m := range monthNames {
		if strings.Contains(lower, m.name) {
			return monthDate(now, m.month, strings.Contains(lower, "next")), true
		}
	}

	if match := inDaysRe.FindStringSubmatch(lower); match != nil {
		days, _ := strconv.Atoi(match[1])
		return now.AddDate(0, 0, days), true
	}
	if match := inWeeksRe.FindStringSubmatch(lower); match != nil {
		weeks, _ := strconv.Atoi(match[1])
		return now.AddDate(0, 0, weeks*7), true
	}

	return time.Time{}, false
}

// nextWeekday returns the next occurrence of the Monday-based target day.
// With next set, it always lands in the following week.
func nextWeekday(now time.Time, target int, next bool) time.Time {
	current := mondayIndex(now.Weekday())

	var ahead int
	if next {
		ahead = target - current + 7
	} else {
		ahead = target - current
		if ahead <= 0 {
			ahead += 7
		}
	}
	return now.AddDate(0, 0, ahead)
}

// monthDate returns the first of the referenced month: the upcoming
// occurrence by default, the following year's when the text says "next" and
// the month has already started or passed.
func monthDate(now time.Time, target time.Month, next bool) time.Time {
	year := now.Year()
	if next {
		if target <= now.Month() {
			year++
		}
	} else if target < now.Month() {
		year++
	}
	return time.Date(year, target, 1, 0, 0, 0, 0, now.Location())
}

func mondayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// ResolveTravelDates wraps Resolve into the context's raw/resolved pair.
func ResolveTravelDates(raw string, now time.Time) *types.TravelDates {
	dates := &types.TravelDates{Raw: raw}
	if target, ok := Resolve(raw, now); ok {
		start := truncate(target)
		dates.Start = &start
		dates.Descriptor = Describe(target, now)
	}
	return dates
}

// TimeContext describes a message's target date for the data-augmentation
// layer, so weather lookups answer for the right day.
type TimeContext struct {
	Current     time.Time
	Target      time.Time
	HasTarget   bool
	IsToday     bool
	IsTomorrow  bool
	IsFuture    bool
	DaysFromNow int
	Description string
}

// ForMessage resolves the date reference in a message into a TimeContext.
func ForMessage(message string, now time.Time) TimeContext {
	ctx := TimeContext{Current: now, Description: "today"}

	target, ok := Resolve(message, now)
	if !ok {
		return ctx
	}

	ctx.Target = target
	ctx.HasTarget = true
	ctx.DaysFromNow = daysBetween(now, target)
	ctx.Description = Describe(target, now)

	switch {
	case ctx.DaysFromNow == 0:
		ctx.IsToday = true
	case ctx.DaysFromNow == 1:
		ctx.IsTomorrow = true
	case ctx.DaysFromNow > 1:
		ctx.IsFuture = true
	}
	return ctx
}

// Describe renders a target date relative to now the way the assistant
// speaks about it.
func Describe(target, now time.Time) string {
	switch diff := daysBetween(now, target); {
	case diff == 0:
		return "today"
	case diff == 1:
		return "tomorrow"
	case diff > 1 && diff <= 7:
		return fmt.Sprintf("in %d days (%s)", diff, target.Format("Monday"))
	case diff > 7:
		return fmt.Sprintf("on %s", target.Format("January 2, 2006"))
	default:
		return target.Format("January 2, 2006")
	}
}

// PromptContext renders the current-date block injected into generation
// prompts so the model grounds relative dates correctly.
func PromptContext(now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "CURRENT DATE & TIME CONTEXT:\n")
	fmt.Fprintf(&b, "- Current Date: %s\n", now.Format("Monday, January 2, 2006"))
	fmt.Fprintf(&b, "- Current Time: %s (24-hour format)\n", now.Format("15:04"))
	fmt.Fprintf(&b, "- Today: %s\n", now.Format("2006-01-02"))
	fmt.Fprintf(&b, "- Tomorrow: %s\n", now.AddDate(0, 0, 1).Format("2006-01-02 (Monday)"))
	fmt.Fprintf(&b, "- Next Week (approximately): %s\n", now.AddDate(0, 0, 7).Format("2006-01-02"))
	fmt.Fprintf(&b, "- Next Month (approximately): %s\n", now.AddDate(0, 0, 30).Format("2006-01-02"))

	b.WriteString("UPCOMING WEEKDAYS:\n")
	for i := 1; i <= 7; i++ {
		day := now.AddDate(0, 0, i)
		fmt.Fprintf(&b, "- %s: %s\n", day.Format("Monday"), day.Format("2006-01-02"))
	}

	b.WriteString("Resolve references like \"Monday\", \"next week\" or \"in 3 days\" against this context.")
	return b.String()
}

func daysBetween(from, to time.Time) int {
	return int(truncate(to).Sub(truncate(from)).Hours() / 24)
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
