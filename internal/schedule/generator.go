package schedule

import (
	"time"
)

// Policy defaults applied when a generation rule leaves a field unset.
// These are product decisions, not guesses: a bare rule fills the
// coming week with hour-long slots over a 9-to-5 window.
const (
	DefaultRangeDays           = 7
	DefaultDailyStartHour      = 9
	DefaultDailyEndHour        = 17
	DefaultSlotDurationMinutes = 60
)

// Rule describes a trainer's recurring availability: which weekdays,
// which daily window, and how long each slot runs.
type Rule struct {
	TrainerID           int
	StartDate           time.Time
	EndDate             time.Time      // zero value defaults to StartDate + 7 days
	DailyStartHour      int            // inclusive
	DailyEndHour        int            // exclusive
	SlotDurationMinutes int
	Weekdays            []time.Weekday // empty means every day
}

func (r Rule) withDefaults() Rule {
	if r.StartDate.IsZero() {
		r.StartDate = time.Now()
	}
	r.StartDate = atMidnight(r.StartDate)
	if r.EndDate.IsZero() {
		r.EndDate = r.StartDate.AddDate(0, 0, DefaultRangeDays)
	} else {
		r.EndDate = atMidnight(r.EndDate)
	}
	if r.DailyStartHour == 0 && r.DailyEndHour == 0 {
		r.DailyStartHour = DefaultDailyStartHour
		r.DailyEndHour = DefaultDailyEndHour
	}
	if r.SlotDurationMinutes == 0 {
		r.SlotDurationMinutes = DefaultSlotDurationMinutes
	}
	return r
}

func (r Rule) valid() bool {
	return r.TrainerID > 0 &&
		r.DailyStartHour >= 0 && r.DailyEndHour <= 24 &&
		r.DailyStartHour < r.DailyEndHour &&
		r.SlotDurationMinutes > 0 &&
		!r.EndDate.Before(r.StartDate)
}

func (r Rule) matchesWeekday(day time.Time) bool {
	if len(r.Weekdays) == 0 {
		return true
	}
	for _, wd := range r.Weekdays {
		if day.Weekday() == wd {
			return true
		}
	}
	return false
}

// ExpandRule turns a rule into the concrete open slots it covers:
// day-major over [StartDate, EndDate] inclusive, then minute-minor
// inside the daily window. A trailing slot whose end would overrun the
// window is dropped, so a window not evenly divisible by the duration
// loses its remainder. That is intentional: no partial slots.
func ExpandRule(rule Rule) []Slot {
	rule = rule.withDefaults()

	var slots []Slot
	for day := rule.StartDate; !day.After(rule.EndDate); day = day.AddDate(0, 0, 1) {
		if !rule.matchesWeekday(day) {
			continue
		}

		windowEnd := rule.DailyEndHour * 60
		for m := rule.DailyStartHour * 60; m+rule.SlotDurationMinutes <= windowEnd; m += rule.SlotDurationMinutes {
			start := day.Add(time.Duration(m) * time.Minute)
			end := start.Add(time.Duration(rule.SlotDurationMinutes) * time.Minute)
			slots = append(slots, Slot{
				ID:        SlotID(rule.TrainerID, start),
				TrainerID: rule.TrainerID,
				Status:    StatusOpen,
				StartTime: start,
				EndTime:   end,
			})
		}
	}
	return slots
}

func atMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
