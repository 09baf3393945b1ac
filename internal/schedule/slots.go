package schedule

import (
	"fmt"
	"time"
)

// Slot is one bookable delivery time on a specific date.
type Slot struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// String renders the slot the way it is stored on orders, e.g. "08:30".
func (s Slot) String() string {
	return fmt.Sprintf("%02d:%02d", s.Hour, s.Minute)
}

// Rules describe the shop's delivery window. PrepMargin is the minimum lead
// time the kitchen needs before a same-day slot can still be booked.
type Rules struct {
	OpenHour   int
	CloseHour  int
	Step       time.Duration
	PrepMargin time.Duration
}

// Slots enumerates every step-aligned delivery time between OpenHour:00 and
// CloseHour:00 on the selected date. When the selected date is the same
// calendar day as now, slots at or before now+PrepMargin are dropped. An
// empty result is a meaningful answer ("closed for today"), not an error.
func Slots(selected, now time.Time, rules Rules) []Slot {
	if rules.Step <= 0 || rules.OpenHour > rules.CloseHour {
		return nil
	}

	selected = selected.In(now.Location())
	sameDay := selected.Year() == now.Year() && selected.YearDay() == now.YearDay()
	cutoff := now.Add(rules.PrepMargin)

	var slots []Slot
	open := time.Date(selected.Year(), selected.Month(), selected.Day(), rules.OpenHour, 0, 0, 0, now.Location())
	close := time.Date(selected.Year(), selected.Month(), selected.Day(), rules.CloseHour, 0, 0, 0, now.Location())

	for at := open; !at.After(close); at = at.Add(rules.Step) {
		if sameDay && !at.After(cutoff) {
			continue
		}
		slots = append(slots, Slot{Hour: at.Hour(), Minute: at.Minute()})
	}
	return slots
}

// Contains reports whether the generated slots include the given one.
func Contains(slots []Slot, s Slot) bool {
	for _, candidate := range slots {
		if candidate == s {
			return true
		}
	}
	return false
}

// Parse reads a "HH:MM" value back into a Slot.
func Parse(v string) (Slot, error) {
	var s Slot
	if _, err := fmt.Sscanf(v, "%02d:%02d", &s.Hour, &s.Minute); err != nil {
		return Slot{}, fmt.Errorf("parse slot %q: %w", v, err)
	}
	if s.Hour < 0 || s.Hour > 23 || s.Minute < 0 || s.Minute > 59 {
		return Slot{}, fmt.Errorf("slot %q out of range", v)
	}
	return s, nil
}
