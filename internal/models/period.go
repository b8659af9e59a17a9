package models

import "time"

// Period is one timetable slot shared by every schedule view. TimeSlot holds
// the human-readable "HH:MM-HH:MM" label used for duration math in reports.
type Period struct {
	Code      string    `db:"code" json:"code"`
	Position  int       `db:"position" json:"position"`
	TimeSlot  string    `db:"time_slot" json:"time_slot"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// PeriodConfig is the ordered period list passed explicitly into timetable
// and reporting computations.
type PeriodConfig []Period

// Codes returns period codes in configured order.
func (c PeriodConfig) Codes() []string {
	codes := make([]string, len(c))
	for i, p := range c {
		codes[i] = p.Code
	}
	return codes
}

// SlotFor returns the time-slot label for a period code, empty when unknown.
func (c PeriodConfig) SlotFor(code string) string {
	for _, p := range c {
		if p.Code == code {
			return p.TimeSlot
		}
	}
	return ""
}

// PositionOf returns the configured index of a period code, or a value past
// the end when the code is unknown so unknown codes sort last.
func (c PeriodConfig) PositionOf(code string) int {
	for i, p := range c {
		if p.Code == code {
			return i
		}
	}
	return len(c)
}
