package models

import "time"

// FreePeriod is the sentinel assignment meaning a teacher has no class
// scheduled in a given (day, period) cell.
const FreePeriod = "FREE"

// Weekdays enumerates the school days in timetable order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Teacher represents a roster entry.
type Teacher struct {
	ID        string    `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Subject   *string   `db:"subject" json:"subject,omitempty"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Position  int       `db:"position" json:"position"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	Search    string
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// ScheduleCell is one (day, period) entry of a teacher's derived schedule.
// Assignment is either the class name or the FreePeriod sentinel.
type ScheduleCell struct {
	Assignment string `json:"assignment"`
	ClassID    string `json:"class_id,omitempty"`
	Subject    string `json:"subject,omitempty"`
}

// ScheduleGrid maps day name -> period code -> cell. After synchronization
// every configured (day, period) pair has an entry.
type ScheduleGrid map[string]map[string]ScheduleCell

// NewFreeGrid builds a grid with every configured cell set to FreePeriod.
func NewFreeGrid(days []string, periodCodes []string) ScheduleGrid {
	grid := make(ScheduleGrid, len(days))
	for _, day := range days {
		row := make(map[string]ScheduleCell, len(periodCodes))
		for _, code := range periodCodes {
			row[code] = ScheduleCell{Assignment: FreePeriod}
		}
		grid[day] = row
	}
	return grid
}

// Cell returns the entry for (day, period), defaulting to FreePeriod when the
// grid has no explicit entry.
func (g ScheduleGrid) Cell(day, period string) ScheduleCell {
	if row, ok := g[day]; ok {
		if cell, ok := row[period]; ok {
			return cell
		}
	}
	return ScheduleCell{Assignment: FreePeriod}
}

// IsFree reports whether the teacher has no class in (day, period).
func (g ScheduleGrid) IsFree(day, period string) bool {
	return g.Cell(day, period).Assignment == FreePeriod
}

// TeacherSchedule pairs a teacher with their derived grid.
type TeacherSchedule struct {
	TeacherID string       `json:"teacher_id"`
	Grid      ScheduleGrid `json:"grid"`
	SyncedAt  time.Time    `json:"synced_at"`
}
