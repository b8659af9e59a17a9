package models

import "time"

// Class represents a class/section whose timetable is the source of truth.
type Class struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Position  int       `db:"position" json:"position"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ClassScheduleEntry is one authoritative timetable cell: which teacher
// teaches which subject to a class in a (day, period).
type ClassScheduleEntry struct {
	ID        string    `db:"id" json:"id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	DayOfWeek string    `db:"day_of_week" json:"day_of_week"`
	Period    string    `db:"period" json:"period"`
	Subject   string    `db:"subject" json:"subject"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ClassFilter captures filtering options for listing classes.
type ClassFilter struct {
	Search   string
	Page     int
	PageSize int
}
