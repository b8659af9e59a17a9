package models

import "time"

// Absence marks a teacher as not teaching on a given date. Dates use the
// "2006-01-02" layout everywhere.
type Absence struct {
	ID        string    `db:"id" json:"id"`
	Date      string    `db:"date" json:"date"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AbsentPeriod is one period the absent teacher was scheduled to teach.
type AbsentPeriod struct {
	Period    string `json:"period"`
	ClassID   string `json:"class_id"`
	ClassName string `json:"class_name"`
	Subject   string `json:"subject"`
}

// AbsenceDetail joins an absence with its teacher and the derived list of
// periods needing cover, ordered by period position.
type AbsenceDetail struct {
	Absence
	TeacherName string         `json:"teacher_name"`
	Periods     []AbsentPeriod `json:"periods"`
}
