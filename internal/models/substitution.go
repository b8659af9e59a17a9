package models

import "time"

// SubstitutionRecord is one committed cover assignment. Records are immutable
// once written; class and subject are snapshotted at commit time so later
// timetable edits do not rewrite history. Teacher identity is carried by ID,
// names are resolved at read time.
type SubstitutionRecord struct {
	ID                    string    `db:"id" json:"id"`
	Date                  string    `db:"date" json:"date"`
	AbsentTeacherID       string    `db:"absent_teacher_id" json:"absent_teacher_id"`
	AbsentTeacherName     string    `db:"absent_teacher_name" json:"absent_teacher_name"`
	Period                string    `db:"period" json:"period"`
	ClassID               string    `db:"class_id" json:"class_id"`
	ClassName             string    `db:"class_name" json:"class_name"`
	Subject               string    `db:"subject" json:"subject"`
	SubstituteTeacherID   string    `db:"substitute_teacher_id" json:"substitute_teacher_id"`
	SubstituteTeacherName string    `db:"substitute_teacher_name" json:"substitute_teacher_name"`
	Remarks               *string   `db:"remarks" json:"remarks,omitempty"`
	CreatedAt             time.Time `db:"created_at" json:"created_at"`
}

// SubstitutionFilter bounds ledger queries. Zero values mean unfiltered.
type SubstitutionFilter struct {
	DateFrom  string
	DateTo    string
	TeacherID string
	Page      int
	PageSize  int
}

// TeacherSubstitutionStats aggregates the ledger per substitute teacher:
// period count, hours worked and distinct days worked over the range.
type TeacherSubstitutionStats struct {
	TeacherID   string  `json:"teacher_id"`
	TeacherName string  `json:"teacher_name"`
	Periods     int     `json:"periods"`
	Hours       float64 `json:"hours"`
	Days        int     `json:"days"`
}
