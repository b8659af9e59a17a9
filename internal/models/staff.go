package models

import "time"

// AttendanceStatus enumerates the daily attendance states for shop staff.
type AttendanceStatus string

const (
	AttendancePresent  AttendanceStatus = "present"
	AttendanceAbsent   AttendanceStatus = "absent"
	AttendanceHalfDay  AttendanceStatus = "half_day"
	AttendanceOvertime AttendanceStatus = "overtime"
)

// ValidAttendanceStatus reports whether the given status is known.
func ValidAttendanceStatus(s AttendanceStatus) bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceHalfDay, AttendanceOvertime:
		return true
	default:
		return false
	}
}

// Staff represents an employed staff member with a fixed monthly salary.
type Staff struct {
	ID            string    `db:"id" json:"id"`
	FullName      string    `db:"full_name" json:"full_name"`
	Role          string    `db:"role" json:"role"`
	Phone         *string   `db:"phone" json:"phone,omitempty"`
	MonthlySalary float64   `db:"monthly_salary" json:"monthly_salary"`
	JoinedOn      *string   `db:"joined_on" json:"joined_on,omitempty"`
	Active        bool      `db:"active" json:"active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// StaffFilter captures filtering options for listing staff.
type StaffFilter struct {
	Search   string
	Active   *bool
	Page     int
	PageSize int
}

// StaffAttendance is one day's attendance mark for a staff member. At most
// one record exists per (staff, date); re-marking overwrites the status.
type StaffAttendance struct {
	ID        string           `db:"id" json:"id"`
	StaffID   string           `db:"staff_id" json:"staff_id"`
	Date      string           `db:"date" json:"date"`
	Status    AttendanceStatus `db:"status" json:"status"`
	Note      *string          `db:"note" json:"note,omitempty"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}

// StaffMonthlySummary aggregates a staff member's month: status counts,
// payable days (present + 2x overtime + 0.5x half day) and salary payable.
type StaffMonthlySummary struct {
	StaffID       string  `json:"staff_id"`
	StaffName     string  `json:"staff_name"`
	Month         string  `json:"month"`
	PresentDays   int     `json:"present_days"`
	AbsentDays    int     `json:"absent_days"`
	HalfDays      int     `json:"half_days"`
	OvertimeDays  int     `json:"overtime_days"`
	PayableDays   float64 `json:"payable_days"`
	SalaryPayable float64 `json:"salary_payable"`
}
