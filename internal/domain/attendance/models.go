package attendance

import "time"

// DayRecord is one attendance row from the enterprise attendance system. The
// presence flag is nullable there; nil means the terminal recorded nothing for
// that day.
type DayRecord struct {
	EmployeeID int64     `json:"employeeId"`
	Date       time.Time `json:"date"`
	Present    *bool     `json:"present"`
	TimeIn     *string   `json:"timeIn,omitempty"`
	TimeOut    *string   `json:"timeOut,omitempty"`
}

// CountsAsPresent reports whether the row counts toward the monthly presence
// threshold. A null flag on a Saturday or Sunday counts as present; the
// attendance terminals do not record weekend duty.
func (r DayRecord) CountsAsPresent() bool {
	if r.Present != nil {
		return *r.Present
	}
	weekday := r.Date.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

type MonthSummary struct {
	EmployeeID  int64       `json:"employeeId"`
	Year        int         `json:"year"`
	Month       int         `json:"month"`
	PresentDays int         `json:"presentDays"`
	Records     []DayRecord `json:"records"`
}
