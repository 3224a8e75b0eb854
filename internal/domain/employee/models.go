package employee

import "time"

// Employee is a row from the external personnel table, read-only here.
type Employee struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Designation string `json:"designation"`
	Department  string `json:"department"`
	Email       string `json:"email"`
}

// Profile holds the contact details this system owns on top of the personnel
// record. Created lazily on first update.
type Profile struct {
	EmployeeID    int64     `json:"employeeId"`
	ContactNumber string    `json:"contactNumber"`
	Address       string    `json:"address"`
	PhotoName     string    `json:"photoName,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
