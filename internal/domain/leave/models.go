package leave

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// BucketBalance is the clamped view of one bucket on a balance record.
type BucketBalance struct {
	Available int `json:"available"`
	Approved  int `json:"approved"`
}

// BalanceRecord is the per-employee wide balance row. A missing row reads as
// all-zero; rows are created lazily on first credit or deduction.
type BalanceRecord struct {
	EmployeeID int64                    `json:"employeeId"`
	Buckets    map[Bucket]BucketBalance `json:"-"`
}

// Balance returns the clamped counters for one bucket. Stored values may go
// transiently negative; reads never expose that.
func (r BalanceRecord) Balance(b Bucket) BucketBalance {
	bal := r.Buckets[b]
	if bal.Available < 0 {
		bal.Available = 0
	}
	if bal.Approved < 0 {
		bal.Approved = 0
	}
	return bal
}

// ByLeaveType returns the clamped balances keyed by bucket name, the shape the
// API exposes.
func (r BalanceRecord) ByLeaveType() map[string]BucketBalance {
	out := make(map[string]BucketBalance, len(Buckets))
	for _, b := range Buckets {
		out[b.String()] = r.Balance(b)
	}
	return out
}

type LeaveRequest struct {
	ID                   int64     `json:"id"`
	EmployeeID           int64     `json:"employeeId"`
	LeaveType            string    `json:"leaveType"`
	StartDate            time.Time `json:"startDate"`
	EndDate              time.Time `json:"endDate"`
	TotalDays            int       `json:"totalDays"`
	Status               string    `json:"status"`
	ContactNumber        string    `json:"contactNumber"`
	AlternateOfficerName string    `json:"alternateOfficerName"`
	Reason               string    `json:"reason"`
	Attachment           []byte    `json:"-"`
	AttachmentName       string    `json:"attachmentName,omitempty"`
	HRRemarks            string    `json:"hrRemarks"`
	CreatedAt            time.Time `json:"createdAt"`
	DecidedAt            *time.Time `json:"decidedAt,omitempty"`
}

// AccrualLogEntry marks one monthly earned-leave credit as applied. The
// (employee, year, month) key is unique in the store and acts as the
// idempotency fence for re-runs.
type AccrualLogEntry struct {
	EmployeeID int64     `json:"employeeId"`
	Year       int       `json:"year"`
	Month      int       `json:"month"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CarryLogEntry marks the yearly carry-forward as applied for one employee and
// records how many days survived the cap.
type CarryLogEntry struct {
	EmployeeID int64     `json:"employeeId"`
	Year       int       `json:"year"`
	Carried    int       `json:"carried"`
	CreatedAt  time.Time `json:"createdAt"`
}
