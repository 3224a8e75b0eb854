package leave

import "context"

// RequestFilter narrows ListRequests. A nil EmployeeID means all employees.
type RequestFilter struct {
	EmployeeID *int64
	Status     string
	Limit      int
	Offset     int
}

type StoreAPI interface {
	InsertRequest(ctx context.Context, req LeaveRequest) (int64, error)
	GetRequest(ctx context.Context, requestID int64) (LeaveRequest, bool, error)
	Attachment(ctx context.Context, requestID int64) (string, []byte, error)
	ListRequests(ctx context.Context, filter RequestFilter) ([]LeaveRequest, int, error)
	BalanceRecord(ctx context.Context, employeeID int64) (BalanceRecord, bool, error)
	BucketCounters(ctx context.Context, employeeID int64, b Bucket) (BucketBalance, error)
	EmployeeIDsWithBalances(ctx context.Context) ([]int64, error)
	OverCapEmployeeIDs(ctx context.Context, ceiling int) ([]int64, error)
	InTx(ctx context.Context, fn func(Tx) error) error
}

// Tx is the unit-of-work surface. Every method runs on one database
// transaction; the ForUpdate reads take row locks so concurrent decisions and
// scheduled runs against the same employee serialize.
type Tx interface {
	RequestForUpdate(ctx context.Context, requestID int64) (LeaveRequest, bool, error)
	UpdateDecision(ctx context.Context, requestID int64, status, hrRemarks string) error
	BucketForUpdate(ctx context.Context, employeeID int64, b Bucket) (BucketBalance, error)
	AddBucketDelta(ctx context.Context, employeeID int64, b Bucket, availableDelta, approvedDelta int) error
	MarkAccrued(ctx context.Context, employeeID int64, year, month int) (bool, error)
	AccrualCountForYear(ctx context.Context, employeeID int64, year int) (int, error)
	MarkCarried(ctx context.Context, employeeID int64, year, carried int) (bool, error)
	EarnedForUpdate(ctx context.Context, employeeID int64) (encashable, nonEncashable int, err error)
	SetEarnedAvailable(ctx context.Context, employeeID int64, encashable, nonEncashable int) error
}

// AttendanceSource is the external attendance collaborator the accrual engine
// scans. The attendance tables belong to the enterprise attendance system and
// are read-only here.
type AttendanceSource interface {
	EligibleEmployeeIDs(ctx context.Context, year, month, minPresentDays int) ([]int64, error)
}
