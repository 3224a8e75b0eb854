package leave

import (
	"context"
	"strings"
	"time"
)

// Policy constants for the earned-leave bookkeeping.
const (
	MonthlyEarnedCredit = 2
	CombinedEarnedCap   = 365
	CarryForwardCap     = 20
	MaxAccrualsPerYear  = 12
)

type Service struct {
	Store      StoreAPI
	Attendance AttendanceSource
	MinPresent int
}

func NewService(store StoreAPI, attendance AttendanceSource, minPresentDays int) *Service {
	return &Service{Store: store, Attendance: attendance, MinPresent: minPresentDays}
}

// AvailableFor returns the clamped available day count for one employee and
// leave type, reading fresh state. ok=false means the label did not resolve.
func (s *Service) AvailableFor(ctx context.Context, employeeID int64, leaveType string) (int, bool, error) {
	bucket, ok := ResolveLeaveType(leaveType)
	if !ok {
		return 0, false, nil
	}
	counters, err := s.Store.BucketCounters(ctx, employeeID, bucket)
	if err != nil {
		return 0, false, err
	}
	return clampNonNegative(counters.Available), true, nil
}

func (s *Service) Balances(ctx context.Context, employeeID int64) (BalanceRecord, error) {
	record, _, err := s.Store.BalanceRecord(ctx, employeeID)
	return record, err
}

type CreateRequestInput struct {
	EmployeeID           int64
	LeaveType            string
	StartDate            time.Time
	EndDate              time.Time
	ContactNumber        string
	AlternateOfficerName string
	Reason               string
	AttachmentName       string
	Attachment           []byte
}

// CreateRequest validates the request against the current balance and persists
// it in pending state. No balance is deducted here; deduction happens at
// approval time against a fresh read.
func (s *Service) CreateRequest(ctx context.Context, input CreateRequestInput) (LeaveRequest, error) {
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return LeaveRequest{}, newError(CodeInvalidDates, "start and end dates are required")
	}
	if dateOnly(input.EndDate).Before(dateOnly(input.StartDate)) {
		return LeaveRequest{}, newError(CodeEndBeforeStart, "end date is before start date")
	}

	days := InclusiveDays(input.StartDate, input.EndDate)
	bucket, ok := ResolveLeaveType(input.LeaveType)
	if !ok || days <= 0 {
		return LeaveRequest{}, newError(CodeUnknownLeaveType, "unknown leave type: "+input.LeaveType)
	}

	counters, err := s.Store.BucketCounters(ctx, input.EmployeeID, bucket)
	if err != nil {
		return LeaveRequest{}, err
	}
	available := clampNonNegative(counters.Available)
	if available < days {
		return LeaveRequest{}, insufficientBalanceError(available, days)
	}

	req := LeaveRequest{
		EmployeeID:           input.EmployeeID,
		LeaveType:            input.LeaveType,
		StartDate:            dateOnly(input.StartDate),
		EndDate:              dateOnly(input.EndDate),
		TotalDays:            days,
		Status:               StatusPending,
		ContactNumber:        input.ContactNumber,
		AlternateOfficerName: input.AlternateOfficerName,
		Reason:               input.Reason,
		AttachmentName:       input.AttachmentName,
		Attachment:           input.Attachment,
	}
	id, err := s.Store.InsertRequest(ctx, req)
	if err != nil {
		return LeaveRequest{}, err
	}
	req.ID = id
	req.CreatedAt = time.Now().UTC()
	return req, nil
}

// Decide transitions a pending request to approved or rejected. Approval
// requires non-empty HR remarks and re-validates the balance at decision time;
// the status update and the balance deduction commit as one transaction with
// the balance row locked, so concurrent approvals for the same employee
// serialize.
func (s *Service) Decide(ctx context.Context, requestID int64, newStatus, hrRemarks string) (LeaveRequest, error) {
	if newStatus != StatusApproved && newStatus != StatusRejected {
		return LeaveRequest{}, newError(CodeInvalidStatus, "status must be approved or rejected")
	}

	var decided LeaveRequest
	err := s.Store.InTx(ctx, func(tx Tx) error {
		req, found, err := tx.RequestForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if !found {
			return newError(CodeNotFound, "leave request not found")
		}
		if req.Status != StatusPending {
			return newError(CodeAlreadyDecided, "request has already been decided")
		}

		if newStatus == StatusRejected {
			if err := tx.UpdateDecision(ctx, requestID, StatusRejected, strings.TrimSpace(hrRemarks)); err != nil {
				return err
			}
			decided = req
			decided.Status = StatusRejected
			decided.HRRemarks = strings.TrimSpace(hrRemarks)
			return nil
		}

		remarks := strings.TrimSpace(hrRemarks)
		if remarks == "" {
			return newError(CodeRemarksRequired, "hr remarks are required to approve a request")
		}

		// Stored total takes precedence; recompute only when it is missing.
		days := req.TotalDays
		if days <= 0 {
			days = InclusiveDays(req.StartDate, req.EndDate)
		}
		bucket, ok := ResolveLeaveType(req.LeaveType)
		if !ok || days <= 0 {
			return newError(CodeUnknownLeaveType, "unknown leave type: "+req.LeaveType)
		}

		counters, err := tx.BucketForUpdate(ctx, req.EmployeeID, bucket)
		if err != nil {
			return err
		}
		available := clampNonNegative(counters.Available)
		if available < days {
			return insufficientBalanceError(available, days)
		}

		if err := tx.UpdateDecision(ctx, requestID, StatusApproved, remarks); err != nil {
			return err
		}
		if err := tx.AddBucketDelta(ctx, req.EmployeeID, bucket, -days, days); err != nil {
			return err
		}

		decided = req
		decided.Status = StatusApproved
		decided.HRRemarks = remarks
		return nil
	})
	if err != nil {
		return LeaveRequest{}, err
	}
	return decided, nil
}

func (s *Service) GetRequest(ctx context.Context, requestID int64) (LeaveRequest, error) {
	req, found, err := s.Store.GetRequest(ctx, requestID)
	if err != nil {
		return LeaveRequest{}, err
	}
	if !found {
		return LeaveRequest{}, newError(CodeNotFound, "leave request not found")
	}
	return req, nil
}

func (s *Service) Attachment(ctx context.Context, requestID int64) (string, []byte, error) {
	return s.Store.Attachment(ctx, requestID)
}

func (s *Service) ListRequests(ctx context.Context, filter RequestFilter) ([]LeaveRequest, int, error) {
	return s.Store.ListRequests(ctx, filter)
}

func (s *Service) RunMonthlyAccrual(ctx context.Context, year, month int, only ...int64) (AccrualSummary, error) {
	return RunMonthlyAccrual(ctx, s.Store, s.Attendance, year, month, s.MinPresent, only...)
}

func (s *Service) RunCarryForward(ctx context.Context, year int) (CarrySummary, error) {
	return RunCarryForward(ctx, s.Store, year)
}

func (s *Service) EnforceCombinedCap(ctx context.Context) (CapSummary, error) {
	return EnforceCombinedCap(ctx, s.Store)
}
