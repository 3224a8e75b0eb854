package leave

import (
	"context"
	"errors"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validationCode(t *testing.T, err error) string {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	return verr.Code
}

func TestCreateRequestHappyPath(t *testing.T) {
	store := newFakeStore()
	store.setBucket(7, BucketCasual, BucketBalance{Available: 10})
	svc := NewService(store, &fakeAttendance{}, 15)

	req, err := svc.CreateRequest(context.Background(), CreateRequestInput{
		EmployeeID: 7,
		LeaveType:  "Casual Leave",
		StartDate:  day(2025, time.June, 2),
		EndDate:    day(2025, time.June, 4),
		Reason:     "family event",
	})
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if req.Status != StatusPending {
		t.Fatalf("status = %q, want pending", req.Status)
	}
	if req.TotalDays != 3 {
		t.Fatalf("totalDays = %d, want 3", req.TotalDays)
	}
	// Submission never deducts; that happens at approval.
	if got := store.bucket(7, BucketCasual); got.Available != 10 || got.Approved != 0 {
		t.Fatalf("balance mutated on submit: %+v", got)
	}
}

func TestCreateRequestRejections(t *testing.T) {
	store := newFakeStore()
	store.setBucket(7, BucketCasual, BucketBalance{Available: 2})
	svc := NewService(store, &fakeAttendance{}, 15)

	cases := []struct {
		name     string
		input    CreateRequestInput
		wantCode string
	}{
		{
			"missing dates",
			CreateRequestInput{EmployeeID: 7, LeaveType: "Casual Leave"},
			CodeInvalidDates,
		},
		{
			"end before start",
			CreateRequestInput{
				EmployeeID: 7, LeaveType: "Casual Leave",
				StartDate: day(2025, time.June, 4), EndDate: day(2025, time.June, 2),
			},
			CodeEndBeforeStart,
		},
		{
			"unknown leave type",
			CreateRequestInput{
				EmployeeID: 7, LeaveType: "Sabbatical",
				StartDate: day(2025, time.June, 2), EndDate: day(2025, time.June, 2),
			},
			CodeUnknownLeaveType,
		},
		{
			"insufficient balance",
			CreateRequestInput{
				EmployeeID: 7, LeaveType: "Casual Leave",
				StartDate: day(2025, time.June, 2), EndDate: day(2025, time.June, 6),
			},
			CodeInsufficientBalance,
		},
	}
	for _, tc := range cases {
		_, err := svc.CreateRequest(context.Background(), tc.input)
		if err == nil {
			t.Errorf("%s: expected error", tc.name)
			continue
		}
		if code := validationCode(t, err); code != tc.wantCode {
			t.Errorf("%s: code = %q, want %q", tc.name, code, tc.wantCode)
		}
		if len(store.requests) != 0 {
			t.Errorf("%s: rejected request was persisted", tc.name)
		}
	}
}

func TestCreateRequestInsufficientCarriesNumbers(t *testing.T) {
	store := newFakeStore()
	store.setBucket(7, BucketMedical, BucketBalance{Available: 2})
	svc := NewService(store, &fakeAttendance{}, 15)

	_, err := svc.CreateRequest(context.Background(), CreateRequestInput{
		EmployeeID: 7,
		LeaveType:  "Medical Leave",
		StartDate:  day(2025, time.June, 2),
		EndDate:    day(2025, time.June, 6),
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Available == nil || *verr.Available != 2 {
		t.Fatalf("Available = %v, want 2", verr.Available)
	}
	if verr.Requested == nil || *verr.Requested != 5 {
		t.Fatalf("Requested = %v, want 5", verr.Requested)
	}
}

func TestCreateRequestNegativeBalanceReadsAsZero(t *testing.T) {
	store := newFakeStore()
	store.setBucket(7, BucketCasual, BucketBalance{Available: -4})
	svc := NewService(store, &fakeAttendance{}, 15)

	_, err := svc.CreateRequest(context.Background(), CreateRequestInput{
		EmployeeID: 7,
		LeaveType:  "Casual Leave",
		StartDate:  day(2025, time.June, 2),
		EndDate:    day(2025, time.June, 2),
	})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Code != CodeInsufficientBalance {
		t.Fatalf("expected insufficient_balance, got %v", err)
	}
	if verr.Available == nil || *verr.Available != 0 {
		t.Fatalf("Available = %v, want clamped 0", verr.Available)
	}
}

func submitPending(t *testing.T, svc *Service, employeeID int64, leaveType string, days int) int64 {
	t.Helper()
	req, err := svc.CreateRequest(context.Background(), CreateRequestInput{
		EmployeeID: employeeID,
		LeaveType:  leaveType,
		StartDate:  day(2025, time.June, 2),
		EndDate:    day(2025, time.June, 2+days-1),
	})
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	return req.ID
}

func TestDecideApprove(t *testing.T) {
	store := newFakeStore()
	store.setBucket(7, BucketCasual, BucketBalance{Available: 10})
	svc := NewService(store, &fakeAttendance{}, 15)
	id := submitPending(t, svc, 7, "Casual Leave", 3)

	decided, err := svc.Decide(context.Background(), id, StatusApproved, "approved per roster")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if decided.Status != StatusApproved {
		t.Fatalf("status = %q, want approved", decided.Status)
	}
	if got := store.bucket(7, BucketCasual); got.Available != 7 || got.Approved != 3 {
		t.Fatalf("balance after approve = %+v, want available 7 approved 3", got)
	}
	stored := store.requests[id]
	if stored.Status != StatusApproved || stored.HRRemarks != "approved per roster" {
		t.Fatalf("stored request = %+v", stored)
	}
	if stored.DecidedAt == nil {
		t.Fatal("decidedAt not set")
	}
}

func TestDecideReject(t *testing.T) {
	store := newFakeStore()
	store.setBucket(7, BucketCasual, BucketBalance{Available: 10})
	svc := NewService(store, &fakeAttendance{}, 15)
	id := submitPending(t, svc, 7, "Casual Leave", 3)

	decided, err := svc.Decide(context.Background(), id, StatusRejected, "")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if decided.Status != StatusRejected {
		t.Fatalf("status = %q, want rejected", decided.Status)
	}
	// Rejection never touches balances.
	if got := store.bucket(7, BucketCasual); got.Available != 10 || got.Approved != 0 {
		t.Fatalf("balance after reject = %+v", got)
	}
}

func TestDecideApproveRequiresRemarks(t *testing.T) {
	store := newFakeStore()
	store.setBucket(7, BucketCasual, BucketBalance{Available: 10})
	svc := NewService(store, &fakeAttendance{}, 15)
	id := submitPending(t, svc, 7, "Casual Leave", 3)

	_, err := svc.Decide(context.Background(), id, StatusApproved, "   ")
	if code := validationCode(t, err); code != CodeRemarksRequired {
		t.Fatalf("code = %q, want remarks_required", code)
	}
	if store.requests[id].Status != StatusPending {
		t.Fatal("request left pending state despite rejected approval")
	}
	if got := store.bucket(7, BucketCasual); got.Available != 10 {
		t.Fatalf("balance mutated: %+v", got)
	}
}

func TestDecideInsufficientAtDecisionTime(t *testing.T) {
	store := newFakeStore()
	store.setBucket(7, BucketCasual, BucketBalance{Available: 10})
	svc := NewService(store, &fakeAttendance{}, 15)
	id := submitPending(t, svc, 7, "Casual Leave", 5)

	// Balance drained between submission and decision.
	store.setBucket(7, BucketCasual, BucketBalance{Available: 2})

	_, err := svc.Decide(context.Background(), id, StatusApproved, "ok")
	if code := validationCode(t, err); code != CodeInsufficientBalance {
		t.Fatalf("code = %q, want insufficient_balance", code)
	}
	if store.requests[id].Status != StatusPending {
		t.Fatal("request should stay pending when approval fails")
	}
}

func TestDecideAlreadyDecided(t *testing.T) {
	store := newFakeStore()
	store.setBucket(7, BucketCasual, BucketBalance{Available: 10})
	svc := NewService(store, &fakeAttendance{}, 15)
	id := submitPending(t, svc, 7, "Casual Leave", 2)

	if _, err := svc.Decide(context.Background(), id, StatusApproved, "ok"); err != nil {
		t.Fatalf("first decide: %v", err)
	}
	_, err := svc.Decide(context.Background(), id, StatusRejected, "changed my mind")
	if code := validationCode(t, err); code != CodeAlreadyDecided {
		t.Fatalf("code = %q, want already_decided", code)
	}
	// The first decision stands.
	if got := store.bucket(7, BucketCasual); got.Available != 8 || got.Approved != 2 {
		t.Fatalf("balance after re-decide attempt = %+v", got)
	}
}

func TestDecideUnknownRequestAndStatus(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeAttendance{}, 15)

	_, err := svc.Decide(context.Background(), 999, StatusApproved, "ok")
	if code := validationCode(t, err); code != CodeNotFound {
		t.Fatalf("code = %q, want not_found", code)
	}

	_, err = svc.Decide(context.Background(), 1, "escalated", "ok")
	if code := validationCode(t, err); code != CodeInvalidStatus {
		t.Fatalf("code = %q, want invalid_status", code)
	}
}

func TestAvailableFor(t *testing.T) {
	store := newFakeStore()
	store.setBucket(7, BucketEarnedNonEncashable, BucketBalance{Available: 12})
	svc := NewService(store, &fakeAttendance{}, 15)

	got, ok, err := svc.AvailableFor(context.Background(), 7, "Earned Leave")
	if err != nil || !ok || got != 12 {
		t.Fatalf("AvailableFor = (%d, %v, %v), want (12, true, nil)", got, ok, err)
	}

	_, ok, err = svc.AvailableFor(context.Background(), 7, "Sabbatical")
	if err != nil || ok {
		t.Fatalf("unknown type should report ok=false, got ok=%v err=%v", ok, err)
	}
}
