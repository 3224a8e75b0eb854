package leave

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// fakeStore is an in-memory StoreAPI whose transactions are the store itself.
// It mirrors the persistence semantics the engine relies on: lazily created
// balance rows and unique accrual/carry log keys.
type fakeStore struct {
	nextID   int64
	requests map[int64]LeaveRequest
	buckets  map[int64]map[Bucket]BucketBalance

	accrualLog map[string]bool
	carryLog   map[string]int

	earnedErr map[int64]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		requests:   make(map[int64]LeaveRequest),
		buckets:    make(map[int64]map[Bucket]BucketBalance),
		accrualLog: make(map[string]bool),
		carryLog:   make(map[string]int),
		earnedErr:  make(map[int64]error),
	}
}

func (f *fakeStore) setBucket(employeeID int64, b Bucket, bal BucketBalance) {
	if f.buckets[employeeID] == nil {
		f.buckets[employeeID] = make(map[Bucket]BucketBalance)
	}
	f.buckets[employeeID][b] = bal
}

func (f *fakeStore) bucket(employeeID int64, b Bucket) BucketBalance {
	return f.buckets[employeeID][b]
}

func (f *fakeStore) InsertRequest(_ context.Context, req LeaveRequest) (int64, error) {
	f.nextID++
	req.ID = f.nextID
	req.CreatedAt = time.Now().UTC()
	f.requests[req.ID] = req
	return req.ID, nil
}

func (f *fakeStore) GetRequest(_ context.Context, requestID int64) (LeaveRequest, bool, error) {
	req, ok := f.requests[requestID]
	return req, ok, nil
}

func (f *fakeStore) Attachment(_ context.Context, requestID int64) (string, []byte, error) {
	req, ok := f.requests[requestID]
	if !ok {
		return "", nil, nil
	}
	return req.AttachmentName, req.Attachment, nil
}

func (f *fakeStore) ListRequests(_ context.Context, filter RequestFilter) ([]LeaveRequest, int, error) {
	var out []LeaveRequest
	for _, req := range f.requests {
		if filter.EmployeeID != nil && req.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (f *fakeStore) BalanceRecord(_ context.Context, employeeID int64) (BalanceRecord, bool, error) {
	record := BalanceRecord{EmployeeID: employeeID, Buckets: make(map[Bucket]BucketBalance, len(Buckets))}
	row, ok := f.buckets[employeeID]
	for _, b := range Buckets {
		record.Buckets[b] = row[b]
	}
	return record, ok, nil
}

func (f *fakeStore) BucketCounters(_ context.Context, employeeID int64, b Bucket) (BucketBalance, error) {
	return f.bucket(employeeID, b), nil
}

func (f *fakeStore) EmployeeIDsWithBalances(_ context.Context) ([]int64, error) {
	var ids []int64
	for id := range f.buckets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f *fakeStore) OverCapEmployeeIDs(_ context.Context, ceiling int) ([]int64, error) {
	var ids []int64
	for id, row := range f.buckets {
		if row[BucketEarnedEncashable].Available+row[BucketEarnedNonEncashable].Available > ceiling {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f *fakeStore) InTx(_ context.Context, fn func(Tx) error) error {
	return fn(f)
}

func (f *fakeStore) RequestForUpdate(ctx context.Context, requestID int64) (LeaveRequest, bool, error) {
	return f.GetRequest(ctx, requestID)
}

func (f *fakeStore) UpdateDecision(_ context.Context, requestID int64, status, hrRemarks string) error {
	req := f.requests[requestID]
	now := time.Now().UTC()
	req.Status = status
	req.HRRemarks = hrRemarks
	req.DecidedAt = &now
	f.requests[requestID] = req
	return nil
}

func (f *fakeStore) BucketForUpdate(_ context.Context, employeeID int64, b Bucket) (BucketBalance, error) {
	return f.bucket(employeeID, b), nil
}

func (f *fakeStore) AddBucketDelta(_ context.Context, employeeID int64, b Bucket, availableDelta, approvedDelta int) error {
	bal := f.bucket(employeeID, b)
	bal.Available += availableDelta
	bal.Approved += approvedDelta
	f.setBucket(employeeID, b, bal)
	return nil
}

func (f *fakeStore) MarkAccrued(_ context.Context, employeeID int64, year, month int) (bool, error) {
	key := fmt.Sprintf("%d/%d/%d", employeeID, year, month)
	if f.accrualLog[key] {
		return false, nil
	}
	f.accrualLog[key] = true
	return true, nil
}

func (f *fakeStore) AccrualCountForYear(_ context.Context, employeeID int64, year int) (int, error) {
	count := 0
	for month := 1; month <= 12; month++ {
		if f.accrualLog[fmt.Sprintf("%d/%d/%d", employeeID, year, month)] {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) MarkCarried(_ context.Context, employeeID int64, year, carried int) (bool, error) {
	key := fmt.Sprintf("%d/%d", employeeID, year)
	if _, ok := f.carryLog[key]; ok {
		return false, nil
	}
	f.carryLog[key] = carried
	return true, nil
}

func (f *fakeStore) EarnedForUpdate(_ context.Context, employeeID int64) (int, int, error) {
	if err := f.earnedErr[employeeID]; err != nil {
		return 0, 0, err
	}
	return f.bucket(employeeID, BucketEarnedEncashable).Available,
		f.bucket(employeeID, BucketEarnedNonEncashable).Available, nil
}

func (f *fakeStore) SetEarnedAvailable(_ context.Context, employeeID int64, encashable, nonEncashable int) error {
	enc := f.bucket(employeeID, BucketEarnedEncashable)
	enc.Available = encashable
	f.setBucket(employeeID, BucketEarnedEncashable, enc)
	nonEnc := f.bucket(employeeID, BucketEarnedNonEncashable)
	nonEnc.Available = nonEncashable
	f.setBucket(employeeID, BucketEarnedNonEncashable, nonEnc)
	return nil
}

type fakeAttendance struct {
	eligible []int64
}

func (f *fakeAttendance) EligibleEmployeeIDs(_ context.Context, _, _, _ int) ([]int64, error) {
	return f.eligible, nil
}
