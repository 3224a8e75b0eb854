package leave

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

const requestColumns = `
    id, employee_id, leave_type, start_date, end_date, total_days, status,
    contact_number, alternate_officer, reason, attachment_name, hr_remarks,
    created_at, decided_at
`

func scanRequest(row pgx.Row) (LeaveRequest, error) {
	var req LeaveRequest
	err := row.Scan(
		&req.ID, &req.EmployeeID, &req.LeaveType, &req.StartDate, &req.EndDate,
		&req.TotalDays, &req.Status, &req.ContactNumber, &req.AlternateOfficerName,
		&req.Reason, &req.AttachmentName, &req.HRRemarks, &req.CreatedAt, &req.DecidedAt,
	)
	return req, err
}

func (s *Store) InsertRequest(ctx context.Context, req LeaveRequest) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests
      (employee_id, leave_type, start_date, end_date, total_days, status,
       contact_number, alternate_officer, reason, attachment_name, attachment, hr_remarks)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,'')
    RETURNING id
  `, req.EmployeeID, req.LeaveType, req.StartDate, req.EndDate, req.TotalDays,
		req.Status, req.ContactNumber, req.AlternateOfficerName, req.Reason,
		req.AttachmentName, req.Attachment).Scan(&id)
	return id, err
}

func (s *Store) GetRequest(ctx context.Context, requestID int64) (LeaveRequest, bool, error) {
	req, err := scanRequest(s.DB.QueryRow(ctx,
		"SELECT "+requestColumns+" FROM leave_requests WHERE id = $1", requestID))
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveRequest{}, false, nil
	}
	if err != nil {
		return LeaveRequest{}, false, err
	}
	return req, true, nil
}

func (s *Store) RequestForUpdate(ctx context.Context, requestID int64) (LeaveRequest, bool, error) {
	req, err := scanRequest(s.DB.QueryRow(ctx,
		"SELECT "+requestColumns+" FROM leave_requests WHERE id = $1 FOR UPDATE", requestID))
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveRequest{}, false, nil
	}
	if err != nil {
		return LeaveRequest{}, false, err
	}
	return req, true, nil
}

func (s *Store) Attachment(ctx context.Context, requestID int64) (string, []byte, error) {
	var name string
	var data []byte
	err := s.DB.QueryRow(ctx,
		"SELECT attachment_name, attachment FROM leave_requests WHERE id = $1", requestID).
		Scan(&name, &data)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil, nil
	}
	return name, data, err
}

func (s *Store) ListRequests(ctx context.Context, filter RequestFilter) ([]LeaveRequest, int, error) {
	where := []string{"TRUE"}
	args := []any{}
	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		where = append(where, fmt.Sprintf("employee_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := s.DB.QueryRow(ctx,
		"SELECT COUNT(1) FROM leave_requests WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + requestColumns + " FROM leave_requests WHERE " + cond +
		" ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []LeaveRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, req)
	}
	return out, total, rows.Err()
}

func (s *Store) UpdateDecision(ctx context.Context, requestID int64, status, hrRemarks string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE leave_requests
    SET status = $1, hr_remarks = $2, decided_at = now()
    WHERE id = $3
  `, status, hrRemarks, requestID)
	return err
}

var balanceColumnList = func() string {
	cols := make([]string, 0, len(Buckets)*2)
	for _, b := range Buckets {
		cols = append(cols, b.AvailableColumn(), b.ApprovedColumn())
	}
	return strings.Join(cols, ", ")
}()

func (s *Store) BalanceRecord(ctx context.Context, employeeID int64) (BalanceRecord, bool, error) {
	record := BalanceRecord{EmployeeID: employeeID, Buckets: make(map[Bucket]BucketBalance, len(Buckets))}

	values := make([]int, len(Buckets)*2)
	dest := make([]any, len(values))
	for i := range values {
		dest[i] = &values[i]
	}

	err := s.DB.QueryRow(ctx,
		"SELECT "+balanceColumnList+" FROM leave_balances WHERE employee_id = $1",
		employeeID).Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		for _, b := range Buckets {
			record.Buckets[b] = BucketBalance{}
		}
		return record, false, nil
	}
	if err != nil {
		return BalanceRecord{}, false, err
	}

	for i, b := range Buckets {
		record.Buckets[b] = BucketBalance{Available: values[i*2], Approved: values[i*2+1]}
	}
	return record, true, nil
}

func (s *Store) BucketCounters(ctx context.Context, employeeID int64, b Bucket) (BucketBalance, error) {
	var bal BucketBalance
	err := s.DB.QueryRow(ctx, fmt.Sprintf(
		"SELECT %s, %s FROM leave_balances WHERE employee_id = $1",
		b.AvailableColumn(), b.ApprovedColumn()), employeeID).
		Scan(&bal.Available, &bal.Approved)
	if errors.Is(err, pgx.ErrNoRows) {
		return BucketBalance{}, nil
	}
	return bal, err
}

func (s *Store) ensureBalanceRow(ctx context.Context, employeeID int64) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO leave_balances (employee_id)
    VALUES ($1)
    ON CONFLICT (employee_id) DO NOTHING
  `, employeeID)
	return err
}

// BucketForUpdate locks the employee's balance row and returns the raw bucket
// counters. The row is created first if the employee has never had one, so the
// lock always lands.
func (s *Store) BucketForUpdate(ctx context.Context, employeeID int64, b Bucket) (BucketBalance, error) {
	if err := s.ensureBalanceRow(ctx, employeeID); err != nil {
		return BucketBalance{}, err
	}
	var bal BucketBalance
	err := s.DB.QueryRow(ctx, fmt.Sprintf(
		"SELECT %s, %s FROM leave_balances WHERE employee_id = $1 FOR UPDATE",
		b.AvailableColumn(), b.ApprovedColumn()), employeeID).
		Scan(&bal.Available, &bal.Approved)
	return bal, err
}

func (s *Store) AddBucketDelta(ctx context.Context, employeeID int64, b Bucket, availableDelta, approvedDelta int) error {
	_, err := s.DB.Exec(ctx, fmt.Sprintf(`
    INSERT INTO leave_balances (employee_id, %[1]s, %[2]s)
    VALUES ($1, $2, $3)
    ON CONFLICT (employee_id)
    DO UPDATE SET %[1]s = leave_balances.%[1]s + EXCLUDED.%[1]s,
                  %[2]s = leave_balances.%[2]s + EXCLUDED.%[2]s,
                  updated_at = now()
  `, b.AvailableColumn(), b.ApprovedColumn()), employeeID, availableDelta, approvedDelta)
	return err
}

func (s *Store) EmployeeIDsWithBalances(ctx context.Context) ([]int64, error) {
	rows, err := s.DB.Query(ctx, "SELECT employee_id FROM leave_balances ORDER BY employee_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIDs(rows)
}

func (s *Store) OverCapEmployeeIDs(ctx context.Context, ceiling int) ([]int64, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT employee_id
    FROM leave_balances
    WHERE earned_encashable_available + earned_non_encashable_available > $1
    ORDER BY employee_id
  `, ceiling)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIDs(rows)
}

func scanIDs(rows pgx.Rows) ([]int64, error) {
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
