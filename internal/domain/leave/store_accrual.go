package leave

import "context"

// MarkAccrued inserts the idempotency fence for one (employee, year, month)
// period. The unique index makes the insert the arbiter under concurrent runs:
// false means another run already credited this period.
func (s *Store) MarkAccrued(ctx context.Context, employeeID int64, year, month int) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    INSERT INTO leave_accrual_log (employee_id, year, month)
    VALUES ($1, $2, $3)
    ON CONFLICT (employee_id, year, month) DO NOTHING
  `, employeeID, year, month)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) AccrualCountForYear(ctx context.Context, employeeID int64, year int) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx,
		"SELECT COUNT(1) FROM leave_accrual_log WHERE employee_id = $1 AND year = $2",
		employeeID, year).Scan(&count)
	return count, err
}

func (s *Store) MarkCarried(ctx context.Context, employeeID int64, year, carried int) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    INSERT INTO leave_carry_log (employee_id, year, carried)
    VALUES ($1, $2, $3)
    ON CONFLICT (employee_id, year) DO NOTHING
  `, employeeID, year, carried)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) EarnedForUpdate(ctx context.Context, employeeID int64) (int, int, error) {
	if err := s.ensureBalanceRow(ctx, employeeID); err != nil {
		return 0, 0, err
	}
	var encashable, nonEncashable int
	err := s.DB.QueryRow(ctx, `
    SELECT earned_encashable_available, earned_non_encashable_available
    FROM leave_balances
    WHERE employee_id = $1
    FOR UPDATE
  `, employeeID).Scan(&encashable, &nonEncashable)
	return encashable, nonEncashable, err
}

func (s *Store) SetEarnedAvailable(ctx context.Context, employeeID int64, encashable, nonEncashable int) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE leave_balances
    SET earned_encashable_available = $1,
        earned_non_encashable_available = $2,
        updated_at = now()
    WHERE employee_id = $3
  `, encashable, nonEncashable, employeeID)
	return err
}
