package attendance

import (
	"context"

	"ems/internal/platform/querier"
)

// Store reads the enterprise attendance table. The table is owned by the
// external attendance system; nothing here writes to it.
type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) MonthRecords(ctx context.Context, employeeID int64, year, month int) ([]DayRecord, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT employee_id, att_date, present, time_in, time_out
    FROM attendance
    WHERE employee_id = $1
      AND EXTRACT(YEAR FROM att_date) = $2
      AND EXTRACT(MONTH FROM att_date) = $3
    ORDER BY att_date
  `, employeeID, year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []DayRecord
	for rows.Next() {
		var rec DayRecord
		if err := rows.Scan(&rec.EmployeeID, &rec.Date, &rec.Present, &rec.TimeIn, &rec.TimeOut); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// EligibleEmployeeIDs returns employees with at least minPresentDays counting
// days in (year, month). The weekend-null rule from DayRecord.CountsAsPresent
// is expressed in SQL: DOW 0 is Sunday, 6 is Saturday.
func (s *Store) EligibleEmployeeIDs(ctx context.Context, year, month, minPresentDays int) ([]int64, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT employee_id
    FROM attendance
    WHERE EXTRACT(YEAR FROM att_date) = $1
      AND EXTRACT(MONTH FROM att_date) = $2
      AND (present = TRUE
           OR (present IS NULL AND EXTRACT(DOW FROM att_date) IN (0, 6)))
    GROUP BY employee_id
    HAVING COUNT(1) >= $3
    ORDER BY employee_id
  `, year, month, minPresentDays)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

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

func (s *Store) PresentDaysCount(ctx context.Context, employeeID int64, year, month int) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM attendance
    WHERE employee_id = $1
      AND EXTRACT(YEAR FROM att_date) = $2
      AND EXTRACT(MONTH FROM att_date) = $3
      AND (present = TRUE
           OR (present IS NULL AND EXTRACT(DOW FROM att_date) IN (0, 6)))
  `, employeeID, year, month).Scan(&count)
	return count, err
}
