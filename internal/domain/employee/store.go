package employee

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"ems/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) Get(ctx context.Context, employeeID int64) (Employee, bool, error) {
	var emp Employee
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, designation, department, email
    FROM employees
    WHERE id = $1
  `, employeeID).Scan(&emp.ID, &emp.Name, &emp.Designation, &emp.Department, &emp.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, false, nil
	}
	if err != nil {
		return Employee{}, false, err
	}
	return emp, true, nil
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, designation, department, email
    FROM employees
    ORDER BY id
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var emp Employee
		if err := rows.Scan(&emp.ID, &emp.Name, &emp.Designation, &emp.Department, &emp.Email); err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (s *Store) GetProfile(ctx context.Context, employeeID int64) (Profile, bool, error) {
	var p Profile
	err := s.DB.QueryRow(ctx, `
    SELECT employee_id, contact_number, address, photo_name, updated_at
    FROM employee_profiles
    WHERE employee_id = $1
  `, employeeID).Scan(&p.EmployeeID, &p.ContactNumber, &p.Address, &p.PhotoName, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{EmployeeID: employeeID}, false, nil
	}
	if err != nil {
		return Profile{}, false, err
	}
	return p, true, nil
}

func (s *Store) UpsertProfile(ctx context.Context, p Profile) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO employee_profiles (employee_id, contact_number, address)
    VALUES ($1, $2, $3)
    ON CONFLICT (employee_id)
    DO UPDATE SET contact_number = EXCLUDED.contact_number,
                  address = EXCLUDED.address,
                  updated_at = now()
  `, p.EmployeeID, p.ContactNumber, p.Address)
	return err
}

func (s *Store) UpdatePhoto(ctx context.Context, employeeID int64, name string, data []byte) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO employee_profiles (employee_id, photo_name, photo)
    VALUES ($1, $2, $3)
    ON CONFLICT (employee_id)
    DO UPDATE SET photo_name = EXCLUDED.photo_name,
                  photo = EXCLUDED.photo,
                  updated_at = now()
  `, employeeID, name, data)
	return err
}

func (s *Store) Photo(ctx context.Context, employeeID int64) (string, []byte, error) {
	var name string
	var data []byte
	err := s.DB.QueryRow(ctx, `
    SELECT photo_name, photo
    FROM employee_profiles
    WHERE employee_id = $1
  `, employeeID).Scan(&name, &data)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil, nil
	}
	return name, data, err
}
