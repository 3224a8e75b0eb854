package employee

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("employee not found")

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) Get(ctx context.Context, employeeID int64) (Employee, error) {
	emp, found, err := s.Store.Get(ctx, employeeID)
	if err != nil {
		return Employee{}, err
	}
	if !found {
		return Employee{}, ErrNotFound
	}
	return emp, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Employee, error) {
	return s.Store.List(ctx, limit, offset)
}

func (s *Service) Profile(ctx context.Context, employeeID int64) (Profile, error) {
	p, _, err := s.Store.GetProfile(ctx, employeeID)
	return p, err
}

func (s *Service) UpdateProfile(ctx context.Context, p Profile) error {
	_, found, err := s.Store.Get(ctx, p.EmployeeID)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return s.Store.UpsertProfile(ctx, p)
}

func (s *Service) UpdatePhoto(ctx context.Context, employeeID int64, name string, data []byte) error {
	return s.Store.UpdatePhoto(ctx, employeeID, name, data)
}

func (s *Service) Photo(ctx context.Context, employeeID int64) (string, []byte, error) {
	return s.Store.Photo(ctx, employeeID)
}
