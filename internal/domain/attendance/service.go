package attendance

import "context"

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) MonthView(ctx context.Context, employeeID int64, year, month int) (MonthSummary, error) {
	records, err := s.Store.MonthRecords(ctx, employeeID, year, month)
	if err != nil {
		return MonthSummary{}, err
	}

	present := 0
	for _, rec := range records {
		if rec.CountsAsPresent() {
			present++
		}
	}
	return MonthSummary{
		EmployeeID:  employeeID,
		Year:        year,
		Month:       month,
		PresentDays: present,
		Records:     records,
	}, nil
}

func (s *Service) PresentDaysCount(ctx context.Context, employeeID int64, year, month int) (int, error) {
	return s.Store.PresentDaysCount(ctx, employeeID, year, month)
}

func (s *Service) EligibleEmployeeIDs(ctx context.Context, year, month, minPresentDays int) ([]int64, error) {
	return s.Store.EligibleEmployeeIDs(ctx, year, month, minPresentDays)
}
