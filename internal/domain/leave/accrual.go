package leave

import (
	"context"
	"errors"
	"log/slog"
	"slices"
)

type AccrualSummary struct {
	Eligible int `json:"eligible"`
	Credited int `json:"credited"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// RunMonthlyAccrual credits the fixed monthly earned-leave increment to every
// employee with enough present days in (year, month). One engine serves both
// the on-demand HTTP trigger and the scheduler; the accrual log row written in
// the same transaction as the credit makes re-runs no-ops. A failure for one
// employee is logged and does not stop the sweep.
func RunMonthlyAccrual(ctx context.Context, store StoreAPI, attendance AttendanceSource, year, month, minPresentDays int, only ...int64) (AccrualSummary, error) {
	var summary AccrualSummary

	eligible, err := attendance.EligibleEmployeeIDs(ctx, year, month, minPresentDays)
	if err != nil {
		return summary, err
	}

	for _, employeeID := range eligible {
		if len(only) > 0 && !slices.Contains(only, employeeID) {
			continue
		}
		summary.Eligible++

		err := store.InTx(ctx, func(tx Tx) error {
			// One credit per calendar month, at most twelve per year even
			// under late re-runs.
			count, err := tx.AccrualCountForYear(ctx, employeeID, year)
			if err != nil {
				return err
			}
			if count >= MaxAccrualsPerYear {
				return errSkipped
			}

			inserted, err := tx.MarkAccrued(ctx, employeeID, year, month)
			if err != nil {
				return err
			}
			if !inserted {
				return errSkipped
			}

			encashable, nonEncashable, err := tx.EarnedForUpdate(ctx, employeeID)
			if err != nil {
				return err
			}
			encashable += MonthlyEarnedCredit
			nonEncashable += MonthlyEarnedCredit
			encashable, nonEncashable = capEarned(encashable, nonEncashable, CombinedEarnedCap)
			return tx.SetEarnedAvailable(ctx, employeeID, encashable, nonEncashable)
		})
		switch {
		case err == nil:
			summary.Credited++
		case errors.Is(err, errSkipped):
			summary.Skipped++
		default:
			summary.Failed++
			slog.Warn("monthly accrual failed for employee",
				"employeeId", employeeID, "year", year, "month", month, "err", err)
		}
	}

	return summary, nil
}

type CarrySummary struct {
	Processed int `json:"processed"`
	Capped    int `json:"capped"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// RunCarryForward applies the yearly non-encashable earned-leave cap for every
// employee with a balance record and logs the carried amount. It must finish
// before January's accrual run so that run works from the post-carry baseline;
// the scheduler orders the two accordingly.
func RunCarryForward(ctx context.Context, store StoreAPI, year int) (CarrySummary, error) {
	var summary CarrySummary

	employees, err := store.EmployeeIDsWithBalances(ctx)
	if err != nil {
		return summary, err
	}

	for _, employeeID := range employees {
		capped := false
		err := store.InTx(ctx, func(tx Tx) error {
			encashable, nonEncashable, err := tx.EarnedForUpdate(ctx, employeeID)
			if err != nil {
				return err
			}

			carried := clampNonNegative(nonEncashable)
			if carried > CarryForwardCap {
				carried = CarryForwardCap
			}
			inserted, err := tx.MarkCarried(ctx, employeeID, year, carried)
			if err != nil {
				return err
			}
			if !inserted {
				return errSkipped
			}

			if nonEncashable > CarryForwardCap {
				capped = true
				return tx.SetEarnedAvailable(ctx, employeeID, encashable, CarryForwardCap)
			}
			return nil
		})
		switch {
		case err == nil:
			summary.Processed++
			if capped {
				summary.Capped++
			}
		case errors.Is(err, errSkipped):
			summary.Skipped++
		default:
			summary.Failed++
			slog.Warn("carry-forward failed for employee",
				"employeeId", employeeID, "year", year, "err", err)
		}
	}

	return summary, nil
}

type CapSummary struct {
	Checked int `json:"checked"`
	Capped  int `json:"capped"`
	Failed  int `json:"failed"`
}

// EnforceCombinedCap re-caps the combined earned buckets at the global ceiling
// for every employee currently over it. Rows at or under the cap are never
// touched, so the sweep is idempotent.
func EnforceCombinedCap(ctx context.Context, store StoreAPI) (CapSummary, error) {
	var summary CapSummary

	employees, err := store.OverCapEmployeeIDs(ctx, CombinedEarnedCap)
	if err != nil {
		return summary, err
	}

	for _, employeeID := range employees {
		summary.Checked++
		err := store.InTx(ctx, func(tx Tx) error {
			encashable, nonEncashable, err := tx.EarnedForUpdate(ctx, employeeID)
			if err != nil {
				return err
			}
			cappedEnc, cappedNonEnc := capEarned(encashable, nonEncashable, CombinedEarnedCap)
			if cappedEnc == encashable && cappedNonEnc == nonEncashable {
				return nil
			}
			return tx.SetEarnedAvailable(ctx, employeeID, cappedEnc, cappedNonEnc)
		})
		if err != nil {
			summary.Failed++
			slog.Warn("cap enforcement failed for employee", "employeeId", employeeID, "err", err)
			continue
		}
		summary.Capped++
	}

	return summary, nil
}
