// Package cashflow computes trailing income/expense/surplus averages over
// fixed lookback windows.
package cashflow

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline-backend/internal/domain"
	"github.com/ledgerline/ledgerline-backend/internal/usecase/period"
)

// Flow is a monthly average of money in and out over one trailing window.
// Income is non-negative, Expenses non-positive, Surplus their sum.
type Flow struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Surplus  decimal.Decimal
}

// Averages holds the monthly cash-flow averages for every trailing window.
type Averages struct {
	Last3Months  Flow
	Last6Months  Flow
	YearToDate   Flow
	Last12Months Flow
}

func zeroFlow() Flow {
	return Flow{Income: decimal.Zero, Expenses: decimal.Zero, Surplus: decimal.Zero}
}

// ZeroAverages returns averages with every figure at zero.
func ZeroAverages() Averages {
	return Averages{
		Last3Months:  zeroFlow(),
		Last6Months:  zeroFlow(),
		YearToDate:   zeroFlow(),
		Last12Months: zeroFlow(),
	}
}

// TrailingAverages sums non-excluded, non-pending transactions dated at or
// after each window start and divides by the window's month count. Window
// starts are anchored to the first instant of the UTC month containing ref,
// so the current partial month counts as one full month.
func TrailingAverages(txns []*domain.Transaction, ref time.Time) Averages {
	monthStart := period.MonthStart(ref)
	start3m := period.MonthsBack(monthStart, 2)
	start6m := period.MonthsBack(monthStart, 5)
	start12m := period.MonthsBack(monthStart, 11)
	startYtd := period.YearStart(ref)

	sum := func(from time.Time) Flow {
		flow := zeroFlow()
		for _, t := range txns {
			if !t.CountsTowardSums() {
				continue
			}
			if t.Date.Before(from) {
				continue
			}
			if t.Value.Sign() >= 0 {
				flow.Income = flow.Income.Add(t.Value)
			} else {
				flow.Expenses = flow.Expenses.Add(t.Value)
			}
		}
		flow.Surplus = flow.Income.Add(flow.Expenses)
		return flow
	}

	perMonth := func(flow Flow, months int) Flow {
		n := decimal.NewFromInt(int64(months))
		return Flow{
			Income:   flow.Income.Div(n),
			Expenses: flow.Expenses.Div(n),
			Surplus:  flow.Surplus.Div(n),
		}
	}

	// YTD divides by the 1-based UTC month number: January averages over
	// one month, December over twelve.
	ytdMonths := int(ref.UTC().Month())

	return Averages{
		Last3Months:  perMonth(sum(start3m), 3),
		Last6Months:  perMonth(sum(start6m), 6),
		YearToDate:   perMonth(sum(startYtd), ytdMonths),
		Last12Months: perMonth(sum(start12m), 12),
	}
}
