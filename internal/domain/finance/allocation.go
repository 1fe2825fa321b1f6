package finance

import (
	"sort"

	"github.com/shopspring/decimal"
)

// SortForAllocation orders invoices oldest first: by invoice date, then by
// creation time, then by id so that equal dates still give a stable order.
func SortForAllocation(invoices []*Invoice) []*Invoice {
	sorted := make([]*Invoice, len(invoices))
	copy(sorted, invoices)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.InvoiceDate.Equal(b.InvoiceDate) {
			return a.InvoiceDate.Before(b.InvoiceDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})
	return sorted
}

// allocate spreads advance and cash over invoices in the given order, fully
// settling each before the next. Advance is consumed before cash.
func allocate(invoices []*Invoice, fromAdvance, fromCash decimal.Decimal) []Allocation {
	allocations := make([]Allocation, 0, len(invoices))
	for _, inv := range invoices {
		if fromAdvance.IsZero() && fromCash.IsZero() {
			break
		}
		if !inv.RemainingAmount.IsPositive() {
			continue
		}
		owed := inv.RemainingAmount
		adv := decimal.Min(owed, fromAdvance)
		cash := decimal.Min(owed.Sub(adv), fromCash)
		if adv.Add(cash).IsZero() {
			continue
		}
		fromAdvance = fromAdvance.Sub(adv)
		fromCash = fromCash.Sub(cash)
		allocations = append(allocations, Allocation{
			InvoiceID:   inv.ID,
			Amount:      adv.Add(cash),
			FromAdvance: adv,
			FromCash:    cash,
		})
	}
	return allocations
}
