package period

import (
	"github.com/shopspring/decimal"

	"github.com/primtakip/backend/internal/domain/sales"
)

// Stats holds the aggregate figures computed over a period's sales
type Stats struct {
	TotalSales            decimal.Decimal
	TotalCommission       decimal.Decimal
	TotalUnpaidCommission decimal.Decimal
	SalesCount            int
}

// ComputeStats derives the aggregate figures from the given sales.
// Cancelled and deleted sales are skipped; duplicates (a sale both in the
// window and on the transfer list) are counted once.
func ComputeStats(items []sales.Sale) Stats {
	stats := Stats{
		TotalSales:            decimal.Zero,
		TotalCommission:       decimal.Zero,
		TotalUnpaidCommission: decimal.Zero,
	}

	seen := make(map[string]struct{}, len(items))
	for i := range items {
		s := &items[i]
		if s.Status != sales.SaleStatusActive {
			continue
		}
		if _, ok := seen[s.ID.String()]; ok {
			continue
		}
		seen[s.ID.String()] = struct{}{}

		stats.TotalSales = stats.TotalSales.Add(s.ActivitySalePrice)
		stats.TotalCommission = stats.TotalCommission.Add(s.Commission)
		if !s.IsCommissionPaid() {
			stats.TotalUnpaidCommission = stats.TotalUnpaidCommission.Add(s.Commission)
		}
		stats.SalesCount++
	}

	return stats
}
