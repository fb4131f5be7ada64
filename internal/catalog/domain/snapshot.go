package domain

import (
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Snapshot is a read-only copy of all active catalog rows, taken once per
// calculation. A quote frozen against a snapshot keeps its figures no
// matter how the live catalog changes afterwards.
type Snapshot struct {
	TakenAt           time.Time
	Products          []Product
	Offers            []SupplierOffer
	InstallationItems []InstallationCostItem
	RateCards         []SubcontractorRateCard
	ZoneRatings       []ZoneRating
	Templates         []PackageTemplate
}

// ProductsOf returns active products of the given type in snapshot order.
func (s Snapshot) ProductsOf(t ProductType) []Product {
	var out []Product
	for _, p := range s.Products {
		if p.Type == t && p.Active {
			out = append(out, p)
		}
	}
	return out
}

// OffersFor returns the active supplier offers for one product.
func (s Snapshot) OffersFor(productID snowflake.ID) []SupplierOffer {
	var out []SupplierOffer
	for _, o := range s.Offers {
		if o.ProductID == productID && o.Active {
			out = append(out, o)
		}
	}
	return out
}

// ZoneFor resolves the rebate zone covering a postcode. The second return
// is false when no configured range contains it; callers must treat that as
// an error, never as multiplier 1.
func (s Snapshot) ZoneFor(postcode int) (ZoneRating, bool) {
	for _, z := range s.ZoneRatings {
		if z.Contains(postcode) {
			return z, true
		}
	}
	return ZoneRating{}, false
}

// TemplateByID finds an active package template in the snapshot.
func (s Snapshot) TemplateByID(id snowflake.ID) (PackageTemplate, bool) {
	for _, t := range s.Templates {
		if t.ID == id && t.Active {
			return t, true
		}
	}
	return PackageTemplate{}, false
}

// SelectCheapestActive picks the candidate with the lowest cost under
// costFn. Ties break toward the lowest ID so repeated runs over the same
// snapshot always choose the same row. The second return is false when
// candidates is empty.
func SelectCheapestActive[T any](candidates []T, id func(T) int64, costFn func(T) float64) (T, bool) {
	var zero T
	if len(candidates) == 0 {
		return zero, false
	}
	sorted := make([]T, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		ci, cj := costFn(sorted[i]), costFn(sorted[j])
		if ci != cj {
			return ci < cj
		}
		return id(sorted[i]) < id(sorted[j])
	})
	return sorted[0], true
}
