package knowledge

import "strings"

// PriceNotStated is the display form for a missing or unavailable price tier.
const PriceNotStated = "Δεν αναφέρεται"

// DefaultPriceColumns are the price-tier columns normalized when none are configured.
var DefaultPriceColumns = []string{"Εύρος_Τιμών", "Price"}

var priceTiers = map[string]string{
	"E (Χαμηλό)":           "€ (Χαμηλό)",
	"€ (Χαμηλό)":           "€ (Χαμηλό)",
	"EE (Μεσαίο)":          "€€ (Μεσαίο)",
	"€€ (Μεσαίο)":          "€€ (Μεσαίο)",
	"EEE (Υψηλό)":          "€€€ (Υψηλό)",
	"€€€ (Υψηλό)":          "€€€ (Υψηλό)",
	"€-€€ (Μεσαίο-Χαμηλό)": "€-€€ (Χαμηλό προς Μεσαίο)",
	"Μη διαθέσιμο":         PriceNotStated,
}

// NormalizePriceTier maps a raw price tier to its display form. Empty or
// absent values become PriceNotStated; anything else that is not a known
// tier, whitespace included, is returned unchanged.
func NormalizePriceTier(raw string) string {
	if raw == "" {
		return PriceNotStated
	}
	if canonical, ok := priceTiers[strings.TrimSpace(raw)]; ok {
		return canonical
	}
	return raw
}

func normalizePrices(table *Table, columns []string) {
	for _, column := range columns {
		if !table.Header.Has(column) {
			continue
		}
		for i := range table.Rows {
			row := &table.Rows[i]
			row.Set(column, NormalizePriceTier(row.Value(column)))
		}
	}
}
