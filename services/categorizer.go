package services

import "strings"

// --- REGLES STATIQUES (ordre = priorité) ---
// Ordered decision list: the first rule whose keyword appears in the
// description wins. Keep this a slice, not a map, so priority is explicit.
type categoryRule struct {
	keywords []string
	label    string
}

var categoryRules = []categoryRule{
	{[]string{"salary"}, "Income"},
	{[]string{"fuel", "diesel"}, "Fuel"},
	{[]string{"zomato", "swiggy", "restaurant"}, "Food"},
	{[]string{"amazon", "flipkart"}, "Shopping"},
	{[]string{"mutual fund", "sip"}, "Investments"},
	{[]string{"upi", "transfer", "google pay", "gpay"}, "Transfers"},
}

const defaultCategory = "Others"

// Categorize maps a transaction description to a spending category.
func Categorize(description string) string {
	desc := strings.ToLower(description)
	if desc == "" {
		return defaultCategory
	}
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(desc, kw) {
				return rule.label
			}
		}
	}
	return defaultCategory
}
