package models

// Canonical project categories. Activity categories are free text and are
// not constrained to this list.
const (
	CategoryAcademic   = "Academic & Scholarly Achievements"
	CategoryTechnology = "Technology, Coding & Innovation"
	CategoryLeadership = "Leadership, Volunteering & Environmental Action"
	CategoryMUN        = "Model United Nations (MUN) & Public Speaking"
	CategoryArts       = "Arts, Athletics & Personal Passions"
	CategoryAwards     = "Recognition & Awards"
)

// Categories lists every valid project category, in display order.
var Categories = []string{
	CategoryAcademic,
	CategoryTechnology,
	CategoryLeadership,
	CategoryMUN,
	CategoryArts,
	CategoryAwards,
}

// IsValidCategory reports whether s is one of the canonical categories.
func IsValidCategory(s string) bool {
	for _, c := range Categories {
		if c == s {
			return true
		}
	}
	return false
}

// CanonicalCategory returns s if it is a valid category, otherwise the
// first canonical category. AI-extracted categories are advisory only and
// get coerced here rather than rejected.
func CanonicalCategory(s string) string {
	if IsValidCategory(s) {
		return s
	}
	return Categories[0]
}
