package persistence

import "strings"

// ValidateSortOrder normalizes orderDir to ASC or DESC, defaulting to DESC
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "ASC") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when it is whitelisted in allowed,
// defaultField otherwise. Sort columns are interpolated into ORDER BY, so
// nothing outside the whitelist may pass.
func ValidateSortField(sortField string, allowed map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if allowed[trimmed] {
		return trimmed
	}
	return defaultField
}
