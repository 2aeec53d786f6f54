package model

// Category buckets a 0-100 risk score.
type Category string

const (
	CategoryLow      Category = "LOW"
	CategoryMedium   Category = "MEDIUM"
	CategoryHigh     Category = "HIGH"
	CategoryCritical Category = "CRITICAL"
)

// CategoryFor maps a composite score to its risk category.
// Thresholds: LOW 0-34, MEDIUM 35-54, HIGH 55-74, CRITICAL 75-100.
func CategoryFor(score float64) Category {
	switch {
	case score <= 34:
		return CategoryLow
	case score <= 54:
		return CategoryMedium
	case score <= 74:
		return CategoryHigh
	default:
		return CategoryCritical
	}
}
