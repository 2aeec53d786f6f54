package model

import "testing"

func TestCategoryFor(t *testing.T) {
	tests := []struct {
		score float64
		want  Category
	}{
		{0, CategoryLow},
		{34, CategoryLow},
		{34.5, CategoryMedium},
		{35, CategoryMedium},
		{54, CategoryMedium},
		{54.1, CategoryHigh},
		{55, CategoryHigh},
		{74, CategoryHigh},
		{74.9, CategoryHigh},
		{75, CategoryCritical},
		{100, CategoryCritical},
	}
	for _, tt := range tests {
		if got := CategoryFor(tt.score); got != tt.want {
			t.Errorf("CategoryFor(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}
