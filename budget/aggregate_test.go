package budget

import (
	"testing"

	"github.com/adhithyakrishna0/nova-script-analyst/models"
)

func TestByDepartment(t *testing.T) {
	entries := []models.BudgetEntry{
		{Department: "Camera", EstimatedCost: 1000, ActualCost: 900},
		{Department: "Camera", EstimatedCost: 500, ActualCost: 600},
		{Department: "Sound", EstimatedCost: 200, ActualCost: 0},
		{Department: "Lighting", EstimatedCost: 0, ActualCost: 0},
	}

	totals := ByDepartment(entries)

	byName := make(map[string]DepartmentTotal)
	for _, d := range totals {
		byName[d.Department] = d
	}

	camera, ok := byName["Camera"]
	if !ok {
		t.Fatal("Camera missing from department view")
	}
	if camera.Estimated != 1500 || camera.Actual != 1500 {
		t.Errorf("Camera = %+v, want estimated=1500 actual=1500", camera)
	}

	if _, ok := byName["Lighting"]; ok {
		t.Error("Lighting has zero sums and should be omitted")
	}
	if _, ok := byName["Catering"]; ok {
		t.Error("Catering has no entries and should be omitted")
	}

	// Fixed department order is preserved.
	if len(totals) != 2 || totals[0].Department != "Camera" || totals[1].Department != "Sound" {
		t.Errorf("unexpected order: %+v", totals)
	}
}

func TestByScene(t *testing.T) {
	scenes := []models.Scene{
		{ID: 1, SceneNumber: 1, Heading: "Opening"},
		{ID: 2, SceneNumber: 2, Heading: "Chase"},
	}
	entries := []models.BudgetEntry{
		{SceneID: 1, Department: "Camera", EstimatedCost: 1000, ActualCost: 1200},
		{SceneID: 1, Department: "Sound", EstimatedCost: 300, ActualCost: 100},
	}

	totals := ByScene(scenes, entries)
	if len(totals) != 2 {
		t.Fatalf("got %d scene totals, want 2", len(totals))
	}

	if totals[0].Estimated != 1300 || totals[0].Actual != 1300 || totals[0].Variance != 0 {
		t.Errorf("scene 1 = %+v, want estimated=1300 actual=1300 variance=0", totals[0])
	}
	// A scene without entries still appears, at zero.
	if totals[1].Estimated != 0 || totals[1].Actual != 0 {
		t.Errorf("scene 2 = %+v, want zeros", totals[1])
	}
}

func TestProjectTotals(t *testing.T) {
	tests := []struct {
		name        string
		entries     []models.BudgetEntry
		estimated   float64
		actual      float64
		variance    float64
		percentUsed string
	}{
		{
			name: "balanced department",
			entries: []models.BudgetEntry{
				{Department: "Camera", EstimatedCost: 1000, ActualCost: 900},
				{Department: "Camera", EstimatedCost: 500, ActualCost: 600},
			},
			estimated: 1500, actual: 1500, variance: 0, percentUsed: "100.0",
		},
		{
			name: "under budget",
			entries: []models.BudgetEntry{
				{EstimatedCost: 2000, ActualCost: 500},
			},
			estimated: 2000, actual: 500, variance: 1500, percentUsed: "25.0",
		},
		{
			name: "zero estimate guards division",
			entries: []models.BudgetEntry{
				{EstimatedCost: 0, ActualCost: 250},
			},
			estimated: 0, actual: 250, variance: -250, percentUsed: "0",
		},
		{
			name:      "no entries",
			entries:   nil,
			estimated: 0, actual: 0, variance: 0, percentUsed: "0",
		},
		{
			name: "one decimal rounding",
			entries: []models.BudgetEntry{
				{EstimatedCost: 3000, ActualCost: 1000},
			},
			estimated: 3000, actual: 1000, variance: 2000, percentUsed: "33.3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProjectTotals(tt.entries)
			if got.Estimated != tt.estimated || got.Actual != tt.actual || got.Variance != tt.variance {
				t.Errorf("totals = %+v, want estimated=%v actual=%v variance=%v",
					got, tt.estimated, tt.actual, tt.variance)
			}
			if got.PercentageUsed != tt.percentUsed {
				t.Errorf("PercentageUsed = %q, want %q", got.PercentageUsed, tt.percentUsed)
			}
		})
	}
}
