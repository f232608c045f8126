package budget

import (
	"strconv"

	"github.com/adhithyakrishna0/nova-script-analyst/models"
	"github.com/adhithyakrishna0/nova-script-analyst/roles"
)

// Aggregation over already-fetched budget entries. Pure functions, no queries.

type DepartmentTotal struct {
	Department string  `json:"department"`
	Estimated  float64 `json:"estimated"`
	Actual     float64 `json:"actual"`
}

// ByDepartment sums estimated and actual cost per department, in the fixed
// department order. Departments with no spend at all are omitted.
func ByDepartment(entries []models.BudgetEntry) []DepartmentTotal {
	estimated := make(map[string]float64)
	actual := make(map[string]float64)
	for _, e := range entries {
		estimated[e.Department] += e.EstimatedCost
		actual[e.Department] += e.ActualCost
	}

	var totals []DepartmentTotal
	for _, dept := range roles.Departments {
		est, act := estimated[dept], actual[dept]
		if est == 0 && act == 0 {
			continue
		}
		totals = append(totals, DepartmentTotal{Department: dept, Estimated: est, Actual: act})
	}
	return totals
}

type SceneTotal struct {
	SceneID     uint    `json:"scene_id"`
	SceneNumber int     `json:"scene_number"`
	Heading     string  `json:"heading"`
	Estimated   float64 `json:"estimated"`
	Actual      float64 `json:"actual"`
	Variance    float64 `json:"variance"`
}

// ByScene sums estimated and actual cost per scene. Variance is estimated
// minus actual; positive means under budget.
func ByScene(scenes []models.Scene, entries []models.BudgetEntry) []SceneTotal {
	estimated := make(map[uint]float64)
	actual := make(map[uint]float64)
	for _, e := range entries {
		estimated[e.SceneID] += e.EstimatedCost
		actual[e.SceneID] += e.ActualCost
	}

	totals := make([]SceneTotal, 0, len(scenes))
	for _, s := range scenes {
		est, act := estimated[s.ID], actual[s.ID]
		totals = append(totals, SceneTotal{
			SceneID:     s.ID,
			SceneNumber: s.SceneNumber,
			Heading:     s.Heading,
			Estimated:   est,
			Actual:      act,
			Variance:    est - act,
		})
	}
	return totals
}

type Totals struct {
	Estimated      float64 `json:"estimated"`
	Actual         float64 `json:"actual"`
	Variance       float64 `json:"variance"`
	PercentageUsed string  `json:"percentage_used"`
}

// ProjectTotals sums across all entries. PercentageUsed is actual/estimated
// as a percentage with one decimal, "0" when nothing has been estimated.
func ProjectTotals(entries []models.BudgetEntry) Totals {
	var t Totals
	for _, e := range entries {
		t.Estimated += e.EstimatedCost
		t.Actual += e.ActualCost
	}
	t.Variance = t.Estimated - t.Actual

	t.PercentageUsed = "0"
	if t.Estimated > 0 {
		t.PercentageUsed = strconv.FormatFloat(t.Actual/t.Estimated*100, 'f', 1, 64)
	}
	return t
}
