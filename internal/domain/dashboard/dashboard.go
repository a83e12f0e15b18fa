// Package dashboard computes read-only summary statistics over companies and
// employees. Nothing here is materialized; every request recomputes from the
// store.
package dashboard

import "math"

// Bucket is one fixed headcount range of the company distribution report.
type Bucket struct {
	Label      string  `json:"label"`
	Companies  int     `json:"companies"`
	Employees  int     `json:"employees"`
	Percentage float64 `json:"percentage"`
}

type Summary struct {
	TotalCompanies             int            `json:"totalCompanies"`
	TotalEmployees             int            `json:"totalEmployees"`
	AverageEmployeesPerCompany float64        `json:"averageEmployeesPerCompany"`
	EmployeesByStatus          map[string]int `json:"employeesByStatus"`
}

// bucketRanges partitions headcounts with inclusive lower bounds, so a
// company with exactly 10 employees falls in "1-10". Companies without
// employees are counted in the first bucket.
var bucketRanges = []struct {
	label string
	min   int
	max   int // -1 = unbounded
}{
	{"1-10", 0, 10},
	{"11-50", 11, 50},
	{"51-200", 51, 200},
	{">200", 201, -1},
}

// Distribution groups per-company headcounts into the four fixed buckets and
// computes each bucket's share of total employees, rounded to one decimal.
// All percentages are 0.0 when there are no employees.
func Distribution(headcounts []int) []Bucket {
	buckets := make([]Bucket, len(bucketRanges))
	total := 0
	for i, r := range bucketRanges {
		buckets[i].Label = r.label
	}
	for _, count := range headcounts {
		total += count
		for i, r := range bucketRanges {
			if count >= r.min && (r.max < 0 || count <= r.max) {
				buckets[i].Companies++
				buckets[i].Employees += count
				break
			}
		}
	}
	if total > 0 {
		for i := range buckets {
			buckets[i].Percentage = round1(float64(buckets[i].Employees) / float64(total) * 100)
		}
	}
	return buckets
}

// AverageEmployees returns employees/companies rounded to two decimals, and
// 0.0 when there are no companies.
func AverageEmployees(totalEmployees, totalCompanies int) float64 {
	if totalCompanies == 0 {
		return 0
	}
	return round2(float64(totalEmployees) / float64(totalCompanies))
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
