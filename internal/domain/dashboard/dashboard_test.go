package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistributionBucketing(t *testing.T) {
	tests := []struct {
		name       string
		headcounts []int
		companies  [4]int
		employees  [4]int
	}{
		{
			name:       "boundaries are inclusive",
			headcounts: []int{10, 11, 50, 51, 200, 201},
			companies:  [4]int{1, 2, 2, 1},
			employees:  [4]int{10, 61, 251, 201},
		},
		{
			name:       "zero headcount lands in the first bucket",
			headcounts: []int{0, 3},
			companies:  [4]int{2, 0, 0, 0},
			employees:  [4]int{3, 0, 0, 0},
		},
		{
			name:       "empty input keeps all buckets at zero",
			headcounts: nil,
			companies:  [4]int{0, 0, 0, 0},
			employees:  [4]int{0, 0, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buckets := Distribution(tt.headcounts)
			assert.Len(t, buckets, 4)
			assert.Equal(t, "1-10", buckets[0].Label)
			assert.Equal(t, ">200", buckets[3].Label)
			for i := range buckets {
				assert.Equal(t, tt.companies[i], buckets[i].Companies, "companies in bucket %s", buckets[i].Label)
				assert.Equal(t, tt.employees[i], buckets[i].Employees, "employees in bucket %s", buckets[i].Label)
			}
		})
	}
}

func TestDistributionPercentages(t *testing.T) {
	buckets := Distribution([]int{1, 2})

	assert.InDelta(t, 100.0, buckets[0].Percentage, 0.001)
	assert.Zero(t, buckets[1].Percentage)

	sum := 0.0
	for _, b := range Distribution([]int{5, 30, 100, 300}) {
		sum += b.Percentage
	}
	assert.InDelta(t, 100.0, sum, 0.2)
}

func TestDistributionNoEmployees(t *testing.T) {
	for _, b := range Distribution([]int{0, 0}) {
		assert.Zero(t, b.Percentage)
	}
}

func TestAverageEmployees(t *testing.T) {
	assert.Zero(t, AverageEmployees(10, 0))
	assert.InDelta(t, 3.33, AverageEmployees(10, 3), 0.001)
	assert.InDelta(t, 5.0, AverageEmployees(10, 2), 0.001)
}
