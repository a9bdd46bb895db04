package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_Partition(t *testing.T) {
	derived := []DerivedItem{
		{Key: "tax.vat.reporting", Title: "VAT reporting"},
		{Key: "payroll.salary.run", Title: "Payroll run"},
		{Key: "bank.statement.request", Title: "Request bank statement"},
	}
	tasks := []TaskRef{
		{Key: "tax.vat.reporting"},
		{Key: "bank.statement.request"},
		{Key: "something.else"},
	}

	res := Compute(derived, tasks)

	assert.Equal(t, 3, res.DerivedTotal)
	assert.Equal(t, 3, res.TasksTotal)
	assert.Equal(t, []string{"tax.vat.reporting", "bank.statement.request"}, res.CoveredKeys)
	require.Len(t, res.UncoveredItems, 1)
	assert.Equal(t, "payroll.salary.run", res.UncoveredItems[0].Key)
	assert.Equal(t, "Payroll run", res.UncoveredItems[0].Title, "full record retained for display")
}

func TestCompute_EmptyKeysDropped(t *testing.T) {
	derived := []DerivedItem{
		{Key: ""},
		{Key: "   "},
		{Key: "tax.vat.reporting"},
	}

	res := Compute(derived, nil)

	assert.Equal(t, 1, res.DerivedTotal, "empty keys are invalid input, not uncovered")
	assert.Equal(t, 1, res.Uncovered)
}

func TestCompute_PartitionCompleteness(t *testing.T) {
	cases := []struct {
		name    string
		derived []DerivedItem
		tasks   []TaskRef
	}{
		{"both empty", nil, nil},
		{"all covered", []DerivedItem{{Key: "a"}, {Key: "b"}}, []TaskRef{{Key: "a"}, {Key: "b"}}},
		{"none covered", []DerivedItem{{Key: "a"}, {Key: "b"}}, []TaskRef{{Key: "c"}}},
		{"mixed with invalid", []DerivedItem{{Key: "a"}, {Key: ""}, {Key: "b"}}, []TaskRef{{Key: "b"}}},
		{"duplicate derived keys both partitioned", []DerivedItem{{Key: "a"}, {Key: "a"}}, []TaskRef{{Key: "a"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Compute(tc.derived, tc.tasks)
			assert.Equal(t, res.DerivedTotal, res.Covered+res.Uncovered)
			assert.Len(t, res.CoveredKeys, res.Covered)
			assert.Len(t, res.UncoveredItems, res.Uncovered)
		})
	}
}

func TestCompute_TaskKeysWithWhitespaceNormalized(t *testing.T) {
	res := Compute(
		[]DerivedItem{{Key: "a"}},
		[]TaskRef{{Key: " a "}},
	)
	assert.Equal(t, 1, res.Covered)
}

func TestCompute_Idempotent(t *testing.T) {
	derived := []DerivedItem{{Key: "a"}, {Key: "b"}}
	tasks := []TaskRef{{Key: "b"}}

	assert.Equal(t, Compute(derived, tasks), Compute(derived, tasks))
}

func TestCompute_EmptyInputsYieldEmptySlicesNotNil(t *testing.T) {
	res := Compute(nil, nil)
	assert.NotNil(t, res.CoveredKeys)
	assert.NotNil(t, res.UncoveredItems)
}
