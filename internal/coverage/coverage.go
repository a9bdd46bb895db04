// Package coverage computes the set-difference between expected obligations
// and actually-realized tasks.
//
// Pure and I/O-free: callers fetch both lists and hand them in. The result
// partitions the derived list into covered keys and uncovered items; the
// full obligation record is retained on the uncovered side for diagnostic
// display.
package coverage

import "strings"

// DerivedItem is one expected obligation, keyed for coverage comparison.
type DerivedItem struct {
	Key     string `json:"key"`
	Title   string `json:"title,omitempty"`
	Source  string `json:"source,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Cadence string `json:"cadence,omitempty"`
}

// TaskRef is a realized task reduced to its coverage key.
type TaskRef struct {
	Key string `json:"key"`
}

// Result is the covered/uncovered partition.
//
// Invariants: Covered + Uncovered == DerivedTotal, and
// len(CoveredKeys) == Covered, len(UncoveredItems) == Uncovered.
// DerivedTotal counts derived items after dropping empty-key entries;
// TasksTotal counts the realized input as given.
type Result struct {
	DerivedTotal   int           `json:"derivedTotal"`
	TasksTotal     int           `json:"tasksTotal"`
	Covered        int           `json:"covered"`
	Uncovered      int           `json:"uncovered"`
	CoveredKeys    []string      `json:"coveredKeys"`
	UncoveredItems []DerivedItem `json:"uncoveredItems"`
}

// Compute partitions derived items by presence of their key in tasks.
//
// Derived entries with empty or whitespace-only keys are invalid input and
// dropped entirely - they can be neither covered nor uncovered. Both output
// partitions preserve the input order. Idempotent.
func Compute(derived []DerivedItem, tasks []TaskRef) Result {
	kept := make([]DerivedItem, 0, len(derived))
	for _, d := range derived {
		d.Key = strings.TrimSpace(d.Key)
		if d.Key == "" {
			continue
		}
		kept = append(kept, d)
	}

	taskKeys := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		k := strings.TrimSpace(t.Key)
		if k != "" {
			taskKeys[k] = struct{}{}
		}
	}

	coveredKeys := []string{}
	uncoveredItems := []DerivedItem{}
	for _, d := range kept {
		if _, ok := taskKeys[d.Key]; ok {
			coveredKeys = append(coveredKeys, d.Key)
		} else {
			uncoveredItems = append(uncoveredItems, d)
		}
	}

	return Result{
		DerivedTotal:   len(kept),
		TasksTotal:     len(tasks),
		Covered:        len(coveredKeys),
		Uncovered:      len(uncoveredItems),
		CoveredKeys:    coveredKeys,
		UncoveredItems: uncoveredItems,
	}
}
