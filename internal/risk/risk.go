// Package risk runs sanity checks over a profile and its derivation.
//
// Risks are advisory only: they never block reconciliation or realization.
package risk

import (
	"github.com/regloapp/reglo/internal/derive"
	"github.com/regloapp/reglo/internal/profile"
)

// Kind categorizes a detected risk.
type Kind string

const (
	// KindInconsistent flags profile facts that contradict each other.
	KindInconsistent Kind = "INCONSISTENT"

	// KindMissing flags expected data that is absent.
	KindMissing Kind = "MISSING"
)

// Risk is one advisory finding. Severity runs 1 (note) to 5 (urgent).
type Risk struct {
	Kind     Kind   `json:"kind"`
	Key      string `json:"key"`
	Title    string `json:"title"`
	Details  string `json:"details"`
	Severity int    `json:"severity"`
}

// Compute evaluates the risk rules for p and its derived obligations.
// Pure; returns an empty slice when nothing is flagged.
func Compute(p profile.ClientProfile, derived []derive.Obligation) []Risk {
	var risks []Risk

	if p.Employees.HasPayroll && p.Employees.Headcount <= 0 {
		risks = append(risks, Risk{
			Kind:     KindInconsistent,
			Key:      "risk.inconsistent.payroll.headcount",
			Title:    "Payroll enabled but headcount is zero",
			Details:  "employees.hasPayroll=true and employees.headcount<=0",
			Severity: 3,
		})
	}

	if p.Legal.VATMode != profile.VATNone && p.Legal.TaxSystem == profile.TaxUSNIncome {
		risks = append(risks, Risk{
			Kind:     KindInconsistent,
			Key:      "risk.inconsistent.vat.usn",
			Title:    "VAT enabled with income-only USN",
			Details:  "Check if VAT mode is correct for this client",
			Severity: 2,
		})
	}

	if len(derived) == 0 {
		risks = append(risks, Risk{
			Kind:     KindMissing,
			Key:      "risk.missing.obligations",
			Title:    "No obligations derived",
			Details:  "Derived obligation list is empty. Profile may be incomplete.",
			Severity: 4,
		})
	}

	return risks
}
