// Package derive computes the expected recurring obligations for a client
// from its profile.
//
// Derivation is a pure rule table: profile facts in, obligation list out.
// The output is ephemeral - it is recomputed on every run and is never
// persisted by this package. The reconciliation engine is what turns a
// derivation into durable local tasks.
package derive

import "github.com/regloapp/reglo/internal/profile"

// Obligation source categories.
const (
	SourceTax     = "TAX"
	SourcePayroll = "PAYROLL"
	SourceBank    = "BANK"
	SourceSpecial = "SPECIAL"
)

// Cadence descriptors attached to derived obligations.
const (
	Monthly   = "MONTHLY"
	Quarterly = "QUARTERLY"
	Yearly    = "YEARLY"
)

// Obligation is one expected recurring duty for a client.
type Obligation struct {
	// Key is the stable machine key ("tax.vat.reporting"). Coverage is
	// computed over keys.
	Key string `json:"key" yaml:"key"`

	// Title is the human description; task identity is derived from it.
	Title string `json:"title" yaml:"title"`

	// Source is the rule family that produced the obligation.
	Source string `json:"source" yaml:"source,omitempty"`

	// Reason names the profile fact that triggered the rule.
	Reason string `json:"reason" yaml:"reason,omitempty"`

	// Cadence is the qualitative recurrence descriptor.
	Cadence string `json:"cadence" yaml:"cadence,omitempty"`
}

// Obligations derives the expected obligation list for p.
// Rule order is fixed; output order is part of the contract because
// reconciliation and coverage are order-preserving.
func Obligations(p profile.ClientProfile) []Obligation {
	var out []Obligation

	// TAX
	switch p.Legal.TaxSystem {
	case profile.TaxUSNIncomeExpense, profile.TaxUSNIncome:
		out = append(out,
			Obligation{
				Key:     "tax.usn.advance",
				Title:   "USN advance payment",
				Source:  SourceTax,
				Reason:  "legal.taxSystem=USN_*",
				Cadence: Quarterly,
			},
			Obligation{
				Key:     "tax.usn.declaration",
				Title:   "USN declaration",
				Source:  SourceTax,
				Reason:  "legal.taxSystem=USN_*",
				Cadence: Yearly,
			},
		)
	case profile.TaxOSNO:
		out = append(out, Obligation{
			Key:     "tax.osno.cit",
			Title:   "Corporate income tax",
			Source:  SourceTax,
			Reason:  "legal.taxSystem=OSNO",
			Cadence: Quarterly,
		})
	}

	if p.Legal.VATMode != profile.VATNone {
		out = append(out, Obligation{
			Key:     "tax.vat.reporting",
			Title:   "VAT reporting",
			Source:  SourceTax,
			Reason:  "legal.vatMode!=NONE",
			Cadence: Quarterly,
		})
	}

	// PAYROLL
	if p.Employees.HasPayroll {
		out = append(out,
			Obligation{
				Key:     "payroll.salary.run",
				Title:   "Payroll run",
				Source:  SourcePayroll,
				Reason:  "employees.hasPayroll=true",
				Cadence: Monthly,
			},
			Obligation{
				Key:     "payroll.reports",
				Title:   "Payroll reports",
				Source:  SourcePayroll,
				Reason:  "employees.hasPayroll=true",
				Cadence: Monthly,
			},
		)
	}

	// BANK - every client reconciles at least one account.
	out = append(out, Obligation{
		Key:     "bank.statement.request",
		Title:   "Request bank statement",
		Source:  SourceBank,
		Reason:  "operations.bankAccounts>=1",
		Cadence: Monthly,
	})

	// SPECIAL
	if p.SpecialFlags.TourismTax {
		out = append(out, Obligation{
			Key:     "special.tourism.tax",
			Title:   "Tourism tax",
			Source:  SourceSpecial,
			Reason:  "specialFlags.tourismTax=true",
			Cadence: Monthly,
		})
	}

	return out
}
