// Package profile stores and validates per-client operating profiles.
//
// A profile answers "what kind of client is this" - tax regime, payroll,
// operational flags - and is the sole input to obligation derivation. It is
// persisted per scope in the local KV surface; a missing, foreign-scope, or
// invalid document degrades to the default profile rather than failing.
package profile

import "time"

// Enumerations used by the profile. Values are fixed wire strings.
const (
	EntityIP  = "IP"
	EntityOOO = "OOO"

	TaxUSNIncomeExpense = "USN_DR"
	TaxUSNIncome        = "USN_DO"
	TaxOSNO             = "OSNO"

	VATNone = "NONE"
	VAT5    = "VAT_5"
	VAT20   = "VAT_20"
)

// Legal identifies the client's legal form and tax regime.
type Legal struct {
	EntityType string `json:"entityType"`
	TaxSystem  string `json:"taxSystem"`
	VATMode    string `json:"vatMode"`
}

// Employees captures payroll-relevant facts.
type Employees struct {
	HasPayroll   bool  `json:"hasPayroll"`
	Headcount    int   `json:"headcount"`
	PayrollDates []int `json:"payrollDates"`
}

// Operations captures day-to-day operational flags.
type Operations struct {
	BankAccounts int  `json:"bankAccounts"`
	CashRegister bool `json:"cashRegister"`
	OFD          bool `json:"ofd"`
	ForeignOps   bool `json:"foreignOps"`
}

// SpecialFlags marks regimes that add obligations beyond the base set.
type SpecialFlags struct {
	TourismTax             bool `json:"tourismTax"`
	Excise                 bool `json:"excise"`
	ControlledTransactions bool `json:"controlledTransactions"`
}

// Calendar selects the reporting rhythm.
type Calendar struct {
	ReportingMode string `json:"reportingMode"`
}

// Meta carries service-relationship attributes that do not affect
// derivation but travel with the profile.
type Meta struct {
	RiskTolerance string `json:"riskTolerance"`
	ServiceLevel  string `json:"serviceLevel"`
}

// ClientProfile is the persisted per-scope profile document.
type ClientProfile struct {
	ClientID     string       `json:"clientId"`
	Legal        Legal        `json:"legal"`
	Employees    Employees    `json:"employees"`
	Operations   Operations   `json:"operations"`
	SpecialFlags SpecialFlags `json:"specialFlags"`
	Calendar     Calendar     `json:"calendar"`
	Meta         Meta         `json:"meta"`
	UpdatedAt    string       `json:"updatedAt"`
}

// Default returns the profile assumed for a scope with no stored document:
// a no-payroll OOO on income-minus-expenses USN with one bank account.
func Default(scope string, now time.Time) ClientProfile {
	return ClientProfile{
		ClientID: scope,
		Legal: Legal{
			EntityType: EntityOOO,
			TaxSystem:  TaxUSNIncomeExpense,
			VATMode:    VATNone,
		},
		Employees: Employees{
			HasPayroll:   false,
			Headcount:    0,
			PayrollDates: []int{},
		},
		Operations: Operations{
			BankAccounts: 1,
		},
		Calendar: Calendar{
			ReportingMode: "MONTHLY",
		},
		Meta: Meta{
			RiskTolerance: "MEDIUM",
			ServiceLevel:  "STANDARD",
		},
		UpdatedAt: now.UTC().Format(time.RFC3339),
	}
}
