// Package models defines data structures for finsim
package models

import (
	"strings"

	"github.com/bobmcallan/finsim/internal/common"
)

// Frequency is a payment or contribution frequency.
type Frequency string

const (
	Monthly     Frequency = "monthly"
	BiMonthly   Frequency = "bimonthly"
	Quarterly   Frequency = "quarterly"
	FourMonthly Frequency = "four_monthly"
	SemiAnnual  Frequency = "semiannual"
	Annual      Frequency = "annual"
)

// Frequencies lists every supported frequency, shortest period first.
var Frequencies = []Frequency{Monthly, BiMonthly, Quarterly, FourMonthly, SemiAnnual, Annual}

var frequencyLabels = map[Frequency]string{
	Monthly:     "Monthly",
	BiMonthly:   "Bi-monthly",
	Quarterly:   "Quarterly",
	FourMonthly: "Four-monthly",
	SemiAnnual:  "Semi-annual",
	Annual:      "Annual",
}

var frequencyAliases = map[string]Frequency{
	"monthly":      Monthly,
	"month":        Monthly,
	"bimonthly":    BiMonthly,
	"bi-monthly":   BiMonthly,
	"bi_monthly":   BiMonthly,
	"quarterly":    Quarterly,
	"quarter":      Quarterly,
	"four_monthly": FourMonthly,
	"four-monthly": FourMonthly,
	"fourmonthly":  FourMonthly,
	"4-monthly":    FourMonthly,
	"semiannual":   SemiAnnual,
	"semi-annual":  SemiAnnual,
	"semi_annual":  SemiAnnual,
	"annual":       Annual,
	"yearly":       Annual,
}

// Valid reports whether f is one of the six supported frequencies.
func (f Frequency) Valid() bool {
	_, ok := frequencyLabels[f]
	return ok
}

// Label returns the human readable name used in reports.
func (f Frequency) Label() string {
	if l, ok := frequencyLabels[f]; ok {
		return l
	}
	return string(f)
}

// ParseFrequency accepts canonical names and common aliases, case-insensitively.
func ParseFrequency(s string) (Frequency, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if f, ok := frequencyAliases[key]; ok {
		return f, nil
	}
	return "", common.InvalidInput("frequency", "%q is not a supported frequency", s)
}

// TaxType selects the capital gains tax regime applied to a projection.
type TaxType string

const (
	TaxLocal   TaxType = "local"
	TaxForeign TaxType = "foreign"
)

// Rate returns the tax rate as a fraction.
func (t TaxType) Rate() (float64, bool) {
	switch t {
	case TaxLocal:
		return 0.05, true
	case TaxForeign:
		return 0.295, true
	}
	return 0, false
}

// Label returns the human readable name used in reports.
func (t TaxType) Label() string {
	switch t {
	case TaxLocal:
		return "Local exchange (5%)"
	case TaxForeign:
		return "Foreign exchange (29.5%)"
	}
	return string(t)
}

// WithdrawalKind selects how the accumulated balance is paid out.
type WithdrawalKind string

const (
	WithdrawLumpSum WithdrawalKind = "lump_sum"
	WithdrawPension WithdrawalKind = "pension"
)

// Valid reports whether k is a known withdrawal kind.
func (k WithdrawalKind) Valid() bool {
	return k == WithdrawLumpSum || k == WithdrawPension
}

// Label returns the human readable name used in reports.
func (k WithdrawalKind) Label() string {
	switch k {
	case WithdrawLumpSum:
		return "Lump sum"
	case WithdrawPension:
		return "Monthly pension"
	}
	return string(k)
}
