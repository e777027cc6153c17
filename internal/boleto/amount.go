package boleto

import "github.com/shopspring/decimal"

// Amount is a BRL value with two fraction digits, or open when the payer
// fills in the value. An open amount is not zero.
type Amount struct {
	value decimal.Decimal
	set   bool
}

// ResolveAmount converts the 10-digit cents field. Zero cents yields an open Amount.
func ResolveAmount(cents int64) Amount {
	if cents == 0 {
		return Amount{}
	}
	return Amount{value: decimal.New(cents, -2), set: true}
}

// Decimal returns the amount and whether one is specified.
func (a Amount) Decimal() (decimal.Decimal, bool) {
	return a.value, a.set
}

// Open reports whether the amount is left for the payer to fill in.
func (a Amount) Open() bool {
	return !a.set
}

// String formats the amount with exactly two decimals, or returns "" when open.
func (a Amount) String() string {
	if !a.set {
		return ""
	}
	return a.value.StringFixed(2)
}
