package boleto

import "strings"

// Format identifies which serialization a digit string uses.
type Format int

const (
	// Barcode44 is the 44-digit machine-readable barcode payload.
	Barcode44 Format = iota + 1
	// Codeline47 is the 47-digit typed line with per-block check digits.
	Codeline47
)

// Lengths of the two accepted serializations.
const (
	BarcodeLength  = 44
	CodelineLength = 47
)

func (f Format) String() string {
	switch f {
	case Barcode44:
		return "barcode"
	case Codeline47:
		return "codeline"
	default:
		return "unknown"
	}
}

// Normalize returns the ASCII digits of raw in their original order.
// Scanners and paste fields add labels, dots and whitespace; all of it is dropped.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		if c := raw[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Classify picks the format from the digit count.
// Anything other than 44 or 47 digits is rejected; lengths are never guessed.
func Classify(digits string) (Format, error) {
	switch len(digits) {
	case 0:
		return 0, &DecodeError{Kind: EmptyInput}
	case BarcodeLength:
		return Barcode44, nil
	case CodelineLength:
		return Codeline47, nil
	default:
		return 0, &DecodeError{Kind: InvalidLength, Length: len(digits)}
	}
}
