package boleto

import "strings"

// BarcodeFromFields assembles the 44-digit barcode, recomputing the general
// check digit from the payload.
func BarcodeFromFields(f FieldSet) string {
	payload := f.Payload()
	var b strings.Builder
	b.Grow(BarcodeLength)
	b.WriteString(payload[:4])
	b.WriteByte(digitChar(Mod11(payload)))
	b.WriteString(payload[4:])
	return b.String()
}

// CodelineFromFields assembles the 47-digit codeline, recomputing all four
// check digits.
func CodelineFromFields(f FieldSet) string {
	blocks := [3]string{
		f.BankCode + f.CurrencyCode + f.FreeField[0:5],
		f.FreeField[5:15],
		f.FreeField[15:25],
	}
	var b strings.Builder
	b.Grow(CodelineLength)
	for _, blk := range blocks {
		b.WriteString(blk)
		b.WriteByte(digitChar(Mod10(blk)))
	}
	b.WriteByte(digitChar(Mod11(f.Payload())))
	b.WriteString(f.DueDateFactor)
	b.WriteString(f.AmountCents)
	return b.String()
}

// FormatCodeline renders a 47-digit codeline in its printed grouping,
// "AAABC.CCCCX DDDDD.DDDDDY EEEEE.EEEEEZ K UUUUVVVVVVVVVV".
// Input of any other length is returned unchanged.
func FormatCodeline(codeline string) string {
	if len(codeline) != CodelineLength {
		return codeline
	}
	return codeline[0:5] + "." + codeline[5:10] + " " +
		codeline[10:15] + "." + codeline[15:21] + " " +
		codeline[21:26] + "." + codeline[26:32] + " " +
		codeline[32:33] + " " +
		codeline[33:47]
}
