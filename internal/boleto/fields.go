package boleto

import "strconv"

// FieldSet is the fixed-layout view of a slip, identical for both formats.
type FieldSet struct {
	BankCode          string // 3 digits
	CurrencyCode      string // 1 digit, 9 for BRL
	GeneralCheckDigit string // 1 digit, modulo-11
	DueDateFactor     string // 4 digits
	AmountCents       string // 10 digits
	FreeField         string // 25 digits, issuer specific

	// BlockCheckDigits holds the three modulo-10 digits of a codeline.
	// They are empty when the input was a barcode.
	BlockCheckDigits [3]string
}

// Payload returns the 43 digits covered by the general check digit:
// the barcode without its own check digit position.
func (f FieldSet) Payload() string {
	return f.BankCode + f.CurrencyCode + f.DueDateFactor + f.AmountCents + f.FreeField
}

// Factor returns the due-date factor as an integer.
func (f FieldSet) Factor() int {
	n, _ := strconv.Atoi(f.DueDateFactor)
	return n
}

// Cents returns the amount field as an integer number of cents.
func (f FieldSet) Cents() int64 {
	n, _ := strconv.ParseInt(f.AmountCents, 10, 64)
	return n
}

// codeline block boundaries: data digits are followed by their check digit
var codelineBlocks = [3]struct {
	id         BlockID
	start, end int // data digits, check digit at end
}{
	{Block1, 0, 9},
	{Block2, 10, 20},
	{Block3, 21, 31},
}

// Extract slices digits, already classified as f by Classify, into a FieldSet and
// verifies every check digit. It returns the blocks that failed, in
// Block1, Block2, Block3, General order. All checks run even after a failure.
func Extract(digits string, f Format) (FieldSet, []BlockID) {
	var (
		fs     FieldSet
		failed []BlockID
	)
	switch f {
	case Barcode44:
		fs = FieldSet{
			BankCode:          digits[0:3],
			CurrencyCode:      digits[3:4],
			GeneralCheckDigit: digits[4:5],
			DueDateFactor:     digits[5:9],
			AmountCents:       digits[9:19],
			FreeField:         digits[19:44],
		}
	case Codeline47:
		fs = FieldSet{
			BankCode:          digits[0:3],
			CurrencyCode:      digits[3:4],
			FreeField:         digits[4:9] + digits[10:20] + digits[21:31],
			GeneralCheckDigit: digits[32:33],
			DueDateFactor:     digits[33:37],
			AmountCents:       digits[37:47],
		}
		for i, blk := range codelineBlocks {
			got := digits[blk.end : blk.end+1]
			fs.BlockCheckDigits[i] = got
			if Mod10(digits[blk.start:blk.end]) != int(got[0]-'0') {
				failed = append(failed, blk.id)
			}
		}
	default:
		return fs, nil
	}
	if Mod11(fs.Payload()) != int(fs.GeneralCheckDigit[0]-'0') {
		failed = append(failed, General)
	}
	return fs, failed
}
