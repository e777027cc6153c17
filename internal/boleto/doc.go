// Package boleto decodes Brazilian bank-slip payment identifiers.
//
// Two serializations of the same 44-digit value are accepted:
//   - Barcode: the 44 digits read by a barcode scanner
//   - Codeline: the 47-digit "linha digitável" typed by a person, grouped in
//     five fields with a modulo-10 check digit after each of the first three
//
// Decoding normalizes the input, classifies it by length, slices it into a
// FieldSet, verifies every check digit and resolves the due date and amount.
// Checksum failures do not abort the decode; they are reported on the Result
// so callers can show a best-effort date and amount with a warning.
//
// Everything in this package is pure. A Decoder holds only its configured
// Epoch and may be shared between goroutines.
package boleto
