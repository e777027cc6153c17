package boleto

// Result is the outcome of decoding a structurally valid input.
// A Result with ChecksumValid false still carries the best-effort fields.
type Result struct {
	Format        Format
	ChecksumValid bool

	// Mismatches lists the failed checks in Block1, Block2, Block3, General order.
	Mismatches []BlockID

	DueDate DueDate
	Amount  Amount
	Fields  FieldSet

	// Digits is the normalized input, check digits as given.
	Digits string
}

// Err returns a ChecksumMismatch DecodeError naming the failed blocks, or nil.
func (r *Result) Err() error {
	if r.ChecksumValid {
		return nil
	}
	blocks := make([]BlockID, len(r.Mismatches))
	copy(blocks, r.Mismatches)
	return &DecodeError{Kind: ChecksumMismatch, Blocks: blocks}
}

// Barcode returns the 44-digit barcode form of the slip. A barcode input is
// returned as given. A codeline is converted only when every check passed;
// otherwise Barcode returns "".
func (r *Result) Barcode() string {
	if r.Format == Barcode44 {
		return r.Digits
	}
	if !r.ChecksumValid {
		return ""
	}
	return BarcodeFromFields(r.Fields)
}

// Codeline returns the 47-digit codeline form, following the same rules as Barcode.
func (r *Result) Codeline() string {
	if r.Format == Codeline47 {
		return r.Digits
	}
	if !r.ChecksumValid {
		return ""
	}
	return CodelineFromFields(r.Fields)
}

// CorrectedBarcode rebuilds the barcode from the extracted fields with a
// recomputed general check digit. For a failed decode the result passes
// verification but need not identify the slip that was printed.
func (r *Result) CorrectedBarcode() string {
	return BarcodeFromFields(r.Fields)
}

// CorrectedCodeline rebuilds the codeline with all four check digits recomputed.
func (r *Result) CorrectedCodeline() string {
	return CodelineFromFields(r.Fields)
}

// Decoder turns raw scanner or typed text into a Result.
type Decoder struct {
	epoch Epoch
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithEpoch sets the epoch used to resolve due-date factors.
func WithEpoch(e Epoch) Option {
	return func(d *Decoder) {
		d.epoch = e
	}
}

// NewDecoder creates a Decoder using DefaultEpoch unless overridden.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{epoch: DefaultEpoch}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Epoch returns the epoch the decoder resolves due dates against.
func (d *Decoder) Epoch() Epoch {
	return d.epoch
}

// Decode normalizes raw, classifies it and extracts its fields.
//
// It fails with EmptyInput when raw has no digits and InvalidLength when the
// digit count is not 44 or 47. Checksum failures are not errors here: they
// are reported through Result.ChecksumValid and Result.Mismatches.
func (d *Decoder) Decode(raw string) (*Result, error) {
	digits := Normalize(raw)
	format, err := Classify(digits)
	if err != nil {
		return nil, err
	}

	fields, failed := Extract(digits, format)
	return &Result{
		Format:        format,
		ChecksumValid: len(failed) == 0,
		Mismatches:    failed,
		DueDate:       d.epoch.Resolve(fields.Factor()),
		Amount:        ResolveAmount(fields.Cents()),
		Fields:        fields,
		Digits:        digits,
	}, nil
}

var defaultDecoder = NewDecoder()

// Decode decodes raw with DefaultEpoch.
func Decode(raw string) (*Result, error) {
	return defaultDecoder.Decode(raw)
}
