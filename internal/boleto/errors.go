package boleto

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyInput       = errors.New("input contains no digits")
	ErrInvalidLength    = errors.New("input must have 44 or 47 digits")
	ErrChecksumMismatch = errors.New("check digit mismatch")
)

// ErrorKind tags the ways a decode can fail.
type ErrorKind int

const (
	EmptyInput ErrorKind = iota + 1
	InvalidLength
	ChecksumMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case EmptyInput:
		return "empty_input"
	case InvalidLength:
		return "invalid_length"
	case ChecksumMismatch:
		return "checksum_mismatch"
	default:
		return "unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case EmptyInput:
		return ErrEmptyInput
	case InvalidLength:
		return ErrInvalidLength
	case ChecksumMismatch:
		return ErrChecksumMismatch
	default:
		return nil
	}
}

// BlockID names a region protected by its own check digit.
type BlockID int

const (
	Block1 BlockID = iota + 1
	Block2
	Block3
	General
)

func (b BlockID) String() string {
	switch b {
	case Block1:
		return "block1"
	case Block2:
		return "block2"
	case Block3:
		return "block3"
	case General:
		return "general"
	default:
		return "unknown"
	}
}

// DecodeError reports why an input could not be decoded, or which check
// digits failed. It matches ErrEmptyInput, ErrInvalidLength and
// ErrChecksumMismatch with errors.Is.
type DecodeError struct {
	Kind ErrorKind

	// Length is the digit count of the rejected input (InvalidLength only).
	Length int

	// Blocks lists every failed check (ChecksumMismatch only).
	Blocks []BlockID
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case InvalidLength:
		return fmt.Sprintf("%v: got %d", ErrInvalidLength, e.Length)
	case ChecksumMismatch:
		names := make([]string, len(e.Blocks))
		for i, b := range e.Blocks {
			names[i] = b.String()
		}
		return fmt.Sprintf("%v: %s", ErrChecksumMismatch, strings.Join(names, ","))
	default:
		if s := e.Kind.sentinel(); s != nil {
			return s.Error()
		}
		return "boleto: decode failed"
	}
}

func (e *DecodeError) Unwrap() error {
	return e.Kind.sentinel()
}

// KindOf returns the ErrorKind carried by err, or 0 if err is not a DecodeError.
func KindOf(err error) ErrorKind {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}
