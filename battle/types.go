package battle

import (
	"errors"
	"fmt"
)

// Error classes. Every decode failure wraps exactly one of these.
var (
	// ErrOutOfRange means a read would cross the end of the buffer.
	ErrOutOfRange = errors.New("out of range")
	// ErrMalformedScript means a script never reached a terminator within
	// bounds, or an instruction's operand shape is inconsistent.
	ErrMalformedScript = errors.New("malformed script")
	// ErrInvalidHeader means a file's fixed header could not be parsed.
	ErrInvalidHeader = errors.New("invalid header")
)

// DataError reports a failure at a byte offset of a buffer.
type DataError struct {
	Off int
	Err error
	Msg string
}

// DataErrf builds a *DataError wrapping err.
func DataErrf(off int, err error, format string, args ...any) error {
	return &DataError{Off: off, Err: err, Msg: fmt.Sprintf(format, args...)}
}

func (e *DataError) Unwrap() error {
	return e.Err
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s at offset 0x%x: %v", e.Msg, e.Off, e.Err)
	}
	return fmt.Sprintf("%s at offset 0x%x", e.Msg, e.Off)
}

// Options configures script decoding.
type Options struct {
	// MaxSteps caps the number of instructions decoded for one script; 0 uses DefaultMaxSteps.
	MaxSteps int
}

// DefaultOptions returns the default step limit.
func DefaultOptions() Options {
	return Options{}
}

// DefaultMaxSteps is the default safety cap for one script's decode loop.
// Scripts are short; anything past this is runaway decoding of non-script bytes.
const DefaultMaxSteps = 1 << 14

// EffectiveMaxSteps returns the effective step limit.
func (o Options) EffectiveMaxSteps() int {
	if o.MaxSteps <= 0 {
		return DefaultMaxSteps
	}
	return o.MaxSteps
}

// Diagnostic records one anomaly found during extraction. Diagnostics never
// change decoded data.
type Diagnostic struct {
	Offset int    `json:"offset" msgpack:"offset"`
	Kind   string `json:"kind" msgpack:"kind"` // "gap", "overlap", "error"
	Msg    string `json:"msg" msgpack:"msg"`
	File   string `json:"file,omitempty" msgpack:"file,omitempty"` // set when aggregating across files
}

// TagFile sets the File field on diagnostics that don't already have one.
func TagFile(diags []Diagnostic, name string) {
	for i := range diags {
		if diags[i].File == "" {
			diags[i].File = name
		}
	}
}
