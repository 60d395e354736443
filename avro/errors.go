package avro

import "errors"

// Sentinel errors for the decoder and the schema compiler. Callers match them
// with errors.Is; messages wrapped around them carry the specifics.
var (
	// ErrUnexpectedEOF is returned when the input ends in the middle of a value.
	ErrUnexpectedEOF = errors.New("unexpected end of input")
	// ErrInvalidVarint is returned when a varint runs past 64 bits.
	ErrInvalidVarint = errors.New("invalid varint")
	// ErrInvalidBool is returned when a bool byte is neither 0 nor 1.
	ErrInvalidBool = errors.New("invalid value for bool")
	// ErrIntOutOfRange is returned when a decoded long does not fit an int32.
	ErrIntOutOfRange = errors.New("value out of range for int")
	// ErrNegativeLength is returned when a length prefix is negative.
	ErrNegativeLength = errors.New("negative length")

	// ErrMissingField is returned when a required schema attribute is absent.
	ErrMissingField = errors.New("missing field")
	// ErrTypeMismatch is returned when a JSON entity has the wrong tag for its slot.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrUnknownType is returned when a type name or definition cannot be resolved.
	ErrUnknownType = errors.New("unknown type")
	// ErrInvalidFixedSize is returned when a fixed declares a non-positive size.
	ErrInvalidFixedSize = errors.New("fixed size is not positive")
	// ErrInvalidEnumSymbol is returned for non-string or unknown enum symbols.
	ErrInvalidEnumSymbol = errors.New("invalid enum symbol")
	// ErrInvalidSchema is returned when a compiled tree fails structural validation.
	ErrInvalidSchema = errors.New("invalid schema")
)
