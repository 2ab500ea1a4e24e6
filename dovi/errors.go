package dovi

import "errors"

var (
	// ErrEmpty is returned for a zero-length RPU payload.
	ErrEmpty = errors.New("dovi: empty RPU")

	// ErrMalformed is returned when the payload violates the RPU syntax.
	ErrMalformed = errors.New("dovi: malformed RPU")

	// ErrTruncated is returned when the payload ends inside a syntax element.
	ErrTruncated = errors.New("dovi: truncated RPU")

	// ErrChecksum is returned when the trailing CRC32 does not match.
	ErrChecksum = errors.New("dovi: RPU checksum mismatch")

	// ErrUnsupported is returned for valid but unsupported RPU variants.
	ErrUnsupported = errors.New("dovi: unsupported RPU")
)
