package serialization

import "errors"

// Errors returned when a checkpoint cannot be decoded.
var (
	// ErrBadMagic means the input is not a fern checkpoint.
	ErrBadMagic = errors.New("serialization: bad magic, not a fern checkpoint")
	// ErrUnsupportedVersion means the file was written by a newer format.
	ErrUnsupportedVersion = errors.New("serialization: unsupported format version")
	// ErrChecksumMismatch means the file is corrupt or was modified.
	ErrChecksumMismatch = errors.New("serialization: checksum mismatch")
	// ErrTruncated means the file ends before the declared lengths.
	ErrTruncated = errors.New("serialization: truncated checkpoint")
)
