package wire

import "errors"

var (
	// ErrSizeMismatch reports a buffer whose length does not match the
	// fixed encoded size of the packet being decoded.
	ErrSizeMismatch = errors.New("wire: buffer size mismatch")

	// ErrBadChecksum reports a control command whose checksum does not
	// cover its preceding bytes.
	ErrBadChecksum = errors.New("wire: bad command checksum")

	// ErrUnknownCommand reports a command kind outside the defined set.
	ErrUnknownCommand = errors.New("wire: unknown command kind")
)
