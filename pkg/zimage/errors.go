package zimage

import "errors"

var (
	ErrInputOverrun       = errors.New("zimage: directive reads past end of input")
	ErrOutputOverrun      = errors.New("zimage: write exceeds output capacity")
	ErrPatchOutOfRange    = errors.New("zimage: patch targets bytes not yet written")
	ErrUnknownDirective   = errors.New("zimage: unknown directive tag")
	ErrCompressionFailure = errors.New("zimage: compression failed")
	ErrBadDivisor         = errors.New("zimage: subtract directive with zero divisor")
	ErrNotFinalized       = errors.New("zimage: assembly did not finish")
)
