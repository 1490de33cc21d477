package zimage

import "fmt"

// Input is the immutable source binary. It is read once at startup and never
// mutated; the optional closer releases an mmap backing.
type Input struct {
	data  []byte
	close func() error
}

// NewInput wraps an in-memory source binary.
func NewInput(data []byte) *Input {
	return &Input{data: data}
}

func (in *Input) Len() uint64 { return uint64(len(in.data)) }

// Bytes returns the input range [offset, offset+n). The only failure is
// ErrInputOverrun; callers must not write through the returned slice.
func (in *Input) Bytes(offset, n uint64) ([]byte, error) {
	end := offset + n
	if end < offset || end > in.Len() {
		return nil, fmt.Errorf("%w: [%#x,%#x) of %#x input bytes",
			ErrInputOverrun, offset, end, in.Len())
	}
	return in.data[offset:end], nil
}

// Close releases any mmap backing the input.
func (in *Input) Close() error {
	if in == nil || in.close == nil {
		return nil
	}
	err := in.close()
	in.close = nil
	in.data = nil
	return err
}

// Output is the assembled image under construction: a buffer of fixed
// capacity with a logical length that acts as the write cursor. The length
// never exceeds the capacity; operations that would break that fail before
// mutating anything. The capacity is fixed at allocation time and never
// grown - a directive stream that outgrows it is a fatal build error.
type Output struct {
	buf []byte
	len uint64
}

// outputSentinel fills unwritten capacity so that stale bytes are
// recognisable when a malformed stream is debugged.
const outputSentinel = 0xFF

// NewOutput allocates an output buffer with the given fixed capacity.
func NewOutput(maxLen uint64) *Output {
	buf := make([]byte, maxLen)
	for i := range buf {
		buf[i] = outputSentinel
	}
	return &Output{buf: buf}
}

func (o *Output) Len() uint64    { return o.len }
func (o *Output) MaxLen() uint64 { return uint64(len(o.buf)) }

// Bytes returns the written portion of the image, buf[0:len].
func (o *Output) Bytes() []byte { return o.buf[:o.len] }

// Append places p at Align(len, alignment) and advances the cursor past it.
// The position and bounds check are computed before anything is written, so
// a failed append leaves the buffer and cursor untouched.
func (o *Output) Append(alignment uint64, p []byte) error {
	pos := Align(o.len, alignment)
	end := pos + uint64(len(p))
	if end < pos || end > o.MaxLen() {
		return fmt.Errorf("%w: [%#x,%#x) of %#x capacity",
			ErrOutputOverrun, pos, end, o.MaxLen())
	}
	copy(o.buf[pos:end], p)
	o.len = end
	return nil
}

// Written returns a mutable view of [offset, offset+n) within the bytes
// already emitted. Patching through it does not move the cursor.
func (o *Output) Written(offset, n uint64) ([]byte, error) {
	end := offset + n
	if end < offset || end > o.len {
		return nil, fmt.Errorf("%w: [%#x,%#x) of %#x written bytes",
			ErrPatchOutOfRange, offset, end, o.len)
	}
	return o.buf[offset:end], nil
}
