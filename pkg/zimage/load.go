package zimage

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

var errInputTooLarge = errors.New("zimage: input does not fit in memory")

// OpenInput maps the source binary read-only. If mmap is unavailable it
// falls back to ReadAt-based loading. The returned input must be closed to
// release any mapping.
func OpenInput(path string) (*Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size64 := stat.Size()
	if size64 < 0 || size64 > int64(int(^uint(0)>>1)) {
		return nil, fmt.Errorf("%w: %s (%d bytes)", errInputTooLarge, path, size64)
	}
	size := int(size64)
	if size == 0 {
		return NewInput(nil), nil
	}

	data, err := unix.Mmap(
		int(f.Fd()),
		0,
		size,
		unix.PROT_READ,
		unix.MAP_SHARED,
	)
	if err == nil {
		return &Input{
			data:  data,
			close: func() error { return unix.Munmap(data) },
		}, nil
	}

	data, err = readAllAt(f, size)
	if err != nil {
		return nil, err
	}
	return NewInput(data), nil
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == int64(size) {
			break
		}
		return nil, err
	}
	return out, nil
}
