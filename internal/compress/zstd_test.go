package compress

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func TestCompressRoundTrip(t *testing.T) {
	t.Parallel()

	z, err := NewZstd()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer func() { _ = z.Close() }()

	src := bytes.Repeat([]byte("boot sector boot sector "), 64)
	packed, err := z.Compress(src)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	if len(packed) >= len(src) {
		t.Fatalf("repetitive payload did not shrink: %d -> %d", len(src), len(packed))
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}
	defer dec.Close()

	plain, err := dec.DecodeAll(packed, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(plain, src) {
		t.Fatalf("round trip mismatch: %d bytes in, %d bytes out", len(src), len(plain))
	}
}

func TestCompressDeterministic(t *testing.T) {
	t.Parallel()

	z, err := NewZstd()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer func() { _ = z.Close() }()

	src := bytes.Repeat([]byte{0x7F, 0x45, 0x4C, 0x46, 0x00}, 200)
	first, err := z.Compress(src)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	second, err := z.Compress(src)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("same input compressed differently")
	}
}

func TestCompressEmptyInput(t *testing.T) {
	t.Parallel()

	z, err := NewZstd()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer func() { _ = z.Close() }()

	packed, err := z.Compress(nil)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}
	defer dec.Close()

	plain, err := dec.DecodeAll(packed, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(plain) != 0 {
		t.Fatalf("empty input round-tripped to %d bytes", len(plain))
	}
}

func TestCompressAfterClose(t *testing.T) {
	t.Parallel()

	z, err := NewZstd()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := z.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := z.Compress([]byte{1}); err == nil {
		t.Fatalf("compress succeeded after close")
	}
}
