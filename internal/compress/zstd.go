// Package compress provides the compression capability used for PACK
// directives. Compression is opaque to the assembler: it only needs a
// deterministic compress(bytes) -> bytes function with a failure status.
package compress

import (
	"errors"

	"github.com/klauspost/compress/zstd"
)

// Zstd compresses directive payloads with zstandard. It satisfies
// zimage.Compressor and is safe for the assembler's strictly sequential
// call pattern.
type Zstd struct {
	enc *zstd.Encoder
}

// NewZstd creates the encoder at the best compression level. Image payloads
// are compressed once at build time and decompressed on every boot, so
// encode speed is irrelevant.
func NewZstd() (*Zstd, error) {
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedBestCompression),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, err
	}
	return &Zstd{enc: enc}, nil
}

// Compress returns the complete compressed form of src.
func (z *Zstd) Compress(src []byte) ([]byte, error) {
	if z == nil || z.enc == nil {
		return nil, errors.New("compress: encoder closed")
	}
	return z.enc.EncodeAll(src, nil), nil
}

// Close releases the encoder.
func (z *Zstd) Close() error {
	if z == nil || z.enc == nil {
		return nil
	}
	err := z.enc.Close()
	z.enc = nil
	return err
}
