package zimage

// Compressor is the external compression capability used by PACK directives.
// Compress must be deterministic and return the complete compressed form of
// src; the assembler decides whether the result fits the output buffer
// before committing any bytes.
type Compressor interface {
	Compress(src []byte) ([]byte, error)
}
