// Package zimage builds a composite output image from a source binary and a
// zinfo directive stream.
//
// The assembler owns one immutable input buffer and one output buffer with a
// fixed capacity, and applies directives strictly in stream order: COPY and
// PACK append to the output (aligned, bounds-checked), SUBB/SUBW/SUBL patch
// integers already present in it. Any failure aborts the whole run; no
// partial image is ever produced.
package zimage

import "github.com/bsau3130/ipxe/pkg/zinfo"

// Logger is the subset of logging the assembler uses. It is satisfied by
// internal/logger.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
}

// Assemble is the convenience path: apply records to input with a fresh
// output buffer of the given capacity and return the finished image.
func Assemble(in *Input, maxLen uint64, comp Compressor, log Logger, records []zinfo.Record) ([]byte, error) {
	a := NewAssembler(in, maxLen, comp, log)
	if err := a.Run(records); err != nil {
		return nil, err
	}
	return a.Bytes()
}
