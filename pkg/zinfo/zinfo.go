// Package zinfo implements the .zinfo directive stream format.
//
// A .zinfo file is an ordered sequence of fixed-size records produced by a
// separate analysis stage. Each record tells the image assembler to copy a
// byte range from the source binary, compress a byte range into the output,
// or patch an integer already present in the output. Record order is
// significant and must be preserved.
package zinfo

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// RecordSize is the fixed on-disk size of every zinfo record.
// A .zinfo file's length must be an exact multiple of it.
const RecordSize = 16

// Record tags. Comparison is exact over the 4 raw bytes: no trimming,
// no case folding. The set is closed; new directives extend it here.
var (
	TagCopy    = Tag{'C', 'O', 'P', 'Y'}
	TagPack    = Tag{'P', 'A', 'C', 'K'}
	TagSubByte = Tag{'S', 'U', 'B', 'B'}
	TagSubWord = Tag{'S', 'U', 'B', 'W'}
	TagSubLong = Tag{'S', 'U', 'B', 'L'}
)

var ErrFormat = errors.New("zinfo: file length is not a multiple of the record size")

// Tag is the 4-byte ASCII type tag at the start of every record.
type Tag [4]byte

func (t Tag) String() string { return string(t[:]) }

// Record is the polymorphic view of one 16-byte directive.
//
// Every record carries the same field layout: the tag, then three
// little-endian uint32 values. COPY and PACK read them as offset, len and
// align. SUBB/SUBW/SUBL read them as offset, divisor and padding.
type Record struct {
	Tag    Tag
	Offset uint32
	Len    uint32
	Align  uint32
}

// Divisor returns the second field under its SUBx interpretation.
func (r Record) Divisor() uint32 { return r.Len }

func (r Record) String() string {
	switch r.Tag {
	case TagSubByte, TagSubWord, TagSubLong:
		return fmt.Sprintf("%s offset=%#x divisor=%d", r.Tag, r.Offset, r.Divisor())
	default:
		return fmt.Sprintf("%s offset=%#x len=%#x align=%d", r.Tag, r.Offset, r.Len, r.Align)
	}
}

func decodeRecord(b []byte) Record {
	var r Record
	copy(r.Tag[:], b[0:4])
	r.Offset = binary.LittleEndian.Uint32(b[4:8])
	r.Len = binary.LittleEndian.Uint32(b[8:12])
	r.Align = binary.LittleEndian.Uint32(b[12:16])
	return r
}

// Parse decodes a raw directive stream into records, preserving order.
// Tags are not validated here: the assembler rejects unknown tags at the
// position where they would execute.
func Parse(data []byte) ([]Record, error) {
	if len(data)%RecordSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrFormat, len(data))
	}
	records := make([]Record, 0, len(data)/RecordSize)
	for off := 0; off < len(data); off += RecordSize {
		records = append(records, decodeRecord(data[off:off+RecordSize]))
	}
	return records, nil
}

// Load reads and parses a .zinfo file.
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	records, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}
