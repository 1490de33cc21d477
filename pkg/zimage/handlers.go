package zimage

import (
	"encoding/binary"
	"fmt"

	"github.com/bsau3130/ipxe/pkg/zinfo"
)

// copy moves rec.Len input bytes verbatim to the aligned write position.
func (a *Assembler) copy(rec zinfo.Record) error {
	src, err := a.in.Bytes(uint64(rec.Offset), uint64(rec.Len))
	if err != nil {
		return err
	}
	pos := Align(a.out.Len(), uint64(rec.Align))
	if err := a.out.Append(uint64(rec.Align), src); err != nil {
		return err
	}
	a.log.Debug("copy",
		"src_off", rec.Offset, "len", rec.Len, "dst_off", pos)
	return nil
}

// pack compresses rec.Len input bytes and appends the result at the aligned
// write position. The compressed size is unknown until the compressor
// returns, so capacity is checked twice: alignment alone must fit before
// compressing, and the compressed bytes must fit before they are committed.
func (a *Assembler) pack(rec zinfo.Record) error {
	src, err := a.in.Bytes(uint64(rec.Offset), uint64(rec.Len))
	if err != nil {
		return err
	}
	pos := Align(a.out.Len(), uint64(rec.Align))
	if pos > a.out.MaxLen() {
		return fmt.Errorf("%w: aligned position %#x of %#x capacity",
			ErrOutputOverrun, pos, a.out.MaxLen())
	}
	if a.comp == nil {
		return fmt.Errorf("%w: no compressor configured", ErrCompressionFailure)
	}
	packed, err := a.comp.Compress(src)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCompressionFailure, err)
	}
	if err := a.out.Append(uint64(rec.Align), packed); err != nil {
		return err
	}
	a.log.Debug("pack",
		"src_off", rec.Offset, "len", rec.Len, "dst_off", pos, "packed", len(packed))
	return nil
}

// subtract patches a width-byte little-endian integer already present in the
// output. The patch adds the per-divisor size delta between the output
// emitted so far and the input, with native wraparound at the target width.
// The write cursor does not move.
func (a *Assembler) subtract(rec zinfo.Record, width uint64) error {
	target, err := a.out.Written(uint64(rec.Offset), width)
	if err != nil {
		return err
	}
	divisor := uint64(rec.Divisor())
	if divisor == 0 {
		return fmt.Errorf("%w: %s at %#x", ErrBadDivisor, rec.Tag, rec.Offset)
	}
	rawDelta := int64(Align(a.out.Len(), divisor)) - int64(Align(a.in.Len(), divisor))
	delta := rawDelta / int64(divisor)

	var old, patched uint64
	switch width {
	case 1:
		old = uint64(target[0])
		target[0] += byte(delta)
		patched = uint64(target[0])
	case 2:
		old = uint64(binary.LittleEndian.Uint16(target))
		binary.LittleEndian.PutUint16(target, uint16(old)+uint16(delta))
		patched = uint64(binary.LittleEndian.Uint16(target))
	case 4:
		old = uint64(binary.LittleEndian.Uint32(target))
		binary.LittleEndian.PutUint32(target, uint32(old)+uint32(delta))
		patched = uint64(binary.LittleEndian.Uint32(target))
	default:
		return fmt.Errorf("%w: unsupported subtract width %d", ErrUnknownDirective, width)
	}

	a.log.Debug("subtract",
		"tag", rec.Tag.String(), "offset", rec.Offset, "divisor", divisor,
		"delta", delta, "old", old, "new", patched)
	return nil
}
