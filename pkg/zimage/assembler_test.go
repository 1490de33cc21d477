package zimage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bsau3130/ipxe/pkg/zinfo"
)

func TestAssembleCopyOfZeros(t *testing.T) {
	t.Parallel()

	in := NewInput(make([]byte, 8))
	img, err := Assemble(in, 32, nil, nil, []zinfo.Record{copyRec(0, 8, 1)})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if !bytes.Equal(img, make([]byte, 8)) {
		t.Fatalf("image mismatch: %x", img)
	}
}

func TestAssembleCopyThenZeroDeltaPatch(t *testing.T) {
	t.Parallel()

	// Input and output are both 4 bytes when the patch runs, so the delta
	// is zero and the copied field stays 0x10.
	in := NewInput([]byte{0x10, 0x00, 0x00, 0x00})
	img, err := Assemble(in, 16, nil, nil, []zinfo.Record{
		copyRec(0, 4, 1),
		subRec(zinfo.TagSubLong, 0, 4),
	})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if !bytes.Equal(img, []byte{0x10, 0x00, 0x00, 0x00}) {
		t.Fatalf("image mismatch: %x", img)
	}
}

func TestAssembleEmptyStream(t *testing.T) {
	t.Parallel()

	in := NewInput(make([]byte, 4))
	img, err := Assemble(in, 16, nil, nil, nil)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if len(img) != 0 {
		t.Fatalf("empty stream produced %d bytes", len(img))
	}
}

func TestUnknownDirectiveAbortsRun(t *testing.T) {
	t.Parallel()

	in := NewInput(make([]byte, 8))
	a := NewAssembler(in, 64, nil, nil)

	err := a.Run([]zinfo.Record{
		copyRec(0, 4, 1),
		{Tag: zinfo.Tag{'N', 'O', 'P', 'E'}},
		copyRec(4, 4, 1), // must never run
	})
	if !errors.Is(err, ErrUnknownDirective) {
		t.Fatalf("got %v, want ErrUnknownDirective", err)
	}
	if a.out.Len() != 4 {
		t.Fatalf("directives after the failure were applied: len = %d", a.out.Len())
	}
	if _, err := a.Bytes(); !errors.Is(err, ErrNotFinalized) {
		t.Fatalf("aborted run handed out an image")
	}
}

func TestRunIsSingleUse(t *testing.T) {
	t.Parallel()

	in := NewInput(make([]byte, 4))
	a := NewAssembler(in, 16, nil, nil)
	if err := a.Run(nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := a.Run(nil); err == nil {
		t.Fatalf("second run succeeded")
	}
}

func TestAlignedLayoutMatchesDirectComputation(t *testing.T) {
	t.Parallel()

	src := make([]byte, 32)
	for i := range src {
		src[i] = byte(i)
	}
	in := NewInput(src)
	img, err := Assemble(in, 128, nil, nil, []zinfo.Record{
		copyRec(0, 3, 1),
		copyRec(16, 4, 8),  // lands at 8
		copyRec(24, 2, 16), // lands at 16
	})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	want := make([]byte, 18)
	for i := range want {
		want[i] = outputSentinel
	}
	copy(want[0:3], src[0:3])
	copy(want[8:12], src[16:20])
	copy(want[16:18], src[24:26])
	if !bytes.Equal(img, want) {
		t.Fatalf("image mismatch:\n got %x\nwant %x", img, want)
	}
}

func TestOpenInput(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "payload.bin")
	payload := []byte{0xCA, 0xFE, 0xBA, 0xBE}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	in, err := OpenInput(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() {
		if cerr := in.Close(); cerr != nil {
			t.Fatalf("close: %v", cerr)
		}
	}()

	if in.Len() != 4 {
		t.Fatalf("len = %d, want 4", in.Len())
	}
	got, err := in.Bytes(0, 4)
	if err != nil {
		t.Fatalf("bytes: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch: %x", got)
	}
}

func TestOpenInputEmptyFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.bin")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	in, err := OpenInput(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = in.Close() }()

	if in.Len() != 0 {
		t.Fatalf("len = %d, want 0", in.Len())
	}
}

func TestOpenInputMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := OpenInput(filepath.Join(t.TempDir(), "nope.bin")); err == nil {
		t.Fatalf("open succeeded for missing file")
	}
}
