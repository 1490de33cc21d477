package zimage

import (
	"errors"
	"fmt"

	"github.com/bsau3130/ipxe/pkg/zinfo"
)

type assemblerState int

const (
	stateLoaded assemblerState = iota
	stateProcessing
	stateFinalized
	stateAborted
)

// Assembler applies a directive stream to an input binary, one record at a
// time in stream order. The first failing directive aborts the run; records
// after it are never attempted and no output is handed out.
type Assembler struct {
	in    *Input
	out   *Output
	comp  Compressor
	log   Logger
	state assemblerState
}

// NewAssembler allocates the output buffer at its fixed capacity and readies
// the assembler. comp may be nil when the stream contains no PACK records;
// log may be nil to disable tracing.
func NewAssembler(in *Input, maxLen uint64, comp Compressor, log Logger) *Assembler {
	if log == nil {
		log = nopLogger{}
	}
	return &Assembler{
		in:    in,
		out:   NewOutput(maxLen),
		comp:  comp,
		log:   log,
		state: stateLoaded,
	}
}

// Run applies every record in order. It can be called once; any directive
// failure leaves the assembler aborted for good.
func (a *Assembler) Run(records []zinfo.Record) error {
	if a.state != stateLoaded {
		return errors.New("zimage: assembler already run")
	}
	a.state = stateProcessing
	for i, rec := range records {
		if err := a.apply(rec); err != nil {
			a.state = stateAborted
			return fmt.Errorf("directive %d (%s): %w", i, rec.Tag, err)
		}
	}
	a.state = stateFinalized
	a.log.Info("image assembled",
		"input_len", a.in.Len(), "output_len", a.out.Len(), "directives", len(records))
	return nil
}

// apply dispatches on the record's 4-byte tag. The tag set is closed:
// new directive types are added here, not registered at runtime.
func (a *Assembler) apply(rec zinfo.Record) error {
	switch rec.Tag {
	case zinfo.TagCopy:
		return a.copy(rec)
	case zinfo.TagPack:
		return a.pack(rec)
	case zinfo.TagSubByte:
		return a.subtract(rec, 1)
	case zinfo.TagSubWord:
		return a.subtract(rec, 2)
	case zinfo.TagSubLong:
		return a.subtract(rec, 4)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDirective, rec.Tag.String())
	}
}

// Bytes returns the finished image. It fails unless every directive was
// applied successfully.
func (a *Assembler) Bytes() ([]byte, error) {
	if a.state != stateFinalized {
		return nil, ErrNotFinalized
	}
	return a.out.Bytes(), nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
