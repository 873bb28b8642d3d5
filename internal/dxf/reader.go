// Package dxf reads block insertions and their attribute texts from ASCII
// DXF drawings.
package dxf

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"iolist/internal/domain"
	"iolist/internal/port"
)

var (
	ErrBinaryDXF        = errors.New("binary DXF is not supported")
	ErrTruncated        = errors.New("group code without value")
	ErrInvalidGroupCode = errors.New("invalid group code")
	ErrNoEntities       = errors.New("drawing has no ENTITIES section")
	ErrUnclosedSection  = errors.New("section not terminated by ENDSEC")
)

const binarySentinel = "AutoCAD Binary DXF"

// Group codes used by the reader.
const (
	codeEntityType = 0
	codeText       = 1
	codeName       = 2
	codeTextExtra  = 3
	codeLayer      = 8
	codeVariable   = 9
	codePaperSpace = 67
)

// maxLine bounds a single DXF line; long MTEXT chunks stay well below it.
const maxLine = 1 << 20

type reader struct{}

// NewReader returns a DrawingReader for ASCII DXF files.
func NewReader() port.DrawingReader {
	return &reader{}
}

// pair is one group code/value couple.
type pair struct {
	code  int
	value string
	line  int
}

type scanner struct {
	s    *bufio.Scanner
	line int
}

func newScanner(r io.Reader) *scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLine)
	return &scanner{s: s}
}

// next returns the next pair, io.EOF at a clean end of input. Blank lines
// where a group code is expected are skipped.
func (sc *scanner) next() (pair, error) {
	var codeLine string
	for {
		if !sc.s.Scan() {
			if err := sc.s.Err(); err != nil {
				return pair{}, err
			}
			return pair{}, io.EOF
		}
		sc.line++
		codeLine = strings.TrimSpace(sc.s.Text())
		if codeLine != "" {
			break
		}
	}
	code, err := strconv.Atoi(codeLine)
	if err != nil {
		return pair{}, &lineError{line: sc.line, err: fmt.Errorf("%w: %q", ErrInvalidGroupCode, codeLine)}
	}
	p := pair{code: code, line: sc.line}
	if !sc.s.Scan() {
		if err := sc.s.Err(); err != nil {
			return pair{}, err
		}
		return pair{}, &lineError{line: sc.line, err: ErrTruncated}
	}
	sc.line++
	p.value = strings.TrimRight(sc.s.Text(), "\r")
	return p, nil
}

type lineError struct {
	line int
	err  error
}

func (e *lineError) Error() string { return fmt.Sprintf("line %d: %v", e.line, e.err) }
func (e *lineError) Unwrap() error { return e.err }

// LineNumber is the 1-based line of the offending group code.
func (e *lineError) LineNumber() int { return e.line }

// Read parses the whole drawing before returning, so a corrupt file never
// yields a partial entity list.
func (r *reader) Read(ctx context.Context, src io.Reader) ([]domain.Entity, error) {
	br := bufio.NewReader(src)
	head, _ := br.Peek(len(binarySentinel))
	if bytes.Equal(head, []byte(binarySentinel)) {
		return nil, ErrBinaryDXF
	}

	p := newParser()
	sc := newScanner(br)
	for n := 0; ; n++ {
		if n%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		pr, err := sc.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if done := p.feed(pr); done {
			break
		}
	}
	return p.finish()
}
