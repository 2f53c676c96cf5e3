// Package brokenio wraps a reader so that it breaks. It is for testing
// the error paths of the parsers. A reader can be told to give up
// after some number of bytes, to look like an empty file, or to fail
// at random with a given probability.
//
// Typical use:
//
//	r := brokenio.NewReader(strings.NewReader(s))
//	r.SetFailAfter(100)
//	_, err := hhr.Read(r)
package brokenio

import (
	"errors"
	"io"
	"math/rand"
)

// ErrBroken is what a broken reader returns when it decides to fail.
var ErrBroken = errors.New("brokenio: artificial read failure")

// Reader is modelled on the readers in the standard library, but with
// settings controlling when it goes wrong.
type Reader struct {
	rdr       io.Reader
	failAfter int // fail once this many bytes have been read, < 0 means never
	zeroFile  bool
	probFail  float32
	rnd       *rand.Rand
	nCalled   int
	nByte     int
}

// NewReader wraps rIn. Until a setter is called, it behaves like rIn.
func NewReader(rIn io.Reader) *Reader {
	return &Reader{rdr: rIn, failAfter: -1}
}

// SetFailAfter makes the reader return ErrBroken once n bytes have
// gone through.
func (r *Reader) SetFailAfter(n int) { r.failAfter = n }

// SetZeroFile makes the first read return io.EOF with nothing, as one
// sees with a zero length file.
func (r *Reader) SetZeroFile(z bool) { r.zeroFile = z }

// SetProbFail sets the probability that any read fails. The seed makes
// the failures repeatable.
func (r *Reader) SetProbFail(prob float32, seed int64) {
	r.probFail = prob
	r.rnd = rand.New(rand.NewSource(seed))
}

// NByte is the number of bytes handed out so far.
func (r *Reader) NByte() int { return r.nByte }

// Read passes reads through to the wrapped reader until it is time to
// break.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	r.nCalled++
	if r.nCalled == 1 && r.zeroFile {
		return 0, io.EOF
	}
	if r.rnd != nil && r.rnd.Float32() < r.probFail {
		return 0, ErrBroken
	}
	if r.failAfter >= 0 {
		left := r.failAfter - r.nByte
		if left <= 0 {
			return 0, ErrBroken
		}
		if len(p) > left {
			p = p[:left]
		}
	}
	n, err := r.rdr.Read(p)
	r.nByte += n
	return n, err
}

// Close closes the wrapped reader if it can be closed.
func (r *Reader) Close() error {
	if c, ok := r.rdr.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
