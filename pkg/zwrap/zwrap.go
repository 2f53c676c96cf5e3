// Package zwrap takes a file pointer and optionally wraps it so upon
// calling Close, the decompressor will be closed, followed by the
// underlying file.
// Database dumps, hhr results and PDB files all turn up gzipped, so
// every reader in this module opens its input through here.

package zwrap

import (
	"bufio"
	"compress/gzip"
	"errors"
	"io"
	"os"
)

// Reader is what we return. If zrdr is nil, the file was not compressed
// and we read straight from fp.
type Reader struct {
	fp   io.ReadCloser
	zrdr *gzip.Reader
}

// Close closes the decompressor, then the underlying file.
func (r *Reader) Close() error {
	if r.zrdr == nil {
		return r.fp.Close()
	}
	var s string
	if e := r.zrdr.Close(); e != nil {
		s = e.Error()
	}
	if e := r.fp.Close(); e != nil {
		s = s + " " + e.Error()
	}
	if s == "" {
		return nil
	}
	return errors.New(s)
}

// Read makes sure we read from the compressed stream and
// not the underlying file stream.
func (r *Reader) Read(p []byte) (int, error) {
	if r.zrdr != nil {
		return r.zrdr.Read(p)
	}
	return r.fp.Read(p)
}

// Compressed says if we are decompressing on the fly.
func (r *Reader) Compressed() bool { return r.zrdr != nil }

// gzMagic are the first two bytes of anything from gzip.
var gzMagic = []byte{0x1f, 0x8b}

// Wrap takes a source like a file pointer and wraps it in a
// decompressor. It fails if the stream is not gzipped.
func Wrap(fp io.ReadCloser) (*Reader, error) {
	zrdr, err := gzip.NewReader(fp)
	if err != nil {
		return nil, err
	}
	return &Reader{fp: fp, zrdr: zrdr}, nil
}

// ReadSeekCloser is a file or something that behaves like one.
type ReadSeekCloser interface {
	io.Reader
	io.Seeker
	io.Closer
}

// WrapMaybe looks at the first two bytes. If they are the gzip magic
// number, we return a decompressing reader, otherwise we rewind and
// hand back the original stream.
func WrapMaybe(fpIn ReadSeekCloser) (*Reader, error) {
	var magic [2]byte
	n, err := io.ReadFull(fpIn, magic[:])
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	if _, err := fpIn.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	if n == 2 && magic[0] == gzMagic[0] && magic[1] == gzMagic[1] {
		return Wrap(fpIn)
	}
	return &Reader{fp: fpIn}, nil
}

// Open opens a file by name, decompressing if necessary.
func Open(fname string) (*Reader, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	r, err := WrapMaybe(fp)
	if err != nil {
		fp.Close()
		return nil, errors.New("reading " + fname + " " + err.Error())
	}
	return r, nil
}

// Lines opens a file and hands back a scanner over its lines and
// the closer the caller must use when finished.
func Lines(fname string) (*bufio.Scanner, io.Closer, error) {
	r, err := Open(fname)
	if err != nil {
		return nil, nil, err
	}
	scnr := bufio.NewScanner(r)
	scnr.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return scnr, r, nil
}
