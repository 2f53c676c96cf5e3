package dbkit

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/andrew-torda/spring/pkg/zwrap"
)

// Builder writes a database and its index at the same time. Records
// are appended to the data writer and one index line per record goes
// to the index writer.
type Builder struct {
	data   io.Writer
	index  io.Writer
	offset int64
	seen   map[string]bool
}

// NewBuilder starts a database. If the data writer already holds
// something, offset says how many bytes.
func NewBuilder(data, index io.Writer, offset int64) *Builder {
	return &Builder{data: data, index: index, offset: offset, seen: make(map[string]bool)}
}

// Add copies everything from r into the database under the name id.
// Names have to be unique.
func (b *Builder) Add(id string, r io.Reader) error {
	if b.seen[id] {
		return fmt.Errorf("duplicate identifier %s", id)
	}
	n, err := io.Copy(b.data, r)
	if err != nil {
		return fmt.Errorf("adding %s: %w", id, err)
	}
	if _, err := fmt.Fprintf(b.index, "%s %d %d\n", id, b.offset, n); err != nil {
		return err
	}
	b.seen[id] = true
	b.offset += n
	return nil
}

// Offset is the size of the database so far.
func (b *Builder) Offset() int64 { return b.offset }

// EntryName is the identifier a file gets in the database: its base
// name without any .gz suffix.
func EntryName(fname string) string {
	return strings.TrimSuffix(filepath.Base(fname), ".gz")
}

// AddFiles adds each file under its EntryName. Gzipped files are
// stored uncompressed.
func (b *Builder) AddFiles(fnames []string) error {
	for _, fname := range fnames {
		r, err := zwrap.Open(fname)
		if err != nil {
			return err
		}
		err = b.Add(EntryName(fname), r)
		r.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", fname, err)
		}
	}
	return nil
}
