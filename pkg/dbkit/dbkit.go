// 3 Aug 2020 mmap reading
// 14 Feb 2024 keyed extraction from one big concatenated file

// Package dbkit reads structures out of one big file made by
// concatenating PDB entries. An index file says where each entry lives.
// Each line of the index looks like
//
//	identifier start size
//
// with start and size in bytes.
package dbkit

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/edsrzf/mmap-go"
)

var (
	ErrIndexFormat = errors.New("invalid dbkit index file format")
	ErrNotFound    = errors.New("identifier not in dbkit index")
)

// Entry is where one record lives in the database file.
type Entry struct {
	Start int64
	Size  int64
}

// Index maps identifiers to their place in the database. It is loaded
// once and not changed afterwards.
type Index map[string]Entry

// ReadIndex reads index lines from r. Blank lines are ignored. Anything
// else that does not have an identifier and two integers is an error
// and the whole index is rejected.
func ReadIndex(r io.Reader) (Index, error) {
	idx := make(Index)
	scnr := bufio.NewScanner(r)
	for nline := 1; scnr.Scan(); nline++ {
		line := scnr.Text()
		cols := strings.Fields(line)
		if len(cols) == 0 {
			continue
		}
		if len(cols) < 3 {
			return nil, fmt.Errorf("%w: line %d: %s", ErrIndexFormat, nline, line)
		}
		start, err1 := strconv.ParseInt(cols[1], 10, 64)
		size, err2 := strconv.ParseInt(cols[2], 10, 64)
		if err1 != nil || err2 != nil || start < 0 || size < 0 {
			return nil, fmt.Errorf("%w: line %d: %s", ErrIndexFormat, nline, line)
		}
		if start > math.MaxInt64-size {
			return nil, fmt.Errorf("%w: line %d: entry runs past the largest offset: %s",
				ErrIndexFormat, nline, line)
		}
		if _, dup := idx[cols[0]]; dup {
			return nil, fmt.Errorf("%w: line %d: duplicate identifier %s",
				ErrIndexFormat, nline, cols[0])
		}
		idx[cols[0]] = Entry{Start: start, Size: size}
	}
	if err := scnr.Err(); err != nil {
		return nil, err
	}
	return idx, nil
}

// DBKit is an open database. The data file is mapped read-only, so
// pulling out an entry is just slicing.
type DBKit struct {
	index Index
	fp    *os.File
	mm    mmap.MMap
}

// Open reads the index and maps the database file.
func Open(indexFile, databaseFile string) (*DBKit, error) {
	ifp, err := os.Open(indexFile)
	if err != nil {
		return nil, err
	}
	idx, err := ReadIndex(ifp)
	ifp.Close()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", indexFile, err)
	}

	fp, err := os.Open(databaseFile)
	if err != nil {
		return nil, err
	}
	db := &DBKit{index: idx, fp: fp}
	fi, err := fp.Stat()
	if err != nil {
		fp.Close()
		return nil, err
	}
	if fi.Size() > 0 { // cannot map an empty file
		if db.mm, err = mmap.Map(fp, mmap.RDONLY, 0); err != nil {
			fp.Close()
			return nil, fmt.Errorf("mapping %s: %w", databaseFile, err)
		}
	}
	return db, nil
}

// Close unmaps the data and closes the file.
func (db *DBKit) Close() error {
	var err error
	if db.mm != nil {
		err = db.mm.Unmap()
		db.mm = nil
	}
	if e := db.fp.Close(); err == nil {
		err = e
	}
	return err
}

// Has says if an identifier is in the index.
func (db *DBKit) Has(id string) bool {
	_, ok := db.index[id]
	return ok
}

// Len is the number of entries in the index.
func (db *DBKit) Len() int { return len(db.index) }

// Bytes returns the record for id. The slice points into the mapped
// file, so it must not be changed and must not be used after Close.
func (db *DBKit) Bytes(id string) ([]byte, error) {
	e, ok := db.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	n := int64(len(db.mm))
	if e.Start > n || e.Size > n-e.Start {
		return nil, fmt.Errorf("entry %s at byte %d size %d, database only has %d",
			id, e.Start, e.Size, n)
	}
	return db.mm[e.Start : e.Start+e.Size], nil
}

// CreateFile writes the record for id to outputName. It returns false
// if id is not in the index.
func (db *DBKit) CreateFile(id, outputName string) (bool, error) {
	b, err := db.Bytes(id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	if err := os.WriteFile(outputName, b, 0644); err != nil {
		return false, err
	}
	return true, nil
}
