// 20 Feb 2024

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path"

	. "github.com/andrew-torda/spring/pkg/common"
	"github.com/andrew-torda/spring/pkg/dbkit"
)

func usage() int {
	fmt.Fprintln(os.Stderr, "usage:", path.Base(os.Args[0]), "build [-a] index database files...")
	fmt.Fprintln(os.Stderr, "      ", path.Base(os.Args[0]), "fetch [-a] index database 1abc 2xyz ...")
	fmt.Fprintln(os.Stderr, "      ", path.Base(os.Args[0]), "get index database id outfile")
	return ExitUsageError
}

// build writes a new database, or adds to one if appnd is set. add
// does the work of putting entries in.
func build(indexFile, dbFile string, appnd bool, add func(*dbkit.Builder) error) error {
	mode := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if appnd {
		mode = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	fdb, err := os.OpenFile(dbFile, mode, 0644)
	if err != nil {
		return err
	}
	defer fdb.Close()
	fidx, err := os.OpenFile(indexFile, mode, 0644)
	if err != nil {
		return err
	}
	defer fidx.Close()
	var offset int64
	if appnd {
		info, err := fdb.Stat()
		if err != nil {
			return err
		}
		offset = info.Size()
	}
	dbw := bufio.NewWriter(fdb)
	idxw := bufio.NewWriter(fidx)
	if err := add(dbkit.NewBuilder(dbw, idxw, offset)); err != nil {
		return err
	}
	if err := dbw.Flush(); err != nil {
		return err
	}
	if err := idxw.Flush(); err != nil {
		return err
	}
	if err := fdb.Close(); err != nil {
		return err
	}
	return fidx.Close()
}

var errMissing = errors.New("not in database")

func get(indexFile, dbFile, id, outfile string) error {
	db, err := dbkit.Open(indexFile, dbFile)
	if err != nil {
		return err
	}
	defer db.Close()
	found, err := db.CreateFile(id, outfile)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%s: %w", id, errMissing)
	}
	return nil
}

// run picks the subcommand and gives the exit status.
func run() int {
	if len(os.Args) < 2 {
		return usage()
	}
	var err error
	switch os.Args[1] {
	case "build", "fetch":
		fs := flag.NewFlagSet(os.Args[1], flag.ExitOnError)
		appnd := fs.Bool("a", false, "append to an existing database")
		fs.Parse(os.Args[2:])
		if fs.NArg() < 3 {
			return usage()
		}
		args := fs.Args()[2:]
		add := func(b *dbkit.Builder) error { return b.AddFiles(args) }
		if os.Args[1] == "fetch" {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			add = func(b *dbkit.Builder) error { return b.Fetch(ctx, nil, dbkit.Sites, args) }
		}
		err = build(fs.Arg(0), fs.Arg(1), *appnd, add)
	case "get":
		if len(os.Args) != 6 {
			return usage()
		}
		err = get(os.Args[2], os.Args[3], os.Args[4], os.Args[5])
	default:
		return usage()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitFailure
	}
	return ExitSuccess
}

func main() { os.Exit(run()) }
