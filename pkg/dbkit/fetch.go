package dbkit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andrew-torda/spring/pkg/zwrap"
)

// Site is somewhere we can download PDB format entries from. The URL
// for an entry is Base + Prefix + code + Suffix.
type Site struct {
	Base    string
	Prefix  string
	Suffix  string
	Gzipped bool
}

// Sites are the three wwPDB partners. Some give compressed files, some
// do not.
var Sites = []Site{
	{Base: "https://files.rcsb.org/download/", Suffix: ".pdb.gz", Gzipped: true},
	{Base: "https://www.ebi.ac.uk/pdbe/entry-files/download/", Prefix: "pdb", Suffix: ".ent"},
	{Base: "https://files.pdbj.org/pub/pdb/data/structures/all/pdb/", Prefix: "pdb", Suffix: ".ent.gz", Gzipped: true},
}

// ErrAcqCode is returned for things that do not look like PDB codes.
var ErrAcqCode = errors.New("acq code should be four characters")

// URL is where the site keeps the entry.
func (s Site) URL(acqCode string) string {
	return s.Base + s.Prefix + strings.ToLower(acqCode) + s.Suffix
}

// Get goes to the site and returns a reader for the uncompressed entry.
// If client is nil, http.DefaultClient is used.
func (s Site) Get(ctx context.Context, client *http.Client, acqCode string) (io.ReadCloser, error) {
	if len(acqCode) != 4 {
		return nil, fmt.Errorf("%w, not %q", ErrAcqCode, acqCode)
	}
	if client == nil {
		client = http.DefaultClient
	}
	url := s.URL(acqCode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("wanted %s using %s, got %s", acqCode, url, resp.Status)
	}
	if !s.Gzipped {
		return resp.Body, nil
	}
	r, err := zwrap.Wrap(resp.Body)
	if err != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	return r, nil
}

// Fetch downloads each entry and adds it as code.pdb, the name hhsearch
// template identifiers are turned into. If a site fails, the next one
// in the list is tried.
func (b *Builder) Fetch(ctx context.Context, client *http.Client, sites []Site, codes []string) error {
	if len(sites) == 0 {
		return errors.New("no sites to fetch from")
	}
	for _, code := range codes {
		id := strings.ToLower(code) + ".pdb"
		var errs []error
		for _, s := range sites {
			r, err := s.Get(ctx, client, code)
			if err != nil {
				if errors.Is(err, ErrAcqCode) {
					return err
				}
				errs = append(errs, err)
				continue
			}
			err = b.Add(id, r)
			r.Close()
			if err != nil {
				return err
			}
			errs = nil
			break
		}
		if errs != nil {
			return fmt.Errorf("fetching %s: %w", code, errors.Join(errs...))
		}
	}
	return nil
}
