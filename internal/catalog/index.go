package catalog

import (
	"fmt"

	kerrors "github.com/PolarWolf314/envsync/internal/errors"
)

// Index joins remote items by key.
type Index map[Key]RemoteItem

// NewIndex builds an index over items. Later duplicates replace earlier ones.
func NewIndex(items []RemoteItem) Index {
	index := make(Index, len(items))
	for _, item := range items {
		index[item.Key()] = item
	}
	return index
}

// Lookup returns the remote item for k.
func (i Index) Lookup(k Key) (*RemoteItem, bool) {
	item, ok := i[k]
	if !ok {
		return nil, false
	}
	return &item, true
}

// KnownKeys returns the keys of every remote-bound question plus extra.
func KnownKeys(sections []Section, extra ...Key) KeySet {
	known := make(KeySet)
	for _, section := range sections {
		for _, q := range section.Questions {
			if q.Remote() {
				known.Add(q.Key())
			}
		}
	}
	for _, k := range extra {
		known.Add(k)
	}
	return known
}

// Validate checks the catalogue invariants: unique names and keys, and
// variables only at environment scope.
func Validate(sections []Section) error {
	names := make(map[string]bool)
	keys := make(KeySet)
	for _, section := range sections {
		for _, q := range section.Questions {
			if q.Name == "" {
				return fmt.Errorf("%w: question without a name in section %q", kerrors.ErrInvalidCatalog, section.Name)
			}
			if names[q.Name] {
				return fmt.Errorf("%w: duplicate question %q", kerrors.ErrInvalidCatalog, q.Name)
			}
			names[q.Name] = true

			if !q.Remote() {
				continue
			}
			if keys.Has(q.Key()) {
				return fmt.Errorf("%w: duplicate remote item %s", kerrors.ErrInvalidCatalog, q.Key())
			}
			keys.Add(q.Key())

			if q.Kind == Variable && q.Scope != Environment {
				return fmt.Errorf("%w: variable %q must be environment scoped", kerrors.ErrInvalidCatalog, q.Label)
			}
		}
	}
	return nil
}
