package reconcile

import (
	"fmt"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/PolarWolf314/envsync/internal/catalog"
)

// Outcome is the classification of a single answer.
type Outcome int

const (
	Dropped Outcome = iota
	NewSecret
	UpdatedSecret
	NewVariable
	UpdatedVariable
)

func (o Outcome) String() string {
	switch o {
	case Dropped:
		return "dropped"
	case NewSecret:
		return "new secret"
	case UpdatedSecret:
		return "updated secret"
	case NewVariable:
		return "new variable"
	case UpdatedVariable:
		return "updated variable"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Change is one create or update to send to the registry.
type Change struct {
	Key   catalog.Key
	Value string

	// Remote is the existing item for updates, nil for creations.
	Remote *catalog.RemoteItem

	Derived bool
}

// Buckets holds the classified changes plus drift information.
type Buckets struct {
	NewSecrets       []Change
	UpdatedSecrets   []Change
	NewVariables     []Change
	UpdatedVariables []Change

	// Unknown lists remote items no question or rule accounts for.
	Unknown []catalog.RemoteItem
}

// Empty reports whether there is nothing to apply.
func (b Buckets) Empty() bool {
	return b.Len() == 0
}

// Len returns the number of changes across the four change buckets.
func (b Buckets) Len() int {
	return len(b.NewSecrets) + len(b.UpdatedSecrets) + len(b.NewVariables) + len(b.UpdatedVariables)
}

// Ordered returns all changes in apply order.
func (b Buckets) Ordered() []Change {
	ordered := make([]Change, 0, b.Len())
	ordered = append(ordered, b.NewSecrets...)
	ordered = append(ordered, b.UpdatedSecrets...)
	ordered = append(ordered, b.NewVariables...)
	ordered = append(ordered, b.UpdatedVariables...)
	return ordered
}

// Options tunes classification.
type Options struct {
	// IgnoreRemote holds doublestar patterns matched against remote item
	// names. Matching items are never reported as unknown.
	IgnoreRemote []string
}

// Validate checks the ignore patterns.
func (o Options) Validate() error {
	for _, pattern := range o.IgnoreRemote {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid ignore pattern %q", pattern)
		}
	}
	return nil
}

// Classify sorts answers into change buckets and collects unknown remote items.
func Classify(answers []catalog.Answer, remote []catalog.RemoteItem, known catalog.KeySet, opts Options) (Buckets, error) {
	if err := opts.Validate(); err != nil {
		return Buckets{}, err
	}

	index := catalog.NewIndex(remote)

	// Later answers for the same key replace earlier ones.
	latest := make(map[catalog.Key]int)
	var order []catalog.Key
	for i, answer := range answers {
		if !participates(answer) {
			continue
		}
		key := answer.Key()
		if _, seen := latest[key]; !seen {
			order = append(order, key)
		}
		latest[key] = i
	}

	var buckets Buckets
	for _, key := range order {
		answer := answers[latest[key]]
		existing, _ := index.Lookup(key)

		change := Change{
			Key:     key,
			Value:   answer.Value,
			Remote:  existing,
			Derived: answer.Derived,
		}

		switch Decide(answer, existing) {
		case NewSecret:
			buckets.NewSecrets = append(buckets.NewSecrets, change)
		case UpdatedSecret:
			buckets.UpdatedSecrets = append(buckets.UpdatedSecrets, change)
		case NewVariable:
			buckets.NewVariables = append(buckets.NewVariables, change)
		case UpdatedVariable:
			buckets.UpdatedVariables = append(buckets.UpdatedVariables, change)
		}
	}

	for _, item := range remote {
		if known.Has(item.Key()) || ignored(item.Name, opts.IgnoreRemote) {
			continue
		}
		buckets.Unknown = append(buckets.Unknown, item)
	}
	sort.SliceStable(buckets.Unknown, func(i, j int) bool {
		a, b := buckets.Unknown[i], buckets.Unknown[j]
		if a.Scope != b.Scope {
			return a.Scope > b.Scope
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Name < b.Name
	})

	return buckets, nil
}

// Decide returns the outcome for one answer given its remote match.
func Decide(answer catalog.Answer, remote *catalog.RemoteItem) Outcome {
	if !participates(answer) || answer.Value == "" {
		return Dropped
	}

	switch answer.Kind {
	case catalog.Secret:
		if remote == nil {
			return NewSecret
		}
		return UpdatedSecret
	case catalog.Variable:
		if remote == nil {
			return NewVariable
		}
		if remote.Value != answer.Value {
			return UpdatedVariable
		}
	}
	return Dropped
}

func participates(answer catalog.Answer) bool {
	return answer.Label != "" && !answer.Synthetic && !answer.Reused
}

func ignored(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if doublestar.MatchUnvalidated(pattern, name) {
			return true
		}
	}
	return false
}
