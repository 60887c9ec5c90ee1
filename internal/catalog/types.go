package catalog

import "fmt"

// ValueKind distinguishes write-only secrets from readable variables.
type ValueKind int

const (
	Secret ValueKind = iota
	Variable
)

func (k ValueKind) String() string {
	switch k {
	case Secret:
		return "secret"
	case Variable:
		return "variable"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// Scope says whether an item belongs to the repository or to one environment.
type Scope int

const (
	Environment Scope = iota
	Repository
)

func (s Scope) String() string {
	switch s {
	case Environment:
		return "environment"
	case Repository:
		return "repository"
	default:
		return fmt.Sprintf("Scope(%d)", int(s))
	}
}

// Key is the (name, kind, scope) triple that identifies one remote item.
type Key struct {
	Name  string
	Kind  ValueKind
	Scope Scope
}

func (k Key) String() string {
	return fmt.Sprintf("%s %s %s", k.Scope, k.Kind, k.Name)
}

// KeySet is a set of keys.
type KeySet map[Key]struct{}

// Has reports whether k is in the set.
func (s KeySet) Has(k Key) bool {
	_, ok := s[k]
	return ok
}

// Add inserts k into the set.
func (s KeySet) Add(k Key) {
	s[k] = struct{}{}
}

// PromptType selects how a question is asked.
type PromptType int

const (
	Input PromptType = iota
	Password
	Confirm
	Select

	// File asks for a path and uses the file contents as the value.
	File
)

// Question is one value the operator must supply.
type Question struct {
	// Name is the local answer key.
	Name string

	// Label is the remote item name. Empty for local-only questions.
	Label string

	Kind  ValueKind
	Scope Scope

	Prompt  PromptType
	Message string
	Choices []string
	Default string

	// Optional questions accept an empty answer.
	Optional bool

	// Validate returns an error describing why a value is rejected.
	Validate func(string) error

	// When gates the question on earlier answers. Nil means always ask.
	When func(Answers) bool
}

// Key returns the remote key of the question.
func (q Question) Key() Key {
	return Key{Name: q.Label, Kind: q.Kind, Scope: q.Scope}
}

// Remote reports whether the question participates in remote diffing.
func (q Question) Remote() bool {
	return q.Label != ""
}

// SnapshotKey is the key the answer is stored under in the local snapshot.
func (q Question) SnapshotKey() string {
	if q.Label != "" {
		return q.Label
	}
	return q.Name
}

// Section is a named group of related questions.
type Section struct {
	Name      string
	Questions []Question
}

// RemoteItem is a secret or variable as currently known to the registry.
type RemoteItem struct {
	Name  string
	Kind  ValueKind
	Scope Scope

	// Value is only set for variables.
	Value string
}

// Key returns the remote key of the item.
func (r RemoteItem) Key() Key {
	return Key{Name: r.Name, Kind: r.Kind, Scope: r.Scope}
}

// Answer is one collected or derived value.
type Answer struct {
	Name  string
	Label string
	Kind  ValueKind
	Scope Scope
	Value string

	// DidExist points at the matching remote item, if any.
	DidExist *RemoteItem

	// Reused is set when the operator declined to overwrite DidExist.
	Reused bool

	// Derived is set for values computed rather than asked.
	Derived bool

	// Synthetic marks overwrite confirmations spliced in by the collector.
	Synthetic bool
}

// Key returns the remote key of the answer.
func (a Answer) Key() Key {
	return Key{Name: a.Label, Kind: a.Kind, Scope: a.Scope}
}

// SnapshotKey is the key the answer is stored under in the local snapshot.
func (a Answer) SnapshotKey() string {
	if a.Label != "" {
		return a.Label
	}
	return a.Name
}

// Answers looks up collected answers by question name.
type Answers map[string]Answer

// Value returns the answer for name, or "" if it was not collected.
func (a Answers) Value(name string) string {
	return a[name].Value
}

// Has reports whether name was answered.
func (a Answers) Has(name string) bool {
	_, ok := a[name]
	return ok
}
