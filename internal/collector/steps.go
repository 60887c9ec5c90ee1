package collector

import (
	"github.com/PolarWolf314/envsync/internal/catalog"
)

// overwritePrefix names the synthetic confirmation for an existing item.
const overwritePrefix = "overwrite_"

// Step is one entry of a section plan: Ask or ConditionalAsk.
type Step interface {
	step() catalog.Question
}

// Ask always asks Question.
type Ask struct {
	Question catalog.Question

	// Synthetic marks overwrite confirmations.
	Synthetic bool
}

// ConditionalAsk asks Question only when When holds for the answers so far.
// When it does not and Fallback is set, the remote value is reused.
type ConditionalAsk struct {
	Question  catalog.Question
	When      func(catalog.Answers) bool
	Fallback  *catalog.RemoteItem
	Synthetic bool
}

func (s Ask) step() catalog.Question            { return s.Question }
func (s ConditionalAsk) step() catalog.Question { return s.Question }

// OverwriteName returns the name of the overwrite confirmation for q.
func OverwriteName(q catalog.Question) string {
	return overwritePrefix + q.Name
}

func overwriteQuestion(q catalog.Question) catalog.Question {
	return catalog.Question{
		Name:    OverwriteName(q),
		Prompt:  catalog.Confirm,
		Message: q.Label + " already exists. Overwrite?",
		Default: "false",
	}
}

// confirmed reports whether the named confirmation was answered yes.
func confirmed(name string) func(catalog.Answers) bool {
	return func(a catalog.Answers) bool {
		return a.Value(name) == "true"
	}
}

func both(a, b func(catalog.Answers) bool) func(catalog.Answers) bool {
	if a == nil {
		return b
	}
	return func(answers catalog.Answers) bool {
		return a(answers) && b(answers)
	}
}

// Plan builds the step sequence for section against the remote index.
func Plan(section catalog.Section, remote catalog.Index) []Step {
	var steps []Step
	for _, q := range section.Questions {
		var existing *catalog.RemoteItem
		if q.Remote() {
			existing, _ = remote.Lookup(q.Key())
		}

		if existing == nil {
			if q.When == nil {
				steps = append(steps, Ask{Question: q})
			} else {
				steps = append(steps, ConditionalAsk{Question: q, When: q.When})
			}
			continue
		}

		confirm := overwriteQuestion(q)
		if q.When == nil {
			steps = append(steps, Ask{Question: confirm, Synthetic: true})
		} else {
			steps = append(steps, ConditionalAsk{Question: confirm, When: q.When, Synthetic: true})
		}
		steps = append(steps, ConditionalAsk{
			Question: q,
			When:     both(q.When, confirmed(confirm.Name)),
			Fallback: existing,
		})
	}
	return steps
}
