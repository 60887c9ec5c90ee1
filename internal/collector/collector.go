package collector

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/PolarWolf314/envsync/internal/catalog"
	kerrors "github.com/PolarWolf314/envsync/internal/errors"
	logger "github.com/PolarWolf314/envsync/internal/logging"
)

// maxAttempts bounds re-prompting on invalid input.
const maxAttempts = 5

// Prompter renders questions and reads replies.
type Prompter interface {
	// Ask reads a value for an Input, Password, File or Select question.
	// An empty reply returns initial.
	Ask(q catalog.Question, initial string) (string, error)

	// Confirm asks a yes/no question.
	Confirm(message string, defaultYes bool) (bool, error)

	// Section announces the start of a section.
	Section(name string)

	// Invalid reports why the last reply was rejected.
	Invalid(q catalog.Question, reason error)
}

// Collector runs sections against a session.
type Collector struct {
	Prompter Prompter
	Logger   logger.Logger

	// Getenv seeds initial values. Defaults to os.Getenv.
	Getenv func(string) string

	// ReadFile loads File answers. Defaults to os.ReadFile.
	ReadFile func(string) ([]byte, error)
}

// Run executes sections in order. It stops at the first error; sections
// completed before it have already been flushed.
func (c *Collector) Run(ctx context.Context, session *Session, sections []catalog.Section) error {
	for _, section := range sections {
		if err := c.RunSection(ctx, session, section); err != nil {
			return err
		}
	}
	return nil
}

// RunSection executes the plan of one section and commits its answers.
func (c *Collector) RunSection(ctx context.Context, session *Session, section catalog.Section) error {
	steps := Plan(section, session.Index)
	if len(steps) == 0 {
		return nil
	}

	c.Prompter.Section(section.Name)

	var recorded []string
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %v", kerrors.ErrCancelled, err)
		}

		answer, ok, err := c.runStep(session, step)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		session.Record(answer)
		recorded = append(recorded, answer.Name)
	}

	updates := session.SnapshotUpdates(recorded)
	c.Logger.Debugf("section %q recorded %d answers, %d snapshot updates", section.Name, len(recorded), len(updates))
	if err := session.Commit(updates); err != nil {
		return fmt.Errorf("failed to save snapshot after section %q: %w", section.Name, err)
	}
	return nil
}

func (c *Collector) runStep(session *Session, step Step) (catalog.Answer, bool, error) {
	switch s := step.(type) {
	case Ask:
		return c.ask(session, s.Question, s.Synthetic)
	case ConditionalAsk:
		if s.When == nil || s.When(session.Answers) {
			return c.ask(session, s.Question, s.Synthetic)
		}
		if s.Fallback == nil {
			return catalog.Answer{}, false, nil
		}
		c.Logger.Infof("keeping existing %s %s", s.Fallback.Kind, s.Fallback.Name)
		answer := answerFor(s.Question, "")
		answer.DidExist = s.Fallback
		answer.Reused = true
		if s.Fallback.Kind == catalog.Variable {
			answer.Value = s.Fallback.Value
		}
		return answer, true, nil
	default:
		return catalog.Answer{}, false, fmt.Errorf("unknown step type %T", step)
	}
}

func (c *Collector) ask(session *Session, q catalog.Question, synthetic bool) (catalog.Answer, bool, error) {
	session.Asked = append(session.Asked, q)

	var existing *catalog.RemoteItem
	if q.Remote() {
		existing, _ = session.Index.Lookup(q.Key())
	}

	if q.Prompt == catalog.Confirm {
		yes, err := c.Prompter.Confirm(q.Message, q.Default == "true")
		if err != nil {
			return catalog.Answer{}, false, err
		}
		answer := answerFor(q, fmt.Sprint(yes))
		answer.Synthetic = synthetic
		answer.DidExist = existing
		return answer, true, nil
	}

	initial := c.initialValue(session, q, existing)
	for attempt := 1; ; attempt++ {
		value, err := c.read(q, initial)
		if err == nil {
			err = check(q, value)
		}
		if err == nil {
			answer := answerFor(q, value)
			answer.DidExist = existing
			return answer, true, nil
		}
		if errors.Is(err, kerrors.ErrCancelled) {
			return catalog.Answer{}, false, err
		}
		if attempt >= maxAttempts {
			return catalog.Answer{}, false, fmt.Errorf("%w: no valid value for %s after %d attempts: %w", kerrors.ErrInvalidInput, q.Name, attempt, err)
		}
		c.Prompter.Invalid(q, err)
	}
}

func (c *Collector) read(q catalog.Question, initial string) (string, error) {
	value, err := c.Prompter.Ask(q, initial)
	if err != nil {
		return "", err
	}
	if q.Prompt != catalog.File || value == "" || value == initial {
		return value, nil
	}

	return c.readContents(value)
}

// readContents returns the file at path with exactly one trailing newline.
func (c *Collector) readContents(path string) (string, error) {
	readFile := c.ReadFile
	if readFile == nil {
		readFile = os.ReadFile
	}
	contents, err := readFile(expandHome(path))
	if err != nil {
		return "", fmt.Errorf("cannot read %s: %w", path, err)
	}
	return strings.TrimRight(string(contents), "\r\n") + "\n", nil
}

// initialValue resolves the pre-filled value: process environment,
// then local snapshot, then the remote variable, then the static default.
// For File questions an environment value naming a readable file is
// replaced by the file contents; any other value is taken as the contents.
func (c *Collector) initialValue(session *Session, q catalog.Question, existing *catalog.RemoteItem) string {
	getenv := c.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	key := q.SnapshotKey()
	if v := getenv(key); v != "" {
		if q.Prompt == catalog.File && !strings.Contains(v, "\n") {
			if contents, err := c.readContents(v); err == nil {
				return contents
			}
		}
		return v
	}
	if v := session.Snapshot[key]; v != "" {
		return v
	}
	if existing != nil && existing.Kind == catalog.Variable && existing.Value != "" {
		return existing.Value
	}
	return q.Default
}

func check(q catalog.Question, value string) error {
	if value == "" {
		if q.Optional {
			return nil
		}
		return errors.New("a value is required")
	}
	if q.Prompt == catalog.Select && !slices.Contains(q.Choices, value) {
		return fmt.Errorf("choose one of %s", strings.Join(q.Choices, ", "))
	}
	if q.Validate != nil {
		return q.Validate(value)
	}
	return nil
}

func answerFor(q catalog.Question, value string) catalog.Answer {
	return catalog.Answer{
		Name:  q.Name,
		Label: q.Label,
		Kind:  q.Kind,
		Scope: q.Scope,
		Value: value,
	}
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return home + path[1:]
		}
	}
	return path
}
