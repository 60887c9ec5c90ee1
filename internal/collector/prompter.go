package collector

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PolarWolf314/envsync/internal/catalog"
	kerrors "github.com/PolarWolf314/envsync/internal/errors"
	"github.com/PolarWolf314/envsync/internal/ui"
	"github.com/PolarWolf314/envsync/internal/utils"
)

// TerminalPrompter asks questions over a line based reader and writer.
// Password prompts hide input when the reader is a terminal.
type TerminalPrompter struct {
	in     io.Reader
	out    io.Writer
	reader *bufio.Reader
}

// NewTerminalPrompter returns a prompter reading from in and writing to out.
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: in, out: out, reader: bufio.NewReader(in)}
}

// Section prints a section heading.
func (p *TerminalPrompter) Section(name string) {
	fmt.Fprintf(p.out, "\n%s\n", ui.Info.Sprint("== "+name+" =="))
}

// Invalid prints a validation message.
func (p *TerminalPrompter) Invalid(q catalog.Question, reason error) {
	fmt.Fprintf(p.out, "%s %s\n", ui.Error.Sprint("✗"), reason)
}

// Ask prompts for q and returns the trimmed reply, or initial when empty.
func (p *TerminalPrompter) Ask(q catalog.Question, initial string) (string, error) {
	if q.Prompt == catalog.Select {
		for i, choice := range q.Choices {
			fmt.Fprintf(p.out, "  %d) %s\n", i+1, choice)
		}
	}

	fmt.Fprintf(p.out, "%s %s%s: ", ui.Info.Sprint("?"), q.Message, p.hint(q, initial))

	var (
		reply string
		err   error
	)
	if q.Prompt == catalog.Password && utils.IsTerminal(p.in) {
		reply, err = utils.ReadHidden(p.in, p.out)
	} else {
		reply, err = p.readLine()
	}
	if err != nil {
		return "", err
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return initial, nil
	}
	if q.Prompt == catalog.Select {
		if n, convErr := strconv.Atoi(reply); convErr == nil && n >= 1 && n <= len(q.Choices) {
			return q.Choices[n-1], nil
		}
	}
	return reply, nil
}

// Confirm asks a yes/no question. An empty reply takes the default.
func (p *TerminalPrompter) Confirm(message string, defaultYes bool) (bool, error) {
	options := "[y/N]"
	if defaultYes {
		options = "[Y/n]"
	}
	fmt.Fprintf(p.out, "%s %s %s: ", ui.Warning.Sprint("?"), message, options)

	reply, err := p.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(reply)) {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (p *TerminalPrompter) hint(q catalog.Question, initial string) string {
	if initial == "" {
		if q.Optional {
			return " " + ui.Muted.Sprint("optional")
		}
		return ""
	}
	shown := initial
	if q.Kind == catalog.Secret || q.Prompt == catalog.Password || q.Prompt == catalog.File {
		shown = ui.Mask(initial)
	}
	return " [" + shown + "]"
}

// readLine returns ErrCancelled when input ends before a newline.
func (p *TerminalPrompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", kerrors.ErrCancelled
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return line, nil
}
