// Package prompt asks the user questions on the terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// ErrNotInteractive is returned when a question needs an answer but stdin is not a terminal.
var ErrNotInteractive = errors.New("cannot prompt: stdin is not a terminal")

// ErrCanceled is returned when the user dismisses a question.
var ErrCanceled = errors.New("prompt canceled")

// Prompter asks questions. Implementations must not be shared between goroutines.
type Prompter interface {
	// Confirm asks a yes/no question.
	Confirm(question string, def bool) (bool, error)
	// Choose asks the user to pick one of options and returns the chosen option.
	Choose(question string, options []string) (string, error)
	// Input asks for free text, offering def as the prefilled answer.
	Input(question, def string) (string, error)
}

// LineReader is the subset of *bufio.Reader used to read answers.
type LineReader interface {
	ReadString(delim byte) (string, error)
}

// Terminal prompts on an interactive terminal.
type Terminal struct {
	in          LineReader
	out         io.Writer
	interactive func() bool
}

// NewTerminal returns a Prompter reading from stdin and writing to stderr.
func NewTerminal() *Terminal {
	return &Terminal{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stderr,
		interactive: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// NewTerminalWith returns a Terminal over the given streams that always
// treats them as interactive.
func NewTerminalWith(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: func() bool { return true },
	}
}

var (
	questionColor = color.New(color.FgCyan, color.Bold)
	hintColor     = color.New(color.FgYellow)
	invalidColor  = color.New(color.FgRed)
)

// Confirm implements Prompter. An empty answer selects def.
func (t *Terminal) Confirm(question string, def bool) (bool, error) {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}
	for {
		answer, err := t.ask(question, hint)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		invalidColor.Fprintln(t.out, "Please answer yes or no.")
	}
}

// Choose implements Prompter. Options may be picked by number or by name;
// an empty answer cancels.
func (t *Terminal) Choose(question string, options []string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("no options to choose from")
	}
	for {
		if err := t.checkInteractive(); err != nil {
			return "", err
		}
		questionColor.Fprintln(t.out, question)
		for i, opt := range options {
			fmt.Fprintf(t.out, "  %s %s\n", hintColor.Sprintf("[%d]", i+1), opt)
		}
		answer, err := t.ask("Select", fmt.Sprintf("(1-%d)", len(options)))
		if err != nil {
			return "", err
		}
		if answer == "" {
			return "", ErrCanceled
		}
		if n, convErr := strconv.Atoi(answer); convErr == nil && n >= 1 && n <= len(options) {
			return options[n-1], nil
		}
		for _, opt := range options {
			if strings.EqualFold(opt, answer) {
				return opt, nil
			}
		}
		invalidColor.Fprintln(t.out, "Invalid selection. Please try again.")
	}
}

// Input implements Prompter. An empty answer selects def.
func (t *Terminal) Input(question, def string) (string, error) {
	hint := ""
	if def != "" {
		hint = "[" + def + "]"
	}
	answer, err := t.ask(question, hint)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

func (t *Terminal) ask(question, hint string) (string, error) {
	if err := t.checkInteractive(); err != nil {
		return "", err
	}
	questionColor.Fprint(t.out, question)
	if hint != "" {
		fmt.Fprint(t.out, " ")
		hintColor.Fprint(t.out, hint)
	}
	fmt.Fprint(t.out, ": ")

	line, err := t.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", ErrCanceled
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (t *Terminal) checkInteractive() error {
	if t.interactive != nil && !t.interactive() {
		return ErrNotInteractive
	}
	return nil
}

// Static answers every question from preset values without reading input.
type Static struct {
	ConfirmAnswer bool
	ChooseAnswer  string // Empty picks the first option.
	InputAnswer   string // Empty keeps the default.

	// Asked records every question in order.
	Asked []string
}

// Confirm implements Prompter.
func (s *Static) Confirm(question string, _ bool) (bool, error) {
	s.Asked = append(s.Asked, question)
	return s.ConfirmAnswer, nil
}

// Choose implements Prompter.
func (s *Static) Choose(question string, options []string) (string, error) {
	s.Asked = append(s.Asked, question)
	if len(options) == 0 {
		return "", fmt.Errorf("no options to choose from")
	}
	if s.ChooseAnswer == "" {
		return options[0], nil
	}
	for _, opt := range options {
		if opt == s.ChooseAnswer {
			return opt, nil
		}
	}
	return "", fmt.Errorf("preset answer %q is not one of %v", s.ChooseAnswer, options)
}

// Input implements Prompter.
func (s *Static) Input(question, def string) (string, error) {
	s.Asked = append(s.Asked, question)
	if s.InputAnswer == "" {
		return def, nil
	}
	return s.InputAnswer, nil
}
