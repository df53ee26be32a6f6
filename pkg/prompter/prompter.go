package prompter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter reads answers from in and writes labels to out
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
}

// New creates a prompter over arbitrary streams. Password input is only
// hidden when in is a terminal.
func New(in io.Reader, out io.Writer) *Prompter {
	fd := -1
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd = int(f.Fd())
	}
	return &Prompter{in: bufio.NewReader(in), out: out, fd: fd}
}

var std = New(os.Stdin, os.Stdout)

// Default returns the prompter bound to the process's stdin and stdout
func Default() *Prompter {
	return std
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// String prompts for a single line
func (p *Prompter) String(label string) (string, error) {
	fmt.Fprint(p.out, label)
	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Password prompts for a secret without echoing it on a terminal
func (p *Prompter) Password(label string) (string, error) {
	fmt.Fprint(p.out, label)

	if p.fd >= 0 {
		bytepw, err := term.ReadPassword(p.fd)
		fmt.Fprintln(p.out)
		if err != nil {
			return "", err
		}
		return string(bytepw), nil
	}

	return p.readLine()
}

// Confirm prompts for yes/no
func (p *Prompter) Confirm(label string) (bool, error) {
	answer, err := p.String(label + " (y/n) ")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

// Select prompts to pick one of options and returns its index
func (p *Prompter) Select(label string, options []string) (int, error) {
	fmt.Fprintln(p.out, label)
	for i, opt := range options {
		fmt.Fprintf(p.out, "%d) %s\n", i+1, opt)
	}

	input, err := p.String("Select option: ")
	if err != nil {
		return -1, err
	}

	var selection int
	if _, err := fmt.Sscanf(input, "%d", &selection); err != nil {
		return -1, fmt.Errorf("invalid selection: %q", input)
	}
	if selection < 1 || selection > len(options) {
		return -1, fmt.Errorf("invalid selection")
	}

	return selection - 1, nil
}

// Multiline reads lines until an empty line or maxLines lines
func (p *Prompter) Multiline(label string, maxLines int) (string, error) {
	fmt.Fprintf(p.out, "%s (finish with an empty line):\n", label)

	var lines []string
	for i := 0; i < maxLines; i++ {
		line, err := p.readLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if line == "" {
			break
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n"), nil
}

// PromptString prompts user for a string input
func PromptString(label string) (string, error) {
	return std.String(label)
}

// PromptPassword prompts user for a password (hidden input)
func PromptPassword(label string) (string, error) {
	return std.Password(label)
}

// PromptConfirm prompts user for yes/no confirmation
func PromptConfirm(label string) (bool, error) {
	return std.Confirm(label)
}

// PromptSelect prompts user to select from options
func PromptSelect(label string, options []string) (int, error) {
	return std.Select(label, options)
}

// PromptMultilineString prompts user for multi-line input
func PromptMultilineString(label string, maxLines int) (string, error) {
	return std.Multiline(label, maxLines)
}
