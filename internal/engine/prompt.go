package engine

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Prompter asks the user for the value of a missing environment variable.
// Request blocks until the user answers; confirmed reports whether the value
// should actually be applied. The console implementation reads standard
// input, tests supply canned answers instead.
type Prompter interface {
	Request(name string) (value string, confirmed bool)
}

// ConsolePrompter reads values interactively from a terminal.
type ConsolePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsolePrompter returns a prompter on the process's stdin/stdout.
func NewConsolePrompter() *ConsolePrompter {
	return &ConsolePrompter{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
	}
}

// NewPrompter returns a prompter over arbitrary streams, for tests.
func NewPrompter(in io.Reader, out io.Writer) *ConsolePrompter {
	return &ConsolePrompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Request asks for a value, echoes it back and asks for confirmation.
// Only an explicit yes answer confirms; anything else (including a read
// error, e.g. closed stdin) declines and leaves the variable unset.
func (p *ConsolePrompter) Request(name string) (string, bool) {
	fmt.Fprintf(p.out, "Environment variable %s is not set. Enter a value: ", name)
	value, err := p.readLine()
	if err != nil {
		return "", false
	}

	fmt.Fprintf(p.out, "Set %s=%s for this run? [y/N]: ", name, value)
	answer, err := p.readLine()
	if err != nil {
		return "", false
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return value, true
	default:
		return "", false
	}
}

func (p *ConsolePrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
