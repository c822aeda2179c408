package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// Prompter asks the user for input.
type Prompter interface {
	Input(title, initial string) (string, error)
	Password(title string) (string, error)
	Confirm(title string) (bool, error)
}

var errEmptyInput = errors.New("a value is required")

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errEmptyInput
	}
	return nil
}

// newPrompter uses huh forms on a terminal and plain line reads otherwise.
func newPrompter(in io.Reader, out io.Writer) Prompter {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return huhPrompter{}
	}
	return &linePrompter{reader: bufio.NewReader(in), out: out}
}

type huhPrompter struct{}

func (huhPrompter) Input(title, initial string) (string, error) {
	v := initial
	err := huh.NewInput().Title(title).Value(&v).Validate(required).Run()
	return strings.TrimSpace(v), err
}

func (huhPrompter) Password(title string) (string, error) {
	var v string
	err := huh.NewInput().Title(title).EchoMode(huh.EchoModePassword).Value(&v).Validate(required).Run()
	return v, err
}

func (huhPrompter) Confirm(title string) (bool, error) {
	var v bool
	err := huh.NewConfirm().Title(title).Affirmative("Yes").Negative("No").Value(&v).Run()
	return v, err
}

// linePrompter reads answers line by line, for pipes and scripts. Passwords
// are read as plain lines since nothing echoes them.
type linePrompter struct {
	reader *bufio.Reader
	out    io.Writer
}

func (p *linePrompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *linePrompter) Input(title, initial string) (string, error) {
	if initial != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", title, initial)
	} else {
		fmt.Fprintf(p.out, "%s: ", title)
	}
	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	if v := strings.TrimSpace(line); v != "" {
		return v, nil
	}
	if initial != "" {
		return initial, nil
	}
	return "", errEmptyInput
}

func (p *linePrompter) Password(title string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", title)
	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	if line == "" {
		return "", errEmptyInput
	}
	return line, nil
}

func (p *linePrompter) Confirm(title string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N]: ", title)
	line, err := p.readLine()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
