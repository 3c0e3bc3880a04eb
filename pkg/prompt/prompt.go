// Package prompt asks for missing input on the terminal.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"tableflip.dev/spool/pkg/roll"
)

// ErrAborted is returned when the user interrupts a prompt.
var ErrAborted = errors.New("prompt: aborted")

// Prompter reads answers from In and draws prompts on Out.
type Prompter struct {
	In  io.Reader
	Out io.Writer
}

var templates = &promptui.PromptTemplates{
	Prompt:  "{{ . }} : ",
	Valid:   "{{ . | green }} : ",
	Invalid: "{{ . | red }} : ",
	Success: "{{ . | bold }} : ",
}

func (p *Prompter) stdin() io.ReadCloser {
	if p.In == nil {
		return nil
	}
	return io.NopCloser(p.In)
}

func (p *Prompter) stdout() io.WriteCloser {
	if p.Out == nil {
		return nil
	}
	return nopCloser{p.Out}
}

func (p *Prompter) run(label, def string, validate promptui.ValidateFunc) (string, error) {
	prompt := promptui.Prompt{
		Label:     label,
		Default:   def,
		Templates: templates,
		Validate:  validate,
		Stdin:     p.stdin(),
		Stdout:    p.stdout(),
	}
	result, err := prompt.Run()
	if err != nil {
		return "", aborted(err)
	}
	return strings.TrimSpace(result), nil
}

// Text asks for free text. Empty answers are allowed.
func (p *Prompter) Text(label, def string) (string, error) {
	return p.run(label, def, nil)
}

// Amount asks for a non-negative number and returns it as typed.
func (p *Prompter) Amount(label, def string) (string, error) {
	return p.run(label, def, ValidateAmount)
}

// Positive asks for a number above zero and returns it as typed.
func (p *Prompter) Positive(label, def string) (string, error) {
	return p.run(label, def, ValidatePositive)
}

// Confirm asks a yes or no question.
func (p *Prompter) Confirm(label string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	result, err := p.run(fmt.Sprintf("%s [%s]", label, hint), "", func(input string) error {
		if strings.TrimSpace(input) == "" {
			return nil
		}
		_, err := ParseBool(strings.TrimSpace(input))
		return err
	})
	if err != nil {
		return false, err
	}
	if result == "" {
		return def, nil
	}
	return ParseBool(result)
}

// ValidateAmount accepts numbers at or above zero.
func ValidateAmount(input string) error {
	v, err := roll.ParseAmount(input)
	if err != nil {
		return err
	}
	if v < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

// ValidatePositive accepts numbers above zero.
func ValidatePositive(input string) error {
	v, err := roll.ParseAmount(input)
	if err != nil {
		return err
	}
	if v <= 0 {
		return errors.New("must be greater than zero")
	}
	return nil
}

// ParseBool is strconv.ParseBool with the addition of Yes/No parsing.
func ParseBool(str string) (bool, error) {
	switch str {
	case "1", "t", "T", "true", "TRUE", "True", "y", "Y", "yes", "YES", "Yes":
		return true, nil
	case "0", "f", "F", "false", "FALSE", "False", "n", "N", "no", "NO", "No":
		return false, nil
	}
	return false, &strconv.NumError{Func: "ParseBool", Num: str, Err: strconv.ErrSyntax}
}

func aborted(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
		return ErrAborted
	}
	return err
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
