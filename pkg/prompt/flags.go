package prompt

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Kind selects how the answer for a flag is validated.
type Kind int

const (
	KindText Kind = iota
	KindAmount
	KindPositive
)

// Field is a flag to ask for when it was not given on the command line.
type Field struct {
	Flag string
	// Label defaults to the flag usage.
	Label string
	Kind  Kind
}

// Flags asks for every field whose flag is unset and stores the answers in
// fs, as if they had been typed as flags.
func (p *Prompter) Flags(fs *pflag.FlagSet, fields ...Field) error {
	for _, field := range fields {
		f := fs.Lookup(field.Flag)
		if f == nil {
			return fmt.Errorf("prompt: unknown flag %q", field.Flag)
		}
		if f.Changed {
			continue
		}
		label := field.Label
		if label == "" {
			label = f.Usage
		}
		ask := p.Text
		switch field.Kind {
		case KindAmount:
			ask = p.Amount
		case KindPositive:
			ask = p.Positive
		}
		answer, err := ask(label, f.DefValue)
		if err != nil {
			return err
		}
		if err := fs.Set(f.Name, answer); err != nil {
			return fmt.Errorf("prompt: --%s: %w", f.Name, err)
		}
	}
	return nil
}
