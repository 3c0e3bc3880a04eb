package prompt

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestValidators(t *testing.T) {
	tests := map[string]struct {
		in               string
		amount, positive bool
	}{
		"number":    {"12.5", true, true},
		"comma":     {"12,5", true, true},
		"zero":      {"0", true, false},
		"negative":  {"-1", false, false},
		"empty":     {"", false, false},
		"garbage":   {"lots", false, false},
		"not a num": {"NaN", false, false},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := ValidateAmount(tc.in) == nil; got != tc.amount {
				t.Errorf("ValidateAmount(%q) ok = %v, want %v", tc.in, got, tc.amount)
			}
			if got := ValidatePositive(tc.in) == nil; got != tc.positive {
				t.Errorf("ValidatePositive(%q) ok = %v, want %v", tc.in, got, tc.positive)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	for _, in := range []string{"y", "Yes", "true", "1"} {
		if v, err := ParseBool(in); err != nil || !v {
			t.Errorf("ParseBool(%q) = %v, %v", in, v, err)
		}
	}
	for _, in := range []string{"n", "no", "False", "0"} {
		if v, err := ParseBool(in); err != nil || v {
			t.Errorf("ParseBool(%q) = %v, %v", in, v, err)
		}
	}
	if _, err := ParseBool("maybe"); err == nil {
		t.Error("expected error for maybe")
	}
}

func TestFlagsSkipsGivenFlags(t *testing.T) {
	fs := pflag.NewFlagSet("add", pflag.ContinueOnError)
	fs.String("weight", "", "Initial weight in grams")
	if err := fs.Parse([]string{"--weight=1000"}); err != nil {
		t.Fatal(err)
	}
	p := &Prompter{}
	if err := p.Flags(fs, Field{Flag: "weight", Kind: KindPositive}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, _ := fs.GetString("weight"); got != "1000" {
		t.Errorf("weight = %q", got)
	}
}

func TestFlagsUnknownFlag(t *testing.T) {
	fs := pflag.NewFlagSet("add", pflag.ContinueOnError)
	p := &Prompter{}
	if err := p.Flags(fs, Field{Flag: "missing"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestChooseRollWithoutRolls(t *testing.T) {
	p := &Prompter{}
	if _, err := p.ChooseRoll("Roll", nil); err != ErrNoChoices {
		t.Fatalf("got %v", err)
	}
}
