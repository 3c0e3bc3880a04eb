package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"

	"tableflip.dev/spool/pkg/app"
)

// ErrNoChoices is returned when there is nothing to pick from.
var ErrNoChoices = errors.New("prompt: nothing to choose from")

type rollItem struct {
	ID        string
	Label     string
	Remaining string
	Status    string
	Search    string
}

// ChooseRoll lets the user pick one of views and returns its id.
func (p *Prompter) ChooseRoll(label string, views []app.RollView) (string, error) {
	if len(views) == 0 {
		return "", ErrNoChoices
	}
	items := make([]rollItem, 0, len(views))
	for _, v := range views {
		items = append(items, rollItem{
			ID:        v.Roll.ID,
			Label:     v.Roll.Label(),
			Remaining: fmt.Sprintf("%.1f g", v.Roll.RemainingGrams),
			Status:    v.Status.String(),
			Search:    strings.ToLower(strings.Join([]string{v.Roll.ID, v.Roll.Color, v.Roll.Material, v.Roll.Description}, " ")),
		})
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   "➜  {{ .Label | bold }} {{ .Remaining | cyan }}",
		Inactive: "   {{ .Label }} {{ .Remaining | cyan }}",
		Selected: "{{ .Label | bold }} ({{ .ID }})",
		Details: `
--------- Roll ----------
id:        {{ .ID }}
remaining: {{ .Remaining }}
status:    {{ .Status }}
`,
	}

	searcher := func(input string, index int) bool {
		name := strings.Replace(items[index].Search, " ", "", -1)
		input = strings.Replace(strings.ToLower(input), " ", "", -1)
		return strings.Contains(name, input)
	}

	sel := promptui.Select{
		HideHelp:  true,
		Label:     label,
		Items:     items,
		Templates: templates,
		Size:      10,
		Searcher:  searcher,
		Stdin:     p.stdin(),
		Stdout:    p.stdout(),
	}
	i, _, err := sel.Run()
	if err != nil {
		return "", aborted(err)
	}
	return items[i].ID, nil
}

// ChooseProject picks a known project or takes a new name. Choosing "none"
// returns the empty project.
func (p *Prompter) ChooseProject(projects []string) (string, error) {
	const none = "(none)"
	items := append([]string{none}, projects...)
	sel := promptui.SelectWithAdd{
		Label:    "Project",
		Items:    items,
		AddLabel: "New project",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("empty")
			}
			return nil
		},
	}
	// SelectWithAdd has no stdio fields, the terminal is always used.
	_, result, err := sel.Run()
	if err != nil {
		return "", aborted(err)
	}
	if result == none {
		return "", nil
	}
	return strings.TrimSpace(result), nil
}
