package ui

import (
	"errors"
	"fmt"
	"strings"

	"apttool/pkg/catalog"

	"github.com/manifoldco/promptui"
)

// ErrNothingToSelect is returned by SelectRecord for an empty list.
var ErrNothingToSelect = errors.New("no packages to select from")

// Confirm prompts the user for yes/no confirmation.
func Confirm(prompt string, defaultYes bool) (bool, error) {
	label := prompt
	if defaultYes {
		label += " [Y/n]"
	} else {
		label += " [y/N]"
	}

	p := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	if defaultYes {
		p.Default = "y"
	}

	result, err := p.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		if errors.Is(err, promptui.ErrInterrupt) {
			return false, err
		}
		return defaultYes, nil
	}

	return ParseYesNo(result, defaultYes), nil
}

// ParseYesNo interprets a confirmation answer. Empty input gives the
// default.
func ParseYesNo(answer string, defaultYes bool) bool {
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer == "" {
		return defaultYes
	}
	return answer == "y" || answer == "yes"
}

// SelectRecord asks the user to pick one of several packages, for
// example when a name is ambiguous across architectures.
func SelectRecord(records []*catalog.Record, prompt string) (*catalog.Record, error) {
	if len(records) == 0 {
		return nil, ErrNothingToSelect
	}
	if len(records) == 1 {
		return records[0], nil
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ .FullName | cyan }} {{ .LatestVersion | blue }}",
		Inactive: "  {{ .FullName }} {{ .LatestVersion | faint }}",
		Selected: "✓ {{ .FullName | cyan }} {{ .LatestVersion | blue }}",
		Details: `
--------- Package ----------
{{ "Name:" | faint }}	{{ .FullName }}
{{ "Version:" | faint }}	{{ .LatestVersion }}
{{ "Installed:" | faint }}	{{ .Installed }}
{{ "Description:" | faint }}	{{ .Synopsis }}`,
	}

	searcher := func(input string, index int) bool {
		return strings.Contains(strings.ToLower(records[index].FullName()), strings.ToLower(input))
	}

	p := promptui.Select{
		Label:     prompt,
		Items:     records,
		Templates: templates,
		Size:      10,
		Searcher:  searcher,
	}

	index, _, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}
	return records[index], nil
}
