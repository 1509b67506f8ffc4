package ui

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// Confirm asks a yes/no question. Declining, or pressing enter when the
// default is no, returns false without an error; ctrl+c returns the interrupt.
func Confirm(label string, defaultYes bool) (bool, error) {
	p := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	if defaultYes {
		p.Default = "y"
	}

	answer, err := p.Run()
	switch {
	case errors.Is(err, promptui.ErrAbort):
		return false, nil
	case err != nil:
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Select picks one of items. A single item is returned without prompting.
func Select(label string, items []string) (string, error) {
	switch len(items) {
	case 0:
		return "", errors.New("nothing to select from")
	case 1:
		return items[0], nil
	}

	p := promptui.Select{
		Label: label,
		Items: items,
		Size:  10,
		Searcher: func(input string, index int) bool {
			return strings.Contains(strings.ToLower(items[index]), strings.ToLower(input))
		},
	}
	_, choice, err := p.Run()
	return choice, err
}

// Input asks for a non-blank line of text.
func Input(label, defaultValue string) (string, error) {
	p := promptui.Prompt{
		Label:   label,
		Default: defaultValue,
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("value must not be empty")
			}
			return nil
		},
	}
	value, err := p.Run()
	return strings.TrimSpace(value), err
}

// SelectMultiple lists items with numbers and reads a selection such as
// "1 3", "2-4" or "all".
func SelectMultiple(label string, items []string) ([]string, error) {
	if len(items) == 0 {
		return nil, errors.New("nothing to select from")
	}

	for i, item := range items {
		fmt.Fprintf(os.Stdout, "  %2d. %s\n", i+1, item)
	}

	p := promptui.Prompt{
		Label: label + " (numbers, ranges or all)",
		Validate: func(s string) error {
			_, err := ParseSelection(s, len(items))
			return err
		},
	}
	answer, err := p.Run()
	if err != nil {
		return nil, err
	}

	indexes, err := ParseSelection(answer, len(items))
	if err != nil {
		return nil, err
	}
	selected := make([]string, 0, len(indexes))
	for _, i := range indexes {
		selected = append(selected, items[i])
	}
	return selected, nil
}

// ParseSelection converts a 1-based selection of n items into 0-based indexes
// in ascending order. Fields may be separated by spaces or commas.
func ParseSelection(input string, n int) ([]int, error) {
	input = strings.TrimSpace(input)
	if strings.EqualFold(input, "all") {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}

	picked := make([]bool, n)
	fields := strings.FieldsFunc(input, func(r rune) bool { return r == ' ' || r == ',' })
	if len(fields) == 0 {
		return nil, errors.New("select at least one item")
	}
	for _, field := range fields {
		lo, hi, isRange := strings.Cut(field, "-")
		first, err := selectionIndex(lo, n)
		if err != nil {
			return nil, err
		}
		last := first
		if isRange {
			if last, err = selectionIndex(hi, n); err != nil {
				return nil, err
			}
			if last < first {
				return nil, fmt.Errorf("range %q is reversed", field)
			}
		}
		for i := first; i <= last; i++ {
			picked[i] = true
		}
	}

	var out []int
	for i, ok := range picked {
		if ok {
			out = append(out, i)
		}
	}
	return out, nil
}

func selectionIndex(s string, n int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 1 || v > n {
		return 0, fmt.Errorf("%q is not a number between 1 and %d", s, n)
	}
	return v - 1, nil
}
