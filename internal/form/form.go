// Package form holds the interactive terminal forms used when a command is
// run without enough flags.
package form

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/rogersnm/smoothies/internal/config"
	"github.com/rogersnm/smoothies/internal/model"
)

// ErrAborted is returned when the user cancels a form.
var ErrAborted = errors.New("cancelled")

// ParseIngredientLines reads one "Name=Quantity" ingredient per line.
// Blank lines are skipped.
func ParseIngredientLines(text string) ([]model.Ingredient, error) {
	var out []model.Ingredient
	for i, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		ing, err := model.ParseIngredient(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		out = append(out, ing)
	}
	return out, nil
}

// ParseTags splits a comma-separated list, dropping blanks.
func ParseTags(text string) []string {
	tags := []string{}
	for _, t := range strings.Split(text, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func validateIngredientLines(text string) error {
	ings, err := ParseIngredientLines(text)
	if err != nil {
		return err
	}
	return model.ValidateIngredients(ings)
}

func run(f *huh.Form) error {
	if err := f.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return fmt.Errorf("form error: %w", err)
	}
	return nil
}

// Smoothie asks for a new smoothie, starting from in.
func Smoothie(in model.Input) (model.Input, error) {
	name := in.Name
	publish := in.IsPublished
	tags := strings.Join(in.Tags, ", ")
	lines := make([]string, len(in.Ingredients))
	for i, ing := range in.Ingredients {
		lines[i] = ing.Name + "=" + ing.Quantity
	}
	ingredients := strings.Join(lines, "\n")

	f := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("e.g., Berry Blast").
				Value(&name).
				Validate(model.ValidateName),

			huh.NewText().
				Title("Ingredients").
				Description("One per line, as name=quantity").
				Placeholder("Blueberries=150g\nAlmond Milk=200ml").
				Value(&ingredients).
				Validate(validateIngredientLines),

			huh.NewInput().
				Title("Tags").
				Description("Comma-separated (optional)").
				Placeholder("e.g., Fruit, Summer").
				Value(&tags),

			huh.NewConfirm().
				Title("Publish it?").
				Value(&publish),
		),
	)
	if err := run(f); err != nil {
		return model.Input{}, err
	}

	ings, err := ParseIngredientLines(ingredients)
	if err != nil {
		return model.Input{}, err
	}
	return model.Input{
		Name:        strings.TrimSpace(name),
		Ingredients: ings,
		IsPublished: publish,
		Tags:        ParseTags(tags),
	}, nil
}

// Confirm asks a yes/no question.
func Confirm(title string) (bool, error) {
	var ok bool
	if err := run(huh.NewForm(huh.NewGroup(huh.NewConfirm().Title(title).Value(&ok)))); err != nil {
		return false, err
	}
	return ok, nil
}

// Backend asks which storage backend to use.
func Backend(current string) (string, error) {
	choice := current
	opts := []huh.Option[string]{
		huh.NewOption("File (one JSON file in the data directory)", config.BackendFile),
		huh.NewOption("SQLite (smoothies.db in the data directory)", config.BackendSQLite),
	}
	f := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Storage backend").
			Options(opts...).
			Value(&choice),
	))
	if err := run(f); err != nil {
		return "", err
	}
	return choice, nil
}
