package markdown

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/rogersnm/smoothies/internal/model"
)

// Card is the front matter of a recipe card. The body below it is a
// generated ingredient list and is ignored on import.
type Card struct {
	ID          string             `yaml:"id,omitempty"`
	Name        string             `yaml:"name"`
	Published   bool               `yaml:"published"`
	Tags        []string           `yaml:"tags,flow"`
	Ingredients []model.Ingredient `yaml:"ingredients"`
}

// Parse reads YAML frontmatter and body from r into T.
func Parse[T any](r io.Reader) (T, string, error) {
	var meta T
	body, err := frontmatter.Parse(r, &meta)
	if err != nil {
		return meta, "", fmt.Errorf("parsing frontmatter: %w", err)
	}
	return meta, strings.TrimSpace(string(body)), nil
}

// Marshal serializes meta as YAML frontmatter followed by body.
func Marshal[T any](meta T, body string) ([]byte, error) {
	yamlBytes, err := yaml.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshaling frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(yamlBytes)
	buf.WriteString("---\n")
	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			buf.WriteString("\n")
		}
	}
	return buf.Bytes(), nil
}

func CardFrom(s model.Smoothie) Card {
	s = s.Normalized()
	return Card{
		ID:          s.ID,
		Name:        s.Name,
		Published:   s.IsPublished,
		Tags:        s.Tags,
		Ingredients: s.Ingredients,
	}
}

// Input returns the card as a create payload.
func (c Card) Input() model.Input {
	return model.Input{
		Name:        strings.TrimSpace(c.Name),
		Ingredients: c.Ingredients,
		IsPublished: c.Published,
		Tags:        c.Tags,
	}
}

// Patch returns the card's editable fields as a patch for id. The
// published flag is left out; publishing goes through its own commands.
func (c Card) Patch(id string) model.Patch {
	name := strings.TrimSpace(c.Name)
	ingredients := c.Ingredients
	if ingredients == nil {
		ingredients = []model.Ingredient{}
	}
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return model.Patch{ID: id, Name: &name, Ingredients: &ingredients, Tags: &tags}
}

// IngredientList renders ingredients as a markdown bullet list.
func IngredientList(ingredients []model.Ingredient) string {
	if len(ingredients) == 0 {
		return "_No ingredients._"
	}
	var sb strings.Builder
	for _, ing := range ingredients {
		sb.WriteString("- " + ing.String() + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// MarshalCard writes s as a recipe card.
func MarshalCard(s model.Smoothie) ([]byte, error) {
	return Marshal(CardFrom(s), IngredientList(s.Ingredients))
}

// ParseCard reads a recipe card. The front matter must carry a name and at
// least one complete ingredient.
func ParseCard(r io.Reader) (Card, error) {
	card, _, err := Parse[Card](r)
	if err != nil {
		return Card{}, err
	}
	if err := card.Input().Validate(); err != nil {
		return Card{}, fmt.Errorf("invalid recipe card: %w", err)
	}
	return card, nil
}
