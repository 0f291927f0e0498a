package model

import (
	"fmt"
	"slices"
	"strings"
)

type Ingredient struct {
	Name     string `json:"name" yaml:"name"`
	Quantity string `json:"quantity" yaml:"quantity"`
}

// ParseIngredient parses the "name=quantity" form used by command-line flags.
func ParseIngredient(s string) (Ingredient, error) {
	name, qty, ok := strings.Cut(s, "=")
	if !ok {
		return Ingredient{}, fmt.Errorf("invalid ingredient %q: expected name=quantity", s)
	}
	return Ingredient{Name: strings.TrimSpace(name), Quantity: strings.TrimSpace(qty)}, nil
}

func (i Ingredient) String() string {
	if i.Quantity == "" {
		return i.Name
	}
	return i.Quantity + " " + i.Name
}

type Smoothie struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Ingredients []Ingredient `json:"ingredients"`
	IsPublished bool         `json:"isPublished"`
	Tags        []string     `json:"tags,omitempty"`
}

// Normalized returns a copy whose slices are never nil. Stores call it at
// the persistence boundary so callers never need nil checks.
func (s Smoothie) Normalized() Smoothie {
	out := s
	out.Ingredients = slices.Clone(s.Ingredients)
	if out.Ingredients == nil {
		out.Ingredients = []Ingredient{}
	}
	out.Tags = slices.Clone(s.Tags)
	if out.Tags == nil {
		out.Tags = []string{}
	}
	return out
}

// Input is a smoothie that has not been assigned an id yet.
type Input struct {
	Name        string
	Ingredients []Ingredient
	IsPublished bool
	Tags        []string
}

func (in Input) WithID(id string) Smoothie {
	return Smoothie{
		ID:          id,
		Name:        in.Name,
		Ingredients: in.Ingredients,
		IsPublished: in.IsPublished,
		Tags:        in.Tags,
	}.Normalized()
}

func (in Input) Validate() error {
	if err := ValidateName(in.Name); err != nil {
		return err
	}
	return ValidateIngredients(in.Ingredients)
}

// Patch is a partial smoothie keyed by ID. Nil fields are left untouched.
type Patch struct {
	ID          string
	Name        *string
	Ingredients *[]Ingredient
	IsPublished *bool
	Tags        *[]string
}

// PatchFrom returns a patch that overwrites every field of the record with s.
func PatchFrom(s Smoothie) Patch {
	ingredients := slices.Clone(s.Ingredients)
	tags := slices.Clone(s.Tags)
	return Patch{
		ID:          s.ID,
		Name:        &s.Name,
		Ingredients: &ingredients,
		IsPublished: &s.IsPublished,
		Tags:        &tags,
	}
}

// Apply merges p into s. The ID of s is kept.
func (p Patch) Apply(s Smoothie) Smoothie {
	out := s
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Ingredients != nil {
		out.Ingredients = slices.Clone(*p.Ingredients)
	}
	if p.IsPublished != nil {
		out.IsPublished = *p.IsPublished
	}
	if p.Tags != nil {
		out.Tags = slices.Clone(*p.Tags)
	}
	return out.Normalized()
}

func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Ingredients == nil && p.IsPublished == nil && p.Tags == nil
}
