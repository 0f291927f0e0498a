package model

import (
	"fmt"
	"strings"
)

func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

func ValidateIngredients(ingredients []Ingredient) error {
	if len(ingredients) == 0 {
		return fmt.Errorf("at least one ingredient is required")
	}
	for i, ing := range ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			return fmt.Errorf("ingredient %d name is required", i+1)
		}
		if strings.TrimSpace(ing.Quantity) == "" {
			return fmt.Errorf("ingredient %d quantity is required", i+1)
		}
	}
	return nil
}
