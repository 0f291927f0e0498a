package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rogersnm/smoothies/internal/editor"
	"github.com/rogersnm/smoothies/internal/form"
	"github.com/rogersnm/smoothies/internal/markdown"
	"github.com/rogersnm/smoothies/internal/model"
)

func findSmoothie(id string) (model.Smoothie, error) {
	s, ok := cache.Find(id)
	if !ok {
		return model.Smoothie{}, fmt.Errorf("smoothie %s not found", id)
	}
	return s, nil
}

func parseIngredientFlags(values []string) ([]model.Ingredient, error) {
	out := make([]model.Ingredient, 0, len(values))
	for _, v := range values {
		ing, err := model.ParseIngredient(v)
		if err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, nil
}

func readCard(cmd *cobra.Command, path string) (markdown.Card, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return markdown.Card{}, fmt.Errorf("opening recipe card: %w", err)
		}
		defer f.Close()
		r = f
	}
	return markdown.ParseCard(r)
}

// createInput builds the new smoothie from a recipe card, from flags, or
// from the interactive form when neither gives a name.
func createInput(cmd *cobra.Command, args []string) (model.Input, error) {
	file, _ := cmd.Flags().GetString("file")
	publish, _ := cmd.Flags().GetBool("publish")

	if file != "" {
		card, err := readCard(cmd, file)
		if err != nil {
			return model.Input{}, err
		}
		in := card.Input()
		if cmd.Flags().Changed("publish") {
			in.IsPublished = publish
		}
		return in, nil
	}

	ingFlags, _ := cmd.Flags().GetStringArray("ingredient")
	ingredients, err := parseIngredientFlags(ingFlags)
	if err != nil {
		return model.Input{}, err
	}
	tags, _ := cmd.Flags().GetStringArray("tag")

	in := model.Input{
		Ingredients: ingredients,
		IsPublished: publish,
		Tags:        tags,
	}
	if len(args) == 0 {
		return form.Smoothie(in)
	}
	in.Name = strings.TrimSpace(args[0])
	return in, nil
}

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new smoothie",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := createInput(cmd, args)
		if err != nil {
			return err
		}
		if err := in.Validate(); err != nil {
			return err
		}

		s, err := cache.Create(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created smoothie %s (%s)\n", s.Name, s.ID)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List smoothies",
	RunE: func(cmd *cobra.Command, args []string) error {
		query, _ := cmd.Flags().GetString("query")
		watch, _ := cmd.Flags().GetBool("watch")

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, markdown.RenderSmoothieTable(cache.Filter(query)))
		if !watch {
			return nil
		}
		return watchList(cmd, query)
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a smoothie's recipe card",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := findSmoothie(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if pretty, _ := cmd.Flags().GetBool("pretty"); pretty {
			fmt.Fprint(out, markdown.RenderEntityHeader(s.Name, []string{
				markdown.RenderField("ID", s.ID),
				markdown.RenderField("Status", markdown.RenderPublished(s.IsPublished)),
				markdown.RenderField("Tags", markdown.RenderTags(s.Tags)),
			}))
			rendered, err := markdown.RenderMarkdown("## Ingredients\n\n" + markdown.IngredientList(s.Ingredients))
			if err != nil {
				return err
			}
			fmt.Fprint(out, rendered)
			return nil
		}

		data, err := markdown.MarshalCard(s)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a smoothie",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := model.Patch{ID: args[0]}

		if cmd.Flags().Changed("name") {
			name, _ := cmd.Flags().GetString("name")
			name = strings.TrimSpace(name)
			if err := model.ValidateName(name); err != nil {
				return err
			}
			p.Name = &name
		}
		if cmd.Flags().Changed("ingredient") {
			values, _ := cmd.Flags().GetStringArray("ingredient")
			ingredients, err := parseIngredientFlags(values)
			if err != nil {
				return err
			}
			if err := model.ValidateIngredients(ingredients); err != nil {
				return err
			}
			p.Ingredients = &ingredients
		}
		clearTags, _ := cmd.Flags().GetBool("clear-tags")
		if cmd.Flags().Changed("tag") || clearTags {
			tags, _ := cmd.Flags().GetStringArray("tag")
			if clearTags {
				tags = []string{}
			}
			p.Tags = &tags
		}

		if p.IsEmpty() {
			return fmt.Errorf("at least one update flag is required (--name, --ingredient, --tag, --clear-tags)")
		}

		s, err := cache.Update(cmd.Context(), p.ID, p)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated smoothie %s\n", s.ID)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a smoothie's recipe card in $EDITOR",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := findSmoothie(args[0])
		if err != nil {
			return err
		}

		card, err := editor.EditCard(s)
		if errors.Is(err, editor.ErrUnchanged) {
			fmt.Fprintln(cmd.OutOrStdout(), "No changes.")
			return nil
		}
		if err != nil {
			return err
		}
		if card.Published != s.IsPublished {
			warnf("published flag is ignored by edit; use publish or unpublish")
		}

		if _, err := cache.Update(cmd.Context(), s.ID, card.Patch(s.ID)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated smoothie %s\n", s.ID)
		return nil
	},
}

var confirmDelete = form.Confirm

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a smoothie",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		if force, _ := cmd.Flags().GetBool("force"); !force {
			if s, ok := cache.Find(id); ok {
				msg := fmt.Sprintf("Delete %q (%s)?", s.Name, s.ID)
				if s.IsPublished {
					msg = fmt.Sprintf("Delete %q (%s)? It will also be removed from the public store.", s.Name, s.ID)
				}
				confirm, err := confirmDelete(msg)
				if errors.Is(err, form.ErrAborted) || (err == nil && !confirm) {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
				if err != nil {
					return err
				}
			}
		}

		if err := cache.Delete(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted smoothie %s\n", id)
		return nil
	},
}

var publishCmd = &cobra.Command{
	Use:   "publish <id>",
	Short: "Publish a smoothie to the public store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, ok := cache.Find(args[0])
		if !ok {
			s = model.Smoothie{ID: args[0]}
		}
		if err := cache.Publish(cmd.Context(), s); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Published smoothie %s\n", s.ID)
		return nil
	},
}

var unpublishCmd = &cobra.Command{
	Use:   "unpublish <id>",
	Short: "Remove a smoothie from the public store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cache.Unpublish(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Unpublished smoothie %s\n", args[0])
		return nil
	},
}

func init() {
	createCmd.Flags().StringArray("ingredient", nil, "ingredient as name=quantity (repeatable)")
	createCmd.Flags().StringArray("tag", nil, "tag (repeatable)")
	createCmd.Flags().Bool("publish", false, "publish the smoothie right away")
	createCmd.Flags().String("file", "", "read a recipe card from a file (- for stdin)")

	listCmd.Flags().StringP("query", "q", "", "only list smoothies matching the query")
	listCmd.Flags().Bool("watch", false, "keep running and refresh when smoothies change")

	showCmd.Flags().Bool("pretty", false, "render for the terminal")

	updateCmd.Flags().String("name", "", "new name")
	updateCmd.Flags().StringArray("ingredient", nil, "replace ingredients, as name=quantity (repeatable)")
	updateCmd.Flags().StringArray("tag", nil, "replace tags (repeatable)")
	updateCmd.Flags().Bool("clear-tags", false, "remove all tags")

	deleteCmd.Flags().Bool("force", false, "skip confirmation")

	rootCmd.AddCommand(createCmd, listCmd, showCmd, updateCmd, editCmd, deleteCmd, publishCmd, unpublishCmd)
}
