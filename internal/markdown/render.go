package markdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/rogersnm/smoothies/internal/model"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	publishedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	privateStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	tagStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
)

func RenderMarkdown(content string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

func RenderField(label, value string) string {
	return labelStyle.Render(label+":") + " " + value
}

func RenderPublished(published bool) string {
	if published {
		return publishedStyle.Render("published")
	}
	return privateStyle.Render("private")
}

func RenderTags(tags []string) string {
	if len(tags) == 0 {
		return labelStyle.Render("-")
	}
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = tagStyle.Render("#" + t)
	}
	return strings.Join(out, " ")
}

func RenderEntityHeader(title string, fields []string) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(title))
	sb.WriteString("\n")
	for _, f := range fields {
		sb.WriteString("  " + f + "\n")
	}
	return sb.String()
}

// RenderSmoothie is the `show` view: a header block and the ingredients.
func RenderSmoothie(s model.Smoothie) string {
	header := RenderEntityHeader(s.Name, []string{
		RenderField("ID", s.ID),
		RenderField("Status", RenderPublished(s.IsPublished)),
		RenderField("Tags", RenderTags(s.Tags)),
	})
	return header + "\n" + IngredientList(s.Ingredients) + "\n"
}
