package markdown

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/rogersnm/smoothies/internal/model"
)

var (
	headerRowStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cellStyle      = lipgloss.NewStyle()
)

func RenderSmoothieTable(smoothies []model.Smoothie) string {
	if len(smoothies) == 0 {
		return "No smoothies found."
	}
	rows := make([][]string, len(smoothies))
	for i, s := range smoothies {
		rows[i] = []string{
			s.ID,
			s.Name,
			strconv.Itoa(len(s.Ingredients)),
			RenderTags(s.Tags),
			RenderPublished(s.IsPublished),
		}
	}
	return renderTable([]string{"ID", "Name", "Ingredients", "Tags", "Status"}, rows)
}

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerRowStyle
			}
			return cellStyle
		})
	return t.Render()
}
