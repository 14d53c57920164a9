package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/five82/storefront/internal/catalog"
	"github.com/five82/storefront/internal/logtail"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#738091"))
	priceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#81b29a"))

	levelStyles = map[string]lipgloss.Style{
		"debug":   lipgloss.NewStyle().Foreground(lipgloss.Color("#63cdcf")),
		"info":    lipgloss.NewStyle().Foreground(lipgloss.Color("#81b29a")),
		"warning": lipgloss.NewStyle().Foreground(lipgloss.Color("#dbc074")).Bold(true),
		"error":   lipgloss.NewStyle().Foreground(lipgloss.Color("#c94f6d")).Bold(true),
	}
)

// renderTable formats the visible products as a bordered table with a
// count footer.
func renderTable(items []catalog.Item, total int) string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			strconv.Itoa(item.ID),
			item.Title,
			item.Category,
			fmt.Sprintf("$%.2f", item.Price),
			fmt.Sprintf("%.1f", item.Rating),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Title", "Category", "Price", "Rating").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0 || col >= 3:
				return numberStyle
			default:
				return cellStyle
			}
		})

	return t.Render() + "\n" + mutedStyle.Render(fmt.Sprintf("%d of %d products", len(items), total))
}

// renderItem formats one product for the show command.
func renderItem(item catalog.Item) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("#%d %s", item.ID, item.Title)))
	b.WriteString("\n")

	meta := []string{"Category: " + item.Category}
	if item.Brand != "" {
		meta = append([]string{"Brand: " + item.Brand}, meta...)
	}
	b.WriteString("  " + mutedStyle.Render(strings.Join(meta, "  ")) + "\n")

	price := priceStyle.Render(fmt.Sprintf("$%.2f", item.DiscountedPrice()))
	if item.DiscountedPrice() != item.Price {
		price += mutedStyle.Render(fmt.Sprintf(" (was $%.2f, -%.0f%%)", item.Price, item.DiscountPercentage))
	}
	b.WriteString(fmt.Sprintf("  Price: %s  Rating: %.1f  Stock: %d\n", price, item.Rating, item.Stock))

	if desc := strings.TrimSpace(item.Description); desc != "" {
		b.WriteString("  " + lipgloss.NewStyle().Width(76).Render(desc))
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderLogEntry formats one decoded log line.
func renderLogEntry(e logtail.Entry) string {
	if e.Level == "" {
		return e.Raw
	}

	ts := "--:--:--"
	if !e.Time.IsZero() {
		ts = e.Time.Local().Format("2006-01-02 15:04:05")
	}
	style, ok := levelStyles[e.Level]
	if !ok {
		style = mutedStyle
	}

	parts := []string{mutedStyle.Render(ts), style.Render(fmt.Sprintf("%-7s", strings.ToUpper(e.Level))), e.Msg}
	if e.Error != "" {
		parts = append(parts, levelStyles["error"].Render("error="+e.Error))
	}
	if fields := e.FieldString(); fields != "" {
		parts = append(parts, mutedStyle.Render(fields))
	}
	return strings.Join(parts, " ")
}
