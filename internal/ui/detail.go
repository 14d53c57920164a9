package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/storefront/internal/catalog"
	"github.com/five82/storefront/internal/state"
)

// handleDetailKey processes keyboard input for the detail screen. There is
// no retry here; going back and reopening starts a fresh fetch.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.detail.Unmount()
		m.route = Route{Screen: ScreenList}
		m.ensureSelectionVisible()
		return m, nil

	case key.Matches(msg, m.keys.Next):
		return m.step(1)

	case key.Matches(msg, m.keys.Prev):
		return m.step(-1)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// step moves the detail screen to a neighbouring visible item. The list
// selection follows so going back lands on the same row.
func (m Model) step(delta int) (tea.Model, tea.Cmd) {
	idx := m.visibleIndex(m.route.ID)
	if idx < 0 {
		return m, nil
	}
	next := idx + delta
	if next < 0 || next >= len(m.visible) {
		return m, nil
	}

	m.selected = next
	m.route = Route{Screen: ScreenDetail, ID: m.visible[next].PathID()}
	pending := m.detail.SetID(m.ctx, m.route.ID)
	if pending == nil {
		return m, nil
	}
	m.refreshDetail()
	m.viewport.GotoTop()
	return m, tea.Batch(runItem(pending), m.spinner.Tick)
}

func (m Model) visibleIndex(id string) int {
	for i, item := range m.visible {
		if item.PathID() == id {
			return i
		}
	}
	return -1
}

// refreshDetail rebuilds the viewport content from the detail store.
func (m *Model) refreshDetail() {
	if m.route.Screen != ScreenDetail {
		return
	}
	m.viewport.SetContent(m.detailContent(max(m.viewport.Width, 20)))
}

// renderDetail renders the detail screen body.
func (m Model) renderDetail() string {
	title := "Product " + m.route.ID
	if st := m.detail.State(); st.Phase == state.Loaded {
		title = st.Data.Title
	}
	body := m.viewport.View()
	if pct := m.viewport.ScrollPercent(); m.viewport.TotalLineCount() > m.viewport.Height {
		title = fmt.Sprintf("%s (%.0f%%)", title, pct*100)
	}
	return m.renderTitledBox(title, body, m.width, m.contentHeight(), true)
}

// detailContent formats the detail store's current state.
func (m Model) detailContent(width int) string {
	styles := m.theme.Styles()
	st := m.detail.State()

	switch st.Phase {
	case state.Idle:
		return ""
	case state.Loading:
		return m.spinner.View() + " " + styles.MutedText.Render("Loading product...")
	case state.Failed:
		return styles.DangerText.Render(st.Message) + "\n\n" +
			styles.MutedText.Render("Press esc to go back")
	}

	item := st.Data
	label := func(s string) string {
		return styles.MutedText.Render(padRight(s, 12))
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(item.Title))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", min(width, 40))))
	b.WriteString("\n\n")

	b.WriteString(label("Brand") + styles.Text.Render(orDash(item.Brand)) + "\n")
	b.WriteString(label("Category") + styles.InfoText.Render(item.Category) + "\n")
	b.WriteString(label("Price") + m.priceLine(item) + "\n")
	b.WriteString(label("Rating") + styles.WarningText.Render(formatRating(item.Rating)) + "\n")
	b.WriteString(label("Stock") + m.stockText(item.Stock) + "\n")

	b.WriteString("\n")
	b.WriteString(styles.AccentText.Bold(true).Render("Description"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Foreground(lipgloss.Color(m.theme.Text)).Render(item.Description))
	b.WriteString("\n")

	if len(item.Images) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.AccentText.Bold(true).Render(fmt.Sprintf("Images (%d)", len(item.Images))))
		b.WriteString("\n")
		for _, img := range item.Images {
			b.WriteString(styles.FaintText.Render("• ") + styles.MutedText.Render(truncateMiddle(img, width-2)) + "\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m Model) priceLine(item catalog.Item) string {
	styles := m.theme.Styles()
	discounted := item.DiscountedPrice()
	if discounted == item.Price {
		return styles.SuccessText.Render(formatPrice(item.Price))
	}
	return styles.SuccessText.Render(formatPrice(discounted)) + " " +
		styles.FaintText.Strikethrough(true).Render(formatPrice(item.Price)) + " " +
		styles.WarningText.Render(fmt.Sprintf("-%.0f%%", item.DiscountPercentage))
}

func (m Model) stockText(stock int) string {
	styles := m.theme.Styles()
	switch {
	case stock <= 0:
		return styles.DangerText.Render(stockLabel(stock))
	case stock < 10:
		return styles.WarningText.Render(stockLabel(stock))
	default:
		return styles.Text.Render(stockLabel(stock))
	}
}
