package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/storefront/internal/catalog"
	"github.com/five82/storefront/internal/query"
	"github.com/five82/storefront/internal/state"
)

// handleListKey processes keyboard input for the list screen.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		cmd := m.search.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.CycleSort):
		m.query.Sort = m.query.Sort.Next()
		m.recompute()
		return m, nil

	case key.Matches(msg, m.keys.CycleCategory):
		m.query.Category = query.NextCategory(m.categories, m.query.Category)
		m.recompute()
		return m, nil

	case key.Matches(msg, m.keys.ResetCategory):
		m.query.Category = query.AllCategories
		m.recompute()
		return m, nil

	case key.Matches(msg, m.keys.Retry):
		pending, ok := m.catalog.Retry(m.ctx)
		if !ok {
			return m, nil
		}
		m.recompute()
		return m, tea.Batch(runCatalog(pending), m.spinner.Tick)

	case key.Matches(msg, m.keys.Open):
		return m.openSelected()
	}

	count := len(m.visible)
	if count == 0 {
		return m, nil
	}
	page := m.rowsHeight()
	switch {
	case key.Matches(msg, m.keys.Down):
		m.selected = min(m.selected+1, count-1)
	case key.Matches(msg, m.keys.Up):
		m.selected = max(m.selected-1, 0)
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = count - 1
	case key.Matches(msg, m.keys.PageDown):
		m.selected = min(m.selected+page, count-1)
	case key.Matches(msg, m.keys.PageUp):
		m.selected = max(m.selected-page, 0)
	}
	m.ensureSelectionVisible()
	return m, nil
}

// handleSearchKey routes input to the search box. Every edit recomputes the
// visible subset immediately.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m.quit()
	case key.Matches(msg, m.keys.Confirm):
		m.searching = false
		m.search.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.query.Search = ""
		m.recompute()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if value := m.search.Value(); value != m.query.Search {
		m.query.Search = value
		m.recompute()
	}
	return m, cmd
}

// openSelected navigates to the detail screen for the selected row.
func (m Model) openSelected() (tea.Model, tea.Cmd) {
	item := m.selectedItem()
	if item == nil {
		return m, nil
	}
	route, err := ParseRoute(DetailPath(item.ID))
	if err != nil {
		m.log.WithError(err).Warn("navigate")
		return m, nil
	}
	m.route = route
	pending := m.detail.Mount(m.ctx, route.ID)
	m.refreshDetail()
	m.viewport.GotoTop()
	return m, tea.Batch(runItem(pending), m.spinner.Tick)
}

// recompute reruns the query pipeline over the loaded catalog, keeping the
// selection on the same item when it is still visible.
func (m *Model) recompute() {
	var selectedID int
	if item := m.selectedItem(); item != nil {
		selectedID = item.ID
	}

	st := m.catalog.State()
	if st.Phase != state.Loaded {
		m.visible = nil
		m.categories = []string{query.AllCategories}
		m.selected, m.offset = 0, 0
		return
	}

	m.categories = query.Categories(st.Data)
	m.visible = query.VisibleIn(m.locale, st.Data, m.query)

	m.selected = min(m.selected, max(len(m.visible)-1, 0))
	if selectedID > 0 {
		for i, item := range m.visible {
			if item.ID == selectedID {
				m.selected = i
				break
			}
		}
	}
	m.ensureSelectionVisible()
}

// ensureSelectionVisible scrolls the row window so the selection is drawn.
func (m *Model) ensureSelectionVisible() {
	rows := m.rowsHeight()
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+rows {
		m.offset = m.selected - rows + 1
	}
	m.offset = max(min(m.offset, len(m.visible)-rows), 0)
}

func (m Model) selectedItem() *catalog.Item {
	if m.selected < 0 || m.selected >= len(m.visible) {
		return nil
	}
	return &m.visible[m.selected]
}

// renderList renders the list screen body.
func (m Model) renderList() string {
	styles := m.theme.Styles()
	height := m.contentHeight()
	st := m.catalog.State()

	var body string
	switch st.Phase {
	case state.Idle, state.Loading:
		body = m.spinner.View() + " " + styles.MutedText.Render("Loading products...")
		body = lipgloss.Place(m.width-2, height-boxBorderLines, lipgloss.Center, lipgloss.Center, body)
	case state.Failed:
		body = styles.DangerText.Render(st.Message) + "\n\n" +
			styles.MutedText.Render("Press r to retry")
		body = lipgloss.Place(m.width-2, height-boxBorderLines, lipgloss.Center, lipgloss.Center, body)
	default:
		if len(m.visible) == 0 {
			body = lipgloss.Place(m.width-2, height-boxBorderLines, lipgloss.Center, lipgloss.Center,
				styles.MutedText.Render("No products match"))
		} else {
			body = m.renderRows(m.width - 2)
		}
	}

	return m.renderTitledBox(m.listTitle(), body, m.width, height, true)
}

// renderRows draws only the rows inside the current window.
func (m Model) renderRows(width int) string {
	end := min(m.offset+m.rowsHeight(), len(m.visible))
	lines := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		selected := i == m.selected
		bgColor := m.theme.FocusBg
		if selected {
			bgColor = m.theme.SelectionBg
		}
		content := m.formatRow(m.visible[i], width, bgColor, selected)
		lines = append(lines, NewBgStyle(bgColor).FillLine(content, width))
	}
	return strings.Join(lines, "\n")
}

// formatRow formats a product row: "#ID Title · category  $price".
func (m Model) formatRow(item catalog.Item, width int, bgColor string, selected bool) string {
	bg := NewBgStyle(bgColor)

	idStr := padLeft(fmt.Sprintf("#%d", item.ID), 5)
	priceStr := padLeft(formatPrice(item.Price), 10)
	showCategory := m.width >= LayoutCompactWidth
	showID := true
	fixed := len(idStr) + len(priceStr) + 2
	if showCategory {
		fixed += categoryColumnWidth + 3
	}
	if width-fixed < minTitleWidth {
		showID = false
		fixed -= len(idStr) + 1
	}
	titleWidth := max(width-fixed, minTitleWidth)

	var idStyle, titleStyle, sepStyle, catStyle, priceStyle lipgloss.Style
	if selected {
		sel := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		idStyle, titleStyle, sepStyle, catStyle, priceStyle = sel, sel.Bold(true), sel, sel, sel
	} else {
		styles := m.theme.Styles()
		idStyle, titleStyle, sepStyle = styles.MutedText, styles.Text, styles.FaintText
		catStyle, priceStyle = styles.InfoText, styles.SuccessText
	}

	row := bg.Render(padRight(truncate(item.Title, titleWidth), titleWidth), titleStyle)
	if showID {
		row = bg.Render(idStr, idStyle) + bg.Space() + row
	}
	if showCategory {
		row += bg.Render(" · ", sepStyle) +
			bg.Render(padRight(truncate(item.Category, categoryColumnWidth), categoryColumnWidth), catStyle)
	}
	return row + bg.Space() + bg.Render(priceStr, priceStyle)
}

func (m Model) listTitle() string {
	st := m.catalog.State()
	if st.Phase != state.Loaded {
		return "Products"
	}
	if len(m.visible) == len(st.Data) {
		return fmt.Sprintf("Products (%d)", len(st.Data))
	}
	return fmt.Sprintf("Products (%d/%d)", len(m.visible), len(st.Data))
}

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{bg.Render("storefront", styles.Logo)}

	st := m.catalog.State()
	switch st.Phase {
	case state.Loading:
		parts = append(parts, bg.Render("Loading...", styles.WarningText.Bold(true)))
	case state.Failed:
		parts = append(parts, bg.Render("Offline", styles.DangerText))
	case state.Loaded:
		parts = append(parts,
			bg.Render("Showing:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d of %d", len(m.visible), len(st.Data)), styles.Text))
	}

	parts = append(parts,
		bg.Render("Sort:", styles.MutedText)+bg.Space()+bg.Render(m.query.Sort.Label(), styles.AccentText),
		bg.Render("Category:", styles.MutedText)+bg.Space()+bg.Render(m.query.Category, styles.InfoText),
	)

	if m.route.Screen == ScreenDetail {
		parts = append(parts, bg.Render(m.route.Path(), styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(clipLine(bg.Join(parts, "  "), max(m.width-2, 0)))
}

// renderCommandBar renders the contextual key hints.
func (m Model) renderCommandBar() string {
	bindings := m.keys.listShortHelp()
	switch {
	case m.searching:
		bindings = m.keys.searchShortHelp()
	case m.route.Screen == ScreenDetail:
		bindings = m.keys.detailShortHelp()
	case m.catalog.State().Phase == state.Failed:
		bindings = append([]key.Binding{m.keys.Retry}, bindings...)
	}
	return NewBgStyle(m.theme.Surface).FillLine(" "+m.help.ShortHelpView(bindings), m.width)
}

// renderSearchLine shows the search input while editing, otherwise the
// active search term.
func (m Model) renderSearchLine() string {
	styles := m.theme.Styles()
	var line string
	switch {
	case m.searching:
		line = " " + m.search.View()
	case m.query.Search != "":
		line = " " + styles.MutedText.Render("Search:") + " " + styles.Text.Render(m.query.Search)
	default:
		line = " " + styles.FaintText.Render("Press / to search")
	}
	return clipLine(line, m.width)
}
