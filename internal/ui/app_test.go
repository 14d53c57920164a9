package ui

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/storefront/internal/catalog"
	"github.com/five82/storefront/internal/prefs"
	"github.com/five82/storefront/internal/query"
	"github.com/five82/storefront/internal/state"
)

type fakeFetcher struct {
	items        []catalog.Item
	catalogErrs  []error
	catalogCalls int
	itemCalls    []string
}

func (f *fakeFetcher) FetchCatalog(_ context.Context, _ int) ([]catalog.Item, error) {
	call := f.catalogCalls
	f.catalogCalls++
	if call < len(f.catalogErrs) && f.catalogErrs[call] != nil {
		return nil, f.catalogErrs[call]
	}
	return f.items, nil
}

func (f *fakeFetcher) FetchItem(_ context.Context, id string) (catalog.Item, error) {
	f.itemCalls = append(f.itemCalls, id)
	n, err := catalog.ParseID(id)
	if err != nil {
		return catalog.Item{}, err
	}
	for _, item := range f.items {
		if item.ID == n {
			return item, nil
		}
	}
	return catalog.Item{}, &catalog.Error{Kind: catalog.ErrNotFound, Op: "fetch item"}
}

func fixtureItems() []catalog.Item {
	return []catalog.Item{
		{ID: 1, Title: "Red Lipstick", Description: "Bold red", Price: 12.99, Category: "beauty", Rating: 2.5, Brand: "Chic", Stock: 68},
		{ID: 2, Title: "apple", Description: "Crisp fruit", Price: 1.99, Category: "groceries", Rating: 4.2, Stock: 9},
		{ID: 3, Title: "Bed", Description: "Wooden frame", Price: 1899.99, Category: "furniture", Rating: 4.8, Stock: 47, DiscountPercentage: 10},
		{ID: 4, Title: "Mascara", Description: "Lash volume", Price: 9.99, Category: "beauty", Rating: 4.9, Stock: 5},
	}
}

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func plain(s string) string {
	return ansi.ReplaceAllString(s, "")
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drain runs cmd and every command it produces, feeding fetch results back
// into the model. Timers and other messages are dropped.
func drain(m Model, cmd tea.Cmd) Model {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case catalogResultMsg, itemResultMsg:
			next, nextCmd := m.Update(msg)
			m = next.(Model)
			queue = append(queue, nextCmd)
		}
	}
	return m
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		next, cmd := m.Update(keyPress(k))
		m = drain(next.(Model), cmd)
	}
	return m
}

func newTestModel(t *testing.T, f *fakeFetcher, width, height int) Model {
	t.Helper()
	m := New(Options{
		Fetcher:   f,
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return drain(next.(Model), m.Init())
}

func visibleIDs(m Model) []int {
	ids := make([]int, 0, len(m.Visible()))
	for _, item := range m.Visible() {
		ids = append(ids, item.ID)
	}
	return ids
}

func TestModel_LoadsCatalogOnInit(t *testing.T) {
	f := &fakeFetcher{items: fixtureItems()}
	m := newTestModel(t, f, 100, 30)

	assert.Equal(t, state.Loaded, m.catalog.State().Phase)
	assert.Equal(t, []int{2, 3, 4, 1}, visibleIDs(m), "title order is collated, not byte order")
	assert.Equal(t, []string{"all", "beauty", "groceries", "furniture"}, m.categories)

	view := plain(m.View())
	assert.Contains(t, view, "Products (4)")
	assert.Contains(t, view, "Red Lipstick")
	assert.Contains(t, view, "Title A–Z")
}

func TestModel_ViewBeforeResize(t *testing.T) {
	m := New(Options{Fetcher: &fakeFetcher{}})
	assert.Equal(t, "Loading...", m.View())
}

func TestModel_LoadingShowsSpinnerText(t *testing.T) {
	m := New(Options{Fetcher: &fakeFetcher{}, PrefsPath: filepath.Join(t.TempDir(), "p.toml")})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	m = next.(Model)
	_ = m.Init()

	assert.Equal(t, state.Loading, m.catalog.State().Phase)
	assert.Contains(t, plain(m.View()), "Loading products...")
}

func TestModel_SearchIsLive(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{items: fixtureItems()}, 100, 30)

	m = press(m, "/", "l", "i", "p")
	assert.True(t, m.searching)
	assert.Equal(t, "lip", m.Query().Search)
	assert.Equal(t, []int{1}, visibleIDs(m))

	m = press(m, "enter")
	assert.False(t, m.searching)
	assert.Equal(t, "lip", m.Query().Search, "enter keeps the search")

	m = press(m, "/", "esc")
	assert.False(t, m.searching)
	assert.Empty(t, m.Query().Search, "esc clears the search")
	assert.Len(t, m.Visible(), 4)
}

func TestModel_SearchMatchesDescription(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{items: fixtureItems()}, 100, 30)

	m = press(m, "/", "L", "A", "S", "H", "enter")
	assert.Equal(t, []int{4}, visibleIDs(m))
}

func TestModel_SortAndCategoryControls(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{items: fixtureItems()}, 100, 30)

	m = press(m, "s")
	assert.Equal(t, query.PriceAscending, m.Query().Sort)
	assert.Equal(t, []int{2, 4, 1, 3}, visibleIDs(m))

	m = press(m, "c")
	assert.Equal(t, "beauty", m.Query().Category)
	assert.Equal(t, []int{4, 1}, visibleIDs(m))

	m = press(m, "s")
	assert.Equal(t, query.PriceDescending, m.Query().Sort)
	assert.Equal(t, []int{1, 4}, visibleIDs(m))

	m = press(m, "C")
	assert.Equal(t, query.AllCategories, m.Query().Category)
	assert.Equal(t, []int{3, 1, 4, 2}, visibleIDs(m))

	m = press(m, "s")
	assert.Equal(t, query.TitleAscending, m.Query().Sort)
}

func TestModel_SelectionFollowsItemAcrossRecompute(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{items: fixtureItems()}, 100, 30)

	m = press(m, "j")
	require.Equal(t, 3, m.selectedItem().ID)

	m = press(m, "s")
	assert.Equal(t, 3, m.selectedItem().ID)
	assert.Equal(t, 3, m.selected, "Bed is most expensive, last under price ascending")
}

func TestModel_RowsAreWindowed(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{items: fixtureItems()}, 100, 8)
	require.Equal(t, 3, m.rowsHeight())

	view := plain(m.View())
	assert.Contains(t, view, "apple")
	assert.NotContains(t, view, "Red Lipstick")

	m = press(m, "G")
	assert.Equal(t, 3, m.selected)
	assert.Equal(t, 1, m.offset)
	view = plain(m.View())
	assert.Contains(t, view, "Red Lipstick")
	assert.NotContains(t, view, "apple")

	m = press(m, "g")
	assert.Equal(t, 0, m.offset)

	m = press(m, "pgdown")
	assert.Equal(t, 3, m.selected)
}

func assertViewFits(t *testing.T, m Model, width, height int, screen string) {
	t.Helper()
	lines := strings.Split(m.View(), "\n")
	require.Len(t, lines, height, "%s at %dx%d", screen, width, height)
	for i, line := range lines {
		assert.LessOrEqual(t, lipgloss.Width(line), width, "%s line %d at width %d: %q", screen, i, width, plain(line))
	}
	assert.Contains(t, plain(lines[0]), "storefront", "%s header stays on the first line", screen)
}

func TestModel_ViewFitsTerminal(t *testing.T) {
	const height = 12
	for _, width := range []int{24, 40, 80, 120} {
		m := newTestModel(t, &fakeFetcher{items: fixtureItems()}, width, height)
		assertViewFits(t, m, width, height, "list")

		searching := press(m, "/", "r", "e", "d")
		assertViewFits(t, searching, width, height, "search")

		detail := press(m, "enter")
		require.Equal(t, ScreenDetail, detail.Route().Screen)
		assertViewFits(t, detail, width, height, "detail")

		failed := newTestModel(t, &fakeFetcher{
			catalogErrs: []error{&catalog.Error{Kind: catalog.ErrNetwork, Err: errors.New("connection refused")}},
		}, width, height)
		assertViewFits(t, failed, width, height, "failed")
	}
}

func TestModel_NarrowRowsDropIDColumn(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{items: fixtureItems()}, 24, 12)
	view := plain(m.View())
	assert.NotContains(t, view, "#2")
	assert.Contains(t, view, "apple")

	m = newTestModel(t, &fakeFetcher{items: fixtureItems()}, 80, 12)
	assert.Contains(t, plain(m.View()), "#2")
}

func TestModel_OpenDetailAndNavigate(t *testing.T) {
	f := &fakeFetcher{items: fixtureItems()}
	m := newTestModel(t, f, 100, 30)

	m = press(m, "enter")
	assert.Equal(t, Route{Screen: ScreenDetail, ID: "2"}, m.Route())
	assert.Equal(t, state.Loaded, m.detail.State().Phase)
	assert.Equal(t, "apple", m.detail.State().Data.Title)

	view := plain(m.View())
	assert.Contains(t, view, "Crisp fruit")
	assert.Contains(t, view, "Low stock (9)")
	assert.Contains(t, view, "/products/2")

	m = press(m, "n")
	assert.Equal(t, "3", m.Route().ID)
	assert.Equal(t, "Bed", m.detail.State().Data.Title)
	assert.Contains(t, plain(m.View()), "-10%")

	m = press(m, "p", "p")
	assert.Equal(t, "2", m.Route().ID, "p stops at the first visible item")

	m = press(m, "esc")
	assert.Equal(t, ScreenList, m.Route().Screen)
	assert.Equal(t, 0, m.selected)
	assert.Equal(t, []string{"2", "3", "2"}, f.itemCalls)
}

func TestModel_DetailFollowsVisibleOrder(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{items: fixtureItems()}, 100, 30)

	m = press(m, "c", "enter")
	require.Equal(t, "4", m.Route().ID, "Mascara sorts first among beauty")
	m = press(m, "n")
	assert.Equal(t, "1", m.Route().ID)
	m = press(m, "n")
	assert.Equal(t, "1", m.Route().ID, "n stops at the last visible item")

	m = press(m, "b")
	assert.Equal(t, 1, m.selected)
}

func TestModel_LateDetailResultIsDropped(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{items: fixtureItems()}, 100, 30)

	next, cmd := m.Update(keyPress("enter"))
	m = next.(Model)
	require.Equal(t, state.Loading, m.detail.State().Phase)

	m = press(m, "esc")
	m = drain(m, cmd)

	assert.Equal(t, ScreenList, m.Route().Screen)
	assert.Equal(t, state.Loading, m.detail.State().Phase, "unmounted store ignores the result")
}

func TestModel_RetryAfterCatalogFailure(t *testing.T) {
	f := &fakeFetcher{
		items:       fixtureItems(),
		catalogErrs: []error{&catalog.Error{Kind: catalog.ErrNetwork, Op: "fetch catalog", Err: errors.New("connection refused")}},
	}
	m := newTestModel(t, f, 100, 30)

	require.Equal(t, state.Failed, m.catalog.State().Phase)
	view := plain(m.View())
	assert.Contains(t, view, "Could not reach the server")
	assert.Contains(t, view, "Press r to retry")

	m = press(m, "enter", "j")
	assert.Equal(t, ScreenList, m.Route().Screen)

	m = press(m, "r")
	assert.Equal(t, state.Loaded, m.catalog.State().Phase)
	assert.Len(t, m.Visible(), 4)
	assert.Equal(t, 2, f.catalogCalls)

	m = press(m, "r")
	assert.Equal(t, 2, f.catalogCalls, "retry is only offered after a failure")
}

func TestModel_DetailFailureHasNoRetry(t *testing.T) {
	items := fixtureItems()
	f := &fakeFetcher{items: items}
	m := newTestModel(t, f, 100, 30)

	f.items = items[1:]
	m = press(m, "G", "enter")
	require.Equal(t, "1", m.Route().ID)
	assert.Equal(t, state.Failed, m.detail.State().Phase)
	assert.Contains(t, plain(m.View()), "Product not found")

	m = press(m, "r")
	assert.Equal(t, []string{"1"}, f.itemCalls)
	assert.Equal(t, state.Failed, m.detail.State().Phase)
}

func TestModel_ThemeCyclePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	m := New(Options{Fetcher: &fakeFetcher{}, PrefsPath: path, ThemeName: "Slate"})
	require.Equal(t, "Slate", m.theme.Name)

	m = press(m, "T")
	assert.Equal(t, "Nightfox", m.theme.Name)
	assert.Equal(t, "Nightfox", prefs.Load(path, nil).Theme)
}

func TestModel_HelpOverlay(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{items: fixtureItems()}, 100, 40)

	m = press(m, "?")
	view := plain(m.View())
	assert.Contains(t, view, "Keyboard Shortcuts")
	assert.Contains(t, view, "Cycle sort")

	m = press(m, "s")
	assert.False(t, m.showHelp)
	assert.Equal(t, query.TitleAscending, m.Query().Sort, "closing help swallows the key")
}

func TestModel_QuitUnmountsStores(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{items: fixtureItems()}, 100, 30)

	next, cmd := m.Update(keyPress("q"))
	require.NotNil(t, cmd)
	_, isQuit := cmd().(tea.QuitMsg)
	assert.True(t, isQuit)

	_, ok := next.(Model).catalog.Retry(context.Background())
	assert.False(t, ok)
}

func TestModel_SearchInputSwallowsControlKeys(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{items: fixtureItems()}, 100, 30)

	m = press(m, "/", "s", "q")
	assert.Equal(t, query.TitleAscending, m.Query().Sort)
	assert.Equal(t, "sq", m.Query().Search)
	assert.Empty(t, m.Visible())
	assert.Contains(t, plain(m.View()), "No products match")

	next, cmd := m.Update(keyPress("ctrl+c"))
	require.NotNil(t, cmd)
	_, isQuit := cmd().(tea.QuitMsg)
	assert.True(t, isQuit)
	_ = next
}

func TestListTitle(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{items: fixtureItems()}, 100, 30)
	assert.Equal(t, "Products (4)", m.listTitle())

	m = press(m, "c")
	assert.Equal(t, "Products (2/4)", m.listTitle())
}
