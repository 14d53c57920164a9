// Package ui is the storefront terminal interface, built on Bubble Tea.
//
// Two screens share one Model. The list screen owns the catalog store and
// the current query; the detail screen owns the detail store and is reached
// through a navigation path of the form /products/{id}. The list stays
// mounted underneath the detail screen, so its query and selection survive
// a round trip and n/p can step through the visible items.
//
// Network fetches run as tea.Cmd functions and report back through
// catalogResultMsg and itemResultMsg. Stores are only mutated inside Update,
// so a result that arrives after its screen was left is dropped by the
// store's generation check.
//
// Rows are drawn through a window over the visible subset: only the rows
// that fit between the header and the bottom border are rendered, and the
// window follows the selection.
package ui
