// Package app is the composition root for storefront.
//
// Every command goes through the same setup: load the config file, apply
// STOREFRONT_* environment overrides and then command-line overrides, open
// the JSON log file, and build a catalog.Client. From there:
//
//   - Run starts the Bubble Tea interface (package ui).
//   - List fetches the catalog once and prints the query pipeline's output
//     as a lipgloss table.
//   - Show fetches several products concurrently with an errgroup and
//     prints them in argument order.
//   - ServeDemo serves the embedded fixture catalog (package demoapi).
//   - Logs prints the tail of the log file (package logtail).
//
// The interface owns the terminal while it runs, so nothing in this package
// logs to stdout or stderr.
package app
