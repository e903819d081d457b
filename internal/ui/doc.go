// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI moves between four views:
//  1. [HomeView] : The Popular, Trending and Top Rated sections plus one entry per mood
//  2. [MoviesView] : The movies of a section or mood
//  3. [SearchView] : Search-as-you-type, debounced by a [tasks.Debouncer]
//  4. [DetailView] : A scrollable movie card with cast, trailer and related titles
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Homepage sections load through [tasks.Engine.LoadHome]; its progress updates flow through a channel so the spinner
// reports each section as it settles.
//
// Search keystrokes schedule a tea.Tick tagged with the debouncer's sequence number. Ticks and responses carrying an
// older number are dropped, so only the latest query ever reaches the screen.
//
// When results come from the offline catalog the header shows a passive demo-mode notice.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, /, f, w, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
