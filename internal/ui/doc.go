// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow over the character sheet data service:
//  1. [ListView] : Browse character sheets
//  2. [DetailView] : Inspect the selected sheet
//  3. [FormView] : Fill in a draft and save it as a new sheet
//  4. [ConfirmDeleteView] : Confirm a delete
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
//
// Views never hold their own copy of server state. The model subscribes to the service's observable wrappers and every
// emission arrives as a snapshot message through a channel, read one at a time by a waiting [tea.Cmd].
// Service calls run as commands, so the UI never blocks on the network.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
