package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the global console bindings. View switching sits on digits
// so per-view letter keys never collide with navigation.
type keyMap struct {
	Overview     key.Binding
	Transactions key.Binding
	Search       key.Binding
	Fraud        key.Binding
	Customers    key.Binding
	Routes       key.Binding
	History      key.Binding
	Fetch        key.Binding
	Export       key.Binding
	Probe        key.Binding
	Quit         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Overview:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "overview")),
		Transactions: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "transactions")),
		Search:       key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "search")),
		Fraud:        key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "fraud")),
		Customers:    key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "customers")),
		Routes:       key.NewBinding(key.WithKeys("6"), key.WithHelp("6", "routes")),
		History:      key.NewBinding(key.WithKeys("7"), key.WithHelp("7", "history")),
		Fetch:        key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "fetch")),
		Export:       key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export csv")),
		Probe:        key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "probe backend")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}
