package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/cmlabs-hris/hris-agent-go/internal/config"
)

type keyMap struct {
	CheckIn   key.Binding
	CheckOut  key.Binding
	LeaveForm key.Binding
	Timesheet key.Binding
	NextField key.Binding
	CycleType key.Binding
	Submit    key.Binding
	Back      key.Binding
	Quit      key.Binding
}

func newKeyMap(cfg *config.Keymap) keyMap {
	return keyMap{
		CheckIn: key.NewBinding(
			key.WithKeys(cfg.CheckIn...),
			key.WithHelp(first(cfg.CheckIn), "check in"),
		),
		CheckOut: key.NewBinding(
			key.WithKeys(cfg.CheckOut...),
			key.WithHelp(first(cfg.CheckOut), "check out"),
		),
		LeaveForm: key.NewBinding(
			key.WithKeys(cfg.LeaveForm...),
			key.WithHelp(first(cfg.LeaveForm), "request leave"),
		),
		Timesheet: key.NewBinding(
			key.WithKeys(cfg.Timesheet...),
			key.WithHelp(first(cfg.Timesheet), "timesheet"),
		),
		NextField: key.NewBinding(
			key.WithKeys(cfg.NextField...),
			key.WithHelp(first(cfg.NextField), "next field"),
		),
		CycleType: key.NewBinding(
			key.WithKeys(cfg.CycleType...),
			key.WithHelp(first(cfg.CycleType), "leave type"),
		),
		Submit: key.NewBinding(
			key.WithKeys(cfg.Submit...),
			key.WithHelp(first(cfg.Submit), "submit"),
		),
		Back: key.NewBinding(
			key.WithKeys(cfg.Back...),
			key.WithHelp(first(cfg.Back), "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys(cfg.Quit...),
			key.WithHelp(first(cfg.Quit), "quit"),
		),
	}
}

func first(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}
