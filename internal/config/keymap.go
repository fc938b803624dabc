package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Keymap holds the terminal UI keybindings, overridable from a TOML file.
type Keymap struct {
	CheckIn   []string `toml:"check_in"`
	CheckOut  []string `toml:"check_out"`
	LeaveForm []string `toml:"leave_form"`
	Timesheet []string `toml:"timesheet"`
	NextField []string `toml:"next_field"`
	CycleType []string `toml:"cycle_type"`
	Submit    []string `toml:"submit"`
	Back      []string `toml:"back"`
	Quit      []string `toml:"quit"`
}

// DefaultKeymap returns the built-in bindings.
func DefaultKeymap() *Keymap {
	return &Keymap{
		CheckIn:   []string{"i"},
		CheckOut:  []string{"o"},
		LeaveForm: []string{"l"},
		Timesheet: []string{"t"},
		NextField: []string{"tab"},
		CycleType: []string{"ctrl+t"},
		Submit:    []string{"enter"},
		Back:      []string{"esc"},
		Quit:      []string{"q", "ctrl+c"},
	}
}

// LoadKeymap reads bindings from path, falling back to the defaults when the
// path is empty or the file is absent. Keys missing from the file keep their
// defaults.
func LoadKeymap(path string) (*Keymap, error) {
	keymap := DefaultKeymap()
	if path == "" {
		return keymap, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return keymap, nil
	}
	if _, err := toml.DecodeFile(path, keymap); err != nil {
		return nil, err
	}
	return keymap, nil
}
