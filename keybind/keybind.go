// Package keybind describes key bindings as normalized key strings, such as
// "ctrl+r" or "pgdn", together with the text shown for them in help bars.
package keybind

import (
	"slices"
	"strings"

	"github.com/gdamore/tcell/v3"
)

type Keybind struct {
	keys     []string
	help     Help
	disabled bool
}

type Option func(*Keybind)

func NewKeybind(options ...Option) Keybind {
	k := &Keybind{}
	for _, option := range options {
		option(k)
	}
	return *k
}

func WithKeys(keys ...string) Option {
	return func(k *Keybind) {
		k.keys = normalizeKeys(keys...)
	}
}

func WithHelp(key, desc string) Option {
	return func(k *Keybind) {
		k.help = Help{Key: key, Desc: desc}
	}
}

// WithDisabled creates the binding in the disabled state.
func WithDisabled() Option {
	return func(k *Keybind) {
		k.disabled = true
	}
}

func (k Keybind) Keys() []string {
	return k.keys
}

func (k *Keybind) SetKeys(keys ...string) {
	k.keys = normalizeKeys(keys...)
}

func (k Keybind) Help() Help {
	return k.help
}

func (k *Keybind) SetHelp(key, desc string) {
	k.help = Help{Key: key, Desc: desc}
}

// Enabled reports whether the binding matches events and shows up in help.
func (k Keybind) Enabled() bool {
	return !k.disabled && len(k.keys) > 0
}

func (k *Keybind) SetEnabled(enabled bool) {
	k.disabled = !enabled
}

type Help struct {
	Key  string
	Desc string
}

// Matches reports whether event triggers any of the enabled keybinds.
func Matches(event *tcell.EventKey, keybinds ...Keybind) bool {
	key := eventKeyString(event)
	if key == "" {
		return false
	}
	return slices.ContainsFunc(keybinds, func(k Keybind) bool {
		return k.Enabled() && slices.Contains(k.keys, key)
	})
}

// modifiers in the order they appear in a normalized key.
var modifiers = []string{"ctrl", "alt", "shift", "meta"}

var modifierAliases = map[string]string{
	"ctrl":    "ctrl",
	"control": "ctrl",
	"alt":     "alt",
	"shift":   "shift",
	"meta":    "meta",
}

var keyAliases = map[string]string{
	"escape":   "esc",
	"return":   "enter",
	"pageup":   "pgup",
	"pagedown": "pgdn",
}

var keyNames = map[tcell.Key]string{
	tcell.KeyEnter:      "enter",
	tcell.KeyEscape:     "esc",
	tcell.KeyTab:        "tab",
	tcell.KeyBacktab:    "tab",
	tcell.KeyHome:       "home",
	tcell.KeyEnd:        "end",
	tcell.KeyUp:         "up",
	tcell.KeyDown:       "down",
	tcell.KeyLeft:       "left",
	tcell.KeyRight:      "right",
	tcell.KeyPgUp:       "pgup",
	tcell.KeyPgDn:       "pgdn",
	tcell.KeyDelete:     "delete",
	tcell.KeyBackspace:  "backspace",
	tcell.KeyBackspace2: "backspace",
	tcell.KeyInsert:     "insert",
}

func normalizeKeys(keys ...string) []string {
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		if key = normalizeKey(key); key != "" {
			out = append(out, key)
		}
	}
	return out
}

// normalizeKey turns a user written key such as "Ctrl+R", "ctrl-r" or
// "PageDown" into the form produced by eventKeyString.
func normalizeKey(key string) string {
	key = strings.TrimSpace(key)
	if lower := strings.ToLower(key); strings.HasPrefix(lower, "ctrl-") && len(key) > len("ctrl-") {
		key = "ctrl+" + key[len("ctrl-"):]
	}

	mods := make(map[string]bool)
	primary := ""
	for _, part := range strings.Split(key, "+") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if mod, ok := modifierAliases[strings.ToLower(part)]; ok {
			mods[mod] = true
			continue
		}
		primary = part
	}
	if primary == "" {
		return ""
	}

	if strings.HasPrefix(primary, "Rune[") && strings.HasSuffix(primary, "]") && len(primary) > len("Rune[]") {
		primary = primary[len("Rune[") : len(primary)-1]
	}
	if len([]rune(primary)) > 1 || len(mods) > 0 {
		primary = strings.ToLower(primary)
	}
	if alias, ok := keyAliases[primary]; ok {
		primary = alias
	}
	if primary == "backtab" {
		primary = "tab"
		mods["shift"] = true
	}
	return join(mods, primary)
}

// eventKeyString renders event in normalized form.
func eventKeyString(event *tcell.EventKey) string {
	if event == nil {
		return ""
	}

	key := event.Key()
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		return "ctrl+" + string(rune('a'+(key-tcell.KeyCtrlA)))
	}

	primary, named := keyNames[key]
	if !named && key == tcell.KeyRune {
		primary = event.Str()
	}
	if primary == "" {
		return normalizeKey(event.Name())
	}

	mask := event.Modifiers()
	mods := map[string]bool{
		"ctrl":  mask&tcell.ModCtrl != 0,
		"alt":   mask&tcell.ModAlt != 0,
		"shift": mask&tcell.ModShift != 0 || key == tcell.KeyBacktab,
		"meta":  mask&tcell.ModMeta != 0,
	}
	if key == tcell.KeyRune {
		// Shift is already part of the rune.
		mods["shift"] = false
		if mods["ctrl"] || mods["alt"] || mods["meta"] {
			primary = strings.ToLower(primary)
		}
	}
	return join(mods, primary)
}

func join(mods map[string]bool, primary string) string {
	var b strings.Builder
	for _, mod := range modifiers {
		if mods[mod] {
			b.WriteString(mod)
			b.WriteByte('+')
		}
	}
	b.WriteString(primary)
	return b.String()
}
