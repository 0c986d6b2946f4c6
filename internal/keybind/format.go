package keybind

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

var modifierNames = []struct {
	mod  fyne.KeyModifier
	name string
}{
	{fyne.KeyModifierControl, "Ctrl"},
	{fyne.KeyModifierAlt, "Alt"},
	{fyne.KeyModifierShift, "Shift"},
	{fyne.KeyModifierSuper, "Super"},
}

var modifierAliases = map[string]fyne.KeyModifier{
	"ctrl":    fyne.KeyModifierControl,
	"control": fyne.KeyModifierControl,
	"alt":     fyne.KeyModifierAlt,
	"option":  fyne.KeyModifierAlt,
	"shift":   fyne.KeyModifierShift,
	"super":   fyne.KeyModifierSuper,
	"cmd":     fyne.KeyModifierSuper,
	"meta":    fyne.KeyModifierSuper,
}

// fyne names some keys after X11 keysyms.
var keyDisplayNames = map[fyne.KeyName]string{
	fyne.KeyPageUp:   "PageUp",
	fyne.KeyPageDown: "PageDown",
}

var keyAliases = map[string]fyne.KeyName{
	"pageup":   fyne.KeyPageUp,
	"pgup":     fyne.KeyPageUp,
	"prior":    fyne.KeyPageUp,
	"pagedown": fyne.KeyPageDown,
	"pgdn":     fyne.KeyPageDown,
	"next":     fyne.KeyPageDown,
	"up":       fyne.KeyUp,
	"down":     fyne.KeyDown,
	"left":     fyne.KeyLeft,
	"right":    fyne.KeyRight,
	"home":     fyne.KeyHome,
	"end":      fyne.KeyEnd,
	"space":    fyne.KeySpace,
	"tab":      fyne.KeyTab,
	"esc":      fyne.KeyEscape,
	"escape":   fyne.KeyEscape,
	"enter":    fyne.KeyReturn,
	"return":   fyne.KeyReturn,
	"delete":   fyne.KeyDelete,
	"del":      fyne.KeyDelete,
	"comma":    fyne.KeyComma,
	",":        fyne.KeyComma,
	"equal":    fyne.KeyEqual,
	"=":        fyne.KeyEqual,
	"minus":    fyne.KeyMinus,
	"-":        fyne.KeyMinus,
	"period":   fyne.KeyPeriod,
	".":        fyne.KeyPeriod,
	"slash":    fyne.KeySlash,
	"/":        fyne.KeySlash,
}

// Format renders a shortcut as "Ctrl+Shift+Up".
func Format(s fyne.KeyboardShortcut) string {
	var parts []string
	for _, m := range modifierNames {
		if s.Mod()&m.mod != 0 {
			parts = append(parts, m.name)
		}
	}
	key := string(s.Key())
	if name, ok := keyDisplayNames[s.Key()]; ok {
		key = name
	}
	return strings.Join(append(parts, key), "+")
}

// FormatGesture renders a gesture as "Ctrl+Click".
func FormatGesture(g Gesture) string {
	var parts []string
	for _, m := range modifierNames {
		if g.Modifier&m.mod != 0 {
			parts = append(parts, m.name)
		}
	}
	button := "Click"
	switch g.Button {
	case desktop.MouseButtonSecondary:
		button = "RightClick"
	case desktop.MouseButtonTertiary:
		button = "MiddleClick"
	}
	return strings.Join(append(parts, button), "+")
}

// Parse reads a shortcut such as "Ctrl+Shift+Up", "F2" or "Ctrl+-".
// Modifier and key names are case-insensitive.
func Parse(s string) (desktop.CustomShortcut, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return desktop.CustomShortcut{}, fmt.Errorf("keybind: empty shortcut")
	}

	// The key itself may be '+'.
	var keyPart string
	var mods []string
	if strings.HasSuffix(s, "++") || s == "+" {
		keyPart = "+"
		mods = strings.Split(strings.TrimSuffix(strings.TrimSuffix(s, "+"), "+"), "+")
	} else {
		parts := strings.Split(s, "+")
		keyPart = parts[len(parts)-1]
		mods = parts[:len(parts)-1]
	}

	var sc desktop.CustomShortcut
	for _, m := range mods {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		mod, ok := modifierAliases[strings.ToLower(m)]
		if !ok {
			return desktop.CustomShortcut{}, fmt.Errorf("keybind: unknown modifier %q in %q", m, s)
		}
		sc.Modifier |= mod
	}

	key, err := parseKey(strings.TrimSpace(keyPart))
	if err != nil {
		return desktop.CustomShortcut{}, fmt.Errorf("keybind: %w in %q", err, s)
	}
	sc.KeyName = key
	return sc, nil
}

func parseKey(k string) (fyne.KeyName, error) {
	if k == "" {
		return "", fmt.Errorf("missing key")
	}
	if k == "+" {
		return fyne.KeyName("+"), nil
	}
	if name, ok := keyAliases[strings.ToLower(k)]; ok {
		return name, nil
	}
	if len(k) == 1 {
		c := strings.ToUpper(k)[0]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			return fyne.KeyName(string(c)), nil
		}
	}
	if (k[0] == 'F' || k[0] == 'f') && len(k) <= 3 {
		if n, err := strconv.Atoi(k[1:]); err == nil && n >= 1 && n <= 12 {
			return fyne.KeyName(fmt.Sprintf("F%d", n)), nil
		}
	}
	return "", fmt.Errorf("unknown key %q", k)
}
