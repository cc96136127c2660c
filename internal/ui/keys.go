package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/nevisdale/nescore/internal/input"
	"github.com/nevisdale/nescore/internal/logger"
)

var keysByName = func() map[string]ebiten.Key {
	m := make(map[string]ebiten.Key)
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		m[k.String()] = k
	}
	return m
}()

type binding struct {
	key    ebiten.Key
	button input.Button
}

type keyBindings []binding

// newKeyBindings resolves key names from the config. Unknown names are
// logged and skipped.
func newKeyBindings(names map[string]input.Button) keyBindings {
	var kb keyBindings
	for name, button := range names {
		key, ok := keysByName[name]
		if !ok {
			logger.Logf("ui", "unknown key %q for %s", name, button)
			continue
		}
		kb = append(kb, binding{key: key, button: button})
	}
	return kb
}

// pressed builds the controller mask from the keyboard state.
func (kb keyBindings) pressed(isPressed func(ebiten.Key) bool) uint8 {
	var mask uint8
	for _, b := range kb {
		if isPressed(b.key) {
			mask |= uint8(b.button)
		}
	}
	return mask
}
