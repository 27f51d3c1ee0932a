package gui

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/tomz197/ballpit/internal/input"
)

func keySet(keys ...ebiten.Key) func(ebiten.Key) bool {
	set := make(map[ebiten.Key]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return func(k ebiten.Key) bool { return set[k] }
}

func TestKeyIntents(t *testing.T) {
	none := keySet()

	tests := []struct {
		name   string
		just   func(ebiten.Key) bool
		held   func(ebiten.Key) bool
		wheelY float64
		want   input.Intent
	}{
		{"nothing", none, none, 0, 0},
		{"spawn", keySet(ebiten.KeySpace), none, 0, input.IntentSpawn},
		{"delete via backspace", keySet(ebiten.KeyBackspace), none, 0, input.IntentDelete},
		{"pause and stats", keySet(ebiten.KeyP, ebiten.KeyI), none, 0, input.IntentPause | input.IntentToggleStats},
		{"escape quits", keySet(ebiten.KeyEscape), none, 0, input.IntentQuit},
		{"held pan", none, keySet(ebiten.KeyA, ebiten.KeyArrowUp), 0, input.IntentPanLeft | input.IntentPanUp},
		{"held key is not an edge", none, keySet(ebiten.KeySpace), 0, 0},
		{"wheel up zooms in", none, none, 1, input.IntentZoomIn},
		{"wheel down zooms out", none, none, -0.5, input.IntentZoomOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := keyIntents(tt.just, tt.held, tt.wheelY); got != tt.want {
				t.Errorf("keyIntents = %v, want %v", got, tt.want)
			}
		})
	}
}
