package input

import "strings"

// Intent is a set of discrete user requests collected for one frame.
// Front ends translate their own devices into intents; the simulation
// never polls a device.
type Intent uint16

const (
	IntentSpawn Intent = 1 << iota
	IntentDelete
	IntentPause
	IntentZoomIn
	IntentZoomOut
	IntentPanUp
	IntentPanDown
	IntentPanLeft
	IntentPanRight
	IntentToggleStats
	IntentResetView
	IntentQuit
)

var intentNames = []struct {
	intent Intent
	name   string
}{
	{IntentSpawn, "spawn"},
	{IntentDelete, "delete"},
	{IntentPause, "pause"},
	{IntentZoomIn, "zoom-in"},
	{IntentZoomOut, "zoom-out"},
	{IntentPanUp, "pan-up"},
	{IntentPanDown, "pan-down"},
	{IntentPanLeft, "pan-left"},
	{IntentPanRight, "pan-right"},
	{IntentToggleStats, "stats"},
	{IntentResetView, "reset-view"},
	{IntentQuit, "quit"},
}

// Has reports whether every intent in other is set.
func (i Intent) Has(other Intent) bool {
	return other != 0 && i&other == other
}

// String lists the set intents, e.g. "spawn|pan-left".
func (i Intent) String() string {
	if i == 0 {
		return "none"
	}
	var parts []string
	for _, n := range intentNames {
		if i&n.intent != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}
