package config

import "time"

// Frame cadence. Physics advances one fixed step per frame.
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS
)

// Spawn placement margins, in world units.
const (
	SpawnMargin = 50 // Minimum distance from the left, right and top walls
)

// Rendering
const (
	ArrowScale      = 15  // World units of arrow length per unit of velocity
	ArrowHeadLength = 8   // World units
	WallThickness   = 5   // Pixels in the desktop renderer
	HUDRows         = 1   // Terminal rows reserved for the status line
)

// KeyHoldDuration is how long a terminal pan key counts as held after its
// last byte arrives. Terminals only report presses, so holding a key shows
// up as auto-repeat.
const KeyHoldDuration = 30 * time.Millisecond

// Environment variables read by Load.
const (
	EnvConfigPath         = "BALLPIT_CONFIG"
	EnvWidth              = "BALLPIT_WIDTH"
	EnvHeight             = "BALLPIT_HEIGHT"
	EnvRestitution        = "BALLPIT_RESTITUTION"
	EnvUseBodyRestitution = "BALLPIT_USE_BODY_RESTITUTION"
	EnvRestThreshold      = "BALLPIT_REST_THRESHOLD"
	EnvCorrection         = "BALLPIT_CORRECTION"
	EnvBroadPhase         = "BALLPIT_BROAD_PHASE"
	EnvSeed               = "BALLPIT_SEED"
	EnvMaxBodies          = "BALLPIT_MAX_BODIES"
	EnvSound              = "BALLPIT_SOUND"
)

// Environment variables read by the commands.
const (
	EnvLogLevel    = "BALLPIT_LOG_LEVEL"
	EnvSSHHost     = "SSH_HOST"
	EnvSSHPort     = "SSH_PORT"
	EnvSSHHostKey  = "SSH_HOST_KEY"
	EnvIdleTimeout = "SSH_IDLE_TIMEOUT"
)
