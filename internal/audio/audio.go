// Package audio plays a short click for collisions.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(48000)

	clickDuration = 60 * time.Millisecond
	clickFreq     = 880.0
	minClickGap   = 40 * time.Millisecond // At most one click per this interval
	maxVolume     = 0.4
)

// Clicker plays collision clicks through the system speaker.
type Clicker struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	lastClick   time.Time
	now         func() time.Time
}

// NewClicker creates a silent clicker. Call Initialize to open the speaker.
func NewClicker() *Clicker {
	return &Clicker{
		mixer: &beep.Mixer{},
		now:   time.Now,
	}
}

// Initialize sets up the audio device.
func (c *Clicker) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}

	// Initialize speaker with sample rate and buffer size
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}

	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Close stops all sounds and releases the audio device.
func (c *Clicker) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	c.initialized = false
}

// Collision plays one click for a frame with the given number of resolved
// collisions. More collisions give a louder click. Calls closer together
// than minClickGap are dropped.
func (c *Clicker) Collision(count int) {
	if count <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized || !c.shouldPlay() {
		return
	}

	click := beep.Take(sampleRate.N(clickDuration), NewClickGenerator(sampleRate, clickFreq, volumeFor(count)))
	speaker.Lock()
	c.mixer.Add(click)
	speaker.Unlock()
}

// shouldPlay applies the rate limit. Caller holds mu.
func (c *Clicker) shouldPlay() bool {
	now := c.now()
	if now.Sub(c.lastClick) < minClickGap {
		return false
	}
	c.lastClick = now
	return true
}

// volumeFor maps a collision count to an amplitude in (0, maxVolume].
func volumeFor(count int) float64 {
	return maxVolume * math.Min(1, 0.25+0.25*float64(count-1))
}

// ClickGenerator is a sine burst with a fast exponential decay.
type ClickGenerator struct {
	sr     beep.SampleRate
	freq   float64
	volume float64
	pos    int
}

// NewClickGenerator creates a click generator.
func NewClickGenerator(sr beep.SampleRate, freq, volume float64) *ClickGenerator {
	return &ClickGenerator{sr: sr, freq: freq, volume: volume}
}

func (g *ClickGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		envelope := math.Exp(-t * 60)
		sample := g.volume * envelope * math.Sin(2*math.Pi*g.freq*t)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ClickGenerator) Err() error {
	return nil
}
