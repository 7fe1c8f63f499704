package render

import "time"

// FPSStats is a snapshot of an FPSCounter
type FPSStats struct {
	FPS         float64
	TotalFrames uint64
	TotalTime   time.Duration
}

// FPSCounter averages the frame rate over whole seconds
type FPSCounter struct {
	frames  int
	elapsed time.Duration
	fps     float64

	totalFrames uint64
	totalTime   time.Duration
}

// Tick records a frame that took delta. It returns true when a second has elapsed and the FPS
// value was updated.
func (c *FPSCounter) Tick(delta time.Duration) bool {
	c.frames++
	c.elapsed += delta
	c.totalFrames++
	c.totalTime += delta

	if c.elapsed < time.Second {
		return false
	}

	c.fps = float64(c.frames) / c.elapsed.Seconds()
	c.frames = 0
	c.elapsed = 0
	return true
}

func (c *FPSCounter) FPS() float64 { return c.fps }

func (c *FPSCounter) Stats() FPSStats {
	return FPSStats{
		FPS:         c.fps,
		TotalFrames: c.totalFrames,
		TotalTime:   c.totalTime,
	}
}
