package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels     int           // Total number of pixels rendered
	TotalSamples    int           // Total number of camera samples taken
	AverageSamples  float64       // Average samples per pixel
	SamplesPerPixel int           // Configured samples per pixel
	TilesRendered   int           // Number of tiles that finished
	Elapsed         time.Duration // Wall-clock rendering time
}

// Add accumulates pixel and sample counts from a partial render
func (s *RenderStats) Add(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.TotalSamples += other.TotalSamples
}

// Finalize computes derived statistics once rendering is over
func (s *RenderStats) Finalize(elapsed time.Duration) {
	s.Elapsed = elapsed
	if s.TotalPixels > 0 {
		s.AverageSamples = float64(s.TotalSamples) / float64(s.TotalPixels)
	}
}
