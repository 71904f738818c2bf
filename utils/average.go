package utils

import "sync"

// RollingAverage is a fixed size window of integer samples.
type RollingAverage struct {
	mu     sync.Mutex
	data   []int
	pos    int
	filled int
}

// NewRollingAverage returns a window holding numSamples samples.
func NewRollingAverage(numSamples int) *RollingAverage {
	return &RollingAverage{data: make([]int, numSamples)}
}

// NumSamples returns the window size.
func (ra *RollingAverage) NumSamples() int {
	return len(ra.data)
}

// Add pushes a sample, evicting the oldest one once the window is full.
func (ra *RollingAverage) Add(x int) {
	ra.mu.Lock()
	defer ra.mu.Unlock()
	ra.data[ra.pos] = x
	ra.pos++
	if ra.pos >= len(ra.data) {
		ra.pos = 0
	}
	if ra.filled < len(ra.data) {
		ra.filled++
	}
}

// Average returns the mean of the samples seen so far, 0 if there are none.
func (ra *RollingAverage) Average() int {
	ra.mu.Lock()
	defer ra.mu.Unlock()
	if ra.filled == 0 {
		return 0
	}
	sum := 0
	for _, d := range ra.data[:ra.filled] {
		sum += d
	}
	return sum / ra.filled
}
