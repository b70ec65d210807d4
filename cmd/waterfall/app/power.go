package app

import "math"

const (
	defaultMinPower = -120.0 // dB
	defaultMaxPower = -20.0  // dB

	// Below this count the percentiles are meaningless; stick to defaults.
	minimumSampleCount = 20
)

// PowerBounds represents the power range of the color scale
type PowerBounds struct {
	Min  float64 // 5th percentile power level in dB
	Max  float64 // 95th percentile power level in dB
	Mean float64 // Mean power level in dB
}

func defaultPowerBounds() PowerBounds {
	return PowerBounds{
		Min:  defaultMinPower,
		Max:  defaultMaxPower,
		Mean: (defaultMinPower + defaultMaxPower) / 2,
	}
}

// PowerHistogram maintains a histogram of power values with 1dB bins
type PowerHistogram struct {
	bins       map[int]uint32
	totalCount uint64
	minBin     int
	maxBin     int
}

// NewPowerHistogram creates a new histogram
func NewPowerHistogram() *PowerHistogram {
	return &PowerHistogram{
		bins:   make(map[int]uint32),
		minBin: math.MaxInt32,
		maxBin: math.MinInt32,
	}
}

// Update adds a power reading to the histogram. Nil readings (missing data)
// are ignored.
func (h *PowerHistogram) Update(power *float64) {
	if power == nil {
		return
	}

	bin := int(math.Floor(*power)) // 1dB bins

	if h.bins[bin] == math.MaxUint32 || h.totalCount == math.MaxUint64 {
		h.scaleDown()
	}

	h.bins[bin]++
	h.totalCount++

	if bin < h.minBin {
		h.minBin = bin
	}
	if bin > h.maxBin {
		h.maxBin = bin
	}
}

// scaleDown halves all bin counts to make room for more samples
func (h *PowerHistogram) scaleDown() {
	h.minBin = math.MaxInt32
	h.maxBin = math.MinInt32

	for bin := range h.bins {
		h.bins[bin] /= 2
		if h.bins[bin] == 0 {
			delete(h.bins, bin)
			continue
		}

		if bin < h.minBin {
			h.minBin = bin
		}
		if bin > h.maxBin {
			h.maxBin = bin
		}
	}
	h.totalCount /= 2
}

// PercentileBounds returns power bounds spanning the 5th to 95th percentile
// of the observed readings, widened to at least 30dB plus a 10% margin.
func (h *PowerHistogram) PercentileBounds() PowerBounds {
	if h.totalCount < minimumSampleCount {
		return defaultPowerBounds()
	}

	target := h.totalCount * 5 / 100

	var count uint64
	var min5th, max95th int

	for bin := h.minBin; bin <= h.maxBin; bin++ {
		count += uint64(h.bins[bin])
		if count >= target {
			min5th = bin
			break
		}
	}

	count = 0
	for bin := h.maxBin; bin >= h.minBin; bin-- {
		count += uint64(h.bins[bin])
		if count >= target {
			max95th = bin
			break
		}
	}

	var sumProduct float64
	for bin, n := range h.bins {
		sumProduct += float64(bin) * float64(n)
	}
	mean := sumProduct / float64(h.totalCount)

	if max95th-min5th < 30 {
		center := (max95th + min5th) / 2
		min5th = center - 15
		max95th = center + 15
	}

	margin := (max95th - min5th) / 10

	return PowerBounds{
		Min:  float64(min5th - margin),
		Max:  float64(max95th + margin),
		Mean: mean,
	}
}

// SmoothBounds tracks percentile power bounds with exponential smoothing, so
// the color scale does not jump around while spans stream in.
type SmoothBounds struct {
	hist    *PowerHistogram
	alpha   float64 // Smoothing factor (0-1)
	current PowerBounds
}

// NewSmoothBounds creates a new bounds smoother
func NewSmoothBounds(alpha float64) *SmoothBounds {
	return &SmoothBounds{
		hist:    NewPowerHistogram(),
		alpha:   alpha,
		current: defaultPowerBounds(),
	}
}

// Update adds a power reading and returns the smoothed bounds
func (s *SmoothBounds) Update(power *float64) PowerBounds {
	if power == nil {
		return s.current
	}

	s.hist.Update(power)
	bounds := s.hist.PercentileBounds()

	s.current.Min = s.current.Min*(1-s.alpha) + bounds.Min*s.alpha
	s.current.Max = s.current.Max*(1-s.alpha) + bounds.Max*s.alpha
	s.current.Mean = bounds.Mean

	return s.current
}

// Current returns the current smoothed power bounds
func (s *SmoothBounds) Current() PowerBounds {
	return s.current
}

// Override replaces either bound with a manually chosen value. Nil leaves
// the tracked bound in place.
func (s *SmoothBounds) Override(minPower, maxPower *float64) {
	if minPower != nil {
		s.current.Min = *minPower
	}
	if maxPower != nil {
		s.current.Max = *maxPower
	}
}
