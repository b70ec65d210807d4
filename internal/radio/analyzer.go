package radio

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/Lj542/radio-data-collection/internal/spectrum"
)

// AnalysisResult holds summary statistics derived from a single capture.
// Results are computed once and not retained by the analyzer.
type AnalysisResult struct {
	Power         float64 // Mean squared sample magnitude
	Amplitude     float64 // Mean sample magnitude
	MainFrequency float64 // Frequency of the strongest FFT bin, in Hz relative to center
	SNREstimate   float64 // Rough signal-to-noise ratio estimate in dB
	PeakMagnitude float64 // Magnitude of the strongest FFT bin
	NumSamples    int     // Number of samples analyzed
}

// Analyze computes summary statistics for a capture: total power as the
// mean squared magnitude and the dominant frequency as the peak bin of the
// discrete Fourier transform, mapped to Hz via the buffer's sample rate.
// Negative frequencies denote the lower sideband, matching the usual
// complex-baseband convention. Fails with ErrEmptyBuffer on an empty buffer.
func Analyze(buf *SignalBuffer) (*AnalysisResult, error) {
	if buf == nil || len(buf.Samples) == 0 {
		return nil, ErrEmptyBuffer
	}

	n := len(buf.Samples)
	data := make([]complex128, n)

	var power, amplitude float64
	var mean complex128
	for i, v := range buf.Samples {
		c := complex128(complex(real(v), imag(v)))
		data[i] = c

		m := cmplx.Abs(c)
		power += m * m
		amplitude += m
		mean += c
	}
	power /= float64(n)
	amplitude /= float64(n)
	mean /= complex(float64(n), 0)

	var variance float64
	for _, c := range data {
		d := cmplx.Abs(c - mean)
		variance += d * d
	}
	variance /= float64(n)

	fft := fourier.NewCmplxFFT(n)
	coeffs := fft.Coefficients(nil, data)

	var peak float64
	var peakIdx int
	for i, c := range coeffs {
		if m := cmplx.Abs(c); m > peak {
			peak = m
			peakIdx = i
		}
	}

	return &AnalysisResult{
		Power:         power,
		Amplitude:     amplitude,
		MainFrequency: fft.Freq(peakIdx) * buf.SampleRate,
		SNREstimate:   10 * math.Log10(power/(variance+1e-10)),
		PeakMagnitude: peak,
		NumSamples:    n,
	}, nil
}

// Spectrum folds the capture's discrete Fourier transform into the given
// number of frequency bins, averaged and converted to dB, ordered from the
// lowest to the highest frequency. Bin frequencies are absolute, offset by
// the buffer's center frequency. Fails with ErrEmptyBuffer on an empty
// buffer and ErrInvalidParameter when bins is not positive.
func Spectrum(buf *SignalBuffer, bins int) ([]spectrum.SpectralPoint, error) {
	if buf == nil || len(buf.Samples) == 0 {
		return nil, ErrEmptyBuffer
	}
	if bins <= 0 {
		return nil, fmt.Errorf("%w: bins must be positive: %d given", ErrInvalidParameter, bins)
	}

	n := len(buf.Samples)
	if bins > n {
		bins = n
	}

	data := make([]complex128, n)
	for i, v := range buf.Samples {
		data[i] = complex128(complex(real(v), imag(v)))
	}

	fft := fourier.NewCmplxFFT(n)
	coeffs := fft.Coefficients(nil, data)

	// Zero frequency sits at index 0; rotate so bins run from the most
	// negative to the most positive frequency, np.fft.fftshift style.
	shift := (n + 1) / 2

	binWidth := buf.SampleRate / float64(bins)
	points := make([]spectrum.SpectralPoint, bins)

	for b := 0; b < bins; b++ {
		lo := b * n / bins
		hi := (b + 1) * n / bins

		var sum float64
		for k := lo; k < hi; k++ {
			src := (k + shift) % n
			m := cmplx.Abs(coeffs[src]) / float64(n)
			sum += m * m
		}

		count := hi - lo
		db := 10 * math.Log10(sum/float64(count)+1e-20)

		mid := (lo + hi - 1) / 2
		freq := buf.CenterFrequency + fft.Freq((mid+shift)%n)*buf.SampleRate

		power := db
		points[b] = spectrum.SpectralPoint{
			Frequency:  freq,
			Power:      &power,
			BinWidth:   binWidth,
			NumSamples: count,
		}
	}

	return points, nil
}
