// Package audio holds the diagnostic helpers around the codec: byte-domain
// signal quality and cover inspection.
package audio

import (
	"math"
)

// PeakByteValue is the reference peak for raw file bytes.
const PeakByteValue = 255.0

// CalculatePSNR computes the peak signal-to-noise ratio between two raw
// byte buffers, treating each byte as a sample with peak 255. Identical
// buffers yield +Inf. Diagnostic only; extraction never depends on it.
func CalculatePSNR(original, stego []byte) float64 {
	length := len(original)
	if len(stego) < length {
		length = len(stego)
	}
	if length == 0 {
		return math.Inf(1)
	}

	var mse float64
	for i := 0; i < length; i++ {
		diff := float64(original[i]) - float64(stego[i])
		mse += diff * diff
	}
	mse /= float64(length)

	if mse == 0 {
		return math.Inf(1)
	}
	return 10 * math.Log10(PeakByteValue*PeakByteValue/mse)
}

// EvaluateQuality bands a PSNR value into a human-readable rating.
func EvaluateQuality(psnr float64) string {
	switch {
	case psnr >= 40:
		return "Excellent (>= 40 dB)"
	case psnr >= 30:
		return "Good (30-40 dB)"
	case psnr >= 20:
		return "Fair (20-30 dB)"
	case psnr >= 10:
		return "Poor (10-20 dB)"
	default:
		return "Very Poor (< 10 dB)"
	}
}
