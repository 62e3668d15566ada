package colorspace

import (
	"math"
)

// Gamma selects the transfer function used to (de)compress channel values.
type Gamma int

const (
	// GammaNone leaves values linear.
	GammaNone Gamma = iota
	// GammaPower is a pure power law.
	GammaPower
	// GammaSRGB is the piecewise sRGB transfer function.
	GammaSRGB
)

func (g Gamma) String() string {
	switch g {
	case GammaPower:
		return "power"
	case GammaSRGB:
		return "sRGB"
	}
	return "none"
}

// Compress applies the transfer function with the supplied exponent to a linear value.
func (g Gamma) Compress(v, gamma float64) float64 {
	switch g {
	case GammaPower:
		return PowerCompress(v, gamma)
	case GammaSRGB:
		return SRGBCompress(v, gamma)
	}
	return v
}

// Decompress reverses Compress.
func (g Gamma) Decompress(v, gamma float64) float64 {
	switch g {
	case GammaPower:
		return PowerDecompress(v, gamma)
	case GammaSRGB:
		return SRGBDecompress(v, gamma)
	}
	return v
}

// CompressRGB compresses each channel.
func (g Gamma) CompressRGB(c RGB, gamma float64) RGB {
	return RGB{R: g.Compress(c.R, gamma), G: g.Compress(c.G, gamma), B: g.Compress(c.B, gamma)}
}

// DecompressRGB decompresses each channel.
func (g Gamma) DecompressRGB(c RGB, gamma float64) RGB {
	return RGB{R: g.Decompress(c.R, gamma), G: g.Decompress(c.G, gamma), B: g.Decompress(c.B, gamma)}
}

// PowerCompress returns v^(1/gamma). A gamma of 1 or less than or equal to 0 is a no-op.
func PowerCompress(v, gamma float64) float64 {
	if gamma == 1 || gamma <= 0 {
		return v
	}
	if v <= 0 {
		return 0
	}
	return math.Pow(v, 1/gamma)
}

// PowerDecompress returns v^gamma. A gamma of 1 or less than or equal to 0 is a no-op.
func PowerDecompress(v, gamma float64) float64 {
	if gamma == 1 || gamma <= 0 {
		return v
	}
	if v <= 0 {
		return 0
	}
	return math.Pow(v, gamma)
}

// SRGBCompress applies the sRGB transfer function to a linear value.
func SRGBCompress(v, gamma float64) float64 {
	if v <= 0.0031308 {
		return 12.92 * v
	}
	return 1.055*math.Pow(v, 1/gamma) - 0.055
}

// SRGBDecompress linearizes an sRGB encoded value.
func SRGBDecompress(v, gamma float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, gamma)
}

// PowerCompressCwWw compresses both white channels with a power law.
func PowerCompressCwWw(c CwWw, gamma float64) CwWw {
	return CwWw{CW: PowerCompress(c.CW, gamma), WW: PowerCompress(c.WW, gamma)}
}

// PowerDecompressCwWw decompresses both white channels with a power law.
func PowerDecompressCwWw(c CwWw, gamma float64) CwWw {
	return CwWw{CW: PowerDecompress(c.CW, gamma), WW: PowerDecompress(c.WW, gamma)}
}
