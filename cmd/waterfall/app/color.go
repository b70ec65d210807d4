package app

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorTheme selects a color scheme for the power scale:
// - ClassicTheme: traditional spectrum display (blue to red)
// - GrayscaleTheme: monochrome visualization
// - JungleTheme: dark green to yellow, better contrast on foliage clutter
// - ThermalTheme: black to red to yellow to white heat map
// - MarineTheme: water-depth inspired blues
type ColorTheme string

const (
	ClassicTheme   ColorTheme = "classic"
	GrayscaleTheme ColorTheme = "grayscale"
	JungleTheme    ColorTheme = "jungle"
	ThermalTheme   ColorTheme = "thermal"
	MarineTheme    ColorTheme = "marine"

	colorMapSize = 256
)

var validColorThemes = map[ColorTheme]struct{}{
	ClassicTheme:   {},
	GrayscaleTheme: {},
	JungleTheme:    {},
	ThermalTheme:   {},
	MarineTheme:    {},
}

// Missing readings render as black.
var noDataColor = color.Black

// ColorMapper maps power readings onto a pre-computed color gradient
// spanning the current power bounds.
type ColorMapper struct {
	colorMap      []color.Color
	theme         func(float64) color.Color
	themeName     ColorTheme
	boundsMin     float64
	powerPerIndex float64
}

// NewColorMapper creates a color mapper for the given theme and power bounds.
func NewColorMapper(theme ColorTheme, bounds PowerBounds) *ColorMapper {
	cm := &ColorMapper{
		colorMap:  make([]color.Color, colorMapSize),
		theme:     themeFunc(theme),
		themeName: theme,
	}
	cm.UpdateBounds(bounds)
	return cm
}

// UpdateBounds updates the power bounds and recomputes the gradient
func (cm *ColorMapper) UpdateBounds(bounds PowerBounds) {
	cm.boundsMin = bounds.Min
	cm.powerPerIndex = (bounds.Max - bounds.Min) / float64(len(cm.colorMap)-1)

	for i := range cm.colorMap {
		cm.colorMap[i] = cm.theme(float64(i) / float64(len(cm.colorMap)-1))
	}
}

// GetColor returns the gradient color for the given power reading, clamped
// to the bounds. Nil readings map to the no-data color.
func (cm *ColorMapper) GetColor(power *float64) color.Color {
	if power == nil {
		return noDataColor
	}

	index := int((*power - cm.boundsMin) / cm.powerPerIndex)
	if index < 0 {
		return cm.colorMap[0]
	}
	if index >= len(cm.colorMap) {
		return cm.colorMap[len(cm.colorMap)-1]
	}
	return cm.colorMap[index]
}

// ThemeName returns the current color theme name
func (cm *ColorMapper) ThemeName() ColorTheme {
	return cm.themeName
}

func themeFunc(theme ColorTheme) func(float64) color.Color {
	switch theme {
	case GrayscaleTheme:
		return func(power float64) color.Color {
			v := uint8(math.Pow(power, 0.7) * 255)
			return color.RGBA{R: v, G: v, B: v, A: 255}
		}

	case JungleTheme:
		return func(power float64) color.Color {
			return hsv(120-(power*60), 1.0, 0.3+math.Pow(power, 0.6)*0.7)
		}

	case ThermalTheme:
		return func(power float64) color.Color {
			switch {
			case power < 0.33:
				return color.RGBA{R: uint8(power * 3 * 255), A: 255}
			case power < 0.66:
				return color.RGBA{R: 255, G: uint8((power - 0.33) * 3 * 255), A: 255}
			default:
				return color.RGBA{R: 255, G: 255, B: uint8((power - 0.66) * 3 * 255), A: 255}
			}
		}

	case MarineTheme:
		return func(power float64) color.Color {
			return hsv(240-(power*60), 1.0-(power*0.8), 0.3+math.Pow(power, 0.6)*0.7)
		}

	default: // ClassicTheme
		return func(power float64) color.Color {
			return hsv(240-(power*240), 0.9+(power*0.1), math.Pow(power, 0.7))
		}
	}
}

func hsv(h, s, v float64) color.Color {
	if h < 0 {
		h += 360
	}
	return colorful.Hsv(h, s, v).Clamped()
}
