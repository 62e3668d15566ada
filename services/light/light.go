package light

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/rmrobinson/xylight/lib/colorspace"
	"github.com/rmrobinson/xylight/lib/stream"
	"github.com/rmrobinson/xylight/services/light/chroma"
	"go.uber.org/zap"
)

// identityTolerance is how close brightness or saturation must be to 1 to be skipped.
const identityTolerance = 0.005

func almostOne(v float64) bool {
	return math.Abs(v-1) < identityTolerance
}

// OutputLevels holds the channel levels of a single output.
type OutputLevels struct {
	Output string
	Levels []ChannelLevel
}

// LevelUpdate is broadcast after every Apply with the color that was sent and the resulting levels.
type LevelUpdate struct {
	XYZ     colorspace.XYZ
	Outputs []OutputLevels
}

func (u *LevelUpdate) String() string {
	parts := make([]string, len(u.Outputs))
	for i, o := range u.Outputs {
		parts[i] = fmt.Sprintf("%s[%s]", o.Output, formatLevels(o.Levels))
	}
	return fmt.Sprintf("XYZ(%.4f, %.4f, %.4f) %s", u.XYZ.X, u.XYZ.Y, u.XYZ.Z, strings.Join(parts, " "))
}

// Light turns a requested color into a single XYZ value and fans it out to every output.
// The requested color is either RGB in the source profile or a CIE xy chromaticity,
// adjusted by brightness, saturation and an optional color temperature override.
type Light struct {
	logger *zap.Logger

	lock sync.Mutex

	source  *chroma.RGBTransform
	outputs []Output

	rgb              colorspace.RGB
	xy               colorspace.Xy
	useXy            bool
	brightness       float64
	saturation       float64
	colorTemperature colorspace.ColorTemperature

	updates *stream.Source
}

// NewLight creates a light with the ACES AP0 source profile, which covers every visible chromaticity.
// It starts at full brightness showing RGB white.
func NewLight(logger *zap.Logger) *Light {
	source, err := chroma.NewStandardRGBTransform(chroma.StandardACESAP0)
	if err != nil {
		panic(err)
	}

	return &Light{
		logger:     logger,
		source:     source,
		rgb:        colorspace.RGB{R: 1, G: 1, B: 1},
		brightness: 1,
		saturation: 1,
		updates:    stream.NewSource(logger),
	}
}

// SetSourceProfile sets the profile RGB input values are interpreted in.
func (l *Light) SetSourceProfile(t *chroma.RGBTransform) error {
	if t == nil {
		return ErrNilArgument
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	l.source = t
	return nil
}

// AddOutput appends an output. Outputs are updated in the order they are added.
func (l *Light) AddOutput(o Output) error {
	if o == nil {
		return ErrNilArgument
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	l.outputs = append(l.outputs, o)
	l.logger.Debug("added output",
		zap.String("output_name", o.Name()),
	)
	return nil
}

// Outputs returns the registered outputs.
func (l *Light) Outputs() []Output {
	l.lock.Lock()
	defer l.lock.Unlock()

	return append([]Output{}, l.outputs...)
}

// SetBrightness sets the luminance scale applied to the color.
func (l *Light) SetBrightness(b float64) {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.brightness = b
}

// SetSaturation sets how far the color is from the source white point; 1 leaves it unchanged.
func (l *Light) SetSaturation(s float64) {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.saturation = s
}

// SetRGB requests a color in the source profile.
func (l *Light) SetRGB(rgb colorspace.RGB) {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.rgb = rgb
	l.useXy = false
}

// SetXy requests a chromaticity at full luminance.
func (l *Light) SetXy(xy colorspace.Xy) {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.xy = xy
	l.useXy = true
}

// SetColorTemperature shifts the white point of the requested color to the supplied temperature.
// The source profile itself is not changed.
func (l *Light) SetColorTemperature(ct colorspace.ColorTemperature) {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.colorTemperature = ct
}

// ResetColorTemperature removes the color temperature override.
func (l *Light) ResetColorTemperature() {
	l.SetColorTemperature(colorspace.ColorTemperature{})
}

// ColorTemperature returns the current color temperature override, which is zero if there is none.
func (l *Light) ColorTemperature() colorspace.ColorTemperature {
	l.lock.Lock()
	defer l.lock.Unlock()

	return l.colorTemperature
}

// Brightness returns the current brightness.
func (l *Light) Brightness() float64 {
	l.lock.Lock()
	defer l.lock.Unlock()

	return l.brightness
}

// Updates returns a sink receiving a LevelUpdate after every Apply.
// The sink must be closed by the caller.
func (l *Light) Updates() *stream.Sink {
	return l.updates.NewSink()
}

// Apply converts the requested color to XYZ, sends it to every output and returns it.
func (l *Light) Apply() colorspace.XYZ {
	l.lock.Lock()
	defer l.lock.Unlock()

	xyz := l.xyz()

	update := &LevelUpdate{
		XYZ:     xyz,
		Outputs: make([]OutputLevels, 0, len(l.outputs)),
	}
	for _, o := range l.outputs {
		o.SetColorXYZ(xyz)
		update.Outputs = append(update.Outputs, OutputLevels{
			Output: o.Name(),
			Levels: o.Levels(),
		})
	}

	l.updates.SendMessage(update)
	return xyz
}

func (l *Light) xyz() colorspace.XYZ {
	var xyz colorspace.XYZ
	if l.useXy {
		xyz = l.xy.XYZ(1)
	} else {
		xyz = l.source.RGBToXYZ(l.rgb)
	}

	if !almostOne(l.saturation) {
		xyY := xyz.XyY()
		xy := l.source.AdjustSaturation(xyY.Xy, l.saturation)
		xyz = xy.XYZ(xyY.Luminance)
	}

	if !almostOne(l.brightness) {
		xyz = xyz.Scale(l.brightness)
	}

	if !l.colorTemperature.IsZero() {
		xyz = l.source.AdjustWhiteBalance(xyz, l.colorTemperature.Xy())
	}

	return colorspace.XYZ{
		X: math.Max(0, xyz.X),
		Y: math.Max(0, xyz.Y),
		Z: math.Max(0, xyz.Z),
	}
}
