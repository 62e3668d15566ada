package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/gocarina/gocsv"
	"github.com/rmrobinson/xylight/lib/colorspace"
	"github.com/rmrobinson/xylight/services/light"
	"github.com/rmrobinson/xylight/services/light/chroma"
	"github.com/rmrobinson/xylight/services/light/config"
	"github.com/rmrobinson/xylight/services/light/store"
	"go.uber.org/zap"
)

var (
	errInvalidSweep      = errors.New("sweep must be formatted as from:to:step")
	errInvalidAdjustment = errors.New("brightness and saturation must be between 0 and 1")
)

// sweepRow is a single channel level at a point of a color temperature sweep.
type sweepRow struct {
	Kelvin  float64 `csv:"kelvin"`
	X       float64 `csv:"x"`
	Y       float64 `csv:"y"`
	Output  string  `csv:"output"`
	Channel string  `csv:"channel"`
	Level   float64 `csv:"level"`
}

func defaultConfig() *config.Config {
	return &config.Config{
		SourceProfile: chroma.StandardACESAP0,
		Outputs: []config.Output{
			{
				Name:       "rgb",
				Type:       config.OutputRGB,
				RGBProfile: &config.RGBProfile{Standard: chroma.StandardLED},
			},
			{
				Name: "cwww",
				Type: config.OutputCwWw,
				CwWwProfile: &config.CwWwProfile{
					ColdWhite: "6500K",
					WarmWhite: "2700K",
				},
			},
			{
				Name:         "white",
				Type:         config.OutputWhite,
				WhiteProfile: &config.WhiteProfile{WhitePoint: "2700K"},
			},
		},
	}
}

func parseXyFlag(s string) (colorspace.Xy, error) {
	parts := strings.Split(s, ",")
	v := make([]float64, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return colorspace.Xy{}, fmt.Errorf("%q: %w", s, config.ErrInvalidChromaticity)
		}
		v[i] = f
	}
	return config.ParseXy(v)
}

func parseSweep(s string) (from, to, step float64, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, 0, 0, errInvalidSweep
	}

	var v [3]float64
	for i, p := range parts {
		if v[i], err = strconv.ParseFloat(strings.TrimSpace(p), 64); err != nil {
			return 0, 0, 0, errInvalidSweep
		}
	}
	if v[0] <= 0 || v[1] <= 0 || v[2] <= 0 {
		return 0, 0, 0, errInvalidSweep
	}
	if v[0] > v[1] {
		v[2] = -v[2]
	}
	return v[0], v[1], v[2], nil
}

func sweep(l *light.Light, from, to, step float64) []*sweepRow {
	var rows []*sweepRow

	l.SetRGB(colorspace.RGB{R: 1, G: 1, B: 1})
	for k := from; (step > 0 && k <= to) || (step < 0 && k >= to); k += step {
		ct := colorspace.FromKelvin(k)
		l.SetColorTemperature(ct)
		l.Apply()

		xy := ct.Xy()
		for _, o := range l.Outputs() {
			for _, level := range o.Levels() {
				rows = append(rows, &sweepRow{
					Kelvin:  k,
					X:       xy.X,
					Y:       xy.Y,
					Output:  o.Name(),
					Channel: level.Channel,
					Level:   level.Level,
				})
			}
		}
	}
	return rows
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Printf("%s\n", err.Error())
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("xylightcli", flag.ContinueOnError)
	var (
		configPath  = fs.String("config", "", "The path to the light config; built-in outputs are used if empty")
		profileDB   = fs.String("profileDB", "", "The path to the profile DB, overriding the config")
		source      = fs.String("source", "", "The source profile the color is specified in")
		hex         = fs.String("hex", "", "The color to convert, as a hex RGB value")
		xy          = fs.String("xy", "", "The color to convert, as a CIE x,y chromaticity")
		kelvin      = fs.Float64("kelvin", 0, "The color temperature to convert, in kelvin")
		brightness  = fs.Float64("brightness", 1, "The brightness to apply, from 0 to 1")
		saturation  = fs.Float64("saturation", 1, "The saturation to apply, from 0 to 1")
		sweepRange  = fs.String("sweep", "", "Sweep a color temperature range as from:to:step in kelvin and print CSV")
		dump        = fs.Bool("dump", false, "Dump the resolved config")
		listProfile = fs.Bool("profiles", false, "List the profiles saved in the profile DB")
		calibration = fs.Bool("calibration", false, "Log the calibration of every output")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	cfg := defaultConfig()
	if len(*configPath) > 0 {
		if cfg, err = config.Load(*configPath); err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
	}
	if len(*profileDB) > 0 {
		cfg.ProfileDB = *profileDB
	}
	if len(*source) > 0 {
		cfg.SourceProfile = *source
	}
	for i := range cfg.Outputs {
		cfg.Outputs[i].CalibrationLogging = cfg.Outputs[i].CalibrationLogging || *calibration
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if *dump {
		spew.Dump(cfg)
	}

	ctx := context.Background()

	var profiles config.ProfileSource
	if len(cfg.ProfileDB) > 0 {
		db := &store.DB{}
		if err := db.Open(cfg.ProfileDB); err != nil {
			return fmt.Errorf("error opening profile DB: %w", err)
		}
		defer db.Close()
		profiles = db

		if *listProfile {
			stored, err := db.Profiles(ctx)
			if err != nil {
				return fmt.Errorf("error listing profiles: %w", err)
			}
			for _, p := range stored {
				fmt.Printf("%s\t%s\t%s\t%s\n", p.ID, p.Kind, p.Name, p.Updated.Format("2006-01-02 15:04:05"))
			}
		}
	}

	l, err := config.Build(ctx, logger, cfg, profiles, nil)
	if err != nil {
		return fmt.Errorf("error building light: %w", err)
	}

	if len(*sweepRange) > 0 {
		from, to, step, err := parseSweep(*sweepRange)
		if err != nil {
			return fmt.Errorf("invalid sweep %q: %w", *sweepRange, err)
		}

		if err := gocsv.Marshal(sweep(l.Light, from, to, step), os.Stdout); err != nil {
			return fmt.Errorf("error writing sweep: %w", err)
		}
		return nil
	}

	switch {
	case len(*hex) > 0:
		rgb, err := config.ParseHex(*hex)
		if err != nil {
			return fmt.Errorf("invalid hex color: %w", err)
		}
		l.Light.SetRGB(rgb)
	case len(*xy) > 0:
		c, err := parseXyFlag(*xy)
		if err != nil {
			return fmt.Errorf("invalid xy color: %w", err)
		}
		l.Light.SetXy(c)
	case *kelvin > 0:
		l.Light.SetColorTemperature(colorspace.FromKelvin(*kelvin))
	default:
		return nil
	}

	if *brightness < 0 || *brightness > 1 || *saturation < 0 || *saturation > 1 {
		return errInvalidAdjustment
	}
	l.Light.SetBrightness(*brightness)
	l.Light.SetSaturation(*saturation)

	updates := l.Light.Updates()
	defer updates.Close()

	l.Light.Apply()

	msg := <-updates.Messages()
	update, ok := msg.(*light.LevelUpdate)
	if !ok {
		return nil
	}

	xyY := update.XYZ.XyY()
	fmt.Printf("xy (%.4f, %.4f) Y %.4f CCT %.0fK\n", xyY.X, xyY.Y, xyY.Luminance, xyY.Xy.Kelvin())
	for _, o := range update.Outputs {
		fmt.Printf("%s\n", o.Output)
		for _, level := range o.Levels {
			fmt.Printf("  %-10s %6.2f%%\n", level.Channel, level.Level*100)
		}
	}
	return nil
}
