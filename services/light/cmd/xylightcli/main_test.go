package main

import (
	"context"
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/rmrobinson/xylight/services/light/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

var parseSweepTests = []struct {
	name  string
	input string
	from  float64
	to    float64
	step  float64
	err   error
}{
	{"ascending", "2700:6500:100", 2700, 6500, 100, nil},
	{"descending", "6500:2700:100", 6500, 2700, -100, nil},
	{"missing step", "2700:6500", 0, 0, 0, errInvalidSweep},
	{"zero step", "2700:6500:0", 0, 0, 0, errInvalidSweep},
	{"not a number", "warm:6500:100", 0, 0, 0, errInvalidSweep},
}

func TestParseSweep(t *testing.T) {
	for _, tt := range parseSweepTests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, step, err := parseSweep(tt.input)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.from, from)
			assert.Equal(t, tt.to, to)
			assert.Equal(t, tt.step, step)
		})
	}
}

func TestParseXyFlag(t *testing.T) {
	xy, err := parseXyFlag("0.3127, 0.329")
	assert.NoError(t, err)
	assert.Equal(t, 0.3127, xy.X)
	assert.Equal(t, 0.329, xy.Y)

	_, err = parseXyFlag("0.3127")
	assert.True(t, errors.Is(err, config.ErrInvalidChromaticity))

	_, err = parseXyFlag("x,y")
	assert.True(t, errors.Is(err, config.ErrInvalidChromaticity))
}

func TestSweep(t *testing.T) {
	cfg := defaultConfig()
	assert.NoError(t, cfg.Validate())

	l, err := config.Build(context.Background(), zaptest.NewLogger(t), cfg, nil, nil)
	assert.NoError(t, err)

	rows := sweep(l.Light, 6500, 2700, -1900)
	// three points, six channels
	assert.Len(t, rows, 18)
	assert.Equal(t, 6500.0, rows[0].Kelvin)
	assert.Equal(t, "rgb", rows[0].Output)
	assert.Equal(t, "red", rows[0].Channel)
	assert.Equal(t, 2700.0, rows[17].Kelvin)
	assert.Equal(t, "white", rows[17].Output)

	for _, r := range rows {
		assert.True(t, r.Level >= 0 && r.Level <= 1)
	}
}

var runErrorTests = []struct {
	name string
	args []string
	err  error
}{
	{"bad sweep", []string{"-sweep", "2700:6500"}, errInvalidSweep},
	{"bad hex", []string{"-hex", "orange"}, config.ErrInvalidColor},
	{"bad xy", []string{"-xy", "0.9,0.3"}, config.ErrInvalidChromaticity},
	{"bad brightness", []string{"-kelvin", "2700", "-brightness", "2"}, errInvalidAdjustment},
}

func TestRunErrors(t *testing.T) {
	for _, tt := range runErrorTests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(tt.args)
			assert.True(t, errors.Is(err, tt.err), "got %v", err)
		})
	}
}

func TestRunWithProfileDB(t *testing.T) {
	dir, err := ioutil.TempDir("", "xylightcli")
	assert.NoError(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "profiles.db")

	err = run([]string{"-profileDB", path, "-sweep", "bad"})
	assert.True(t, errors.Is(err, errInvalidSweep))

	assert.NoError(t, run([]string{"-profileDB", path, "-profiles", "-kelvin", "2700", "-brightness", "0.5"}))
}
