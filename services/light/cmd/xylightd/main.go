package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rmrobinson/xylight/services/light"
	"github.com/rmrobinson/xylight/services/light/config"
	"github.com/rmrobinson/xylight/services/light/driver"
	"github.com/rmrobinson/xylight/services/light/schedule"
	"github.com/rmrobinson/xylight/services/light/store"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	envVarConfig = "CONFIG"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.BindEnv(envVarConfig)

	configPath := viper.GetString(envVarConfig)
	if len(configPath) < 1 {
		logger.Fatal("config path missing")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatal("error loading config",
			zap.String("config_path", configPath),
			zap.Error(err),
		)
	}

	var profiles config.ProfileSource
	if len(cfg.ProfileDB) > 0 {
		db := &store.DB{}
		if err := db.Open(cfg.ProfileDB); err != nil {
			logger.Fatal("error opening profile db",
				zap.String("db_path", cfg.ProfileDB),
				zap.Error(err),
			)
		}
		defer db.Close()
		profiles = db
	}

	channels := func(output string, channel string, index int) (light.Channel, error) {
		return driver.NewLogChannel(logger, output+"."+channel), nil
	}
	if len(cfg.Serial.Port) > 0 {
		controller, err := driver.OpenSerialController(logger, cfg.Serial.Port, cfg.Serial.Baud, cfg.Serial.Channels)
		if err != nil {
			logger.Fatal("error initializing serial port",
				zap.String("port_path", cfg.Serial.Port),
				zap.Error(err),
			)
		}
		defer controller.Close()

		channels = func(output string, channel string, index int) (light.Channel, error) {
			ch, err := controller.Channel(index)
			if err != nil {
				return nil, err
			}
			return ch, nil
		}
	}

	l, err := config.Build(context.Background(), logger, cfg, profiles, channels)
	if err != nil {
		logger.Fatal("error building light",
			zap.Error(err),
		)
	}

	updates := l.Light.Updates()
	go func() {
		for msg := range updates.Messages() {
			logger.Debug("levels updated",
				zap.String("update", msg.String()),
			)
		}
	}()
	defer updates.Close()

	for i, ctrl := range l.Controls {
		state := l.States[i]
		if !state.On {
			continue
		}

		modes := make([]string, 0)
		for _, m := range ctrl.ColorModes() {
			modes = append(modes, string(m))
		}
		logger.Info("writing initial state",
			zap.Strings("color_modes", modes),
			zap.Float64("brightness", state.Brightness),
		)
		ctrl.WriteState(state)
	}
	l.Light.Apply()

	sched := schedule.NewSchedule(logger, l.Light, l.Location)
	for _, e := range l.Schedule {
		if err := sched.AddEntry(e); err != nil {
			logger.Fatal("error adding schedule entry",
				zap.String("entry_name", e.Name),
				zap.Error(err),
			)
		}
	}
	sched.Start()

	logger.Info("running",
		zap.Int("output_count", len(l.Light.Outputs())),
		zap.Int("schedule_count", len(l.Schedule)),
	)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down")
	<-sched.Stop().Done()
}
