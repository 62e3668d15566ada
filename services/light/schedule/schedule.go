// Package schedule changes a light's color temperature and brightness on cron schedules.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rmrobinson/xylight/lib/colorspace"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var (
	// ErrEmptyEntry is returned if an entry changes neither the color temperature nor the brightness.
	ErrEmptyEntry = errors.New("entry has nothing to apply")
	// ErrDuplicateEntry is returned if an entry with the same name is already scheduled.
	ErrDuplicateEntry = errors.New("entry already scheduled")
	// ErrEntryNotFound is returned if the named entry is not scheduled.
	ErrEntryNotFound = errors.New("entry not found")
)

// Target is the light a schedule drives.
type Target interface {
	SetColorTemperature(ct colorspace.ColorTemperature)
	SetBrightness(b float64)
	Apply() colorspace.XYZ
}

// Entry is a single scheduled change.
type Entry struct {
	Name string
	// Spec is a cron expression with a leading seconds field, or a descriptor such as "@hourly".
	Spec string

	ColorTemperature colorspace.ColorTemperature
	Brightness       *float64
}

// Schedule runs entries against a target.
type Schedule struct {
	logger *zap.Logger
	target Target

	cron *cron.Cron

	lock    sync.Mutex
	entries map[string]cron.EntryID
}

// NewSchedule creates a schedule evaluating entries in the supplied location.
func NewSchedule(logger *zap.Logger, target Target, loc *time.Location) *Schedule {
	if loc == nil {
		loc = time.Local
	}

	return &Schedule{
		logger:  logger,
		target:  target,
		cron:    cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		entries: map[string]cron.EntryID{},
	}
}

// AddEntry schedules the entry.
func (s *Schedule) AddEntry(e Entry) error {
	if e.ColorTemperature.IsZero() && e.Brightness == nil {
		return ErrEmptyEntry
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.entries[e.Name]; ok {
		return ErrDuplicateEntry
	}

	id, err := s.cron.AddFunc(e.Spec, func() {
		s.apply(e)
	})
	if err != nil {
		return fmt.Errorf("entry %s: %w", e.Name, err)
	}

	s.entries[e.Name] = id
	s.logger.Debug("added entry",
		zap.String("entry_name", e.Name),
		zap.String("spec", e.Spec),
	)
	return nil
}

// RemoveEntry unschedules the named entry.
func (s *Schedule) RemoveEntry(name string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	id, ok := s.entries[name]
	if !ok {
		return ErrEntryNotFound
	}

	s.cron.Remove(id)
	delete(s.entries, name)
	return nil
}

// Next returns when the named entry will next run.
// It is the zero time until the schedule is started.
func (s *Schedule) Next(name string) (time.Time, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	id, ok := s.entries[name]
	if !ok {
		return time.Time{}, ErrEntryNotFound
	}
	return s.cron.Entry(id).Next, nil
}

// Trigger runs the named entry immediately.
func (s *Schedule) Trigger(name string) error {
	s.lock.Lock()
	var job cron.Job
	if id, ok := s.entries[name]; ok {
		job = s.cron.Entry(id).Job
	}
	s.lock.Unlock()

	if job == nil {
		return ErrEntryNotFound
	}

	job.Run()
	return nil
}

// Start runs the schedule in the background.
func (s *Schedule) Start() {
	s.cron.Start()
}

// Stop stops the schedule. The returned context is done once running entries complete.
func (s *Schedule) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Schedule) apply(e Entry) {
	fields := []zap.Field{zap.String("entry_name", e.Name)}

	if !e.ColorTemperature.IsZero() {
		s.target.SetColorTemperature(e.ColorTemperature)
		fields = append(fields, zap.Stringer("color_temperature", e.ColorTemperature))
	}
	if e.Brightness != nil {
		s.target.SetBrightness(*e.Brightness)
		fields = append(fields, zap.Float64("brightness", *e.Brightness))
	}

	xyz := s.target.Apply()
	fields = append(fields, zap.Float64("luminance", xyz.Y))
	s.logger.Info("applied scheduled entry", fields...)
}
