// Package backup archives catalog snapshots on a cron schedule.
package backup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/drstein77/foodwizz/internal/compress"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const entryName = "productos.json"

type Log interface {
	Info(string, ...zap.Field)
	Error(string, ...zap.Field)
}

// Source writes a catalog snapshot in the catalog file format.
type Source interface {
	Snapshot(context.Context, io.Writer) error
}

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

type Scheduler struct {
	mx     sync.Mutex
	dir    string
	source Source
	log    Log
	sched  *cron.Cron
	now    func() time.Time
}

func NewScheduler(dir string, source Source, log Log) *Scheduler {
	return &Scheduler{
		dir:    dir,
		source: source,
		log:    log,
		now:    time.Now,
	}
}

// Start registers the backup job on schedule and starts the cron runner.
func (s *Scheduler) Start(ctx context.Context, schedule string) error {
	s.mx.Lock()
	defer s.mx.Unlock()
	if s.sched != nil {
		return nil
	}

	sched := cron.New(cron.WithParser(cronParser))
	_, err := sched.AddFunc(schedule, func() {
		if _, err := s.RunOnce(ctx); err != nil {
			s.log.Error("scheduled backup failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid backup schedule %q: %w", schedule, err)
	}

	sched.Start()
	s.sched = sched
	s.log.Info("catalog backups scheduled", zap.String("schedule", schedule), zap.String("dir", s.dir))
	return nil
}

// Stop halts the runner and waits for a running backup to finish.
func (s *Scheduler) Stop() {
	s.mx.Lock()
	sched := s.sched
	s.sched = nil
	s.mx.Unlock()

	if sched != nil {
		<-sched.Stop().Done()
	}
}

// RunOnce writes one zip archive and returns its path.
func (s *Scheduler) RunOnce(ctx context.Context) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup dir: %w", err)
	}

	name := fmt.Sprintf("productos-%s.zip", s.now().UTC().Format("20060102-150405.000"))
	path := filepath.Join(s.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}

	if err := s.write(ctx, f); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close backup file: %w", err)
	}

	s.log.Info("catalog backup written", zap.String("path", path))
	return path, nil
}

func (s *Scheduler) write(ctx context.Context, w io.Writer) error {
	zw, err := compress.NewZipWriter(w, entryName)
	if err != nil {
		return fmt.Errorf("failed to start backup archive: %w", err)
	}
	if err := s.source.Snapshot(ctx, zw); err != nil {
		return fmt.Errorf("failed to snapshot catalog: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish backup archive: %w", err)
	}
	return nil
}
