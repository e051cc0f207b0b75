package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tartampluch/go-addressbook/internal/addressbook"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/engine"
)

// Publisher receives the output of every successful sync.
type Publisher interface {
	Publish(ics []byte, upcoming []addressbook.UpcomingBirthday) error
}

// SyncResult is the output of one sync.
type SyncResult struct {
	Book     *addressbook.AddressBook
	Stats    engine.LoadStats
	Upcoming []addressbook.UpcomingBirthday
	Calendar []byte
}

// Service wires loading, the birthday query, calendar rendering and publishing.
// Each sync builds a fresh AddressBook, so no book is ever shared between goroutines.
type Service struct {
	Loader    *engine.Loader
	Calendar  *engine.CalendarBuilder
	Publisher Publisher   // Optional.
	Secrets   SecretStore // Optional; consulted when Source has a user but no password.
	Source    engine.SourceConfig
	Interval  time.Duration
}

// Sync runs the pipeline once.
func (s *Service) Sync(ctx context.Context) (*SyncResult, error) {
	log := slog.With(config.LogKeyComponent, config.CompWorker)
	log.Info(config.MsgSyncStarted, config.LogKeyMode, s.Source.Mode)

	src := s.Source
	if src.WebUser != "" && src.WebPass == "" && s.Secrets != nil {
		pass, err := s.Secrets.Password(src.WebUser)
		if err != nil {
			log.Warn(config.MsgPassFail, config.LogKeyUser, src.WebUser, config.LogKeyError, err)
		}
		src.WebPass = pass
	}

	book, stats, err := s.Loader.Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrSync, err)
	}

	upcoming := book.UpcomingBirthdays()
	ics, err := s.Calendar.Build(upcoming)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrSync, err)
	}

	if s.Publisher != nil {
		if err := s.Publisher.Publish(ics, upcoming); err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrSync, err)
		}
	}

	log.Info(config.MsgSyncDone,
		config.LogKeyRecords, stats.Records,
		config.LogKeyUpcoming, len(upcoming))

	return &SyncResult{Book: book, Stats: stats, Upcoming: upcoming, Calendar: ics}, nil
}

// Run re-syncs every Interval until ctx is cancelled. The first sync is the
// caller's, so a feed published at startup is not rebuilt straight away.
// Failed syncs are logged and retried on the next tick; the last good
// publication stays in place.
func (s *Service) Run(ctx context.Context) error {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	interval := s.Interval
	if interval <= 0 {
		interval = config.DefaultRefreshMin * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	log.Info(config.MsgWorkerStart, config.LogKeyInterval, interval)

	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgWorkerStop)
			return nil
		case <-ticker.C:
			if _, err := s.Sync(ctx); err != nil {
				log.Error(config.ErrSync, config.LogKeyError, err)
			}
		}
	}
}
