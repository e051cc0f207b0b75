package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-addressbook/internal/addressbook"
	"github.com/tartampluch/go-addressbook/internal/config"
)

// representation is one pre-rendered body with its cache validators.
type representation struct {
	data        []byte
	contentType string
	etag        string
}

// snapshot is everything served for one sync.
type snapshot struct {
	calendar     representation
	upcoming     representation
	lastModified string // RFC1123, shared by both routes
}

// FeedServer serves the latest congratulation calendar and upcoming list.
type FeedServer struct {
	// Reads vastly outnumber publishes, so the snapshot is swapped atomically
	// instead of guarded by a lock.
	current atomic.Pointer[snapshot]
	Port    string
}

// NewFeedServer creates a server bound to localhost:port once started.
func NewFeedServer(port string) *FeedServer {
	return &FeedServer{Port: port}
}

// Handler returns the routing table, exposed for tests and embedding.
func (s *FeedServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteCalendar, s.serve(func(snap *snapshot) representation { return snap.calendar }))
	mux.HandleFunc(config.RouteUpcoming, s.serve(func(snap *snapshot) representation { return snap.upcoming }))
	return mux
}

// Start listens until ctx is cancelled, then shuts down gracefully.
func (s *FeedServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, 1)
	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Publish atomically replaces both served documents.
func (s *FeedServer) Publish(ics []byte, upcoming []addressbook.UpcomingBirthday) error {
	if upcoming == nil {
		upcoming = []addressbook.UpcomingBirthday{}
	}
	list, err := json.Marshal(upcoming)
	if err != nil {
		return err
	}

	snap := &snapshot{
		calendar:     newRepresentation(ics, config.MimeTextCalendar),
		upcoming:     newRepresentation(list, config.MimeJSON),
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	}
	s.current.Store(snap)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(ics),
		config.LogKeyUpcoming, len(upcoming),
		config.LogKeyETag, snap.calendar.etag,
	)
	return nil
}

func newRepresentation(data []byte, contentType string) representation {
	hash := sha256.Sum256(data)
	return representation{
		data:        data,
		contentType: contentType,
		etag:        fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:])),
	}
}

// serve builds a GET/HEAD handler for the representation chosen by pick.
func (s *FeedServer) serve(pick func(*snapshot) representation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set(config.HeaderAllow, config.AllowedMethods)
			http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
			return
		}

		snap := s.current.Load()
		if snap == nil {
			w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
			http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
			return
		}
		rep := pick(snap)

		w.Header().Set(config.HeaderContentType, rep.contentType)
		w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
		w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
		w.Header().Set(config.HeaderETag, rep.etag)
		w.Header().Set(config.HeaderLastModified, snap.lastModified)

		if notModified(r, rep.etag, snap.lastModified) {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		if r.Method == http.MethodGet {
			if _, err := io.Copy(w, bytes.NewReader(rep.data)); err != nil {
				slog.Error(config.ErrWriteResp,
					config.LogKeyComponent, config.CompServer,
					config.LogKeyError, err,
				)
			}
		}
	}
}

// notModified evaluates If-None-Match first, then If-Modified-Since.
func notModified(r *http.Request, etag, lastModified string) bool {
	if match := r.Header.Get(config.HeaderIfNoneMatch); match != "" {
		return match == etag
	}
	since := r.Header.Get(config.HeaderIfModifiedSince)
	if since == "" {
		return false
	}
	clientTime, err := time.Parse(http.TimeFormat, since)
	if err != nil {
		return false
	}
	serverTime, err := time.Parse(http.TimeFormat, lastModified)
	if err != nil {
		return false
	}
	return !serverTime.After(clientTime)
}
