package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/tartampluch/go-addressbook/internal/addressbook"
	"github.com/tartampluch/go-addressbook/internal/app"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/engine"
	"github.com/tartampluch/go-addressbook/internal/i18n"
	"github.com/tartampluch/go-addressbook/internal/server"
	"golang.org/x/sync/errgroup"
)

// options holds the parsed command line.
type options struct {
	source   string
	url      string
	user     string
	port     string
	interval int
	lang     string
	export   string
	reminder string
	serve    bool
	store    bool
}

// main delegates to runMain so deferred calls run before os.Exit.
func main() {
	os.Exit(runMain())
}

// runMain parses flags, sets up logging and signals, and maps errors to exit codes.
func runMain() int {
	var opts options
	showVersion := flag.Bool(config.FlagVersion, false, config.FlagDescVersion)
	debugMode := flag.Bool(config.FlagDebug, false, config.FlagDescDebug)
	flag.StringVar(&opts.source, config.FlagSource, "", config.FlagDescSource)
	flag.StringVar(&opts.url, config.FlagURL, "", config.FlagDescURL)
	flag.StringVar(&opts.user, config.FlagUser, "", config.FlagDescUser)
	flag.StringVar(&opts.port, config.FlagPort, config.DefaultPort, config.FlagDescPort)
	flag.IntVar(&opts.interval, config.FlagInterval, config.DefaultRefreshMin, config.FlagDescInterval)
	flag.StringVar(&opts.lang, config.FlagLang, config.DefaultLanguage, config.FlagDescLang)
	flag.StringVar(&opts.export, config.FlagExport, "", config.FlagDescExport)
	flag.BoolVar(&opts.serve, config.FlagServe, false, config.FlagDescServe)
	flag.BoolVar(&opts.store, config.FlagStore, false, config.FlagDescStore)
	flag.StringVar(&opts.reminder, config.FlagReminder, "", config.FlagDescReminder)
	flag.Parse()

	if *showVersion {
		fmt.Printf(config.MsgVersionOutput, config.AppName, config.Version, runtime.GOOS, runtime.GOARCH)
		return config.ExitCodeSuccess
	}

	if logCloser := setupLogging(*debugMode); logCloser != nil {
		defer func() { _ = logCloser.Close() }()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	if err := run(ctx, opts, os.Stdin, os.Stdout); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// run wires the services and executes the requested mode.
func run(ctx context.Context, opts options, stdin io.Reader, stdout io.Writer) error {
	secrets := app.NewKeyringSecrets()
	if opts.store {
		return storePassword(secrets, opts.user, stdin)
	}

	src, err := sourceFromOptions(opts)
	if err != nil {
		return err
	}
	tr := i18n.New(opts.lang)
	svc, err := buildService(opts, src, tr, secrets)
	if err != nil {
		return err
	}

	// In serve mode the startup sync already publishes; Run only re-syncs.
	var srv *server.FeedServer
	if opts.serve {
		srv = server.NewFeedServer(opts.port)
		svc.Publisher = srv
	}

	res, err := svc.Sync(ctx)
	if err != nil {
		return err
	}
	printUpcoming(stdout, tr, res.Upcoming)

	if opts.export != "" {
		if err := exportBook(opts.export, res.Book); err != nil {
			return err
		}
	}

	if srv == nil {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Start(gctx) })
	g.Go(func() error { return svc.Run(gctx) })
	return g.Wait()
}

// buildService wires the loader, the localized calendar and the keyring.
func buildService(opts options, src engine.SourceConfig, tr *i18n.Translator, secrets app.SecretStore) (*app.Service, error) {
	trigger, err := engine.ParseReminder(opts.reminder)
	if err != nil {
		return nil, err
	}

	clock := addressbook.RealClock{}
	return &app.Service{
		Loader: &engine.Loader{
			Clock:    clock,
			Fetcher:  engine.NewHTTPFetcher(),
			Describe: tr.ValidationMessage,
		},
		Calendar: &engine.CalendarBuilder{
			Clock:           clock,
			FormatSummary:   tr.Summary,
			ReminderTrigger: trigger,
		},
		Secrets:  secrets,
		Source:   src,
		Interval: time.Duration(opts.interval) * time.Minute,
	}, nil
}

// sourceFromOptions prefers the remote URL over a local file.
func sourceFromOptions(opts options) (engine.SourceConfig, error) {
	switch {
	case opts.url != "":
		return engine.SourceConfig{Mode: config.SourceModeWeb, WebURL: opts.url, WebUser: opts.user}, nil
	case opts.source != "":
		return engine.SourceConfig{Mode: config.SourceModeLocal, LocalPath: opts.source}, nil
	default:
		return engine.SourceConfig{}, errors.New(config.ErrSourceMissing)
	}
}

// printUpcoming writes a localized header followed by one line per congratulation.
func printUpcoming(w io.Writer, tr *i18n.Translator, upcoming []addressbook.UpcomingBirthday) {
	if len(upcoming) == 0 {
		_, _ = fmt.Fprintln(w, tr.Msg(config.TKeyUpcomingNone, nil))
		return
	}
	_, _ = fmt.Fprintln(w, tr.Count(config.TKeyUpcomingCount, len(upcoming)))
	for _, u := range upcoming {
		_, _ = fmt.Fprintln(w, tr.UpcomingLine(u))
	}
}

// exportBook writes the book as vCards to path, owner read/write only.
func exportBook(path string, book *addressbook.AddressBook) error {
	f, err := os.OpenFile(path, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrExport, err)
	}
	if err := engine.ExportVCards(f, book); err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: %w", config.ErrExport, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%s: %w", config.ErrExport, err)
	}
	slog.Info(config.MsgExported,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyFile, path,
		config.LogKeyCount, book.Len())
	return nil
}

// storePassword saves the first stdin line as the keyring password for user.
func storePassword(secrets app.KeyringSecrets, user string, stdin io.Reader) error {
	if user == "" {
		return errors.New(config.ErrUserRequired)
	}
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: %w", config.ErrReadPassword, err)
	}
	if err := secrets.Store(user, strings.TrimRight(line, "\r\n")); err != nil {
		return err
	}
	slog.Info(config.MsgPassStored, config.LogKeyComponent, config.CompMain, config.LogKeyUser, user)
	return nil
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging installs a JSON slog handler writing to stderr and, when
// possible, to a log file in the user cache directory.
func setupLogging(debugMode bool) io.Closer {
	writers := []io.Writer{os.Stderr}
	var logFile *os.File

	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}))
	slog.SetDefault(logger)

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath returns the log file location, creating its directory.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}
	return filepath.Join(appDir, config.LogFileName), nil
}
