package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-addressbook/internal/addressbook"
	"github.com/tartampluch/go-addressbook/internal/config"
)

// SourceConfig describes where the contact directory is read from.
type SourceConfig struct {
	Mode      string // config.SourceModeLocal or config.SourceModeWeb
	LocalPath string // Path to the .vcf file
	WebURL    string // CardDAV or WebDAV URL
	WebUser   string // HTTP Basic Auth Username
	WebPass   string // HTTP Basic Auth Password
}

// LoadStats summarizes one import.
type LoadStats struct {
	Cards         int // Cards decoded
	Records       int // Records stored in the book
	Birthdays     int // Records that received a birthday
	SkippedPhones int // TEL values that were not 10 digits after cleanup
}

// Loader turns a vCard stream into an AddressBook.
type Loader struct {
	Clock   addressbook.Clock // Injected into the returned book.
	Fetcher VCardFetcher      // Required for config.SourceModeWeb.

	// Describe turns a rejected TEL or BDAY value into the reason that is
	// logged with the skip. Defaults to err.Error().
	Describe func(err error) string
}

// Load opens the configured source and imports every card.
func (l *Loader) Load(ctx context.Context, cfg SourceConfig) (*addressbook.AddressBook, LoadStats, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyMode, cfg.Mode,
	)

	reader, err := l.openSource(ctx, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return nil, LoadStats{}, ctx.Err()
		}
		return nil, LoadStats{}, fmt.Errorf("%s: %w", config.ErrVCardRead, err)
	}
	defer func() { _ = reader.Close() }()

	book, stats, err := l.Import(ctx, reader)
	if err != nil {
		return nil, stats, err
	}

	log.Info(config.MsgLoadSuccess,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyCards, stats.Cards),
			slog.Int(config.LogKeyRecords, stats.Records),
			slog.Int(config.LogKeyPhones, stats.SkippedPhones),
		),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return book, stats, nil
}

// openSource returns the raw vCard stream for cfg.
func (l *Loader) openSource(ctx context.Context, cfg SourceConfig) (io.ReadCloser, error) {
	switch cfg.Mode {
	case config.SourceModeLocal:
		if cfg.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(cfg.LocalPath)
	case config.SourceModeWeb:
		if cfg.WebURL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if l.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return l.Fetcher.Fetch(ctx, cfg.WebURL, cfg.WebUser, cfg.WebPass)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, cfg.Mode)
	}
}

// Import decodes r card by card. Malformed cards, phones and birthdays are
// skipped with a log entry. Cancellation or config.MaxConsecutiveCardErrors
// failed cards in a row abort the import.
func (l *Loader) Import(ctx context.Context, r io.Reader) (*addressbook.AddressBook, LoadStats, error) {
	book := addressbook.New()
	if l.Clock != nil {
		book.Clock = l.Clock
	}

	var stats LoadStats
	failures := 0
	decoder := vcard.NewDecoder(r)
	for {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyError, err)
			// A failing reader returns the same error forever.
			if failures++; failures >= config.MaxConsecutiveCardErrors {
				return nil, stats, fmt.Errorf("%s: %w", config.ErrVCardRead, err)
			}
			continue
		}
		failures = 0
		stats.Cards++

		rec, skipped, hasBirthday := l.recordFromCard(card)
		stats.SkippedPhones += skipped
		if hasBirthday {
			stats.Birthdays++
		}
		book.AddRecord(rec)
	}
	stats.Records = book.Len()
	return book, stats, nil
}

// recordFromCard maps FN (or N) to the name, TEL to phones and BDAY to the birthday.
func (l *Loader) recordFromCard(card vcard.Card) (*addressbook.Record, int, bool) {
	name := cardName(card)
	rec := addressbook.NewRecord(name)

	skipped := 0
	for _, tel := range card.Values(vcard.FieldTelephone) {
		if err := rec.AddPhone(cleanPhone(tel)); err != nil {
			skipped++
			slog.Warn(config.MsgSkippedPhone,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyName, name,
				config.LogKeyValue, tel,
				config.LogKeyReason, l.describe(err))
		}
	}

	bday := card.Value(vcard.FieldBirthday)
	if bday == "" {
		return rec, skipped, false
	}
	date, err := parseVCardDate(bday)
	if err == nil {
		err = rec.AddBirthday(date.Format(config.BirthdayLayout))
	}
	if err != nil {
		slog.Debug(config.MsgSkippedDate,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyName, name,
			config.LogKeyValue, bday,
			config.LogKeyReason, l.describe(err))
		return rec, skipped, false
	}
	return rec, skipped, true
}

func (l *Loader) describe(err error) string {
	if l.Describe != nil {
		return l.Describe(err)
	}
	return err.Error()
}

// cardName prefers FN, then "Given Family" from N, then config.FallbackName.
func cardName(card vcard.Card) string {
	if fn := card.Get(vcard.FieldFormattedName); fn != nil {
		if name := strings.TrimSpace(fn.Value); name != "" {
			return name
		}
	}
	if n := card.Name(); n != nil {
		if name := strings.TrimSpace(n.GivenName + " " + n.FamilyName); name != "" {
			return name
		}
	}
	return config.FallbackName
}

// cleanPhone drops the separators commonly found in TEL values and a "tel:" URI prefix.
func cleanPhone(tel string) string {
	tel = strings.TrimPrefix(strings.TrimSpace(tel), "tel:")
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(config.PhoneSeparators, r) {
			return -1
		}
		return r
	}, tel)
}

// parseVCardDate handles the vCard BDAY forms that carry a year.
// Year-less forms (--MM-DD) cannot become a DD.MM.YYYY birthday and are rejected.
func parseVCardDate(value string) (time.Time, error) {
	layouts := []string{
		config.VCardDateDash,
		config.VCardDateBasic,
		config.VCardDateRFC,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New(config.ErrDateParse)
}
