package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-AddressBook/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go AddressBook"
	AppID             = "com.github.tartampluch.go-addressbook"
	KeyringService    = "com.github.tartampluch.go-addressbook"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "addressbook.log"
)

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------.
	DirPermUserRWX fs.FileMode = 0700
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion  = "version"
	FlagDebug    = "debug"
	FlagSource   = "source"
	FlagURL      = "url"
	FlagUser     = "user"
	FlagPort     = "port"
	FlagInterval = "interval"
	FlagLang     = "lang"
	FlagExport   = "export"
	FlagServe    = "serve"
	FlagStore    = "store-password"
	FlagReminder = "reminder"

	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging to stderr"
	FlagDescSource   = "Path to a local .vcf contact file"
	FlagDescURL      = "CardDAV or WebDAV URL of the contact file"
	FlagDescUser     = "HTTP Basic Auth username (password is read from the OS keyring)"
	FlagDescPort     = "Port of the local calendar feed"
	FlagDescInterval = "Refresh interval in minutes while serving"
	FlagDescLang     = "Language of the printed and published messages"
	FlagDescExport   = "Write the loaded contacts to this .vcf file"
	FlagDescServe    = "Keep running and serve the congratulation calendar"
	FlagDescStore    = "Read a password from stdin, save it in the OS keyring for -user and exit"
	FlagDescReminder = "ISO 8601 alarm offset added to each calendar event (e.g. -PT9H)"

	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// SupportedLanguages lists the embedded locales (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Directory Rules
// -----------------------------------------------------------------------------

const (
	// PhonePattern is the only accepted phone shape: ten ASCII digits.
	PhonePattern = `^\d{10}$`

	// BirthdayLayout is the DD.MM.YYYY input and display form.
	BirthdayLayout = "02.01.2006"

	// CongratulationLayout is the YYYY.MM.DD output form.
	CongratulationLayout = "2006.01.02"

	// UpcomingWindowDays is inclusive: a congratulation exactly this many days out is listed.
	UpcomingWindowDays = 7

	// PhoneSeparators are stripped from imported vCard TEL values.
	PhoneSeparators = " -.()"

	RecordFormat  = "Contact name: %s, phones: %s"
	PhoneJoiner   = "; "
	FieldPhone    = "phone"
	FieldBirthday = "birthday"
)

// -----------------------------------------------------------------------------
// Default Values
// -----------------------------------------------------------------------------

const (
	SourceModeWeb     = "web"
	SourceModeLocal   = "local"
	DefaultPort       = "18081"
	DefaultRefreshMin = 60
	DefaultLanguage   = "en"
	UIDSalt           = "go-addressbook-v1-"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go AddressBook//Congratulations//EN"
	ICalCalName   = "Congratulations"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "goaddressbook"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	DefaultICalRefresh = 1 * time.Hour

	// Date layouts accepted in vCard BDAY fields.
	VCardDateDash   = "2006-01-02"
	VCardDateBasic  = "20060102"
	VCardDateRFC    = time.RFC3339
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s@%s"

	// MaxConsecutiveCardErrors aborts an import stuck on a broken stream.
	MaxConsecutiveCardErrors = 10
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 64 * 1024 * 1024 // 64MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteCalendar       = "/"
	RouteUpcoming       = "/upcoming"
	AddrSeparator       = ":"
)

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderAccept          = "Accept"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeVCardAccept     = "text/vcard, text/x-vcard;q=0.9, */*;q=0.1"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages
// -----------------------------------------------------------------------------

const (
	ErrInvalidFormat  = "invalid format"
	ErrPhoneDigits    = "Phone number must be 10 digits"
	ErrBirthdayFormat = "Invalid birthday format. Use DD.MM.YYYY"
	ErrLocalPathEmpty = "configuration error: local path is empty"
	ErrWebURLEmpty    = "configuration error: web URL is empty"
	ErrFetcherMissing = "internal error: network fetcher is not initialized"
	ErrModeUnsupport  = "configuration error: unsupported source mode"
	ErrSourceMissing  = "configuration error: either -source or -url is required"
	ErrServerStartup  = "server startup failed"
	ErrServerShutdown = "server shutdown failed"
	ErrPortRequired   = "server port is required"
	ErrInvalidURL     = "invalid URL structure"
	ErrProtocol       = "unsupported protocol scheme (http/https only)"
	ErrVCardRead      = "failed to read vCard stream"
	ErrVCardEncode    = "failed to encode vCard"
	ErrICalEncode     = "failed to encode iCalendar data"
	ErrDateParse      = "unable to parse date"
	ErrLogFile        = "failed to open log file"
	ErrCacheDir       = "could not determine user cache dir"
	ErrCreateDir      = "could not create app cache dir"
	ErrAppFailed      = "application failed unexpectedly"
	ErrWriteResp      = "failed to write response body"
	ErrExport         = "failed to export contacts"
	ErrLocalesAccess  = "failed to access embedded locales"
	ErrLocaleLoad     = "failed to load locale file"
	ErrSync           = "synchronization failed"
	ErrUserRequired   = "configuration error: -user is required to store a password"
	ErrReadPassword   = "failed to read password from stdin"
	ErrReminder       = "invalid reminder, expected an ISO 8601 duration such as -PT9H"
	ErrFetchRequest   = "failed to create request"
	ErrFetchNetwork   = "network error during fetch"
	ErrFetchStatus    = "contact source returned unexpected status"
	ErrFetchAuth      = "contact source rejected the credentials (see -store-password)"
)

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackName    = "Unknown"
	FallbackSummary = "Congratulate %s"
	FallbackLine    = "%s: %s"

	// StubVCalendar is the minimal valid iCalendar object used when nothing is upcoming.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	MsgSyncStarted    = "Synchronization started"
	MsgSyncDone       = "Synchronization completed"
	MsgWorkerStart    = "Background worker started"
	MsgWorkerStop     = "Worker stopping due to context cancellation"
	MsgSkippedCard    = "Skipping malformed vCard"
	MsgSkippedDate    = "Skipping unusable birthday"
	MsgSkippedPhone   = "Skipping phone that is not 10 digits"
	MsgSkippedNoBday  = "Skipping record without birthday"
	MsgLoadSuccess    = "Contacts loaded"
	MsgCalendarBuilt  = "Congratulation calendar built"
	MsgAppStarting    = "Starting application"
	MsgAppStop        = "Application stopped gracefully"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgCacheUpdated   = "Feed cache updated"
	MsgRecordAdded    = "Record stored"
	MsgRecordReplaced = "Record replaced"
	MsgRecordDeleted  = "Record deleted"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgTransMissing   = "Missing translation key"
	MsgPassFail       = "Password retrieval failed (might be empty)"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
	MsgExported       = "Contacts exported"
	MsgPassStored     = "Password saved to the OS keyring"
	MsgFetchStarted   = "Downloading contact file"
	MsgFetchStatus    = "Contact source returned error status"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyEvtSummary    = "event_summary"    // Requires Name
	TKeyUpcomingLine  = "upcoming_line"    // Requires Name, Date
	TKeyUpcomingNone  = "upcoming_none"    // No template data
	TKeyUpcomingCount = "upcoming_count"   // Requires Count, plural
	TKeyErrPhone      = "err_phone_digits" // Validation message
	TKeyErrBirthday   = "err_birthday_format"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeyInterval  = "interval"
	LogKeyUser      = "user"
	LogKeyName      = "name"
	LogKeyValue     = "value"
	LogKeyReason    = "reason"
	LogKeyStats     = "stats"
	LogKeyCards     = "cards"
	LogKeyRecords   = "records"
	LogKeyPhones    = "phones_skipped"
	LogKeyUpcoming  = "upcoming"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyCount     = "count"
	LogKeyDuration  = "duration_ms"

	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

const (
	CompBook    = "addressbook"
	CompEngine  = "engine"
	CompServer  = "server"
	CompFetcher = "fetcher"
	CompWorker  = "worker"
	CompMain    = "main"
	CompI18n    = "i18n"
)
