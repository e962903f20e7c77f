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
var UserAgent = "Go-Cadence/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Cadence"
	AppID             = "com.github.tartampluch.go-cadence"
	KeyringService    = "com.github.tartampluch.go-cadence"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	DBFileName        = "cadence.db"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for sensitive files like logs and the contact database.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagDebug     = "debug"
	FlagPort      = "port"
	FlagDB        = "db"
	FlagFile      = "file"
	FlagURL       = "url"
	FlagUser      = "user"
	FlagFrom      = "from"
	FlagCadence   = "cadence"
	FlagDays      = "days"
	FlagLang      = "lang"
	FlagDescDebug = "Enable debug logging to stdout"
	FlagDescPort  = "HTTP listen port"
	FlagDescDB    = "Path to the contact database"
	FlagDescFile  = "Path to a local .vcf file to import"
	FlagDescURL   = "CardDAV or WebDAV URL to import from"
	FlagDescUser  = "HTTP Basic Auth username for URL import"
	FlagDescFrom  = "Reference date (YYYY-MM-DD) for distribution, defaults to today"
	FlagDescCad   = "Cadence assigned to imported contacts"
	FlagDescDays  = "Custom cadence interval in days (with --cadence custom)"
	FlagDescLang  = "Language for reminder text (en, fr)"

	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Scheduling Defaults & Business Logic
// -----------------------------------------------------------------------------

const (
	// DefaultSlotTime is the trigger time-of-day used when no configured
	// slot parses.
	DefaultSlotTime = "09:00"

	// MinNotifyFrequency / MaxNotifyFrequency bound the per-day slot count.
	MinNotifyFrequency = 1
	MaxNotifyFrequency = 3

	// MaxTriggerWalkDays bounds the day-by-day slot search so trigger
	// resolution always terminates.
	MaxTriggerWalkDays = 366

	// DefaultCustomSpacingDays spaces a custom-cadence import group whose
	// first member carries no interval of its own.
	DefaultCustomSpacingDays = 30

	// DefaultSnapWindow is how close a snooze request must land to the next
	// cadence boundary before it snaps onto it. The exact width is a tuning
	// knob, not a law; callers may override it.
	DefaultSnapWindow = 24 * time.Hour

	// DefaultFeedWindowDays is the half-width of the calendar feed
	// projection window around today.
	DefaultFeedWindowDays = 185

	DefaultLeapYear = 2000 // Leap year fallback for dates like --02-29
	DefaultLanguage = "en"
	DefaultPort     = "18080"

	// UIDSalt keeps feed event UIDs deterministic across regenerations.
	UIDSalt = "go-cadence-v1-"
)

// SupportedLanguages defines the list of available reminder-text languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Platform Profiles
// -----------------------------------------------------------------------------

const (
	// Digest notifications list this many names before truncating to
	// "and N more". The compact profile matches the tighter banner width.
	CompactProfileNameCap = 2
	RegularProfileNameCap = 3

	NameSeparator = ", "
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Cadence//Engine//EN"
	ICalCalName   = "Reminders"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "gocadence"

	// DefaultAlarmTrigger fires the display alarm one day ahead
	// (ISO8601 negative duration).
	DefaultAlarmTrigger = "-P1D"

	// iCal/vCard Fields
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

	VCardBDAY = "BDAY"
	VCardFN   = "FN"
	VCardN    = "N"

	DefaultICalRefresh = 1 * time.Hour

	// StubVCalendar is the minimal valid iCalendar object used when no
	// events fall inside the feed window.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	// Date layouts used across the engine
	DateFormatDay       = "2006-01-02"
	TimeFormatSlot      = "15:04"
	BirthdayFormatFull  = "2006-01-02"
	BirthdayFormatShort = "01-02"

	// Date layouts used for parsing vCard BDAY fields
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	// Limits
	MinPort = 1
	MaxPort = 65535

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s-%d@%s"
	FormatUIDDated  = "%s-%s@%s"
	DateFormatUID   = "20060102"

	// File Extensions
	ExtVCF   = ".vcf"
	ExtVCard = ".vcard"

	// vCard Source Modes
	SourceModeLocal = "local"
	SourceModeWeb   = "carddav"
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
	MaxHTTPResponseSize = 256 * 1024 * 1024 // 256MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteCalendar       = "/calendar.ics"
	AddrSeparator       = ":"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType  = "Content-Type"
	HeaderCacheControl = "Cache-Control"
	HeaderETag         = "ETag"
	HeaderLastModified = "Last-Modified"
	HeaderXContentType = "X-Content-Type-Options"
	HeaderUserAgent    = "User-Agent"
	HeaderIfNoneMatch  = "If-None-Match"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyNotifTitle    = "notif_title"     // Requires Name
	TKeyNotifBody     = "notif_body"      // Requires Name
	TKeyDigestTitle   = "digest_title"    // Requires Count
	TKeyDigestBody    = "digest_body"     // Requires Names
	TKeyDigestMore    = "digest_more"     // Requires Names, More
	TKeyEvtReminder   = "event_reminder"  // Requires Name
	TKeyEvtBirthday   = "event_birthday"  // Requires Name
	TKeyEvtBdayAge    = "event_bday_age"  // Requires Name, Age
	TKeyEvtBdayBirth  = "event_bday_born" // Requires Name (age 0)
	TKeyFallbackLabel = "fallback_label"  // "this connection"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrUnknownCadence = "unknown cadence"
	ErrBirthdayParse  = "unable to parse birthday"
	ErrDateParse      = "unable to parse date"
	ErrTimeOfDay      = "unable to parse time of day"
	ErrVCardParse     = "failed to parse vCard stream"
	ErrICalEncode     = "failed to encode iCalendar data"
	ErrLocalPathEmpty = "configuration error: local path is empty"
	ErrWebURLEmpty    = "configuration error: web URL is empty"
	ErrFetcherMissing = "internal error: network fetcher is not initialized"
	ErrModeUnsupport  = "unsupported source mode"
	ErrInvalidURL     = "invalid URL structure"
	ErrProtocol       = "unsupported protocol scheme (http/https only)"
	ErrBuildRequest   = "build download request"
	ErrFetchNetwork   = "address book download failed"
	ErrFetchStatus    = "address book server status"
	ErrServerStartup  = "server startup failed"
	ErrServerShutdown = "server shutdown failed"
	ErrPortRequired   = "server port is required"
	ErrContactMissing = "contact not found"
	ErrStoreOpen      = "failed to open contact database"
	ErrLogFile        = "failed to open log file"
	ErrCacheDir       = "could not determine user cache dir"
	ErrCreateDir      = "could not create app cache dir"
	ErrAppFailed      = "application failed unexpectedly"
	ErrWriteResp      = "failed to write response body"
	ErrLocalesAccess  = "failed to access embedded locales"
	ErrLocaleLoad     = "failed to load locale file"
	ErrLocNotInit     = "localizer not initialized"
	ErrKeyringRead    = "keyring lookup failed (might be empty)"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInternalErr = "Internal Server Error"
)

// -----------------------------------------------------------------------------
// Fallbacks & Defaults
// -----------------------------------------------------------------------------

const (
	// FallbackContactName replaces a blank display name in reminder text.
	FallbackContactName = "this connection"

	FallbackNotifTitle   = "Time to reach out to %s"
	FallbackNotifBody    = "Keep in touch with %s"
	FallbackDigestTitle  = "%d connections to catch up with"
	FallbackDigestMore   = "%s and %d more"
	FallbackEvtReminder  = "Reach out: %s"
	FallbackEvtBirthday  = "Birthday: %s"
	FallbackEvtBdayAge   = "Birthday: %s (%d)"
	FallbackEvtBdayBirth = "Birth of %s"

	MsgAppStarting    = "Starting application"
	MsgAppStop        = "Application stopped gracefully"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgCacheUpdated   = "Calendar cache updated"
	MsgFeedGenerated  = "Calendar feed generated"
	MsgImportStarted  = "Import started"
	MsgFetchStarted   = "Fetching address book"
	MsgFetchRejected  = "Address book server rejected the request"
	MsgFetchReading   = "Address book downloading"
	MsgImportDone     = "Import finished"
	MsgSkippedCard    = "Skipping malformed vCard"
	MsgSkippedKnown   = "Skipping already imported contact"
	MsgSkippedDate    = "Skipping invalid date format"
	MsgDistributed    = "Import batch distributed"
	MsgNotifPlanned   = "Notification slots scheduled"
	MsgNotifSkipped   = "Notification scheduling skipped"
	MsgNotifCancelled = "Stale notifications cancelled"
	MsgSnoozeSnapped  = "Snooze snapped to cadence boundary"
	MsgRescheduleAll  = "Rescheduling all contacts"
	MsgCtxCancel      = "Context cancelled, shutting down"
	MsgSettingsSaved  = "Notification settings saved"
	MsgBdayToday      = "Birthday found today"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleBadName  = "Locale file has empty language code"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgTransMissing   = "Missing translation key"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
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
	LogKeyAddr      = "addr"
	LogKeyValue     = "value"
	LogKeyProcessed = "processed"
	LogKeyStats     = "stats"
	LogKeyCount     = "count"
	LogKeyName      = "name"
	LogKeyUser      = "user"
	LogKeyContact   = "contact_id"
	LogKeyCadence   = "cadence"
	LogKeyDue       = "due"
	LogKeyAnchor    = "anchor"
	LogKeyRequested = "requested"
	LogKeyResult    = "result"
	LogKeySlots     = "slots"
	LogKeyFrequency = "frequency"
	LogKeyTrigger   = "trigger"
	LogKeyTotal     = "total_cards"
	LogKeyImported  = "imported"
	LogKeySkipped   = "skipped"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyDuration  = "duration_ms"
	LogKeyDB        = "db_path"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompEngine   = "engine"
	CompNotify   = "notify"
	CompStore    = "store"
	CompServer   = "server"
	CompFeed     = "feed"
	CompFetcher  = "fetcher"
	CompImporter = "importer"
	CompCLI      = "cli"
	CompMain     = "main"
	CompI18n     = "i18n"
)
