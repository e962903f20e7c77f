package server

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tartampluch/go-cadence/internal/config"
	"github.com/tartampluch/go-cadence/internal/engine"
	"github.com/tartampluch/go-cadence/internal/importer"
)

// contactJSON is the wire shape of a contact.
type contactJSON struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Cadence       string     `json:"cadence"`
	CustomDays    int        `json:"custom_days,omitempty"`
	LastContacted *time.Time `json:"last_contacted,omitempty"`
	NextReminder  *time.Time `json:"next_reminder,omitempty"`
	Birthday      string     `json:"birthday,omitempty"`
	Archived      bool       `json:"archived,omitempty"`
}

func toJSON(c engine.Contact) contactJSON {
	out := contactJSON{
		ID:            c.ID,
		Name:          c.Name,
		Cadence:       string(c.Cadence),
		CustomDays:    c.CustomDays,
		LastContacted: c.LastContacted,
		NextReminder:  c.NextReminder,
		Archived:      c.Archived,
	}
	if c.Birthday != nil {
		out.Birthday = c.Birthday.String()
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	if errors.Is(err, engine.ErrContactMissing) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) prefs(w http.ResponseWriter) (engine.Preferences, bool) {
	prefs, err := s.db.Preferences()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return engine.Preferences{}, false
	}
	return prefs, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := s.db.Ping() == nil

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
		"db_path": s.db.Path,
	})
}

func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Cadence    string `json:"cadence"`
		CustomDays int    `json:"custom_days"`
		Birthday   string `json:"birthday"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	cadence := engine.Cadence(req.Cadence)
	if !cadence.Known() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%s: %q", config.ErrUnknownCadence, req.Cadence))
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id required")
		return
	}

	c := engine.Contact{
		ID:         req.ID,
		Name:       req.Name,
		Cadence:    cadence,
		CustomDays: req.CustomDays,
	}
	if req.Birthday != "" {
		bd, err := engine.ParseBirthday(req.Birthday)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		c.Birthday = &bd
	}

	prefs, ok := s.prefs(w)
	if !ok {
		return
	}
	created, err := s.sched.AddContact(r.Context(), c, prefs)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toJSON(created))
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	includeArchived := r.URL.Query().Get("include_archived") == "true"

	contacts, err := s.db.ListContacts(includeArchived)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]contactJSON, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, toJSON(c))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(out),
		"contacts": out,
	})
}

func (s *Server) handleGetContact(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "contactID")

	c, err := s.db.ContactByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if c == nil {
		writeError(w, http.StatusNotFound, config.ErrContactMissing)
		return
	}
	writeJSON(w, http.StatusOK, toJSON(*c))
}

func (s *Server) handleLogInteraction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "contactID")

	var req struct {
		At *time.Time `json:"at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	at := s.sched.Clock.Now()
	if req.At != nil {
		at = *req.At
	}

	prefs, ok := s.prefs(w)
	if !ok {
		return
	}
	c, err := s.sched.LogInteraction(r.Context(), id, at, prefs)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toJSON(*c))
}

func (s *Server) handleSnooze(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "contactID")

	var req struct {
		Until       time.Time `json:"until"`
		WindowHours int       `json:"window_hours"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Until.IsZero() {
		writeError(w, http.StatusBadRequest, "until required")
		return
	}

	window := time.Duration(req.WindowHours) * time.Hour

	prefs, ok := s.prefs(w)
	if !ok {
		return
	}
	c, err := s.sched.Snooze(r.Context(), id, req.Until, window, prefs)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toJSON(*c))
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	s.setArchived(w, r, true)
}

func (s *Server) handleUnarchive(w http.ResponseWriter, r *http.Request) {
	s.setArchived(w, r, false)
}

func (s *Server) setArchived(w http.ResponseWriter, r *http.Request, archived bool) {
	id := chi.URLParam(r, "contactID")

	prefs, ok := s.prefs(w)
	if !ok {
		return
	}
	c, err := s.sched.SetArchived(r.Context(), id, archived, prefs)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toJSON(*c))
}

func (s *Server) handleChangeCadence(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "contactID")

	var req struct {
		Cadence    string     `json:"cadence"`
		CustomDays int        `json:"custom_days"`
		Anchor     *time.Time `json:"anchor"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	cadence := engine.Cadence(req.Cadence)
	if !cadence.Known() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%s: %q", config.ErrUnknownCadence, req.Cadence))
		return
	}

	prefs, ok := s.prefs(w)
	if !ok {
		return
	}
	c, err := s.sched.ChangeCadence(r.Context(), id, cadence, req.CustomDays, req.Anchor, prefs)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toJSON(*c))
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode       string `json:"mode"`
		Path       string `json:"path"`
		URL        string `json:"url"`
		User       string `json:"user"`
		Pass       string `json:"pass"`
		Cadence    string `json:"cadence"`
		CustomDays int    `json:"custom_days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	cadence := engine.Cadence(req.Cadence)
	if !cadence.Known() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%s: %q", config.ErrUnknownCadence, req.Cadence))
		return
	}

	batch, err := s.importer.Read(r.Context(), importer.SourceConfig{
		Mode:       req.Mode,
		LocalPath:  req.Path,
		WebURL:     req.URL,
		WebUser:    req.User,
		WebPass:    req.Pass,
		Cadence:    cadence,
		CustomDays: req.CustomDays,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	prefs, ok := s.prefs(w)
	if !ok {
		return
	}
	imported, err := s.sched.ImportBatch(r.Context(), batch, s.sched.Clock.Now(), prefs)
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	out := make([]contactJSON, 0, len(imported))
	for _, c := range imported {
		out = append(out, toJSON(c))
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"count":    len(out),
		"contacts": out,
	})
}

func (s *Server) handleAgenda(w http.ResponseWriter, r *http.Request) {
	start, err := time.Parse(config.DateFormatFullDash, r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "start required (YYYY-MM-DD)")
		return
	}
	end, err := time.Parse(config.DateFormatFullDash, r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "end required (YYYY-MM-DD)")
		return
	}
	// Make the end date inclusive of its whole day.
	end = end.Add(engine.Day - time.Nanosecond)

	contacts, err := s.db.ListContacts(false)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type occurrenceJSON struct {
		ContactID string    `json:"contact_id"`
		Name      string    `json:"name"`
		At        time.Time `json:"at"`
	}

	var out []occurrenceJSON
	for _, c := range contacts {
		for _, occ := range engine.OccurrencesInRange(c, start, end) {
			out = append(out, occurrenceJSON{ContactID: c.ID, Name: c.DisplayName(), At: occ})
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":       len(out),
		"occurrences": out,
	})
}

func (s *Server) handleDueToday(w http.ResponseWriter, r *http.Request) {
	due, err := s.sched.DueToday(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]contactJSON, 0, len(due))
	for _, c := range due {
		out = append(out, toJSON(c))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(out),
		"contacts": out,
	})
}

// handleScheduleDigest resolves today's due contacts into one digest
// trigger set, replacing any pending digest.
func (s *Server) handleScheduleDigest(w http.ResponseWriter, r *http.Request) {
	due, err := s.sched.DueToday(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	prefs, ok := s.prefs(w)
	if !ok {
		return
	}
	id, err := s.sched.Resolver.ScheduleDigest(r.Context(), due, prefs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"due":       len(due),
		"scheduled": id != "",
	})
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	pending, err := s.registry.ListScheduled(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":         len(pending),
		"notifications": pending,
	})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	prefs, ok := s.prefs(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"frequency": prefs.Frequency,
		"times":     prefs.Times,
	})
}

// handleSaveSettings persists the notification preferences and re-resolves
// every pending trigger against them.
func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Frequency int      `json:"frequency"`
		Times     []string `json:"times"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Frequency < config.MinNotifyFrequency || req.Frequency > config.MaxNotifyFrequency {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("frequency must be between %d and %d", config.MinNotifyFrequency, config.MaxNotifyFrequency))
		return
	}

	prefs := engine.Preferences{Frequency: req.Frequency, Times: req.Times}
	if err := s.db.SavePreferences(prefs); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	count, err := s.sched.RescheduleAll(r.Context(), prefs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	slog.Info(config.MsgSettingsSaved,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyCount, count,
	)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"rescheduled": count,
	})
}

// handleCalendar renders the feed and serves it with conditional-request
// support so calendar clients can poll cheaply.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.db.ListContacts(false)
	if err != nil {
		http.Error(w, config.HTTPMsgInternalErr, http.StatusInternalServerError)
		return
	}

	data, err := s.feed.Build(contacts)
	if err != nil {
		http.Error(w, config.HTTPMsgInternalErr, http.StatusInternalServerError)
		return
	}

	hash := sha256.Sum256(data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	w.Header().Set(config.HeaderContentType, config.MimeTextCalendar)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, etag)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if _, err := w.Write(data); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}
