// Package web serves a localhost-only single-user dashboard; it
// intentionally has no auth/CSRF protection in this mode.
package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ichika06/ojt-tracker/cache"
	"github.com/ichika06/ojt-tracker/calendar"
	"github.com/ichika06/ojt-tracker/internal/timeutil"
	"github.com/ichika06/ojt-tracker/session"
)

//go:embed templates/*.html
var templateFS embed.FS

type Server struct {
	coord  *session.Coordinator
	store  *cache.Store
	loc    *time.Location
	logger *slog.Logger
	mux    *http.ServeMux

	mu  sync.Mutex
	sel *calendar.Selection
}

func NewServer(coord *session.Coordinator, store *cache.Store, loc *time.Location, logger *slog.Logger) http.Handler {
	server := &Server{
		coord:  coord,
		store:  store,
		loc:    loc,
		logger: logger,
		sel:    calendar.NewSelection(timeutil.Today(loc), loc),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", server.handleDashboard)
	mux.HandleFunc("POST /log", server.handleLog)
	mux.HandleFunc("POST /delete", server.handleDelete)
	mux.HandleFunc("POST /goal", server.handleGoal)
	mux.HandleFunc("POST /select", server.handleSelect)
	mux.HandleFunc("POST /month", server.handleMonth)
	mux.HandleFunc("POST /darkmode", server.handleDarkMode)
	server.mux = mux

	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	darkMode, err := s.store.LoadDarkMode()
	if err != nil {
		s.logger.Warn("load dark mode preference failed", "error", err)
	}

	s.mu.Lock()
	sel := *s.sel
	s.mu.Unlock()

	view := BuildDashboard(
		s.coord.Snapshot(),
		s.coord.Goal(),
		&sel,
		timeutil.Today(s.loc),
		darkMode,
		s.coord.User().Email,
		noticeText(r.URL.Query().Get("notice")),
	)

	if err := renderTemplate(w, "dashboard.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimSpace(r.FormValue("date"))
	if date == "" {
		s.mu.Lock()
		date = s.sel.Selected
		s.mu.Unlock()
	}
	if _, err := timeutil.ParseDateKey(date, s.loc); err != nil {
		http.Error(w, "invalid date (expected YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	hours, err := resolveHours(r.FormValue("hours"), r.FormValue("start"), r.FormValue("end"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var needed *float64
	if raw := strings.TrimSpace(r.FormValue("needed")); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			http.Error(w, "invalid needed hours", http.StatusBadRequest)
			return
		}
		needed = &value
	}

	_, err = s.coord.LogHours(r.Context(), date, hours, needed)
	if err != nil && !errors.Is(err, session.ErrRemoteWrite) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.selectDateLocked(date)
	s.mu.Unlock()

	redirectAfterWrite(w, r, err)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimSpace(r.FormValue("date"))
	if _, err := timeutil.ParseDateKey(date, s.loc); err != nil {
		http.Error(w, "invalid date (expected YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	err := s.coord.RemoveEntry(r.Context(), date)
	if err != nil && !errors.Is(err, session.ErrRemoteWrite) {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.mu.Lock()
	s.selectDateLocked(date)
	s.mu.Unlock()

	redirectAfterWrite(w, r, err)
}

func (s *Server) handleGoal(w http.ResponseWriter, r *http.Request) {
	goal, parseErr := strconv.ParseFloat(strings.TrimSpace(r.FormValue("goal")), 64)
	if parseErr != nil {
		// Unparseable input falls back to the default goal, like the
		// coordinator does for non-positive values.
		goal = 0
	}

	err := s.coord.SaveGoal(r.Context(), goal)
	if err != nil && !errors.Is(err, session.ErrRemoteWrite) {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	redirectAfterWrite(w, r, err)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimSpace(r.FormValue("date"))
	parsed, err := timeutil.ParseDateKey(date, s.loc)
	if err != nil {
		http.Error(w, "invalid date (expected YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	cell := calendar.DayCell{
		Date:    parsed,
		Key:     date,
		InMonth: parsed.Year() == s.sel.Month.Year() && parsed.Month() == s.sel.Month.Month(),
	}
	s.sel.Select(cell, s.coord.LedgerCopy())
	s.mu.Unlock()

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	delta, err := strconv.Atoi(strings.TrimSpace(r.FormValue("delta")))
	if err != nil || (delta != -1 && delta != 1) {
		http.Error(w, "invalid month delta", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.sel.NavigateMonth(delta)
	s.mu.Unlock()

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDarkMode(w http.ResponseWriter, r *http.Request) {
	enabled, err := s.store.LoadDarkMode()
	if err != nil {
		s.logger.Warn("load dark mode preference failed", "error", err)
	}
	if err := s.store.SaveDarkMode(!enabled); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// selectDateLocked refocuses the selection on date after a mutation so the
// form buffers reflect what was just saved. Caller holds s.mu.
func (s *Server) selectDateLocked(date string) {
	parsed, err := timeutil.ParseDateKey(date, s.loc)
	if err != nil {
		return
	}
	cell := calendar.DayCell{Date: parsed, Key: date, InMonth: true}
	s.sel.Select(cell, s.coord.LedgerCopy())
}

// resolveHours takes either explicit decimal hours or a clock range; the
// range may wrap past midnight.
func resolveHours(rawHours, rawStart, rawEnd string) (float64, error) {
	rawHours = strings.TrimSpace(rawHours)
	if rawHours != "" {
		hours, err := strconv.ParseFloat(rawHours, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid hours value")
		}
		return hours, nil
	}

	rawStart = strings.TrimSpace(rawStart)
	rawEnd = strings.TrimSpace(rawEnd)
	if rawStart == "" || rawEnd == "" {
		return 0, fmt.Errorf("provide hours or a start and end time")
	}
	formatted := timeutil.DurationHours(rawStart, rawEnd)
	if formatted == "" {
		return 0, fmt.Errorf("invalid time range")
	}
	hours, err := strconv.ParseFloat(formatted, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid time range")
	}
	return hours, nil
}

func redirectAfterWrite(w http.ResponseWriter, r *http.Request, err error) {
	target := "/"
	if errors.Is(err, session.ErrRemoteWrite) {
		target = "/?notice=offline"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func noticeText(code string) string {
	switch code {
	case "offline":
		return "Saved locally. The server could not be reached; the change syncs on the next successful write."
	default:
		return ""
	}
}

func renderTemplate(w http.ResponseWriter, pageTemplate string, data any) error {
	tmpl, err := template.New("base.html").Funcs(template.FuncMap{
		"fmtHours": func(value float64) string {
			return timeutil.FormatDecimal(value)
		},
		"fmtPct": func(value float64) string {
			return fmt.Sprintf("%.1f", value)
		},
	}).ParseFS(templateFS, "templates/base.html", "templates/"+pageTemplate)
	if err != nil {
		return fmt.Errorf("parse template %s: %w", pageTemplate, err)
	}
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		return fmt.Errorf("render template %s: %w", pageTemplate, err)
	}
	return nil
}
