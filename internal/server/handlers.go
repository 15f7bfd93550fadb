package server

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/monarkh/site/internal/newsletter"
	"github.com/monarkh/site/internal/site"
)

type HealthResponse struct {
	Status           string `json:"status"`
	SubscribersCount int    `json:"subscribers_count"`
	LiveSessions     int    `json:"live_sessions"`
	DBSizeBytes      int64  `json:"db_size_bytes"`
	UptimeSeconds    int64  `json:"uptime_seconds"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	count, err := s.store.CountSubscribers(ctx)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// Get database size
	var dbSize int64
	row := s.store.DB().QueryRowContext(ctx, "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
	if err := row.Scan(&dbSize); err != nil {
		s.logger.Debug("failed to read database size", "error", err)
	}

	response := HealthResponse{
		Status:           "ok",
		SubscribersCount: count,
		LiveSessions:     s.hub.Len(),
		DBSizeBytes:      dbSize,
		UptimeSeconds:    int64(time.Since(s.startTime).Seconds()),
	}

	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handlePage(page, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err := site.Render(w, site.View{
			Page:    page,
			Title:   title,
			Live:    true,
			Content: s.content,
		})
		if err != nil {
			s.logger.Error("failed to render page", "page", page, "error", err)
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
		}
	}
}

// handleLiveJS serves the browser side of the live channel
func (s *Server) handleLiveJS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	w.Header().Set("Cache-Control", "public, max-age=60")
	w.Write([]byte(site.GenerateLiveScript("/live")))
}

// NewsletterRequest is the body of POST /api/newsletter
type NewsletterRequest struct {
	Email  string `json:"email"`
	Source string `json:"source,omitempty"`
}

type NewsletterResponse struct {
	Status  string `json:"status"`
	Created bool   `json:"created,omitempty"`
	Error   string `json:"error,omitempty"`
}

const maxNewsletterBody = 4 << 10

func (s *Server) handleNewsletter(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxNewsletterBody)

	form := isForm(r)
	var req NewsletterRequest
	if form {
		if err := r.ParseMultipartForm(maxNewsletterBody); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			http.Error(w, "Invalid form", http.StatusBadRequest)
			return
		}
		req.Email = r.PostFormValue("email")
		req.Source = "form"
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, NewsletterResponse{Status: "error", Error: "invalid JSON"})
		return
	}

	created, err := s.newsletter.Subscribe(r.Context(), req.Email, signupSource(req.Source))
	if form {
		status := "success"
		if err != nil {
			status = "error"
		}
		http.Redirect(w, r, "/?newsletter="+status+"#newsletter", http.StatusSeeOther)
		return
	}

	switch {
	case errors.Is(err, newsletter.ErrInvalidEmail):
		writeJSON(w, http.StatusBadRequest, NewsletterResponse{Status: "error", Error: err.Error()})
	case err != nil:
		s.logger.Error("newsletter signup failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, NewsletterResponse{Status: "error", Error: "signup failed"})
	default:
		writeJSON(w, http.StatusOK, NewsletterResponse{Status: "success", Created: created})
	}
}

// signupSource keeps metric labels to a fixed set.
func signupSource(source string) string {
	switch source {
	case "home", "articles", "form":
		return source
	}
	return "api"
}

func isForm(r *http.Request) bool {
	ct, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return ct == "application/x-www-form-urlencoded" || strings.HasPrefix(ct, "multipart/")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
