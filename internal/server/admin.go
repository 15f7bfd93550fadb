package server

import (
	"net/http"

	"github.com/monarkh/site/internal/site"
)

func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	// Handle logout
	if r.URL.Query().Get("logout") == "1" {
		http.SetCookie(w, &http.Cookie{
			Name:   tokenCookieName,
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	ctx := r.Context()
	subs, err := s.store.ListSubscribers(ctx)
	if err != nil {
		http.Error(w, "Failed to load subscribers", http.StatusInternalServerError)
		return
	}
	stats, err := s.store.SourceStats(ctx)
	if err != nil {
		http.Error(w, "Failed to load stats", http.StatusInternalServerError)
		return
	}

	data := site.AdminData{
		Total:       s.printer.Sprintf("%d", len(subs)),
		Sources:     make([]site.AdminSource, len(stats)),
		Subscribers: make([]site.AdminSubscriber, len(subs)),
	}
	for i, st := range stats {
		data.Sources[i] = site.AdminSource{Source: st.Source, Count: s.printer.Sprintf("%d", st.Subscribers)}
	}
	for i, sub := range subs {
		data.Subscribers[i] = site.AdminSubscriber{
			Email:  sub.Email,
			Source: sub.Source,
			Joined: sub.CreatedAt.Format("Jan 2, 2006"),
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = site.Render(w, site.View{Page: "admin", Title: "Subscribers", Content: s.content, Data: data})
	if err != nil {
		s.logger.Error("failed to render admin", "error", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

func (s *Server) handleAdminAPI(w http.ResponseWriter, r *http.Request) {
	subs, err := s.store.ListSubscribers(r.Context())
	if err != nil {
		http.Error(w, "Failed to load subscribers", http.StatusInternalServerError)
		return
	}

	type apiSubscriber struct {
		Email     string `json:"email"`
		Source    string `json:"source"`
		CreatedAt string `json:"created_at"`
	}
	type apiResponse struct {
		Total       int             `json:"total"`
		Subscribers []apiSubscriber `json:"subscribers"`
	}

	resp := apiResponse{Total: len(subs), Subscribers: make([]apiSubscriber, len(subs))}
	for i, sub := range subs {
		resp.Subscribers[i] = apiSubscriber{
			Email:     sub.Email,
			Source:    sub.Source,
			CreatedAt: sub.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
