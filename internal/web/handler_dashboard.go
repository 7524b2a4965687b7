package web

import (
	"net/http"

	"github.com/sajithv/hospmeals/internal/access"
	"github.com/sajithv/hospmeals/internal/sync"
)

func (s *Server) handleManagerDashboard(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, nil, "pages/dashboard_manager.html")
}

func (s *Server) handlePantryDashboard(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, nil, "pages/dashboard_pantry.html")
}

func (s *Server) handleDeliveryDashboard(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, nil, "pages/dashboard_delivery.html")
}

// controllers returns the sync controller set for the request's session.
// Only reachable behind RequireRole, so the session is always present.
func (s *Server) controllers(r *http.Request) *sync.Set {
	return s.registry.For(access.FromContext(r.Context()))
}

// staleListMessage is shown when a refetch fails and the page falls back
// to the previous cache.
const staleListMessage = "Could not refresh the list; showing the last known state."
