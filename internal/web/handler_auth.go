package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sajithv/hospmeals/internal/access"
	"github.com/sajithv/hospmeals/internal/api"
	"github.com/sajithv/hospmeals/internal/domain"
)

// handleHome fans out to the dashboard matching the session's role, the
// same way the original login flow did. No session, or a role the access
// rules never match, lands on the login page.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	sess := access.FromContext(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	switch sess.Role {
	case domain.RoleManager:
		http.Redirect(w, r, "/manager", http.StatusSeeOther)
	case domain.RolePantry:
		http.Redirect(w, r, "/pantry", http.StatusSeeOther)
	case domain.RoleDelivery:
		http.Redirect(w, r, "/delivery", http.StatusSeeOther)
	default:
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, nil, "pages/login.html")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		s.renderPage(w, r, map[string]any{"Error": "Email and password are required."}, "pages/login.html")
		return
	}

	sess, err := s.sessions.Login(r.Context(), email, password)
	if err != nil {
		var authErr *api.AuthError
		if errors.As(err, &authErr) {
			s.renderPage(w, r, map[string]any{"Error": "Invalid credentials."}, "pages/login.html")
			return
		}
		s.logger.Error("login failed", "error", err)
		s.renderPage(w, r, map[string]any{"Error": "Login is unavailable right now, try again."}, "pages/login.html")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.opts.CSRFSecure,
	})

	switch sess.Role {
	case domain.RoleManager:
		http.Redirect(w, r, "/manager", http.StatusSeeOther)
	case domain.RolePantry:
		http.Redirect(w, r, "/pantry", http.StatusSeeOther)
	case domain.RoleDelivery:
		http.Redirect(w, r, "/delivery", http.StatusSeeOther)
	default:
		// Token stored, but an unknown role reaches nothing gated.
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (s *Server) handleSignupPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, nil, "pages/signup.html")
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	role := strings.TrimSpace(r.FormValue("role"))
	if email == "" || password == "" || role == "" {
		s.renderPage(w, r, map[string]any{"Error": "All fields are required."}, "pages/signup.html")
		return
	}

	if err := s.sessions.Register(r.Context(), email, password, role); err != nil {
		var valErr *domain.ValidationError
		if errors.As(err, &valErr) {
			s.renderPage(w, r, map[string]any{"Error": "Role must be manager, pantry or delivery."}, "pages/signup.html")
			return
		}
		s.logger.Error("registration failed", "error", err)
		s.renderPage(w, r, map[string]any{"Error": "Error while registering the user."}, "pages/signup.html")
		return
	}

	s.renderPage(w, r, map[string]any{"Notice": "User registered successfully. You can log in now."}, "pages/signup.html")
}

// handleLogout drops the session row, the controller caches and the
// cookie. Safe to call signed out.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if err := s.sessions.Logout(r.Context(), cookie.Value); err != nil {
			s.logger.Error("logout failed", "error", err)
		}
		s.registry.Drop(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
