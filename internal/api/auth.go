// Package api implements HTTP handlers and helpers for the field-maintenance
// agenda service.
package api

import (
	"net/http"
	"strings"
)

type Principal struct {
	Role         string // admin, dispatcher, technician
	TechnicianID string
}

// getPrincipal extracts the caller's role from JWT or headers.
// - If Authorization: Bearer is present, uses the configured verifier
//   (dev/hmac/jwks).
// - Else falls back to headers for dev.
func (s *Server) getPrincipal(r *http.Request) Principal {
	authz := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(authz), "bearer ") && s.Auth != nil {
		tok := strings.TrimSpace(authz[len("Bearer "):])
		if pr, err := s.Auth.Verify(tok); err == nil {
			return Principal{Role: pr.Role, TechnicianID: pr.TechnicianID}
		}
	}
	role := r.Header.Get("X-Role")
	techID := r.Header.Get("X-Technician-Id")
	if role == "" {
		role = "admin"
	}
	return Principal{Role: strings.ToLower(role), TechnicianID: techID}
}

func (p Principal) IsAdmin() bool { return p.Role == "admin" }

// requireRole writes a 403 problem and returns false unless the principal
// holds one of the given roles.
func (s *Server) requireRole(w http.ResponseWriter, r *http.Request, roles ...string) bool {
	p := s.getPrincipal(r)
	for _, role := range roles {
		if p.Role == role {
			return true
		}
	}
	writeProblem(w, http.StatusForbidden, "Forbidden", strings.Join(roles, " or ")+" required", r.URL.Path)
	return false
}
