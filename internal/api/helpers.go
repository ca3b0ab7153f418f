package api

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookcircleapp/bookcircle-server/internal/store"
)

// authenticateRequest validates the Authorization header and returns the user ID.
func (s *Server) authenticateRequest(authHeader string) (string, error) {
	if authHeader == "" {
		return "", huma.Error401Unauthorized("Missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", huma.Error401Unauthorized("Invalid authorization header format")
	}

	claims, err := s.tokens.VerifyToken(parts[1])
	if err != nil {
		return "", huma.Error401Unauthorized("Invalid or expired token")
	}

	return claims.UserID, nil
}

// pageParams builds store pagination from query values, falling back to
// defaults when unset.
func pageParams(page, size int) store.PageParams {
	params := store.PageParams{Page: page, Size: size}
	params.Validate()
	return params
}
