package auth

import "strings"

type Role string

const (
	RoleDoctor Role = "doctor"
	RoleAdmin  Role = "admin"
)

// Authenticator maps bearer tokens to roles. Tokens and their roles come
// from server configuration, never from client-side constants.
type Authenticator struct {
	tokens   map[string]Role
	disabled bool
}

// NewAuthenticator takes "token:role" pairs. Entries without a role default
// to doctor; unknown roles are ignored. disabled grants every request the
// admin role and exists for local development only.
func NewAuthenticator(pairs []string, disabled bool) *Authenticator {
	tokens := make(map[string]Role)
	for _, pair := range pairs {
		token, roleName, _ := strings.Cut(strings.TrimSpace(pair), ":")
		if token == "" {
			continue
		}
		switch Role(roleName) {
		case RoleAdmin:
			tokens[token] = RoleAdmin
		case RoleDoctor, "":
			tokens[token] = RoleDoctor
		}
	}
	return &Authenticator{tokens: tokens, disabled: disabled}
}

// Authenticate resolves a bearer token to its role.
func (a *Authenticator) Authenticate(token string) (Role, bool) {
	if a.disabled {
		return RoleAdmin, true
	}
	role, ok := a.tokens[token]
	return role, ok
}
