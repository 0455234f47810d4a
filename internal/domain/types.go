package domain

import "strings"

// ID is used across domain entities.
type ID = int64

// Actor is the authenticated user performing a state-changing call.
type Actor struct {
	UserID ID     `json:"userId"`
	Role   string `json:"role"`
}

// RequireActor fails with AuthError when the acting identity is absent.
func RequireActor(a *Actor) (Actor, error) {
	if a == nil || a.UserID <= 0 {
		return Actor{}, AuthError{Msg: "acting admin identity is required"}
	}
	return Actor{UserID: a.UserID, Role: strings.ToLower(strings.TrimSpace(a.Role))}, nil
}
