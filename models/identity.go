package models

import "strings"

// Identity is the caller identity produced by a verified bearer token.
type Identity struct {
	UID     string `json:"uid"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// NormalizeEmail is the form emails are compared and stored in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DisplayName falls back to "Unknown" when the identity provider has no name.
func (i Identity) DisplayName() string {
	if i.Name == "" {
		return "Unknown"
	}
	return i.Name
}
