package models

import "github.com/golang-jwt/jwt/v5"

// Session is the verified identity attached to a request by the session
// provider. A nil *Session means the caller is anonymous.
type Session struct {
	User SessionUser `json:"user"`
}

// SessionUser carries the identity-provider view of the caller. Email, Name
// and Image may be empty when the provider did not supply them.
type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Image string `json:"image,omitempty"`
}

// IdentityClaims represents the JWT claims issued by the external identity
// provider. The subject claim is the member's stable external identity.
type IdentityClaims struct {
	jwt.RegisteredClaims
	Email        string                 `json:"email"`
	Role         string                 `json:"role"` // "authenticated" or "anon"
	UserMetadata map[string]interface{} `json:"user_metadata"`
	IsAnonymous  bool                   `json:"is_anonymous"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *IdentityClaims) GetUserID() string {
	return c.Subject
}

// metaString pulls an optional string out of the provider's user metadata.
func (c *IdentityClaims) metaString(key string) string {
	if c.UserMetadata == nil {
		return ""
	}
	s, _ := c.UserMetadata[key].(string)
	return s
}

// Name returns the display name supplied by the identity provider, if any.
func (c *IdentityClaims) Name() string {
	if name := c.metaString("name"); name != "" {
		return name
	}
	return c.metaString("full_name")
}

// Image returns the avatar URL supplied by the identity provider, if any.
func (c *IdentityClaims) Image() string {
	return c.metaString("avatar_url")
}
