package models

import (
	"time"
)

// OAuth2Token is a credential used to access a protected resource. It
// holds an access token and the refresh token that can rotate it. Tokens
// are only ever inserted or deleted; rotation replaces a row wholesale.
type OAuth2Token struct {
	ID           uint    `gorm:"primaryKey"`
	UserID       uint    `gorm:"not null"`
	User         *User   `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	ClientID     string  `gorm:"size:40;not null"`
	Client       *Client `gorm:"foreignKey:ClientID"`
	AccessToken  string  `gorm:"size:255;uniqueIndex"`
	RefreshToken string  `gorm:"size:255;uniqueIndex"`
	Expires      time.Time
	Scopes       string // space-joined scope set
}

func (OAuth2Token) TableName() string {
	return "oauth2_tokens"
}

// IsExpired reports whether the token's lifetime has elapsed.
func (t *OAuth2Token) IsExpired() bool {
	return !time.Now().UTC().Before(t.Expires)
}

// ScopeSet parses the granted scopes into a set.
func (t *OAuth2Token) ScopeSet() ScopeSet {
	return ParseScopeSet(t.Scopes)
}

// IsAllowedScopes reports whether the token covers all requested scopes.
// An empty request is always allowed.
func (t *OAuth2Token) IsAllowedScopes(scopes ScopeSet) bool {
	if len(scopes) == 0 {
		return true
	}
	granted := t.ScopeSet()
	if len(granted) == 0 {
		return false
	}
	return scopes.SubsetOf(granted)
}
