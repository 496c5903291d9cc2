package models

import (
	"strings"
	"time"
)

// Client types
const (
	ClientTypeConfidential = "confidential"
	ClientTypePublic       = "public"
)

// Grant types a client may be registered for. Only client_credentials
// (and its refresh_token continuation) is served by the token endpoint.
const (
	GrantTypeAuthorizationCode = "authorization_code"
	GrantTypeImplicit          = "implicit"
	GrantTypePassword          = "password"
	GrantTypeClientCredentials = "client_credentials"
	GrantTypeRefreshToken      = "refresh_token"
)

// Client represents an application registered on the authorization server
// that may request tokens for access to protected resources.
type Client struct {
	ClientID      string `gorm:"size:40;primaryKey"`
	ClientSecret  string `gorm:"size:128;index;not null"`
	ClientType    string `gorm:"size:20;not null"`
	GrantType     string `gorm:"size:20;not null"`
	RedirectURLs  string // space-joined list, unused by the implemented flows
	DefaultScopes string // space-joined scope set
	ClientName    string `gorm:"size:80"`
	Description   string `gorm:"size:400"`
	UserID        *uint
	User          *User `gorm:"foreignKey:UserID"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Client) TableName() string {
	return "clients"
}

func (c *Client) IsConfidential() bool {
	return c.ClientType == ClientTypeConfidential
}

func (c *Client) IsPublic() bool {
	return c.ClientType == ClientTypePublic
}

// DefaultScopeSet parses the stored default scopes into a set.
func (c *Client) DefaultScopeSet() ScopeSet {
	return ParseScopeSet(c.DefaultScopes)
}

// RedirectURLList splits the stored redirect URLs.
func (c *Client) RedirectURLList() []string {
	return strings.Fields(c.RedirectURLs)
}

// IsAllowedRedirectURL reports whether uri is a registered redirect URL.
func (c *Client) IsAllowedRedirectURL(uri string) bool {
	for _, registered := range c.RedirectURLList() {
		if registered == uri {
			return true
		}
	}
	return false
}

// IsAllowedScopes reports whether the requested scopes are a subset of
// the client's default scopes. Both sides must be non-empty.
func (c *Client) IsAllowedScopes(scopes ScopeSet) bool {
	defaults := c.DefaultScopeSet()
	if len(defaults) == 0 || len(scopes) == 0 {
		return false
	}
	return scopes.SubsetOf(defaults)
}
