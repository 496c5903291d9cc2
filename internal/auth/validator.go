package auth

import (
	"crypto/subtle"
	"fmt"

	"github.com/gurimusan/oauth2-sample/internal/models"
	"github.com/gurimusan/oauth2-sample/internal/services"
)

// Grant types served by the token endpoint.
var allowedGrantTypes = []string{
	models.GrantTypeClientCredentials,
	models.GrantTypeRefreshToken,
}

// TokenRequest is a normalized, validated token request. Scope is nil
// when the caller requested no scope restriction; the issuer then grants
// the client's full default scope set.
type TokenRequest struct {
	ClientID     string
	ClientSecret string
	GrantType    string
	Scope        models.ScopeSet
	RefreshToken string
}

// GrantValidator checks an incoming token request's shape and business
// rules before any mutation occurs. It only reads from the store.
type GrantValidator struct {
	store services.CredentialStore
}

func NewGrantValidator(store services.CredentialStore) *GrantValidator {
	return &GrantValidator{store: store}
}

// Validate normalizes the raw request parameters into a TokenRequest.
// Validation failures come back as models.FieldErrors; any other error
// is a store failure.
func (v *GrantValidator) Validate(params map[string]interface{}) (*TokenRequest, error) {
	req, errs := normalizeTokenRequest(params)
	if len(errs) > 0 {
		return nil, errs
	}

	// Whole-request rules run only once the field-level rules pass.
	if req.ClientID != "" {
		client, err := v.store.GetClient(req.ClientID)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, errs.Add("client_id", "Client not exists")
		}
		if subtle.ConstantTimeCompare([]byte(client.ClientSecret), []byte(req.ClientSecret)) != 1 {
			return nil, errs.Add("client_secret", "A client secret is invalid")
		}
		if len(req.Scope) > 0 && !client.IsAllowedScopes(req.Scope) {
			return nil, errs.Add("scope", "A scope is not allowed for this client")
		}
	}

	if req.GrantType == models.GrantTypeRefreshToken {
		token, err := v.store.GetTokenByRefresh(req.RefreshToken)
		if err != nil {
			return nil, err
		}
		if token == nil {
			return nil, errs.Add("refresh_token", "A refresh token is invalid")
		}
	}

	return req, nil
}

// normalizeTokenRequest applies the field-level rules: required strings,
// grant type membership, scope normalization and the refresh_token
// requirement for the refresh_token grant.
func normalizeTokenRequest(params map[string]interface{}) (*TokenRequest, models.FieldErrors) {
	var errs models.FieldErrors
	req := &TokenRequest{}

	req.ClientID, errs = requiredString(params, "client_id", errs)
	req.ClientSecret, errs = requiredString(params, "client_secret", errs)
	req.GrantType, errs = requiredString(params, "grant_type", errs)

	if req.GrantType != "" && !isAllowedGrantType(req.GrantType) {
		errs = errs.Add("grant_type", fmt.Sprintf(
			"%q is not one of %s, %s", req.GrantType,
			models.GrantTypeClientCredentials, models.GrantTypeRefreshToken))
	}

	scope, err := models.NormalizeScope(params["scope"])
	if err != nil {
		errs = errs.Add("scope", err.Error())
	}
	req.Scope = scope

	if raw, ok := params["refresh_token"]; ok && raw != nil {
		token, ok := raw.(string)
		if !ok {
			errs = errs.Add("refresh_token", "refresh_token is not a string")
		}
		req.RefreshToken = token
	}
	if req.GrantType == models.GrantTypeRefreshToken && req.RefreshToken == "" {
		errs = errs.Add("refresh_token", "Required")
	}

	return req, errs
}

func requiredString(params map[string]interface{}, name string, errs models.FieldErrors) (string, models.FieldErrors) {
	raw, ok := params[name]
	if !ok || raw == nil {
		return "", errs.Add(name, "Required")
	}
	value, ok := raw.(string)
	if !ok || value == "" {
		return "", errs.Add(name, "Required")
	}
	return value, errs
}

func isAllowedGrantType(grantType string) bool {
	for _, allowed := range allowedGrantTypes {
		if grantType == allowed {
			return true
		}
	}
	return false
}
