package auth

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gurimusan/oauth2-sample/internal/models"
	"github.com/gurimusan/oauth2-sample/internal/services"
)

// TokenLifetime is the fixed lifetime of issued access tokens.
const TokenLifetime = 3600 * time.Second

// ErrClientHasNoOwner is returned when a token is requested for a client
// that has no owning user; issued tokens always belong to a user.
var ErrClientHasNoOwner = errors.New("auth: client has no owning user")

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// TokenIssuer turns a validated token request into a token lifecycle
// transition: insert a fresh token, and for the refresh_token grant,
// retire the presented token in the same transaction.
type TokenIssuer struct {
	store services.CredentialStore
}

func NewTokenIssuer(store services.CredentialStore) *TokenIssuer {
	return &TokenIssuer{store: store}
}

// Issue creates a new token for the validated request. For the
// refresh_token grant the old token is deleted in the same transaction;
// a concurrent rotation racing on the same refresh token makes the loser
// fail with the invalid-refresh-token field error instead of
// double-issuing.
func (i *TokenIssuer) Issue(req *TokenRequest) (*models.OAuth2Token, error) {
	var issued *models.OAuth2Token

	err := i.store.WithTransaction(func(tx services.CredentialStore) error {
		client, err := tx.GetClient(req.ClientID)
		if err != nil {
			return err
		}
		if client == nil {
			return models.FieldErrors{}.Add("client_id", "Client not exists")
		}

		if req.GrantType == models.GrantTypeRefreshToken {
			if err := rotateOut(tx, req.RefreshToken); err != nil {
				return err
			}
		}

		// A null scope means no restriction was requested: grant the
		// client's full default scope set.
		scopes := client.DefaultScopes
		if req.Scope != nil {
			scopes = req.Scope.String()
		}

		if client.UserID == nil {
			return ErrClientHasNoOwner
		}

		token := &models.OAuth2Token{
			UserID:       *client.UserID,
			ClientID:     client.ClientID,
			AccessToken:  GenerateToken(),
			RefreshToken: GenerateToken(),
			Expires:      time.Now().UTC().Add(TokenLifetime),
			Scopes:       scopes,
		}
		if err := tx.InsertToken(token); err != nil {
			return err
		}
		issued = token
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"client_id":  req.ClientID,
		"grant_type": req.GrantType,
		"scopes":     issued.Scopes,
	}).Info("Token issued")

	return issued, nil
}

// rotateOut deletes the token holding the presented refresh token. The
// delete must observe an existing row; otherwise another request already
// rotated it and this one must fail.
func rotateOut(tx services.CredentialStore, refreshToken string) error {
	invalid := models.FieldErrors{}.Add("refresh_token", "A refresh token is invalid")

	old, err := tx.GetTokenByRefresh(refreshToken)
	if err != nil {
		return err
	}
	if old == nil {
		return invalid
	}
	deleted, err := tx.DeleteToken(old.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return invalid
	}
	return nil
}

// Response renders the token in the token endpoint's success shape.
func Response(token *models.OAuth2Token) models.TokenResponse {
	return models.TokenResponse{
		AccessToken:  token.AccessToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(TokenLifetime / time.Second),
		RefreshToken: token.RefreshToken,
	}
}
