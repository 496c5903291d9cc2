package services

import (
	"errors"

	"github.com/gurimusan/oauth2-sample/internal/models"
	"gorm.io/gorm"
)

// CredentialStore is the persistence boundary of the token engine. Lookups
// return (nil, nil) when no row matches so callers can tell "absent" apart
// from a store failure. All writes used by token issuance go through
// WithTransaction.
type CredentialStore interface {
	GetUser(id uint) (*models.User, error)
	GetClient(clientID string) (*models.Client, error)
	GetTokenByAccess(accessToken string) (*models.OAuth2Token, error)
	GetTokenByRefresh(refreshToken string) (*models.OAuth2Token, error)
	InsertToken(token *models.OAuth2Token) error
	// DeleteToken removes the token row and reports whether a row was
	// actually deleted, so concurrent rotations on the same refresh token
	// can detect that they lost the race.
	DeleteToken(id uint) (bool, error)
	// WithTransaction runs fn against a store bound to a single
	// transaction; fn returning an error rolls everything back.
	WithTransaction(fn func(CredentialStore) error) error
}

type gormCredentialStore struct {
	db *gorm.DB
}

// NewCredentialStore returns a CredentialStore backed by the given gorm
// handle.
func NewCredentialStore(db *gorm.DB) CredentialStore {
	return &gormCredentialStore{db: db}
}

func (s *gormCredentialStore) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *gormCredentialStore) GetClient(clientID string) (*models.Client, error) {
	var client models.Client
	if err := s.db.Where("client_id = ?", clientID).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

func (s *gormCredentialStore) GetTokenByAccess(accessToken string) (*models.OAuth2Token, error) {
	return s.getToken("access_token = ?", accessToken)
}

func (s *gormCredentialStore) GetTokenByRefresh(refreshToken string) (*models.OAuth2Token, error) {
	return s.getToken("refresh_token = ?", refreshToken)
}

func (s *gormCredentialStore) getToken(query string, arg string) (*models.OAuth2Token, error) {
	var token models.OAuth2Token
	if err := s.db.Where(query, arg).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (s *gormCredentialStore) InsertToken(token *models.OAuth2Token) error {
	return s.db.Create(token).Error
}

func (s *gormCredentialStore) DeleteToken(id uint) (bool, error) {
	result := s.db.Delete(&models.OAuth2Token{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *gormCredentialStore) WithTransaction(fn func(CredentialStore) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormCredentialStore{db: tx})
	})
}
