package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gurimusan/oauth2-sample/internal/models"
	"github.com/gurimusan/oauth2-sample/internal/services"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Client{}, &models.OAuth2Token{})
	require.NoError(t, err)

	return db
}

func createTestClient(t *testing.T, db *gorm.DB) *models.Client {
	user := &models.User{Username: "foo", Email: "foo@example.com"}
	err := user.SetPassword("password")
	require.NoError(t, err)
	require.NoError(t, db.Create(user).Error)

	client := &models.Client{
		ClientID:      "test_client_id",
		ClientSecret:  "test_client_secret",
		ClientType:    models.ClientTypeConfidential,
		GrantType:     models.GrantTypeClientCredentials,
		DefaultScopes: "api1 api2",
		UserID:        &user.ID,
	}
	require.NoError(t, db.Create(client).Error)
	return client
}

func fieldErrorProperties(t *testing.T, err error) []string {
	fieldErrs, ok := err.(models.FieldErrors)
	require.True(t, ok, "expected FieldErrors, got %T: %v", err, err)
	properties := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		properties = append(properties, fe.Property)
	}
	return properties
}

func TestValidateClientCredentialsRequest(t *testing.T) {
	db := setupTestDB(t)
	createTestClient(t, db)
	validator := NewGrantValidator(services.NewCredentialStore(db))

	req, err := validator.Validate(map[string]interface{}{
		"client_id":     "test_client_id",
		"client_secret": "test_client_secret",
		"grant_type":    "client_credentials",
		"scope":         "api1 api2",
	})
	require.NoError(t, err)

	assert.Equal(t, "test_client_id", req.ClientID)
	assert.Equal(t, "client_credentials", req.GrantType)
	assert.True(t, req.Scope.Equal(models.NewScopeSet("api1", "api2")))
	assert.Empty(t, req.RefreshToken)
}

func TestValidateAbsentScopeIsNil(t *testing.T) {
	db := setupTestDB(t)
	createTestClient(t, db)
	validator := NewGrantValidator(services.NewCredentialStore(db))

	req, err := validator.Validate(map[string]interface{}{
		"client_id":     "test_client_id",
		"client_secret": "test_client_secret",
		"grant_type":    "client_credentials",
	})
	require.NoError(t, err)

	// No scope requested means no restriction, not an empty set
	assert.Nil(t, req.Scope)
}

func TestValidateMissingRequiredFields(t *testing.T) {
	db := setupTestDB(t)
	validator := NewGrantValidator(services.NewCredentialStore(db))

	_, err := validator.Validate(map[string]interface{}{})
	require.Error(t, err)

	properties := fieldErrorProperties(t, err)
	assert.Contains(t, properties, "client_id")
	assert.Contains(t, properties, "client_secret")
	assert.Contains(t, properties, "grant_type")
}

func TestValidateUnsupportedGrantType(t *testing.T) {
	db := setupTestDB(t)
	createTestClient(t, db)
	validator := NewGrantValidator(services.NewCredentialStore(db))

	_, err := validator.Validate(map[string]interface{}{
		"client_id":     "test_client_id",
		"client_secret": "test_client_secret",
		"grant_type":    "authorization_code",
	})
	require.Error(t, err)
	assert.Contains(t, fieldErrorProperties(t, err), "grant_type")
}

func TestValidateUnknownClient(t *testing.T) {
	db := setupTestDB(t)
	validator := NewGrantValidator(services.NewCredentialStore(db))

	_, err := validator.Validate(map[string]interface{}{
		"client_id":     "no_such_client",
		"client_secret": "whatever",
		"grant_type":    "client_credentials",
	})
	require.Error(t, err)
	assert.Contains(t, fieldErrorProperties(t, err), "client_id")
}

func TestValidateSecretMismatch(t *testing.T) {
	db := setupTestDB(t)
	createTestClient(t, db)
	validator := NewGrantValidator(services.NewCredentialStore(db))

	_, err := validator.Validate(map[string]interface{}{
		"client_id":     "test_client_id",
		"client_secret": "wrong_secret",
		"grant_type":    "client_credentials",
	})
	require.Error(t, err)
	assert.Contains(t, fieldErrorProperties(t, err), "client_secret")
}

func TestValidateScopeNotAllowed(t *testing.T) {
	db := setupTestDB(t)
	createTestClient(t, db)
	validator := NewGrantValidator(services.NewCredentialStore(db))

	_, err := validator.Validate(map[string]interface{}{
		"client_id":     "test_client_id",
		"client_secret": "test_client_secret",
		"grant_type":    "client_credentials",
		"scope":         "api1 api3",
	})
	require.Error(t, err)
	assert.Contains(t, fieldErrorProperties(t, err), "scope")
}

func TestValidateInvalidScopeType(t *testing.T) {
	db := setupTestDB(t)
	createTestClient(t, db)
	validator := NewGrantValidator(services.NewCredentialStore(db))

	_, err := validator.Validate(map[string]interface{}{
		"client_id":     "test_client_id",
		"client_secret": "test_client_secret",
		"grant_type":    "client_credentials",
		"scope":         1,
	})
	require.Error(t, err)
	assert.Contains(t, fieldErrorProperties(t, err), "scope")
}

func TestValidateRefreshTokenRequired(t *testing.T) {
	db := setupTestDB(t)
	createTestClient(t, db)
	validator := NewGrantValidator(services.NewCredentialStore(db))

	_, err := validator.Validate(map[string]interface{}{
		"client_id":     "test_client_id",
		"client_secret": "test_client_secret",
		"grant_type":    "refresh_token",
	})
	require.Error(t, err)
	assert.Contains(t, fieldErrorProperties(t, err), "refresh_token")
}

func TestValidateUnknownRefreshToken(t *testing.T) {
	db := setupTestDB(t)
	createTestClient(t, db)
	validator := NewGrantValidator(services.NewCredentialStore(db))

	_, err := validator.Validate(map[string]interface{}{
		"client_id":     "test_client_id",
		"client_secret": "test_client_secret",
		"grant_type":    "refresh_token",
		"refresh_token": "no_such_refresh_token",
	})
	require.Error(t, err)
	assert.Contains(t, fieldErrorProperties(t, err), "refresh_token")
}

func TestValidateRefreshTokenRequest(t *testing.T) {
	db := setupTestDB(t)
	client := createTestClient(t, db)
	store := services.NewCredentialStore(db)

	token := &models.OAuth2Token{
		UserID:       *client.UserID,
		ClientID:     client.ClientID,
		AccessToken:  "access_token_value",
		RefreshToken: "refresh_token_value",
		Scopes:       "api1",
	}
	require.NoError(t, store.InsertToken(token))

	validator := NewGrantValidator(store)
	req, err := validator.Validate(map[string]interface{}{
		"client_id":     "test_client_id",
		"client_secret": "test_client_secret",
		"grant_type":    "refresh_token",
		"refresh_token": "refresh_token_value",
	})
	require.NoError(t, err)
	assert.Equal(t, "refresh_token_value", req.RefreshToken)
}

func TestValidateDoesNotMutateState(t *testing.T) {
	db := setupTestDB(t)
	createTestClient(t, db)
	validator := NewGrantValidator(services.NewCredentialStore(db))

	_, err := validator.Validate(map[string]interface{}{
		"client_id":     "test_client_id",
		"client_secret": "wrong_secret",
		"grant_type":    "client_credentials",
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.OAuth2Token{}).Count(&count).Error)
	assert.Zero(t, count)
}
