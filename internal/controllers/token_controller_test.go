package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gurimusan/oauth2-sample/internal/auth"
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

func setupTokenRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	store := services.NewCredentialStore(db)
	controller := NewTokenController(auth.NewGrantValidator(store), auth.NewTokenIssuer(store))

	router := gin.New()
	router.POST("/oauth2/token", controller.Token)
	return router
}

func seedClient(t *testing.T, db *gorm.DB) *models.Client {
	user := &models.User{Username: "foo", Email: "foo@example.com"}
	require.NoError(t, user.SetPassword("password"))
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

func postForm(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/oauth2/token", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postJSON(router *gin.Engine, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", "/oauth2/token", bytes.NewBuffer(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestTokenEndpointClientCredentials(t *testing.T) {
	db := setupTestDB(t)
	seedClient(t, db)
	router := setupTokenRouter(t, db)

	w := postForm(router, "grant_type=client_credentials&client_id=test_client_id&client_secret=test_client_secret&scope=api1")
	assert.Equal(t, http.StatusOK, w.Code)

	var response models.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Len(t, response.AccessToken, 30)
	assert.Len(t, response.RefreshToken, 30)
	assert.Equal(t, "Bearer", response.TokenType)
	assert.Equal(t, 3600, response.ExpiresIn)

	// The issued token landed in the store with the requested scope
	var token models.OAuth2Token
	require.NoError(t, db.Where("access_token = ?", response.AccessToken).First(&token).Error)
	assert.Equal(t, "api1", token.Scopes)
}

func TestTokenEndpointDefaultScopes(t *testing.T) {
	db := setupTestDB(t)
	seedClient(t, db)
	router := setupTokenRouter(t, db)

	w := postForm(router, "grant_type=client_credentials&client_id=test_client_id&client_secret=test_client_secret")
	assert.Equal(t, http.StatusOK, w.Code)

	var response models.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	var token models.OAuth2Token
	require.NoError(t, db.Where("access_token = ?", response.AccessToken).First(&token).Error)
	assert.Equal(t, "api1 api2", token.Scopes)
}

func TestTokenEndpointJSONBody(t *testing.T) {
	db := setupTestDB(t)
	seedClient(t, db)
	router := setupTokenRouter(t, db)

	w := postJSON(router, map[string]interface{}{
		"grant_type":    "client_credentials",
		"client_id":     "test_client_id",
		"client_secret": "test_client_secret",
		"scope":         []string{"api1", "api2"},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var response models.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.NotEmpty(t, response.AccessToken)
}

func TestTokenEndpointRefreshRotation(t *testing.T) {
	db := setupTestDB(t)
	seedClient(t, db)
	router := setupTokenRouter(t, db)

	w := postForm(router, "grant_type=client_credentials&client_id=test_client_id&client_secret=test_client_secret")
	require.Equal(t, http.StatusOK, w.Code)
	var first models.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))

	w = postForm(router, "grant_type=refresh_token&client_id=test_client_id&client_secret=test_client_secret&refresh_token="+first.RefreshToken)
	require.Equal(t, http.StatusOK, w.Code)
	var second models.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))

	assert.NotEqual(t, first.AccessToken, second.AccessToken)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// Presenting the same refresh token again fails
	w = postForm(router, "grant_type=refresh_token&client_id=test_client_id&client_secret=test_client_secret&refresh_token="+first.RefreshToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTokenEndpointUnsupportedGrantType(t *testing.T) {
	db := setupTestDB(t)
	seedClient(t, db)
	router := setupTokenRouter(t, db)

	w := postForm(router, "grant_type=password&client_id=test_client_id&client_secret=test_client_secret")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response models.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, 400, response.Status)
	assert.Equal(t, models.ErrInvalidParameter, response.Code)
	require.NotEmpty(t, response.Errors)
	assert.Equal(t, "grant_type", response.Errors[0].Property)
}

func TestTokenEndpointSecretMismatchCreatesNoToken(t *testing.T) {
	db := setupTestDB(t)
	seedClient(t, db)
	router := setupTokenRouter(t, db)

	w := postForm(router, "grant_type=client_credentials&client_id=test_client_id&client_secret=wrong_secret")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response models.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.Errors)
	assert.Equal(t, "client_secret", response.Errors[0].Property)

	var count int64
	require.NoError(t, db.Model(&models.OAuth2Token{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestTokenEndpointMissingFields(t *testing.T) {
	db := setupTestDB(t)
	router := setupTokenRouter(t, db)

	w := postForm(router, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response models.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Errors, 3)
}
