package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/gurimusan/oauth2-sample/internal/auth"
	"github.com/gurimusan/oauth2-sample/internal/models"
)

type TokenController struct {
	validator *auth.GrantValidator
	issuer    *auth.TokenIssuer
}

func NewTokenController(validator *auth.GrantValidator, issuer *auth.TokenIssuer) *TokenController {
	return &TokenController{validator: validator, issuer: issuer}
}

// Token godoc
// @Summary Token Endpoint
// @Description Obtain an access token using the client_credentials grant, or rotate a token pair with the refresh_token grant
// @Tags OAuth2
// @Accept application/x-www-form-urlencoded
// @Accept json
// @Produce json
// @Param grant_type formData string true "Grant type: client_credentials or refresh_token"
// @Param client_id formData string true "Client ID"
// @Param client_secret formData string true "Client Secret"
// @Param scope formData string false "Requested scopes, space-delimited"
// @Param refresh_token formData string false "Refresh token (required for refresh_token grant)"
// @Success 200 {object} models.TokenResponse
// @Failure 400 {object} models.ValidationErrorResponse
// @Router /oauth2/token [post]
func (tc *TokenController) Token(c *gin.Context) {
	params, errs := requestParams(c)
	if errs != nil {
		c.JSON(http.StatusBadRequest, models.NewValidationErrorResponse(errs))
		return
	}

	req, err := tc.validator.Validate(params)
	if err != nil {
		tc.fail(c, err)
		return
	}

	token, err := tc.issuer.Issue(req)
	if err != nil {
		tc.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, auth.Response(token))
}

// fail renders validation failures as the 400 envelope and anything else
// as a 500. Validation runs before any write, so a 400 never leaves
// partial state behind.
func (tc *TokenController) fail(c *gin.Context, err error) {
	var fieldErrs models.FieldErrors
	if errors.As(err, &fieldErrs) {
		c.JSON(http.StatusBadRequest, models.NewValidationErrorResponse(fieldErrs))
		return
	}
	log.WithError(err).Error("Token request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": models.ErrInternalServer})
}

// requestParams reads the token request body as a parameter map. JSON
// bodies keep their decoded types (scope may be a string or an array);
// form bodies contribute string values for the fields that are present.
func requestParams(c *gin.Context) (map[string]interface{}, models.FieldErrors) {
	if strings.Contains(c.ContentType(), "application/json") {
		params := map[string]interface{}{}
		if err := c.ShouldBindJSON(&params); err != nil {
			return nil, models.FieldErrors{}.Add("body", "Invalid JSON body")
		}
		return params, nil
	}

	if err := c.Request.ParseForm(); err != nil {
		return nil, models.FieldErrors{}.Add("body", "Invalid form body")
	}
	params := make(map[string]interface{}, len(c.Request.PostForm))
	for name, values := range c.Request.PostForm {
		if len(values) > 0 {
			params[name] = values[0]
		}
	}
	return params, nil
}
