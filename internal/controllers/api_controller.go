package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIController serves the scope-protected sample resources. Access
// control happens entirely in the middleware chain; the handlers only
// report success.
type APIController struct{}

func NewAPIController() *APIController {
	return &APIController{}
}

// Api1 godoc
// @Summary Protected resource api1
// @Description Requires a bearer token carrying the api1 scope
// @Tags API
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /api/api1 [get]
func (ac *APIController) Api1(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"result": true})
}

// Api2 godoc
// @Summary Protected resource api2
// @Description Requires a bearer token carrying the api2 scope
// @Tags API
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /api/api2 [get]
func (ac *APIController) Api2(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"result": true})
}

// Api3 godoc
// @Summary Protected resource api3
// @Description Requires a bearer token carrying the api3 scope
// @Tags API
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /api/api3 [get]
func (ac *APIController) Api3(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"result": true})
}
