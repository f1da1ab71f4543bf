package handler

import (
	"net/http"

	"github.com/danielvaho2/tu-bolsillo/internal/core"
	"github.com/danielvaho2/tu-bolsillo/internal/models"
	"github.com/danielvaho2/tu-bolsillo/internal/util"

	"github.com/gin-gonic/gin"
)

// currentUser pulls the authenticated user placed in the context by
// AuthMiddleware. Handlers never take an owner id from the request itself.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get("currentUser")
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return nil, false
	}
	return user, true
}

// respondCoreError maps a core error onto the response envelope. The status
// class per code is fixed: validation 400, conflict 409, not-found 404,
// store failures 500.
func respondCoreError(c *gin.Context, err error) {
	msg := core.Message(err)
	switch core.CodeOf(err) {
	case core.CodeValidation:
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, msg)
	case core.CodeConflict:
		util.Error(c, http.StatusConflict, util.CodeConflict, msg)
	case core.CodeNotFound:
		util.Error(c, http.StatusNotFound, util.CodeNotFound, msg)
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal error, please retry")
	}
}
