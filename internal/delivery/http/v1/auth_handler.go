package v1

import (
	"net/http"

	"campus-placement-backend/internal/delivery/http/middleware"
	"campus-placement-backend/internal/delivery/http/response"
	"campus-placement-backend/internal/domain"
	"campus-placement-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC domain.AuthUsecase
}

// Sign-in happens at the identity provider; this service only knows the
// verified caller and their local role.
func NewAuthHandler(protected *gin.RouterGroup, authUC domain.AuthUsecase, writeLimit gin.HandlerFunc) {
	handler := &AuthHandler{authUC: authUC}

	protected.GET("/auth/me", handler.Me)
	protected.PUT("/users/:id/role", middleware.RoleMiddleware(domain.RoleAdmin), writeLimit, handler.AssignRole)
}

type AssignRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// Me godoc
// @Summary      Get the current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUC.GetCurrentUser(c.Request.Context(), callerID(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "User retrieved", user)
}

// AssignRole godoc
// @Summary      Change a user's role (admin)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        id       path      string             true  "User ID"
// @Param        request  body      AssignRoleRequest  true  "New role"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /users/{id}/role [put]
// @Security     BearerAuth
func (h *AuthHandler) AssignRole(c *gin.Context) {
	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Role is required"))
		return
	}

	userID := c.Param("id")
	if err := h.authUC.AssignRole(c.Request.Context(), userID, req.Role); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Role updated", gin.H{"user_id": userID, "role": req.Role})
}
