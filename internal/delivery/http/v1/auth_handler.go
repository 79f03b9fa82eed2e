package v1

import (
	"net/http"

	"jobboard-backend/internal/delivery/http/middleware"
	"jobboard-backend/internal/delivery/http/response"
	"jobboard-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC domain.AuthUsecase
}

// NewAuthHandler mounts registration on a token-only group and the session
// endpoints on the protected group.
func NewAuthHandler(registration *gin.RouterGroup, protected *gin.RouterGroup, authUC domain.AuthUsecase) {
	handler := &AuthHandler{authUC: authUC}

	registration.POST("/auth/register", handler.Register)
	protected.GET("/auth/me", handler.Me)
}

// Register godoc
// @Summary      Register the authenticated account
// @Description  Creates the local user for the identity provider subject with a placeholder profile and returns the landing route.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        register  body      domain.RegisterInput  true  "Role"
// @Success      201       {object}  response.Response
// @Failure      400       {object}  response.Response
// @Failure      401       {object}  response.Response
// @Failure      409       {object}  response.Response
// @Router       /auth/register [post]
// @Security     BearerAuth
func (h *AuthHandler) Register(c *gin.Context) {
	var input domain.RegisterInput
	if err := bindJSON(c, &input); err != nil {
		c.Error(err)
		return
	}
	input.UserID = c.GetString(string(domain.KeyUserID))
	input.Email = c.GetString(string(domain.KeyUserEmail))

	result, err := h.authUC.Register(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Registration successful", result)
}

// Me godoc
// @Summary      Current user
// @Description  Returns the signed-in user, whether the profile is complete and where to send them.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	me, err := h.authUC.Me(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User retrieved", me)
}
