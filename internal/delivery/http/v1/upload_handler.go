package v1

import (
	"net/http"

	"jobboard-backend/internal/delivery/http/middleware"
	"jobboard-backend/internal/delivery/http/response"
	"jobboard-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	uploadUC domain.UploadUsecase
}

// NewUploadHandler registers presigning behind the given limiters.
func NewUploadHandler(r *gin.RouterGroup, uploadUC domain.UploadUsecase, limits ...gin.HandlerFunc) {
	handler := &UploadHandler{uploadUC: uploadUC}

	r.POST("/uploads/presign", append(limits, handler.Presign)...)
}

// Presign godoc
// @Summary      Presigned upload URL
// @Description  Returns a short-lived URL the client uploads a CV, photo or logo to. The returned object_url is then submitted to the profile.
// @Tags         uploads
// @Accept       json
// @Produce      json
// @Param        upload  body      domain.UploadInput  true  "File"
// @Success      200     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Failure      429     {object}  response.Response
// @Failure      503     {object}  response.Response
// @Router       /uploads/presign [post]
// @Security     BearerAuth
func (h *UploadHandler) Presign(c *gin.Context) {
	var input domain.UploadInput
	if err := bindJSON(c, &input); err != nil {
		c.Error(err)
		return
	}
	ticket, err := h.uploadUC.Presign(c.Request.Context(), middleware.Caller(c), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Upload URL generated", ticket)
}
