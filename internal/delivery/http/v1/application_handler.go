package v1

import (
	"net/http"

	"jobboard-backend/internal/delivery/http/middleware"
	"jobboard-backend/internal/delivery/http/response"
	"jobboard-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	applicationUC domain.ApplicationUsecase
}

// NewApplicationHandler mounts candidate routes on candidates and company
// routes on employers. writeLimit guards apply and save.
func NewApplicationHandler(candidates, employers *gin.RouterGroup, applicationUC domain.ApplicationUsecase, writeLimit gin.HandlerFunc) {
	handler := &ApplicationHandler{applicationUC: applicationUC}

	candidates.POST("/jobs/:id/apply", writeLimit, handler.Apply)
	candidates.GET("/jobs/:id/applied", handler.HasApplied)
	candidates.POST("/jobs/:id/save", writeLimit, handler.Save)
	candidates.DELETE("/jobs/:id/save", handler.Unsave)
	candidates.GET("/saved", handler.ListSaved)
	candidates.GET("/applications", handler.ListMine)
	candidates.POST("/applications/:id/withdraw", handler.Withdraw)

	employers.GET("/jobs/:id/applications", handler.ListApplicants)
	employers.GET("/jobs/:id/applications/export", handler.Export)
	employers.PATCH("/applications/:id", handler.SetStatus)
}

// Apply godoc
// @Summary      Apply to a job
// @Description  Creates a pending application (201). Applying again returns the existing application with 200.
// @Tags         applications
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      201  {object}  response.Response
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /candidates/jobs/{id}/apply [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Apply(c *gin.Context) {
	jobID, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	app, created, err := h.applicationUC.Apply(c.Request.Context(), middleware.Caller(c), jobID)
	if err != nil {
		c.Error(err)
		return
	}
	if !created {
		response.Success(c, http.StatusOK, "You have already applied to this job", app)
		return
	}
	response.Success(c, http.StatusCreated, "Application submitted", app)
}

// HasApplied godoc
// @Summary      Whether the caller applied to a job
// @Tags         applications
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response
// @Router       /candidates/jobs/{id}/applied [get]
// @Security     BearerAuth
func (h *ApplicationHandler) HasApplied(c *gin.Context) {
	jobID, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	applied, err := h.applicationUC.HasApplied(c.Request.Context(), middleware.Caller(c), jobID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application status retrieved", gin.H{"applied": applied})
}

// Save godoc
// @Summary      Bookmark a job
// @Tags         applications
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      201  {object}  response.Response
// @Success      200  {object}  response.Response
// @Router       /candidates/jobs/{id}/save [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Save(c *gin.Context) {
	jobID, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	created, err := h.applicationUC.Save(c.Request.Context(), middleware.Caller(c), jobID)
	if err != nil {
		c.Error(err)
		return
	}
	if !created {
		response.Success(c, http.StatusOK, "Job is already saved", gin.H{"created": false})
		return
	}
	response.Success(c, http.StatusCreated, "Job saved", gin.H{"created": true})
}

// Unsave godoc
// @Summary      Remove a bookmark
// @Tags         applications
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /candidates/jobs/{id}/save [delete]
// @Security     BearerAuth
func (h *ApplicationHandler) Unsave(c *gin.Context) {
	jobID, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.applicationUC.Unsave(c.Request.Context(), middleware.Caller(c), jobID); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job removed from saved", nil)
}

// ListSaved godoc
// @Summary      Saved jobs
// @Tags         applications
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /candidates/saved [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListSaved(c *gin.Context) {
	saved, err := h.applicationUC.ListSaved(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Saved jobs retrieved", saved)
}

// ListMine godoc
// @Summary      My applications
// @Tags         applications
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /candidates/applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	apps, err := h.applicationUC.ListMine(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications retrieved", apps)
}

// Withdraw godoc
// @Summary      Withdraw an application
// @Tags         applications
// @Produce      json
// @Param        id   path      int  true  "Application ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /candidates/applications/{id}/withdraw [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	app, err := h.applicationUC.Withdraw(c.Request.Context(), middleware.Caller(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application withdrawn", app)
}

// ListApplicants godoc
// @Summary      Applicants of a posting
// @Tags         employers
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /employers/jobs/{id}/applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListApplicants(c *gin.Context) {
	jobID, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	apps, err := h.applicationUC.ListApplicants(c.Request.Context(), middleware.Caller(c), jobID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applicants retrieved", apps)
}

// Export godoc
// @Summary      Export applicants to Excel
// @Tags         employers
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id   path      int  true  "Job ID"
// @Success      200  {file}    file
// @Failure      403  {object}  response.Response
// @Router       /employers/jobs/{id}/applications/export [get]
// @Security     BearerAuth
func (h *ApplicationHandler) Export(c *gin.Context) {
	jobID, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	data, filename, err := h.applicationUC.ExportApplicants(c.Request.Context(), middleware.Caller(c), jobID)
	if err != nil {
		c.Error(err)
		return
	}
	response.File(c, filename, response.XLSXContentType, data)
}

// SetStatus godoc
// @Summary      Change application status
// @Description  Moves an application along the hiring pipeline and optionally records feedback.
// @Tags         employers
// @Accept       json
// @Produce      json
// @Param        id      path      int                 true  "Application ID"
// @Param        status  body      domain.StatusInput  true  "Status"
// @Success      200     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Router       /employers/applications/{id} [patch]
// @Security     BearerAuth
func (h *ApplicationHandler) SetStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	var input domain.StatusInput
	if err := bindJSON(c, &input); err != nil {
		c.Error(err)
		return
	}
	app, err := h.applicationUC.SetStatus(c.Request.Context(), middleware.Caller(c), id, input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application status updated", app)
}
