package v1

import (
	"net/http"
	"strings"

	"jobboard-backend/internal/delivery/http/middleware"
	"jobboard-backend/internal/delivery/http/response"
	"jobboard-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobUC domain.JobUsecase
}

// NewJobHandler mounts the public listing routes and the employer posting
// management routes.
func NewJobHandler(public *gin.RouterGroup, employers *gin.RouterGroup, jobUC domain.JobUsecase) {
	handler := &JobHandler{jobUC: jobUC}

	public.GET("/jobs", handler.PublicList)
	public.GET("/jobs/:id", handler.GetDetails)
	public.GET("/categories", handler.ListCategories)

	jobs := employers.Group("/jobs")
	{
		jobs.GET("", handler.ListMine)
		jobs.POST("", handler.Create)
		jobs.PUT("/:id", handler.Update)
		jobs.DELETE("/:id", handler.Delete)
		jobs.PATCH("/:id/state", handler.ChangeState)
		jobs.GET("/:id/requirements", handler.ListRequirements)
		jobs.POST("/:id/requirements", handler.AddRequirement)
	}
	employers.DELETE("/requirements/:id", handler.RemoveRequirement)
}

type StateRequest struct {
	State string `json:"state" binding:"required"`
}

// PublicList godoc
// @Summary      List published jobs
// @Description  Published postings only, newest first, with optional filters.
// @Tags         jobs
// @Produce      json
// @Param        q              query     string  false  "Title or description contains"
// @Param        category_id    query     int     false  "Category"
// @Param        city_id        query     int     false  "City"
// @Param        contract_type  query     string  false  "Contract type"
// @Param        work_mode      query     string  false  "Work mode"
// @Param        page           query     int     false  "Page number"
// @Param        page_size      query     int     false  "Page size"
// @Success      200            {object}  response.Response
// @Router       /jobs [get]
func (h *JobHandler) PublicList(c *gin.Context) {
	page, pageSize := pagination(c)
	filter := domain.JobFilter{
		Query:        strings.TrimSpace(c.Query("q")),
		CategoryID:   optionalInt64(c, "category_id"),
		CityID:       optionalInt64(c, "city_id"),
		ContractType: c.Query("contract_type"),
		WorkMode:     c.Query("work_mode"),
	}

	jobs, total, err := h.jobUC.ListPublished(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Jobs retrieved", response.Page{Items: jobs, Total: total, Page: page, PageSize: pageSize})
}

// GetDetails godoc
// @Summary      Job details
// @Description  Published postings are public; the owning company and admins also see other states.
// @Tags         jobs
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [get]
func (h *JobHandler) GetDetails(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	job, err := h.jobUC.GetJob(c.Request.Context(), middleware.Caller(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job retrieved", job)
}

// ListCategories godoc
// @Summary      Job categories
// @Tags         jobs
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /categories [get]
func (h *JobHandler) ListCategories(c *gin.Context) {
	categories, err := h.jobUC.ListCategories(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Categories retrieved", categories)
}

// ListMine godoc
// @Summary      Company postings
// @Description  Every posting of the caller's company with its applicant count.
// @Tags         employers
// @Produce      json
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Page size"
// @Success      200        {object}  response.Response
// @Router       /employers/jobs [get]
// @Security     BearerAuth
func (h *JobHandler) ListMine(c *gin.Context) {
	page, pageSize := pagination(c)
	jobs, total, err := h.jobUC.ListMine(c.Request.Context(), middleware.Caller(c), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Jobs retrieved", response.Page{Items: jobs, Total: total, Page: page, PageSize: pageSize})
}

// Create godoc
// @Summary      Create a job posting
// @Description  New postings are always drafts.
// @Tags         employers
// @Accept       json
// @Produce      json
// @Param        job  body      domain.JobInput  true  "Job"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /employers/jobs [post]
// @Security     BearerAuth
func (h *JobHandler) Create(c *gin.Context) {
	var input domain.JobInput
	if err := bindJSON(c, &input); err != nil {
		c.Error(err)
		return
	}
	job, err := h.jobUC.CreateJob(c.Request.Context(), middleware.Caller(c), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Job created", job)
}

// Update godoc
// @Summary      Update a job posting
// @Tags         employers
// @Accept       json
// @Produce      json
// @Param        id   path      int              true  "Job ID"
// @Param        job  body      domain.JobInput  true  "Job"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /employers/jobs/{id} [put]
// @Security     BearerAuth
func (h *JobHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	var input domain.JobInput
	if err := bindJSON(c, &input); err != nil {
		c.Error(err)
		return
	}
	job, err := h.jobUC.UpdateJob(c.Request.Context(), middleware.Caller(c), id, input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job updated", job)
}

// Delete godoc
// @Summary      Delete a job posting
// @Tags         employers
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /employers/jobs/{id} [delete]
// @Security     BearerAuth
func (h *JobHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.jobUC.DeleteJob(c.Request.Context(), middleware.Caller(c), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job deleted", nil)
}

// ChangeState godoc
// @Summary      Change posting state
// @Description  draft, published, paused, closed or expired. The first publish sets published_at.
// @Tags         employers
// @Accept       json
// @Produce      json
// @Param        id     path      int           true  "Job ID"
// @Param        state  body      StateRequest  true  "Target state"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Failure      403    {object}  response.Response
// @Router       /employers/jobs/{id}/state [patch]
// @Security     BearerAuth
func (h *JobHandler) ChangeState(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	var req StateRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}
	job, err := h.jobUC.ChangeState(c.Request.Context(), middleware.Caller(c), id, domain.PostingState(req.State))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job state updated", job)
}

// ListRequirements godoc
// @Summary      Posting requirements
// @Tags         employers
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response
// @Router       /employers/jobs/{id}/requirements [get]
// @Security     BearerAuth
func (h *JobHandler) ListRequirements(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	reqs, err := h.jobUC.ListRequirements(c.Request.Context(), middleware.Caller(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Requirements retrieved", reqs)
}

// AddRequirement godoc
// @Summary      Require a skill
// @Description  The skill is resolved through the shared catalog. Requiring the same skill twice returns the existing requirement with 200.
// @Tags         employers
// @Accept       json
// @Produce      json
// @Param        id           path      int                      true  "Job ID"
// @Param        requirement  body      domain.RequirementInput  true  "Requirement"
// @Success      201          {object}  response.Response
// @Success      200          {object}  response.Response
// @Router       /employers/jobs/{id}/requirements [post]
// @Security     BearerAuth
func (h *JobHandler) AddRequirement(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	var input domain.RequirementInput
	if err := bindJSON(c, &input); err != nil {
		c.Error(err)
		return
	}
	req, created, err := h.jobUC.AddRequirement(c.Request.Context(), middleware.Caller(c), id, input)
	if err != nil {
		c.Error(err)
		return
	}
	if !created {
		response.Success(c, http.StatusOK, "Skill is already required", req)
		return
	}
	response.Success(c, http.StatusCreated, "Requirement added", req)
}

// RemoveRequirement godoc
// @Summary      Remove a requirement
// @Tags         employers
// @Produce      json
// @Param        id   path      int  true  "Requirement ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /employers/requirements/{id} [delete]
// @Security     BearerAuth
func (h *JobHandler) RemoveRequirement(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.jobUC.RemoveRequirement(c.Request.Context(), middleware.Caller(c), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Requirement removed", nil)
}
