package v1

import (
	"net/http"

	"jobboard-backend/internal/delivery/http/middleware"
	"jobboard-backend/internal/delivery/http/response"
	"jobboard-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type CandidateHandler struct {
	candidateUC domain.CandidateUsecase
}

// NewCandidateHandler expects the /candidates group.
func NewCandidateHandler(candidates *gin.RouterGroup, candidateUC domain.CandidateUsecase) {
	handler := &CandidateHandler{candidateUC: candidateUC}

	candidates.GET("/dashboard", handler.Dashboard)
	candidates.PUT("/profile", handler.UpdateProfile)
	candidates.POST("/educations", handler.AddEducation)
	candidates.POST("/documents", handler.UploadDocument)
	candidates.GET("/:id/public", handler.GetPublicProfile)
}

// Dashboard godoc
// @Summary      Candidate dashboard
// @Description  Profile, experiences, educations, skills, languages, latest CV, the five most recent applications and saved postings, and counters.
// @Tags         candidates
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /candidates/dashboard [get]
// @Security     BearerAuth
func (h *CandidateHandler) Dashboard(c *gin.Context) {
	dash, err := h.candidateUC.Dashboard(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Dashboard retrieved", dash)
}

// UpdateProfile godoc
// @Summary      Update candidate profile
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        profile  body      domain.PersonalInfoInput  true  "Profile"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /candidates/profile [put]
// @Security     BearerAuth
func (h *CandidateHandler) UpdateProfile(c *gin.Context) {
	var input domain.PersonalInfoInput
	if err := bindJSON(c, &input); err != nil {
		c.Error(err)
		return
	}
	profile, err := h.candidateUC.UpdateProfile(c.Request.Context(), middleware.Caller(c), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated", profile)
}

// AddEducation godoc
// @Summary      Add an education entry
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        education  body      domain.EducationInput  true  "Education"
// @Success      201        {object}  response.Response
// @Failure      400        {object}  response.Response
// @Router       /candidates/educations [post]
// @Security     BearerAuth
func (h *CandidateHandler) AddEducation(c *gin.Context) {
	var input domain.EducationInput
	if err := bindJSON(c, &input); err != nil {
		c.Error(err)
		return
	}
	edu, err := h.candidateUC.AddEducation(c.Request.Context(), middleware.Caller(c), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Education added", edu)
}

// UploadDocument godoc
// @Summary      Register an uploaded document
// @Description  Stores the object URL of a file already uploaded with a presigned URL. Always creates a new document.
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        document  body      domain.DocumentInput  true  "Document"
// @Success      201       {object}  response.Response
// @Failure      400       {object}  response.Response
// @Router       /candidates/documents [post]
// @Security     BearerAuth
func (h *CandidateHandler) UploadDocument(c *gin.Context) {
	var input domain.DocumentInput
	if err := bindJSON(c, &input); err != nil {
		c.Error(err)
		return
	}
	doc, err := h.candidateUC.UploadDocument(c.Request.Context(), middleware.Caller(c), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Document uploaded", doc)
}

// GetPublicProfile godoc
// @Summary      Candidate profile for employers
// @Tags         candidates
// @Produce      json
// @Param        id   path      int  true  "Candidate ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id}/public [get]
// @Security     BearerAuth
func (h *CandidateHandler) GetPublicProfile(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	profile, err := h.candidateUC.GetPublicProfile(c.Request.Context(), middleware.Caller(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidate retrieved", profile)
}
