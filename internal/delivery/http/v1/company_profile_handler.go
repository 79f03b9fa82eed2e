package v1

import (
	"net/http"

	"jobboard-backend/internal/delivery/http/middleware"
	"jobboard-backend/internal/delivery/http/response"
	"jobboard-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

const dashboardPostings = 50

type CompanyProfileHandler struct {
	profileUC domain.CompanyProfileUsecase
	jobUC     domain.JobUsecase
}

// NewCompanyProfileHandler registers the public company page and the
// employer profile routes.
func NewCompanyProfileHandler(public, employers *gin.RouterGroup, profileUC domain.CompanyProfileUsecase, jobUC domain.JobUsecase) {
	handler := &CompanyProfileHandler{
		profileUC: profileUC,
		jobUC:     jobUC,
	}

	public.GET("/companies/:id", handler.GetPublicProfile)

	employers.GET("/dashboard", handler.Dashboard)
	employers.GET("/profile", handler.GetOwnProfile)
	employers.PUT("/profile", handler.UpdateProfile)
}

// CompanyDashboard is the employer landing page.
type CompanyDashboard struct {
	Profile       *domain.CompanyProfile `json:"profile"`
	Postings      []domain.JobSummary    `json:"postings"`
	TotalPostings int64                  `json:"total_postings"`
}

// Dashboard godoc
// @Summary      Employer dashboard
// @Description  Company profile and the most recent postings with their applicant counts.
// @Tags         employers
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /employers/dashboard [get]
// @Security     BearerAuth
func (h *CompanyProfileHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	caller := middleware.Caller(c)

	profile, err := h.profileUC.GetMine(ctx, caller)
	if err != nil {
		c.Error(err)
		return
	}
	postings, total, err := h.jobUC.ListMine(ctx, caller, 1, dashboardPostings)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Dashboard retrieved", CompanyDashboard{
		Profile:       profile,
		Postings:      postings,
		TotalPostings: total,
	})
}

// GetOwnProfile godoc
// @Summary      Get own company profile
// @Tags         employers
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /employers/profile [get]
// @Security     BearerAuth
func (h *CompanyProfileHandler) GetOwnProfile(c *gin.Context) {
	profile, err := h.profileUC.GetMine(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Company profile retrieved", profile)
}

// UpdateProfile godoc
// @Summary      Update own company profile
// @Tags         employers
// @Accept       json
// @Produce      json
// @Param        profile  body      domain.CompanyProfileInput  true  "Company profile"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /employers/profile [put]
// @Security     BearerAuth
func (h *CompanyProfileHandler) UpdateProfile(c *gin.Context) {
	var input domain.CompanyProfileInput
	if err := bindJSON(c, &input); err != nil {
		c.Error(err)
		return
	}
	profile, err := h.profileUC.UpdateMine(c.Request.Context(), middleware.Caller(c), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Company profile updated", profile)
}

// GetPublicProfile godoc
// @Summary      Public company page
// @Description  Company profile with its published postings.
// @Tags         companies
// @Produce      json
// @Param        id   path      int  true  "Company ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /companies/{id} [get]
func (h *CompanyProfileHandler) GetPublicProfile(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	page, err := h.profileUC.GetPublic(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Company profile retrieved", page)
}
