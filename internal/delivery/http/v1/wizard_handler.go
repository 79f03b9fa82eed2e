package v1

import (
	"net/http"
	"strconv"

	"jobboard-backend/internal/delivery/http/middleware"
	"jobboard-backend/internal/delivery/http/response"
	"jobboard-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type WizardHandler struct {
	wizardUC domain.WizardUsecase
}

func NewWizardHandler(r *gin.RouterGroup, wizardUC domain.WizardUsecase) {
	handler := &WizardHandler{wizardUC: wizardUC}

	wizard := r.Group("/wizard")
	{
		wizard.GET("/steps/:step", handler.GetStep)
		wizard.POST("/steps/:step", handler.Submit)
	}
}

// stepParam returns 0 for anything that is not a number so the usecase
// treats it as an unknown step.
func stepParam(c *gin.Context) domain.WizardStep {
	n, err := strconv.Atoi(c.Param("step"))
	if err != nil {
		return 0
	}
	return domain.WizardStep(n)
}

// GetStep godoc
// @Summary      Render a wizard step
// @Description  Read-only view of one profile wizard step. Redirects (303) to step 1 while personal information is missing, or to the dashboard for unknown steps.
// @Tags         wizard
// @Produce      json
// @Param        step  path      int  true  "Step number (1-6)"
// @Success      200   {object}  response.Response
// @Success      303   {object}  response.Response
// @Failure      401   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /wizard/steps/{step} [get]
// @Security     BearerAuth
func (h *WizardHandler) GetStep(c *gin.Context) {
	view, err := h.wizardUC.GetStep(c.Request.Context(), middleware.Caller(c), stepParam(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Wizard step retrieved", view)
}

// Submit godoc
// @Summary      Submit a wizard step
// @Description  Persists one step and returns the next route. Steps 2-5 accept {"skip": true}. Re-adding an existing skill or language reports created=false.
// @Tags         wizard
// @Accept       json
// @Produce      json
// @Param        step        path      int                      true  "Step number (1-6)"
// @Param        submission  body      domain.WizardSubmission  true  "Step payload"
// @Success      200         {object}  response.Response
// @Success      303         {object}  response.Response
// @Failure      400         {object}  response.Response
// @Failure      409         {object}  response.Response
// @Router       /wizard/steps/{step} [post]
// @Security     BearerAuth
func (h *WizardHandler) Submit(c *gin.Context) {
	var sub domain.WizardSubmission
	if c.Request.ContentLength != 0 {
		if err := bindJSON(c, &sub); err != nil {
			c.Error(err)
			return
		}
	}
	result, err := h.wizardUC.Submit(c.Request.Context(), middleware.Caller(c), stepParam(c), sub)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, result.Message, result)
}
