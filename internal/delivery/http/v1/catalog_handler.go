package v1

import (
	"net/http"

	"jobboard-backend/internal/delivery/http/response"
	"jobboard-backend/internal/domain"
	"jobboard-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogUC domain.CatalogUsecase
}

func NewCatalogHandler(r *gin.RouterGroup, catalogUC domain.CatalogUsecase) {
	handler := &CatalogHandler{catalogUC: catalogUC}

	r.GET("/catalog/:kind", handler.Search)
}

// Search godoc
// @Summary      Search skills or languages
// @Description  Case-insensitive prefix search used for autocomplete.
// @Tags         catalog
// @Produce      json
// @Param        kind  path      string  true   "skill or language"
// @Param        q     query     string  false  "Search text"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Router       /catalog/{kind} [get]
func (h *CatalogHandler) Search(c *gin.Context) {
	kind := domain.CatalogKind(c.Param("kind"))
	if !kind.Valid() {
		c.Error(apperror.BadRequest("Unknown catalog"))
		return
	}
	items, err := h.catalogUC.Search(c.Request.Context(), kind, c.Query("q"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Catalog retrieved", items)
}
