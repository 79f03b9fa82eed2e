package v1

import (
	"net/http"

	"jobboard-backend/internal/delivery/http/response"
	"jobboard-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type LocationHandler struct {
	locationUC domain.LocationUsecase
}

func NewLocationHandler(r *gin.RouterGroup, locationUC domain.LocationUsecase) {
	handler := &LocationHandler{locationUC: locationUC}

	locations := r.Group("/locations")
	{
		locations.GET("/countries", handler.ListCountries)
		locations.GET("/countries/:id/regions", handler.ListRegions)
		locations.GET("/regions/:id/cities", handler.ListCities)
	}
}

// ListCountries godoc
// @Summary      Countries
// @Tags         locations
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /locations/countries [get]
func (h *LocationHandler) ListCountries(c *gin.Context) {
	countries, err := h.locationUC.ListCountries(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Countries retrieved", countries)
}

// ListRegions godoc
// @Summary      Regions of a country
// @Tags         locations
// @Produce      json
// @Param        id   path      int  true  "Country ID"
// @Success      200  {object}  response.Response
// @Router       /locations/countries/{id}/regions [get]
func (h *LocationHandler) ListRegions(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	regions, err := h.locationUC.ListRegions(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Regions retrieved", regions)
}

// ListCities godoc
// @Summary      Cities of a region
// @Tags         locations
// @Produce      json
// @Param        id   path      int  true  "Region ID"
// @Success      200  {object}  response.Response
// @Router       /locations/regions/{id}/cities [get]
func (h *LocationHandler) ListCities(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	cities, err := h.locationUC.ListCities(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Cities retrieved", cities)
}
