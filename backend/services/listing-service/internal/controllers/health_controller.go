package controllers

import (
	"net/http"

	"github.com/plotline/mono-repo/backend/services/listing-service/internal/app"
	"github.com/plotline/mono-repo/backend/services/listing-service/internal/dtos"
	"github.com/plotline/mono-repo/backend/shared/go-utils"
)

type HealthController struct {
	app *app.App
}

func NewHealthController(app *app.App) *HealthController {
	return &HealthController{app}
}

func (c *HealthController) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if err := c.app.DB.Ping(r.Context()); err != nil {
		utils.RespondErrorWithCode(w, http.StatusServiceUnavailable, utils.ErrCodeInternal, "Database unreachable", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.HealthResponse{Status: "OK"})
}
