package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/plotline/mono-repo/backend/services/listing-service/internal/dtos"
	"github.com/plotline/mono-repo/backend/services/listing-service/internal/routes"
	"github.com/plotline/mono-repo/backend/services/listing-service/internal/services"
	shared_dtos "github.com/plotline/mono-repo/backend/shared/go-dtos"
	"github.com/plotline/mono-repo/backend/shared/go-models"
	"github.com/plotline/mono-repo/backend/shared/go-utils"
)

type ListingController struct {
	listingService *services.ListingService
	validate       *validator.Validate
}

func NewListingController(listingService *services.ListingService) *ListingController {
	return &ListingController{
		listingService: listingService,
		validate:       validator.New(),
	}
}

// Register mounts every listing route on router.
func (c *ListingController) Register(router *mux.Router) {
	router.HandleFunc(routes.Locations, c.ResolveLocationHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.Lands, c.ResolveLandHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.Buildings, c.ResolveBuildingHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.Units, c.ResolveUnitHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.Products, c.AssembleProductHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.NextCode, c.NextCodeHandler).Methods(http.MethodPost)

	router.HandleFunc(routes.Location, c.GetLocationHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.Location, c.UpdateLocationHandler).Methods(http.MethodPatch)
	router.HandleFunc(routes.Location, c.DeleteLocationHandler).Methods(http.MethodDelete)

	router.HandleFunc(routes.Land, c.GetLandHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.Land, c.UpdateLandHandler).Methods(http.MethodPatch)
	router.HandleFunc(routes.Land, c.DeleteLandHandler).Methods(http.MethodDelete)

	router.HandleFunc(routes.Building, c.GetBuildingHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.Building, c.UpdateBuildingHandler).Methods(http.MethodPatch)
	router.HandleFunc(routes.Building, c.DeleteBuildingHandler).Methods(http.MethodDelete)

	router.HandleFunc(routes.Unit, c.GetUnitHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.Unit, c.UpdateUnitHandler).Methods(http.MethodPatch)
	router.HandleFunc(routes.Unit, c.DeleteUnitHandler).Methods(http.MethodDelete)

	router.HandleFunc(routes.Product, c.GetProductHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.Product, c.DeleteProductHandler).Methods(http.MethodDelete)
}

/* ------------------------------------------------------------------
   Request helpers
------------------------------------------------------------------ */

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return false
	}
	return true
}

// refFromRequest reads {ref} from the path. The query parameter `by`
// ("id" or "custom_id", default custom_id) says how to read it.
func refFromRequest(w http.ResponseWriter, r *http.Request) (models.EntityRef, bool) {
	ref, err := models.ParseRef(r.URL.Query().Get("by"), mux.Vars(r)["ref"])
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Invalid entity reference", nil, err)
		return models.EntityRef{}, false
	}
	return ref, true
}

func locationIDFromRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Invalid location id", nil, err)
		return uuid.Nil, false
	}
	return id, true
}

// resolvedStatus is 201 when the requested entity was created by this call.
func resolvedStatus(e dtos.ResolvedEntity) int {
	if e.Existed {
		return http.StatusOK
	}
	return http.StatusCreated
}

/* ------------------------------------------------------------------
   Resolution
------------------------------------------------------------------ */

// POST /api/v1/locations
func (c *ListingController) ResolveLocationHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.LocationPayload
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := c.listingService.ResolveLocation(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, resolvedStatus(resp.Location), resp)
}

// POST /api/v1/lands
func (c *ListingController) ResolveLandHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.LandPayload
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := c.listingService.ResolveLand(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, resolvedStatus(resp.Land), resp)
}

// POST /api/v1/buildings
func (c *ListingController) ResolveBuildingHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.BuildingPayload
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := c.listingService.ResolveBuilding(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, resolvedStatus(resp.Building), resp)
}

// POST /api/v1/units
func (c *ListingController) ResolveUnitHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.UnitPayload
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := c.listingService.ResolveUnit(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, resolvedStatus(resp.Unit), resp)
}

// POST /api/v1/products
func (c *ListingController) AssembleProductHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.ProductPayload
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := c.listingService.AssembleProduct(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, resp)
}

// POST /api/v1/codes/next
func (c *ListingController) NextCodeHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.NextCodeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := c.validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(
			w,
			http.StatusBadRequest,
			utils.ErrCodeValidation,
			"Invalid next code request",
			shared_dtos.FormatValidationErrors(err),
			err,
		)
		return
	}

	code, err := c.listingService.AllocateChildCode(r.Context(), req.ParentCode, services.ChildKind(req.Kind))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NextCodeResponse{
		ParentCode: req.ParentCode,
		Kind:       req.Kind,
		Code:       code,
	})
}

/* ------------------------------------------------------------------
   Reads and updates
------------------------------------------------------------------ */

// GET /api/v1/locations/{id}
func (c *ListingController) GetLocationHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := locationIDFromRequest(w, r)
	if !ok {
		return
	}
	loc, err := c.listingService.GetLocation(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, loc)
}

// PATCH /api/v1/locations/{id}
func (c *ListingController) UpdateLocationHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := locationIDFromRequest(w, r)
	if !ok {
		return
	}
	var patch dtos.LocationPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	loc, err := c.listingService.UpdateLocation(r.Context(), id, patch)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, loc)
}

// GET /api/v1/lands/{ref}
func (c *ListingController) GetLandHandler(w http.ResponseWriter, r *http.Request) {
	ref, ok := refFromRequest(w, r)
	if !ok {
		return
	}
	resp, err := c.listingService.GetLand(r.Context(), ref)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// PATCH /api/v1/lands/{ref}
func (c *ListingController) UpdateLandHandler(w http.ResponseWriter, r *http.Request) {
	ref, ok := refFromRequest(w, r)
	if !ok {
		return
	}
	var patch dtos.LandPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	land, err := c.listingService.UpdateLand(r.Context(), ref, patch)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, land)
}

// GET /api/v1/buildings/{ref}
func (c *ListingController) GetBuildingHandler(w http.ResponseWriter, r *http.Request) {
	ref, ok := refFromRequest(w, r)
	if !ok {
		return
	}
	resp, err := c.listingService.GetBuilding(r.Context(), ref)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// PATCH /api/v1/buildings/{ref}
func (c *ListingController) UpdateBuildingHandler(w http.ResponseWriter, r *http.Request) {
	ref, ok := refFromRequest(w, r)
	if !ok {
		return
	}
	var patch dtos.BuildingPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	b, err := c.listingService.UpdateBuilding(r.Context(), ref, patch)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, b)
}

// GET /api/v1/units/{ref}
func (c *ListingController) GetUnitHandler(w http.ResponseWriter, r *http.Request) {
	ref, ok := refFromRequest(w, r)
	if !ok {
		return
	}
	resp, err := c.listingService.GetUnit(r.Context(), ref)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// PATCH /api/v1/units/{ref}
func (c *ListingController) UpdateUnitHandler(w http.ResponseWriter, r *http.Request) {
	ref, ok := refFromRequest(w, r)
	if !ok {
		return
	}
	var patch dtos.UnitPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	u, err := c.listingService.UpdateUnit(r.Context(), ref, patch)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, u)
}

// GET /api/v1/products/{ref}
func (c *ListingController) GetProductHandler(w http.ResponseWriter, r *http.Request) {
	ref, ok := refFromRequest(w, r)
	if !ok {
		return
	}
	resp, err := c.listingService.GetProduct(r.Context(), ref)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

/* ------------------------------------------------------------------
   Deletes
------------------------------------------------------------------ */

type deleteFunc func(*ListingController, *http.Request, models.EntityRef) (*dtos.DeleteSummary, error)

func (c *ListingController) handleDelete(w http.ResponseWriter, r *http.Request, del deleteFunc) {
	ref, ok := refFromRequest(w, r)
	if !ok {
		return
	}
	sum, err := del(c, r, ref)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, sum)
}

// DELETE /api/v1/locations/{id}
func (c *ListingController) DeleteLocationHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := locationIDFromRequest(w, r)
	if !ok {
		return
	}
	sum, err := c.listingService.DeleteLocation(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, sum)
}

// DELETE /api/v1/lands/{ref}
func (c *ListingController) DeleteLandHandler(w http.ResponseWriter, r *http.Request) {
	c.handleDelete(w, r, func(c *ListingController, r *http.Request, ref models.EntityRef) (*dtos.DeleteSummary, error) {
		return c.listingService.DeleteLand(r.Context(), ref)
	})
}

// DELETE /api/v1/buildings/{ref}
func (c *ListingController) DeleteBuildingHandler(w http.ResponseWriter, r *http.Request) {
	c.handleDelete(w, r, func(c *ListingController, r *http.Request, ref models.EntityRef) (*dtos.DeleteSummary, error) {
		return c.listingService.DeleteBuilding(r.Context(), ref)
	})
}

// DELETE /api/v1/units/{ref}
func (c *ListingController) DeleteUnitHandler(w http.ResponseWriter, r *http.Request) {
	c.handleDelete(w, r, func(c *ListingController, r *http.Request, ref models.EntityRef) (*dtos.DeleteSummary, error) {
		return c.listingService.DeleteUnit(r.Context(), ref)
	})
}

// DELETE /api/v1/products/{ref}
func (c *ListingController) DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	c.handleDelete(w, r, func(c *ListingController, r *http.Request, ref models.EntityRef) (*dtos.DeleteSummary, error) {
		return c.listingService.DeleteProduct(r.Context(), ref)
	})
}
