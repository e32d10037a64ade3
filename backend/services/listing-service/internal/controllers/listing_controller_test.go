package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/plotline/mono-repo/backend/services/listing-service/internal/dtos"
	"github.com/plotline/mono-repo/backend/services/listing-service/internal/services"
	"github.com/plotline/mono-repo/backend/shared/go-testhelpers"
	"github.com/plotline/mono-repo/backend/shared/go-utils"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	utils.Logger.SetLevel(logrus.WarnLevel)
}

func newTestRouter(t *testing.T) (*mux.Router, *testhelpers.MemStore) {
	t.Helper()
	store := testhelpers.NewMemStore()
	svc := services.NewListingServiceWithCodes(store, func(int) string { return "PLT001" })
	router := mux.NewRouter()
	NewListingController(svc).Register(router)
	return router, store
}

func serve(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func landBody(name string) map[string]any {
	return map[string]any{
		"name":        name,
		"size":        "1200.5",
		"description": "Flat parcel close to the main road",
		"location": map[string]any{
			"country":   "Tanzania",
			"latitude":  -3.386925,
			"longitude": 36.682995,
		},
	}
}

func TestResolveLandHandler_CreatedThenExisting(t *testing.T) {
	router, store := newTestRouter(t)

	rec := serve(t, router, http.MethodPost, "/api/v1/lands", landBody("Kilima Farm"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decode[dtos.ResolveLandResponse](t, rec)
	assert.Equal(t, "PLT001", first.Land.CustomID)
	assert.False(t, first.Land.Existed)

	rec = serve(t, router, http.MethodPost, "/api/v1/lands", landBody("Kilima Farm"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	second := decode[dtos.ResolveLandResponse](t, rec)
	assert.True(t, second.Land.Existed)
	assert.Equal(t, first.Land.ID, second.Land.ID)

	assert.Equal(t, 1, store.Count(testhelpers.TableLands))
}

func TestResolveLandHandler_Errors(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(t, router, http.MethodPost, "/api/v1/lands", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, utils.ErrCodeInvalidPayload, decode[utils.ErrorResponse](t, rec).Code)

	rec = serve(t, router, http.MethodPost, "/api/v1/lands", map[string]any{"name": "No location"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, utils.ErrCodeValidation, decode[utils.ErrorResponse](t, rec).Code)
}

func TestResolveBuildingAndUnitHandlers(t *testing.T) {
	router, _ := newTestRouter(t)
	require.Equal(t, http.StatusCreated, serve(t, router, http.MethodPost, "/api/v1/lands", landBody("Kilima Farm")).Code)

	rec := serve(t, router, http.MethodPost, "/api/v1/buildings", map[string]any{
		"name":             "Block A",
		"number_of_floors": 3,
		"size":             450,
		"description":      "Three storey apartment block",
		"land":             map[string]any{"custom_id": "PLT001"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	b := decode[dtos.ResolveBuildingResponse](t, rec)
	assert.Equal(t, "PLT001001", b.Building.CustomID)
	assert.True(t, b.Land.Existed)

	rec = serve(t, router, http.MethodPost, "/api/v1/units", map[string]any{
		"name":        "A-101",
		"floor_level": "1",
		"size":        64,
		"building":    map[string]any{"custom_id": "PLT001001"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	u := decode[dtos.ResolveUnitResponse](t, rec)
	assert.Equal(t, "PLT001001001", u.Unit.CustomID)

	rec = serve(t, router, http.MethodGet, "/api/v1/units/PLT001001001", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[dtos.UnitResponse](t, rec)
	assert.Equal(t, "A-101", got.Unit.Name)
	assert.Equal(t, "PLT001", got.Land.CustomID)

	rec = serve(t, router, http.MethodGet, "/api/v1/units/"+u.Unit.ID.String()+"?by=id", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNextCodeHandler(t *testing.T) {
	router, _ := newTestRouter(t)
	require.Equal(t, http.StatusCreated, serve(t, router, http.MethodPost, "/api/v1/lands", landBody("Kilima Farm")).Code)

	rec := serve(t, router, http.MethodPost, "/api/v1/codes/next", dtos.NextCodeRequest{ParentCode: "PLT001", Kind: "building"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "PLT001001", decode[dtos.NextCodeResponse](t, rec).Code)

	rec = serve(t, router, http.MethodPost, "/api/v1/codes/next", dtos.NextCodeRequest{ParentCode: "PLT001", Kind: "floor"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, router, http.MethodPost, "/api/v1/codes/next", dtos.NextCodeRequest{ParentCode: "NOPE99", Kind: "building"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAssembleProductHandler_Conflict(t *testing.T) {
	router, _ := newTestRouter(t)

	body := map[string]any{
		"status":   "forRent",
		"category": "plot",
		"land":     landBody("Kilima Farm"),
		"lease":    map[string]any{"price": 500, "rental_period": "monthly"},
	}
	rec := serve(t, router, http.MethodPost, "/api/v1/products", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[dtos.AssembleProductResponse](t, rec)
	assert.Equal(t, "PLT001", created.Product.CustomID)

	rec = serve(t, router, http.MethodPost, "/api/v1/products", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, utils.ErrCodeConflict, decode[utils.ErrorResponse](t, rec).Code)
}

func TestUpdateAndDeleteLandHandlers(t *testing.T) {
	router, store := newTestRouter(t)
	require.Equal(t, http.StatusCreated, serve(t, router, http.MethodPost, "/api/v1/lands", landBody("Kilima Farm")).Code)

	rec := serve(t, router, http.MethodPatch, "/api/v1/lands/PLT001", dtos.LandPatch{Description: utils.Ptr("<b>Fertile</b> soil")})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Fertile soil", decode[map[string]any](t, rec)["description"])

	rec = serve(t, router, http.MethodDelete, "/api/v1/lands/PLT001", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sum := decode[dtos.DeleteSummary](t, rec)
	assert.Equal(t, 1, sum.Lands)
	assert.Equal(t, 1, sum.Locations)
	assert.Zero(t, store.Count(testhelpers.TableLocations))

	rec = serve(t, router, http.MethodGet, "/api/v1/lands/PLT001", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteLocationHandler(t *testing.T) {
	router, store := newTestRouter(t)
	require.Equal(t, http.StatusCreated, serve(t, router, http.MethodPost, "/api/v1/lands", landBody("Kilima Farm")).Code)

	rec := serve(t, router, http.MethodGet, "/api/v1/lands/PLT001", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	locationPath := "/api/v1/locations/" + decode[dtos.LandResponse](t, rec).Location.ID.String()

	rec = serve(t, router, http.MethodDelete, locationPath, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, utils.ErrCodeConflict, decode[utils.ErrorResponse](t, rec).Code)
	assert.Equal(t, 1, store.Count(testhelpers.TableLocations))

	rec = serve(t, router, http.MethodPost, "/api/v1/locations", map[string]any{
		"country":   "Kenya",
		"latitude":  -1.292066,
		"longitude": 36.821946,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	orphan := decode[dtos.ResolveLocationResponse](t, rec)

	rec = serve(t, router, http.MethodDelete, "/api/v1/locations/"+orphan.Location.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, decode[dtos.DeleteSummary](t, rec).Locations)

	rec = serve(t, router, http.MethodDelete, "/api/v1/locations/"+orphan.Location.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRefParsing(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(t, router, http.MethodGet, "/api/v1/lands/not-a-uuid?by=id", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, router, http.MethodGet, "/api/v1/lands/PLT001?by=slug", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, router, http.MethodGet, "/api/v1/locations/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
