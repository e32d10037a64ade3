package routes

const (
	Health = "/health"

	Locations = "/api/v1/locations"
	Lands     = "/api/v1/lands"
	Buildings = "/api/v1/buildings"
	Units     = "/api/v1/units"
	Products  = "/api/v1/products"
	NextCode  = "/api/v1/codes/next"

	// {ref} is a custom code unless the request says ?by=id.
	Location = Locations + "/{id}"
	Land     = Lands + "/{ref}"
	Building = Buildings + "/{ref}"
	Unit     = Units + "/{ref}"
	Product  = Products + "/{ref}"
)
