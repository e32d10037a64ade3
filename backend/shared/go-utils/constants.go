package utils

const (
	OrganizationName                      = "Plotline"
	CORSLowSecurityAllowedOriginLocalhost = "http://localhost:*"

	// Land codes are the root of every hierarchical identifier.
	LandCodeLength = 6

	// Building and unit codes append a zero-padded sequence to the parent code.
	ChildSequenceWidth = 3
	ChildSequenceMax   = 999

	// Coordinates are stored as fixed-precision decimal strings.
	CoordinatePrecision = 6
	GeohashPrecision    = 9
)
