package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var schemaUnsafe = regexp.MustCompile(`[^a-z0-9_]+`)

// IsolatedSchemaName derives a per-run schema name from the CI runner id and
// run number.
func IsolatedSchemaName(runnerID, runNumber string) (string, error) {
	if runnerID == "" || runNumber == "" {
		return "", fmt.Errorf("runnerID and runNumber must be non-empty")
	}
	raw := strings.ToLower("run_" + runnerID + "_" + runNumber)
	return schemaUnsafe.ReplaceAllString(raw, "_"), nil
}

// WithIsolatedSchema points baseURL at the run's own schema by setting the
// search_path runtime parameter. Tables created through the returned URL
// land in that schema, so concurrent runs never see each other's rows.
func WithIsolatedSchema(baseURL, runnerID, runNumber string) (string, string, error) {
	schema, err := IsolatedSchemaName(runnerID, runNumber)
	if err != nil {
		return "", "", err
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid DB URL: %w", err)
	}

	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()

	return u.String(), schema, nil
}
