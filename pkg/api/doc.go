// Package api exposes the construction engine as a JSON HTTP API:
// family and individual construction, catalog listing, dry-run
// validation, cost estimation, template management, and run history.
package api
