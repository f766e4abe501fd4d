// Package stores provides SQLite persistence for user templates and
// family construction history. Migrations are embedded and applied with
// golang-migrate at startup.
package stores
