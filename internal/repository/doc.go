// Package repository defines data access over database/sql.  Each
// aggregate gets its own repository with explicit SQL; lookups that
// find nothing return the sentinel errors declared alongside each
// repository so handlers can map them to HTTP responses without
// inspecting driver errors.
package repository
