// Package ficfetch retrieves stories and search listings from the Archive
// of Our Own and turns the returned markup into typed records. Retrieval is
// cached and rate limited; extraction tolerates missing or malformed
// elements by falling back to per-field defaults.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, http/, rod/).
package ficfetch
