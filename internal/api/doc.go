// Package api is the Gin-based REST transport over the memory façade:
// episodic/semantic/procedural CRUD, retrieval endpoints, and admin
// operations (stats, backup, export/import, consolidation), all behind
// a uniform JSON envelope. See response.go and server.go.
package api
