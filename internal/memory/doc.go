// Package memory is the façade over store and retrieval: validated
// inserts with auto-keyword tagging, procedure execution bookkeeping,
// consolidation, and unified delete/export. See service.go.
package memory
