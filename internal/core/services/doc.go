// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// IngestService sequences page loading, segmentation and chunking.
// IndexService embeds chunks and owns the vector index lifecycle.
// SearchService embeds queries and ranks indexed chunks.
// SettingsService reads and writes configuration with defaults.
package services
