// Package normalisers holds document sources that turn files on disk into
// page-level text for the ingestion pipeline. Only PDF is supported.
package normalisers
