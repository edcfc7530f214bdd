// Package ingest provides pipeline orchestration for storing transcripts.
//
// The Pipeline manages the ingestion workflow for raw transcripts:
//   - optional structuring through the generative model, with retry
//   - content-hash id assignment and storage
//   - asynchronous index warm-up through a worker pool
//
// Warm-up errors are logged but do not fail the ingestion operation.
package ingest
