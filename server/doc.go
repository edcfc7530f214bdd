// Package server exposes the assistant over HTTP.
//
// Routes:
//
//	GET  /health            liveness check
//	POST /transcripts       ingest a raw transcript
//	GET  /transcripts       list stored transcripts
//	GET  /transcripts/{id}  fetch one transcript with contents
//	POST /chat              ask a question about a transcript
//
// All responses are JSON envelopes with a boolean "success" field.
package server
