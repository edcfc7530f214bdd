// Package qa answers questions about stored transcripts.
//
// The Answerer looks up a transcript, retrieves query-relevant context
// through the index cache and assembler, and feeds it to the generator.
// When retrieval finds nothing above the relevance threshold the canned
// fallback response is served and no generative call is made.
package qa
