// Package retrieval assembles query-relevant context from a transcript index.
//
// The Assembler searches an index, applies a minimum-similarity threshold and
// formats the surviving chunks into a single labeled context block. The Cache
// keeps built indexes per transcript id with LRU eviction so repeated
// questions skip re-embedding.
package retrieval
