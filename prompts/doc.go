// Package prompts holds the prompt templates for transcript structuring,
// question answering and summarization, plus the canned fallback used when
// retrieval finds nothing relevant.
//
// Templates use literal {placeholder} markers filled by the Render
// functions. Validate should run at startup to catch a template that lost
// its placeholders.
package prompts
