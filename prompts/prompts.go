// Copyright 2026 Lucerna Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package prompts

import (
	"fmt"
	"strings"
)

// Template placeholders. Render functions substitute these verbatim, so a
// template missing its placeholder would silently produce a prompt without
// the user's data. Validate catches that at startup.
const (
	placeholderContext    = "{context}"
	placeholderQuery      = "{query}"
	placeholderTranscript = "{transcript}"
)

// emptyContextMarker stands in for the context when retrieval found nothing
// but the caller still wants a grounded refusal from the model.
const emptyContextMarker = "[No relevant context found]"

// AnswerPrompt instructs the model to answer a question using only the
// retrieved transcript context.
const AnswerPrompt = `You are a meeting assistant with access to excerpts from a meeting transcript. Answer the user's question using ONLY the context below.

CONTEXT FROM THE MEETING:

{context}

---

USER'S QUESTION:

{query}

---

Instructions:
- Use only information from the context above. Do not introduce outside knowledge.
- Start with a direct answer, then add supporting details.
- Quote or paraphrase the transcript where it helps, and name speakers when the context identifies them.
- Include specific numbers, dates and names when the context provides them.
- If the context does not contain the answer, say so plainly and mention what related information is available.
- Keep the tone professional and the response concise.

ANSWER:`

// StructuringPrompt turns a raw transcript into a structured meeting
// document with a summary, topics, decisions and action items.
const StructuringPrompt = `You are a meeting analyst. Transform the raw meeting transcript below into a well-organized, professional document.

Tasks:
1. Clean the transcript: remove timestamps, filler words, repetitions and false starts. Fix transcription errors, grammar and punctuation without changing the meaning.
2. Label speakers consistently as "Speaker 1", "Speaker 2" and so on, or by role when one is mentioned. If speakers cannot be told apart, use "Participant 1", "Participant 2".
3. Group related discussion under descriptive markdown section headers.
4. Open with a 2-4 sentence executive summary covering the meeting's purpose and outcomes.
5. After the discussion sections, list decisions made, action items with assignees and deadlines where mentioned, important dates, and concerns or blockers. If no decisions were made, state "No formal decisions were made in this meeting." If no action items were assigned, state "No specific action items were assigned during this meeting."

Rules:
- Never add information that is not in the transcript, and never speculate.
- Preserve technical terms the participants used.
- Output markdown only, no timestamps.

RAW TRANSCRIPT:

{transcript}

STRUCTURED DOCUMENT:`

// SummaryPrompt asks for a short executive summary of a transcript.
const SummaryPrompt = `Based on the meeting transcript below, write a concise executive summary.

TRANSCRIPT:

{transcript}

Include:
1. Meeting purpose (one sentence)
2. Key discussion points (3-5 bullets)
3. Decisions made (or "None")
4. Action items with assignees where mentioned (or "None")
5. Next steps

Keep it factual, well organized and under 200 words.

SUMMARY:`

// FallbackResponse is returned verbatim when retrieval produces no context
// above the relevance threshold. It replaces a generative call entirely, so
// the model never answers from noise.
const FallbackResponse = `I don't have enough information from this meeting transcript to answer that question accurately.

This could be because:
- The topic wasn't discussed in this particular meeting
- The question is about details that weren't captured in the transcript

I can help with questions about topics that were actually discussed, decisions that were made, action items and assignments, or a summary of the main discussion points.

Try asking "What was discussed in this meeting?" for an overview, or rephrase your question to focus on the meeting's content.`

// RenderAnswer fills the answer prompt with retrieval context and the user's
// question. A blank context is replaced by a marker so the model still gives
// a grounded refusal; a blank query is an error.
func RenderAnswer(context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", ErrEmptyQuery
	}
	if strings.TrimSpace(context) == "" {
		context = emptyContextMarker
	}
	return strings.NewReplacer(
		placeholderContext, context,
		placeholderQuery, query,
	).Replace(AnswerPrompt), nil
}

// RenderStructuring fills the structuring prompt with a raw transcript.
func RenderStructuring(transcript string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", ErrEmptyTranscript
	}
	return strings.ReplaceAll(StructuringPrompt, placeholderTranscript, transcript), nil
}

// RenderSummary fills the summary prompt with a transcript.
func RenderSummary(transcript string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", ErrEmptyTranscript
	}
	return strings.ReplaceAll(SummaryPrompt, placeholderTranscript, transcript), nil
}

// Validate checks that every template still carries its required
// placeholders. Run it at startup so a bad template edit fails fast instead
// of producing prompts without the user's data.
func Validate() error {
	checks := []struct {
		name        string
		template    string
		placeholder string
	}{
		{"answer", AnswerPrompt, placeholderContext},
		{"answer", AnswerPrompt, placeholderQuery},
		{"structuring", StructuringPrompt, placeholderTranscript},
		{"summary", SummaryPrompt, placeholderTranscript},
	}

	for _, check := range checks {
		if !strings.Contains(check.template, check.placeholder) {
			return fmt.Errorf("%s prompt is missing the %s placeholder", check.name, check.placeholder)
		}
	}
	return nil
}
