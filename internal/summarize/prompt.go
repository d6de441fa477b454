package summarize

// MapPrompt asks for a summary of one chunk. "{text}" is replaced by the
// chunk text.
const MapPrompt = `Write a concise summary of the following:


"{text}"


CONCISE SUMMARY:`

// CombinePrompt asks for one coherent summary of concatenated partial
// summaries. It is also used for collapse passes over oversized input.
const CombinePrompt = `The following are summaries of consecutive sections of a research document, in order:


"{text}"


Combine them into a single coherent summary of the whole document. Keep the key findings, methods and conclusions. Do not repeat points.

CONCISE SUMMARY:`
