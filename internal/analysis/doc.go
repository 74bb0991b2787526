// Package analysis turns raw conversation transcripts into ranked story
// suggestions. It scores a transcript against each fixed knowledge category,
// extracts illustrative sentences, action items, and stakeholder mentions,
// and assembles the results into tile suggestions for user confirmation.
//
// Everything in this package is a pure function of its input text; no
// external state is consulted and no I/O is performed. Analyze never
// returns an error to its caller: failures degrade to an empty result.
package analysis
