// Package history extracts structured release information from the text
// output of the SourceSafe "history" command.
//
// The pipeline is strictly forward: raw history text is parsed into
// LabelRecords, records matching the release naming convention are
// classified into Releases carrying an ordered version key, and Select
// orders and truncates the releases for conversion.
//
// # Parsing
//
// The legacy client emits human-oriented text, so the block grammar is a
// configurable set of compiled patterns (see Grammar) rather than
// hard-coded strings. Malformed blocks are skipped and unrecognized input
// yields an empty result: an empty history is a valid, if unusual, state.
// The only hard failure is an unusable pattern configuration.
//
// # Versions
//
// Release labels follow the Name_1_2_3_4 or Name.1.2.3.4 conventions.
// Version keys are compared element-wise with implicit zero padding, so
// "1.2" orders before "1.2.1". Labels whose numeric tail cannot be parsed
// are excluded from classification, never defaulted.
package history
