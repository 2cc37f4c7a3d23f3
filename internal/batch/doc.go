// Package batch converts every eligible file in the input directory.
//
// A file is eligible when its name carries the source extension (matched
// case-insensitively) and its derived output name is not already present in
// the output directory. Files are processed one at a time in lexical order.
// Per-file failures are classified and counted; they never abort the batch.
// Only context cancellation stops a run early.
package batch
