// Package workspace prepares the conversion directory layout and guards it
// with a cross-process lock.
//
// A layout is a base directory holding an input directory (files waiting to
// be converted) and an output directory (conversion results). Prepare is
// idempotent. Acquire takes a non-blocking flock on <base>/.bookconv.lock so
// two runs never work the same directories at once.
package workspace
