// Package convertrun wires the bookconv run: prepare the workspace, take the
// lock, probe the converter, optionally import sources, then drive the batch
// runner through a progress reporter.
package convertrun
