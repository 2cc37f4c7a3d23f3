// Package textutil holds small string helpers shared by the importer, batch
// runner and reporters: file-name normalization, extension matching and
// rune-safe truncation.
package textutil
