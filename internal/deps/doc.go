// Package deps checks that external binaries are installed.
package deps
