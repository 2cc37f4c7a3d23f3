// Package preflight provides readiness checks for the conversion tool and
// the directories bookconv works in.
//
// The CLI "bookconv status" command runs RunAll and CheckSystemDeps to show
// whether a conversion run would start cleanly.
package preflight
