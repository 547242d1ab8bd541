// Package ruleset turns authored rule files into engine-ready rules.
//
// Rules are written in CUE under a top-level "rule" struct keyed by rule
// id. Compile* functions use the CUE SDK's Go API directly, never a CLI
// subprocess, and report source positions on failure.
//
// Compilation and lint are separate passes. CompileRule rejects only
// what cannot be represented at all (missing fandom, float values,
// non-string list members). Lint* functions run on compiled rules and
// collect every authoring defect with a stable error code, so editors
// can show all problems in one round trip.
package ruleset
