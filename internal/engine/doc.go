// Package engine implements the tagweave validation rule engine.
//
// The engine is the heart of tagweave - given a user's selected tags and
// plot blocks within a fandom, it evaluates admin-authored validation
// rules to detect conflicts, enforce prerequisites, and surface
// suggestions.
//
// ARCHITECTURE:
//
// Pure pipeline, no shared state:
// Each call to Validator.Validate is an independent pipeline from
// (input, rules) to a ValidationResult. Inputs are immutable snapshots
// and the only mutable state is a request-local accumulator, so
// concurrent calls need no locking.
//
// Evaluation flow:
//  1. Input sanity warnings (missing fandom, suspicious-looking ids)
//  2. Filter rules to the input's fandom
//  3. Order rules by priority, then estimated cost (stable)
//  4. Evaluate each rule: structural check, fire check, action mapping
//  5. Aggregate buckets, validity, timing, and evaluated count
//
// FAULT ISOLATION:
// Nothing inside the engine escapes the orchestrator boundary as a panic
// or an error return. A structurally broken rule is skipped with a
// warning; a rule that panics during evaluation is converted into a
// single error entry; evaluation of the remaining rules always continues.
// Callers always receive a complete ValidationResult.
//
// DETERMINISM:
// The ordering of result entries follows the optimizer's rule order, not
// completion order. Parallel evaluation (WithWorkers) merges per-rule
// outcomes back into optimizer order, so sequential and parallel runs
// produce byte-identical results.
//
// Cycle detection over plot-block hierarchies (DetectCycles) is a
// separate, side-effect-free pass consumed ad hoc by admin tooling.
package engine
