// SPDX-License-Identifier: MPL-2.0

// Package modgen generates module aggregator files for a source tree.
//
// A scan walks every directory below a root, infers the child modules of each
// directory from its direct entries, and writes one aggregator file per
// qualifying directory that declares and re-exports those modules. The default
// layout is the Rust one:
//
//	pub mod a;
//	pub mod b;
//
//	pub use self::{
//	    a::*,
//	    b::*,
//	};
//
// A source file contributes a module named after its stem. A subdirectory
// contributes a module only when it already holds an aggregator or entry file,
// so directories are processed children first: by the time a parent is
// inspected, every child aggregator that this run can produce exists.
//
// Build and GenerateModFiles are the programmatic entry points for build
// scripts; Generator exposes the individual steps and a Report.
//
// File organization:
//   - modgen.go: entry points (Build, GenerateModFiles)
//   - options.go: Options and functional setters
//   - module.go: Module, qualification and module discovery
//   - render.go: aggregator rendering and recognition
//   - scan.go: the directory walk, writing, pruning, Report
//   - lock.go: cross-process run lock
package modgen
