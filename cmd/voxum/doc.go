// Package main hosts the voxum CLI entrypoint and command graph.
//
// The Cobra-based command tree covers one-shot processing of local
// recordings, the long-running Drive watch loop, OAuth bootstrap, and
// configuration scaffolding. It centralizes configuration resolution
// and structured logging setup so subcommands can focus on user
// experience instead of wiring.
package main
