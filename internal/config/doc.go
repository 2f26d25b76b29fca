// Package config loads strata's settings.
//
// Settings are layered, higher layers overriding lower ones:
//
//	┌─────────────────────────────┐
//	│  4. Command line flags      │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. Environment (STRATA_*)  │
//	├─────────────────────────────┤
//	│  2. Config file (TOML/YAML) │  ← ~/.config/strata/config.toml
//	├─────────────────────────────┤
//	│  1. Built-in defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// File and environment maps are read by the loader sub-package and merged
// before the result is decoded into a Config.
//
// # Example file
//
//	[selection]
//	mode = "line"
//	wrap = true
//
//	[syntax]
//	cache_ttl = "10m"
//
//	[syntax.languages.zig]
//	extensions = [".zig"]
//	strategy = "brace"
//	line_comments = ["//"]
package config
