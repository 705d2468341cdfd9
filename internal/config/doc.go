// Package config loads stagecraft's settings.
//
// A configuration file is TOML or YAML, chosen by extension. Missing files
// are not an error: defaults apply. A handful of settings can be overridden
// from the environment:
//
//	STAGECRAFT_LOG_LEVEL          log level (debug, info, warn, error)
//	STAGECRAFT_DEFAULT_MAJOR_MODE major mode activated at startup
//	STAGECRAFT_FRAME_RATE         frames per second for the run loop
//
// Major modes can be declared as data:
//
//	[[major_modes]]
//	name = "Sketch"
//	requires = ["Grid", "Points"]
//	exclusive = true
//
// and Lua-scripted minor modes listed under [[scripts]].
//
// A Watcher reloads the file when it changes on disk.
package config
