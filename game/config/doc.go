// Package config manages scenario presets for the simulator.
//
// A preset is a named world stored in the preset directory, either as YAML:
//
//	name: sample
//	description: canonical sample
//	width: 5
//	height: 3
//	robots:
//	  - x: 1
//	    y: 1
//	    orientation: E
//	    instructions: RFRFRFRF
//
// or as a .txt file in the plain input format read by package input. The
// file name without extension is the preset ID used for session creation.
//
// Usage:
//
//	manager, err := config.NewManager("presets", logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	scenario, err := manager.LoadPreset("sample")
//	presets, err := manager.ListPresets()
//
// Parsed presets are cached. Watch keeps the cache in step with the
// directory while the server runs. When no "sample" preset exists on disk
// the built-in three-robot sample is the default.
package config
