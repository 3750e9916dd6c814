// Command validate checks scenario presets and input files. For each file it
// checks:
//   - YAML structure (.yaml, .yml) or the plain input format (.txt and others)
//   - Grid bounds within 0..50
//   - One instruction line per robot
//   - Every robot starts on the grid with at most 100 L/R/F instructions
//
// Valid files are then run and summarised. With no arguments every preset in
// the presets directory is checked.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wricardo/mcp-training/marsrobots/game/engine"
	"github.com/wricardo/mcp-training/marsrobots/game/input"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...interface{}) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

// validateFile loads and validates a single preset or input file
func validateFile(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var world engine.World
	name := ""

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		var scenario engine.Scenario
		if err := yaml.Unmarshal(data, &scenario); err != nil {
			result.fail("Invalid YAML: %v", err)
			return result
		}
		if scenario.Name == "" {
			result.fail("Name is required")
		}
		name = scenario.Name
		world = scenario.World()
	default:
		parsed, err := input.ParseString(string(data))
		if err != nil {
			result.fail("Invalid input: %v", err)
			return result
		}
		world = *parsed
	}

	validateWorld(&result, world)

	// Dry run
	if result.Valid {
		run, err := engine.Run(world)
		if err != nil {
			result.fail("Run failed: %v", err)
			return result
		}
		if name != "" {
			result.info("Name: %s", name)
		}
		result.info("Grid: %dx%d", world.Bounds.MaxWidth, world.Bounds.MaxHeight)
		result.info("Robots: %d", len(world.Robots))
		result.info("Lost: %d", engine.CountLost(run.Reports))
		result.info("Scents: %d", len(run.Scents))

		suppressed := 0
		for _, steps := range run.Steps {
			suppressed += engine.CountSuppressed(steps)
		}
		result.info("Moves saved by scents: %d", suppressed)
	}

	return result
}

// validateWorld checks bounds, robot/instruction pairing and every placement.
// Text input has its bounds and starts checked by the parser already; YAML is
// only decoded, so every check applies to it.
func validateWorld(result *ValidationResult, world engine.World) {
	if err := engine.ValidateBounds(world.Bounds); err != nil {
		result.fail("Invalid grid: %v", err)
		return
	}

	if len(world.Robots) != len(world.Instructions) {
		result.fail("Robot count mismatch: %d robots, %d instruction lines",
			len(world.Robots), len(world.Instructions))
	}

	for i, spec := range world.Robots {
		if i >= len(world.Instructions) {
			break
		}
		if err := engine.ValidatePlacement(world.Bounds, spec, world.Instructions[i]); err != nil {
			result.fail("Robot %d: %v", i+1, err)
		}
	}
}

// collectFiles expands the arguments into files to validate. Directories are
// scanned for preset files.
func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		for _, pattern := range []string{"*.yaml", "*.yml", "*.txt"} {
			matches, err := filepath.Glob(filepath.Join(arg, pattern))
			if err != nil {
				return nil, err
			}
			files = append(files, matches...)
		}
	}
	return files, nil
}

// main validates each file named on the command line (or the presets
// directory), printing a concise report and exiting with non-zero status if
// any are invalid.
func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		presetDir := os.Getenv("PRESET_DIR")
		if presetDir == "" {
			presetDir = "presets"
		}
		args = []string{presetDir}
	}

	files, err := collectFiles(args)
	if err != nil {
		fmt.Printf("Error finding files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Println("No files to validate")
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateFile(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All files are valid!")
	} else {
		fmt.Println("❌ Some files have errors")
		os.Exit(1)
	}
}
