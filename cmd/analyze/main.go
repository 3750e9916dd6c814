// Command analyze runs input files or presets and prints a human-readable
// breakdown: each robot's start and final report, where lost robots fell, how
// many moves scents saved, and an ASCII map of the final grid.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/marsrobots/game/config"
	"github.com/wricardo/mcp-training/marsrobots/game/engine"
	"github.com/wricardo/mcp-training/marsrobots/game/input"
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		if err := analyzePresets(os.Stdout, presetDir()); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	failed := false
	for _, path := range args {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(path))
		if err := analyzeFile(os.Stdout, path); err != nil {
			fmt.Printf("Error: %v\n", err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func presetDir() string {
	if dir := os.Getenv("PRESET_DIR"); dir != "" {
		return dir
	}
	return "presets"
}

// analyzePresets analyzes every valid preset in dir
func analyzePresets(w io.Writer, dir string) error {
	manager, err := config.NewManager(dir, nil)
	if err != nil {
		return err
	}

	presets, err := manager.ListPresets()
	if err != nil {
		return err
	}

	for _, p := range presets {
		scenario, err := manager.LoadPreset(p.PresetID)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\n=== Analyzing %s ===\n", p.Filename)
		fmt.Fprintf(w, "Name: %s\n", scenario.Name)
		if scenario.Description != "" {
			fmt.Fprintf(w, "Description: %s\n", scenario.Description)
		}
		if err := analyzeWorld(w, scenario.World()); err != nil {
			return err
		}
	}
	return nil
}

// analyzeFile loads a YAML scenario or a plain input file and analyzes it
func analyzeFile(w io.Writer, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		scenario, err := engine.LoadScenario(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Name: %s\n", scenario.Name)
		return analyzeWorld(w, scenario.World())
	default:
		world, err := input.ParseFile(path)
		if err != nil {
			return err
		}
		return analyzeWorld(w, *world)
	}
}

// analyzeWorld runs the world and prints the breakdown
func analyzeWorld(w io.Writer, world engine.World) error {
	result, err := engine.Run(world)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Grid: %d x %d\n", world.Bounds.MaxWidth, world.Bounds.MaxHeight)
	fmt.Fprintf(w, "Robots: %d\n", len(world.Robots))

	totalSuppressed := 0
	for i, report := range result.Reports {
		spec := world.Robots[i]
		steps := result.Steps[i]
		suppressed := engine.CountSuppressed(steps)
		totalSuppressed += suppressed

		fmt.Fprintf(w, "Robot %d: %d %d %s -> %s", report.Number(),
			spec.Start.X, spec.Start.Y, spec.Orientation, report.String())

		if lostAt := lostStep(steps); lostAt != nil {
			fmt.Fprintf(w, " (fell off at command %d", lostAt.Index+1)
			if lostAt.ScentAdded {
				fmt.Fprint(w, ", scent left")
			}
			fmt.Fprint(w, ")")
		}
		if suppressed > 0 {
			fmt.Fprintf(w, " [%d move(s) saved by scents]", suppressed)
		}
		fmt.Fprintln(w)
	}

	lost := engine.CountLost(result.Reports)
	if lost > 0 {
		fmt.Fprintf(w, "⚠️  %d of %d robots lost\n", lost, len(result.Reports))
	} else {
		fmt.Fprintln(w, "✅ No robots lost")
	}
	fmt.Fprintf(w, "Scents: %d, moves saved by scents: %d\n", len(result.Scents), totalSuppressed)

	fmt.Fprintln(w, "Map (top row first, * = scent, lowercase = lost):")
	for _, row := range engine.RenderMap(world.Bounds, result.Reports, result.Scents) {
		fmt.Fprintln(w, "  "+row)
	}
	return nil
}

// lostStep returns the step that lost the robot, if any
func lostStep(steps []engine.StepResult) *engine.StepResult {
	for i := range steps {
		if steps[i].Outcome == engine.OutcomeLost {
			return &steps[i]
		}
	}
	return nil
}
