package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/mcp-training/marsrobots/game/engine"
)

const sampleInput = "5 3\n1 1 E\nRFRFRFRF\n3 2 N\nFRRFLLFFRRFLL\n0 3 W\nLLFFFLFLFL\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestAnalyzeFile_Input(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sample.txt", sampleInput)

	var out bytes.Buffer
	if err := analyzeFile(&out, path); err != nil {
		t.Fatalf("analyzeFile failed: %v", err)
	}

	got := out.String()
	expected := []string{
		"Grid: 5 x 3",
		"Robots: 3",
		"Robot 1: 1 1 E -> 1 1 E\n",
		"Robot 2: 3 2 N -> 3 3 N LOST (fell off at command 8, scent left)",
		"Robot 3: 0 3 W -> 2 3 S [1 move(s) saved by scents]",
		"1 of 3 robots lost",
		"Scents: 1, moves saved by scents: 1",
		"  ..Sn..\n",
	}
	for _, want := range expected {
		if !strings.Contains(got, want) {
			t.Errorf("Expected %q in output:\n%s", want, got)
		}
	}
}

func TestAnalyzeFile_YAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "still.yaml", `name: still
width: 1
height: 1
robots:
  - x: 0
    y: 0
    orientation: N
    instructions: RRRR
`)

	var out bytes.Buffer
	if err := analyzeFile(&out, path); err != nil {
		t.Fatalf("analyzeFile failed: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "Name: still") || !strings.Contains(got, "No robots lost") {
		t.Errorf("Unexpected output:\n%s", got)
	}
	if !strings.Contains(got, "  ..\n  N.\n") {
		t.Errorf("Expected map in output:\n%s", got)
	}
}

func TestAnalyzeFile_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []string{
		filepath.Join(dir, "missing.txt"),
		writeFile(t, dir, "bad.txt", "5 3\n1 1 X\nF\n"),
		writeFile(t, dir, "bad.yaml", "name: bad\nwidth: 99\nheight: 3\n"),
		writeFile(t, dir, "short.txt", "5 3\n1 1 N\n"),
	}

	for _, path := range tests {
		t.Run(filepath.Base(path), func(t *testing.T) {
			var out bytes.Buffer
			if err := analyzeFile(&out, path); err == nil {
				t.Errorf("Expected error for %s", path)
			}
		})
	}
}

func TestAnalyzePresets(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sample.txt", sampleInput)
	writeFile(t, dir, "broken.txt", "not an input")

	var out bytes.Buffer
	if err := analyzePresets(&out, dir); err != nil {
		t.Fatalf("analyzePresets failed: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "=== Analyzing sample.txt ===") {
		t.Errorf("Expected sample preset in output:\n%s", got)
	}
	if strings.Contains(got, "broken") {
		t.Errorf("Invalid presets should be skipped:\n%s", got)
	}

	if err := analyzePresets(&out, filepath.Join(dir, "missing")); err == nil {
		t.Error("Expected error for a missing preset directory")
	}
}

func TestLostStep(t *testing.T) {
	steps := []engine.StepResult{
		{Index: 0, Outcome: engine.OutcomeMoved},
		{Index: 1, Outcome: engine.OutcomeLost, ScentAdded: true},
		{Index: 2, Outcome: engine.OutcomeHalted},
	}

	step := lostStep(steps)
	if step == nil || step.Index != 1 {
		t.Fatalf("Expected step 1, got %+v", step)
	}
	if lostStep(steps[:1]) != nil {
		t.Error("Expected no lost step")
	}
}
