package executor

import (
	"errors"
	"os/exec"
	"testing"
)

func TestCheckElevationDisabled(t *testing.T) {
	for _, program := range []string{"", "none"} {
		if err := CheckElevation(program); err != nil {
			t.Errorf("CheckElevation(%q) should return nil: %v", program, err)
		}
	}
}

func TestCheckElevationMissingProgram(t *testing.T) {
	err := CheckElevation("definitely-not-an-elevation-tool")
	if IsElevated() {
		if err != nil {
			t.Errorf("an elevated process should never need a program: %v", err)
		}
		return
	}
	if !errors.Is(err, ErrNoElevation) {
		t.Errorf("expected ErrNoElevation, got %v", err)
	}
}

func TestElevationToolIsOnPath(t *testing.T) {
	tool := ElevationTool()
	if tool == "" {
		t.Skip("no elevation program installed")
	}
	if _, err := exec.LookPath(tool); err != nil {
		t.Errorf("ElevationTool() = %q but it is not on PATH", tool)
	}
	if err := CheckElevation(tool); err != nil {
		t.Errorf("CheckElevation(%q) = %v", tool, err)
	}
}
