package commands

import (
	"bytes"
	"io"
	"os"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	if versionCmd == nil {
		t.Fatal("versionCmd should not be nil")
	}
	if versionCmd.Use != "version" {
		t.Errorf("Use = %q; want 'version'", versionCmd.Use)
	}
	if versionCmd.Short == "" {
		t.Error("Short description should not be empty")
	}
	if versionCmd.Run == nil {
		t.Error("Run should be set")
	}
}

func TestVersionCommandOutput(t *testing.T) {
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	versionCmd.Run(versionCmd, []string{})

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	io.Copy(&buf, r)

	expectedContents := []string{"nscan version", "commit:", "built:"}
	for _, expected := range expectedContents {
		if !bytes.Contains(buf.Bytes(), []byte(expected)) {
			t.Errorf("output missing expected content: %s", expected)
		}
	}
}

func TestVersionVariables(t *testing.T) {
	if version == "" {
		t.Error("version should not be empty")
	}
	if commit == "" {
		t.Error("commit should not be empty")
	}
	if buildDate == "" {
		t.Error("buildDate should not be empty")
	}
}
