package renderer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vidyamath/api/internal/config"
	"github.com/vidyamath/api/internal/model"
)

// writeStub writes an executable shell script standing in for the renderer.
func writeStub(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manim-stub.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("failed to write stub: %v", err)
	}
	return path
}

func newTestInvoker(t *testing.T, binary string) *Invoker {
	t.Helper()
	return NewInvoker(&config.ManimConfig{
		Binary:    binary,
		Quality:   "high",
		OutputDir: t.TempDir(),
	})
}

const testProgram = "from manim import *\n"

func TestRender_RendererError(t *testing.T) {
	stub := writeStub(t, "echo boom >&2\nexit 1\n")
	inv := newTestInvoker(t, stub)

	_, err := inv.Render(context.Background(), testProgram, "TestScene", "", 10*time.Second, nil)
	f, ok := AsFailure(err)
	if !ok {
		t.Fatalf("expected Failure, got %v", err)
	}
	if f.Reason != ReasonRendererError {
		t.Errorf("expected reason %s, got %s", ReasonRendererError, f.Reason)
	}
	if f.Stderr == "" {
		t.Error("expected captured stderr")
	}
}

func TestRender_Timeout(t *testing.T) {
	stub := writeStub(t, "sleep 30\n")
	inv := newTestInvoker(t, stub)

	start := time.Now()
	_, err := inv.Render(context.Background(), testProgram, "TestScene", "", 200*time.Millisecond, nil)
	elapsed := time.Since(start)

	f, ok := AsFailure(err)
	if !ok {
		t.Fatalf("expected Failure, got %v", err)
	}
	if f.Reason != ReasonTimeout {
		t.Errorf("expected reason %s, got %s", ReasonTimeout, f.Reason)
	}
	if elapsed > 5*time.Second {
		t.Errorf("budget not enforced, render took %v", elapsed)
	}
}

func TestRender_ArtifactNotFound(t *testing.T) {
	stub := writeStub(t, "exit 0\n")
	inv := newTestInvoker(t, stub)

	_, err := inv.Render(context.Background(), testProgram, "TestScene", "", 10*time.Second, nil)
	f, ok := AsFailure(err)
	if !ok {
		t.Fatalf("expected Failure, got %v", err)
	}
	if f.Reason != ReasonArtifactNotFound {
		t.Errorf("expected reason %s, got %s", ReasonArtifactNotFound, f.Reason)
	}
}

func TestRender_Success(t *testing.T) {
	// Args: -m manim <flag> <script> <entry> --flush_cache --media_dir=<dir>
	stub := writeStub(t, `media="${7#--media_dir=}"
mkdir -p "$media/videos/$5/1080p60"
echo video > "$media/videos/$5/1080p60/$5.mp4"
`)
	inv := newTestInvoker(t, stub)

	audio := map[string][]byte{"intro_1": []byte("RIFF")}
	artifact, err := inv.Render(context.Background(), testProgram, "TestScene", "", 10*time.Second, audio)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if _, err := os.Stat(artifact.VideoPath); err != nil {
		t.Errorf("video artifact missing: %v", err)
	}
	if _, err := os.Stat(artifact.ScriptPath); err != nil {
		t.Errorf("companion script missing: %v", err)
	}
	script, _ := os.ReadFile(artifact.ScriptPath)
	if string(script) != testProgram {
		t.Error("companion script does not match rendered program")
	}
}

func TestRender_PerCallQualityOverridesConfig(t *testing.T) {
	// The invoker is configured high; the call asks for low. The stub fails
	// unless it receives -ql, and writes into the low-quality layout.
	stub := writeStub(t, `test "$3" = "-ql" || exit 4
media="${7#--media_dir=}"
mkdir -p "$media/videos/$5/480p15"
echo video > "$media/videos/$5/480p15/$5.mp4"
`)
	inv := newTestInvoker(t, stub)

	artifact, err := inv.Render(context.Background(), testProgram, "TestScene", model.QualityLow, 10*time.Second, nil)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if _, err := os.Stat(artifact.VideoPath); err != nil {
		t.Errorf("video artifact missing: %v", err)
	}
}

func TestRender_ReleasesWorkingArea(t *testing.T) {
	// The stub records its working directory so the test can check it is gone.
	marker := filepath.Join(t.TempDir(), "workdir.txt")
	stub := writeStub(t, "pwd > "+marker+"\nexit 1\n")
	inv := newTestInvoker(t, stub)

	_, err := inv.Render(context.Background(), testProgram, "TestScene", "", 10*time.Second, nil)
	if _, ok := AsFailure(err); !ok {
		t.Fatalf("expected Failure, got %v", err)
	}

	recorded, err := os.ReadFile(marker)
	if err != nil {
		t.Fatalf("stub never ran: %v", err)
	}
	workDir := string(recorded[:len(recorded)-1]) // strip trailing newline
	if _, err := os.Stat(workDir); !os.IsNotExist(err) {
		t.Errorf("working area %s not released", workDir)
	}
}

func TestRender_WritesAudioIntoWorkingArea(t *testing.T) {
	// The stub proves the narration wav exists next to the program.
	stub := writeStub(t, `test -f audio/intro_1.wav || exit 3
exit 1
`)
	inv := newTestInvoker(t, stub)

	_, err := inv.Render(context.Background(), testProgram, "TestScene", "", 10*time.Second,
		map[string][]byte{"intro_1": []byte("RIFF")})
	f, ok := AsFailure(err)
	if !ok {
		t.Fatalf("expected Failure, got %v", err)
	}
	if f.Err != nil && f.Err.Error() == "exit status 3" {
		t.Error("audio file was not written into the working area")
	}
}
