// Package renderer manages a single out-of-process manim render job.
package renderer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/vidyamath/api/internal/config"
	"github.com/vidyamath/api/internal/model"
)

// Failure reasons
type FailureReason string

const (
	ReasonRendererError    FailureReason = "RENDERER_ERROR"
	ReasonTimeout          FailureReason = "TIMEOUT"
	ReasonArtifactNotFound FailureReason = "ARTIFACT_NOT_FOUND"
)

// Failure describes a failed render invocation. Rendering is expensive, so
// nothing here retries; that decision belongs to the caller.
type Failure struct {
	Reason FailureReason
	Stdout string
	Stderr string
	Err    error
}

func (f *Failure) Error() string {
	switch f.Reason {
	case ReasonTimeout:
		return "render timed out"
	case ReasonArtifactNotFound:
		return "renderer exited cleanly but produced no video artifact"
	default:
		if f.Err != nil {
			return fmt.Sprintf("renderer failed: %v", f.Err)
		}
		return "renderer failed"
	}
}

// AsFailure unwraps a render error into a *Failure, if it is one.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// Artifact is the produced video plus its companion script, both living in
// the invoker's output directory (outside the scratch area).
type Artifact struct {
	VideoPath  string
	ScriptPath string
}

// Invoker runs the external renderer as a subprocess. Each Render call owns
// its scratch directory exclusively and releases it on every exit path.
type Invoker struct {
	binary    string
	quality   model.RenderQuality
	outputDir string
}

// NewInvoker creates a render invoker from manim configuration.
func NewInvoker(cfg *config.ManimConfig) *Invoker {
	return &Invoker{
		binary:    cfg.Binary,
		quality:   model.RenderQuality(cfg.Quality),
		outputDir: cfg.OutputDir,
	}
}

// Render writes the program into a scoped working area, invokes manim on the
// named entry point at the given quality and time budget, and collects the
// produced artifact. An empty quality falls back to the configured preset.
// The working area is deleted before Render returns, success or not; audio
// holds pre-synthesized narration wavs keyed by narration key.
func (inv *Invoker) Render(ctx context.Context, program, entryPoint string, quality model.RenderQuality, budget time.Duration, audio map[string][]byte) (*Artifact, error) {
	if quality == "" {
		quality = inv.quality
	}

	workDir, err := os.MkdirTemp("", "manim_render_")
	if err != nil {
		return nil, fmt.Errorf("failed to create working area: %w", err)
	}
	defer os.RemoveAll(workDir)

	scriptPath := filepath.Join(workDir, entryPoint+".py")
	if err := os.WriteFile(scriptPath, []byte(program), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write program: %w", err)
	}

	audioDir := filepath.Join(workDir, "audio")
	if err := os.MkdirAll(audioDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audio dir: %w", err)
	}
	for key, wav := range audio {
		if err := os.WriteFile(filepath.Join(audioDir, key+".wav"), wav, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write audio %s: %w", key, err)
		}
	}

	mediaDir := filepath.Join(workDir, "media")
	runCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	cmd := exec.CommandContext(runCtx, inv.binary,
		"-m", "manim",
		quality.Flag(),
		scriptPath,
		entryPoint,
		"--flush_cache",
		"--media_dir="+mediaDir,
	)
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Single blocking wait; the context deadline kills the process when the
	// budget elapses, so no orphan survives a timeout.
	runErr := cmd.Run()
	if runCtx.Err() == context.DeadlineExceeded {
		return nil, &Failure{Reason: ReasonTimeout, Stdout: stdout.String(), Stderr: stderr.String(), Err: runCtx.Err()}
	}
	if runErr != nil {
		return nil, &Failure{Reason: ReasonRendererError, Stdout: stdout.String(), Stderr: stderr.String(), Err: runErr}
	}

	// Manim can exit 0 without producing the expected file layout.
	videoDir := filepath.Join(mediaDir, "videos", entryPoint, quality.OutputDir())
	matches, _ := filepath.Glob(filepath.Join(videoDir, "*.mp4"))
	if len(matches) == 0 {
		return nil, &Failure{Reason: ReasonArtifactNotFound, Stdout: stdout.String(), Stderr: stderr.String()}
	}

	// Copy the artifact out before the working area is released.
	if err := os.MkdirAll(inv.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	videoPath := filepath.Join(inv.outputDir, entryPoint+".mp4")
	if err := copyFile(matches[0], videoPath); err != nil {
		return nil, fmt.Errorf("failed to copy artifact: %w", err)
	}
	companionPath := filepath.Join(inv.outputDir, entryPoint+".py")
	if err := os.WriteFile(companionPath, []byte(program), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write companion script: %w", err)
	}

	return &Artifact{VideoPath: videoPath, ScriptPath: companionPath}, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
