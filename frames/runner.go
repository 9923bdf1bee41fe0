package frames

import (
	"bufio"
	"bytes"
	"context"
	"log"
	"os/exec"

	"carouselforge/config"
)

// Runner executes the extractor script and external dependency probes.
type Runner interface {
	// Run invokes the script with args and returns what it wrote to stdout
	// and stderr along with the exit error.
	Run(ctx context.Context, args ...string) (stdout, stderr []byte, err error)

	// Check runs name with args and returns an error unless it exits 0.
	// The name "python" stands for the configured interpreter.
	Check(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs the script with a local Python interpreter.
type ExecRunner struct {
	Python string
	Script string
}

// NewExecRunner returns a runner configured from PYTHON_BIN and FRAME_EXTRACTOR_SCRIPT.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		Python: config.GetPythonBinary(),
		Script: config.GetExtractorScript(),
	}
}

func (r *ExecRunner) Run(ctx context.Context, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, r.Python, append([]string{r.Script}, args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	// The script reports progress on stderr
	sc := bufio.NewScanner(bytes.NewReader(stderr.Bytes()))
	for sc.Scan() {
		if line := sc.Text(); line != "" {
			log.Printf("[extractor] %s", line)
		}
	}
	return stdout.Bytes(), stderr.Bytes(), err
}

func (r *ExecRunner) Check(ctx context.Context, name string, args ...string) error {
	if name == "python" {
		name = r.Python
	}
	return exec.CommandContext(ctx, name, args...).Run()
}
