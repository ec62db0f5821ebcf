// internal/adapter/ocr/cli.go

package ocr

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// CLIExtractor shells out to an OCR helper that reads an image and
// writes the recognized text to "{imagePath}.txt". The sidecar file is
// consumed and removed.
type CLIExtractor struct {
	command string
	script  string
	timeout time.Duration
}

// Config holds OCR helper settings.
type Config struct {
	// Command is the interpreter, e.g. "python3".
	Command string

	// Script is the helper path, e.g. "scripts/ocr_helper.py".
	Script string

	// Timeout bounds one extraction.
	Timeout time.Duration
}

// NewCLIExtractor creates an extractor around the helper command.
func NewCLIExtractor(cfg Config) (*CLIExtractor, error) {
	if cfg.Command == "" {
		return nil, fmt.Errorf("ocr: helper command not configured")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &CLIExtractor{
		command: cfg.Command,
		script:  cfg.Script,
		timeout: cfg.Timeout,
	}, nil
}

// ExtractText runs the helper over one image and returns the recognized
// text.
func (e *CLIExtractor) ExtractText(ctx context.Context, imagePath string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	args := []string{imagePath}
	if e.script != "" {
		args = []string{e.script, imagePath}
	}

	cmd := exec.CommandContext(ctx, e.command, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("running ocr helper: %w (%s)", err, strings.TrimSpace(string(out)))
	}

	sidecar := imagePath + ".txt"
	data, err := os.ReadFile(sidecar)
	if err != nil {
		return "", fmt.Errorf("reading ocr output: %w", err)
	}
	os.Remove(sidecar)

	return strings.TrimSpace(string(data)), nil
}
