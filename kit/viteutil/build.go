package viteutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

type BuildOptions struct {
	// PackageManagerCmd runs vite, e.g. "npx", "pnpm exec", "bunx".
	PackageManagerCmd string
	// Dir is where the command runs. Empty means the current directory.
	Dir string
	// OutDir is passed to vite as --outDir.
	OutDir string
	// ConfigFile is an optional vite config path.
	ConfigFile string

	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// BuildCommand returns the "vite build" command for opts. The manifest is
// written to <OutDir>/.vite/manifest.json.
func BuildCommand(ctx context.Context, opts BuildOptions) (*exec.Cmd, error) {
	fields := strings.Fields(opts.PackageManagerCmd)
	if len(fields) == 0 {
		return nil, errors.New("viteutil: package manager command is required")
	}

	args := append(fields[1:], "vite", "build", "--manifest")
	if opts.OutDir != "" {
		args = append(args, "--outDir", opts.OutDir)
	}
	if opts.ConfigFile != "" {
		args = append(args, "--config", opts.ConfigFile)
	}

	cmd := exec.CommandContext(ctx, fields[0], args...)
	cmd.Dir = opts.Dir
	cmd.Stdout, cmd.Stderr = opts.Stdout, opts.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	return cmd, nil
}

// Build runs a production vite build and waits for it.
func Build(ctx context.Context, opts BuildOptions) error {
	cmd, err := BuildCommand(ctx, opts)
	if err != nil {
		return err
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	log.Info("running vite build", "command", strings.Join(cmd.Args, " "))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("vite build: %w", err)
	}
	return nil
}
