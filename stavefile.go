//go:build stave

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

// Default target when running `stave` with no arguments.
var Default = All

// Aliases for common targets.
var Aliases = map[string]interface{}{
	"b": Build,
	"t": Test,
	"l": Lint,
	"c": Clean,
}

// binaries are built from ./cmd/<name> into bin/<name>.
var binaries = []string{"roi-cli", "roi-bench"}

// All lints, tests and builds.
func All() error {
	st.Deps(Init)
	st.Deps(Lint, Test)
	st.Deps(Build)
	return nil
}

// Init ensures the module dependencies are up to date.
func Init() error {
	return sh.Run("go", "mod", "tidy")
}

// Build compiles roi-cli and roi-bench.
func Build() error {
	st.Deps(Init)
	st.Deps(Build_CLI, Build_Bench)
	return nil
}

// Build_CLI compiles bin/roi-cli.
func Build_CLI() error {
	st.Deps(Init)
	return buildBinary("roi-cli")
}

// Build_Bench compiles bin/roi-bench.
func Build_Bench() error {
	st.Deps(Init)
	return buildBinary("roi-bench")
}

// buildBinary compiles ./cmd/<name> unless bin/<name> is newer than every
// source file.
func buildBinary(name string) error {
	out := filepath.Join("bin", name)
	rebuild, err := target.Glob(out, "**/*.go", "go.mod", "go.sum")
	if err != nil {
		return fmt.Errorf("checking rebuild of %s: %w", name, err)
	}
	if !rebuild {
		if st.Verbose() {
			fmt.Printf("%s is up to date\n", name)
		}
		return nil
	}
	return sh.RunV("go", "build", "-ldflags", buildLdflags(), "-o", out, "./cmd/"+name)
}

// buildLdflags injects version, commit and build date into main.
func buildLdflags() string {
	version, _ := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	commit, _ := sh.Output("git", "rev-parse", "--short", "HEAD")

	return fmt.Sprintf(
		"-X main.version=%s -X main.commit=%s -X main.date=%s",
		strings.TrimSpace(version),
		strings.TrimSpace(commit),
		time.Now().Format(time.RFC3339),
	)
}

// Test runs all tests with race detection and coverage.
func Test() error {
	st.Deps(Init)
	return sh.RunV("go", "test", "-race", "-cover", "./...")
}

// TestShort runs tests in short mode.
func TestShort() error {
	st.Deps(Init)
	return sh.RunV("go", "test", "-short", "-race", "./...")
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Fmt formats all Go code with gofmt and goimports.
func Fmt() error {
	for _, tool := range []string{"gofmt", "goimports"} {
		if err := sh.Run(tool, "-w", "."); err != nil {
			return fmt.Errorf("%s: %w", tool, err)
		}
	}
	return nil
}

// Vet runs go vet on all packages.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Clean removes bin/, stray binaries and coverage output.
func Clean() error {
	artifacts := append([]string{"bin/", "coverage.out", "coverage.html"}, binaries...)
	for _, a := range artifacts {
		if err := sh.Rm(a); err != nil {
			return fmt.Errorf("removing %s: %w", a, err)
		}
	}
	return nil
}

// Install copies the built binaries to GOBIN, or GOPATH/bin when unset.
func Install() error {
	st.Deps(Build)

	dir, err := installDir()
	if err != nil {
		return err
	}
	for _, name := range binaries {
		dst := filepath.Join(dir, name)
		if runtime.GOOS == "windows" {
			dst += ".exe"
		}
		if err := sh.Copy(dst, filepath.Join("bin", name)); err != nil {
			return fmt.Errorf("installing %s: %w", name, err)
		}
		if st.Verbose() {
			fmt.Printf("Installed %s to %s\n", name, dst)
		}
	}
	return nil
}

func installDir() (string, error) {
	gocmd := st.GoCmd()
	bin, err := sh.Output(gocmd, "env", "GOBIN")
	if err != nil {
		return "", fmt.Errorf("determining GOBIN: %w", err)
	}
	if bin != "" {
		return bin, nil
	}
	gopath, err := sh.Output(gocmd, "env", "GOPATH")
	if err != nil {
		return "", fmt.Errorf("determining GOPATH: %w", err)
	}
	return filepath.Join(gopath, "bin"), nil
}

// Bench namespace for scoring a dataset with roi-bench.
type Bench st.Namespace

// Run scores every split of the dataset named in the configuration file.
// The file defaults to roi.yaml and can be set with ROI_CONFIG.
func (Bench) Run() error {
	st.Deps(Build_Bench)
	return sh.RunV("./bin/roi-bench", "--config", benchConfig())
}

// Sweep runs a match threshold sweep. The split defaults to validation and
// can be set with ROI_SWEEP_SPLIT.
func (Bench) Sweep() error {
	st.Deps(Build_Bench)
	args := []string{"--config", benchConfig(), "--sweep"}
	if split := os.Getenv("ROI_SWEEP_SPLIT"); split != "" {
		args = append(args, "--split", split)
	}
	return sh.RunV("./bin/roi-bench", args...)
}

func benchConfig() string {
	if path := os.Getenv("ROI_CONFIG"); path != "" {
		return path
	}
	return "roi.yaml"
}

// CI runs lint, test and build in order.
func CI() error {
	st.Deps(Init)
	st.SerialDeps(Lint, Test, Build)
	return nil
}

// Check runs vet, lint and short tests.
func Check() error {
	st.Deps(Vet, Lint, TestShort)
	return nil
}

// Coverage writes coverage.out and an HTML report.
func Coverage() error {
	st.Deps(Init)
	if err := sh.RunV("go", "test", "-race", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html")
}
