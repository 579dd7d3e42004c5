//go:build mage
// +build mage

package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binary     = "posixfs"
	mainPkg    = "./cmd/posixfs"
	lintConfig = ".golangci.yml"
	coverage   = "coverage.out"
)

// Default target to run when none is specified
var Default = Build

// Build builds the posixfs binary
func Build() error {
	fmt.Println("Building...")
	return sh.Run("go", "build", "-o", binary, mainPkg)
}

// Install installs posixfs into GOBIN
func Install() error {
	fmt.Println("Installing...")
	return sh.Run("go", "install", mainPkg)
}

// Test runs the unit tests with the race detector and a coverage profile
func Test() error {
	fmt.Println("Running tests...")
	return goTest("-v", "-race", "-coverprofile="+coverage, "./...")
}

// TestForFail runs the unit tests purely to find out whether any fail
func TestForFail() error {
	fmt.Println("Running unit tests for overall pass/fail...")
	return goTest("-timeout=30s", "-failfast", "-shuffle=on", "-race", "./...")
}

// TestSFTP runs the remote scan tests against the server in POSIXFS_SFTP_URL
func TestSFTP() error {
	if os.Getenv("POSIXFS_SFTP_URL") == "" {
		return fmt.Errorf("POSIXFS_SFTP_URL must name a reachable sftp:// directory")
	}

	fmt.Println("Running SFTP integration tests...")
	return goTest("-tags=integration", "-run=Integration", "-v", "./pkg/filesystem/...")
}

// Smoke builds posixfs and exercises each subcommand that needs no terminal
func Smoke() error {
	mg.Deps(Build)
	fmt.Println("Smoke testing...")

	if err := expectOutput("/usr", "join", "/usr/local", ".."); err != nil {
		return err
	}

	dir, err := os.MkdirTemp("", "posixfs-smoke")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	script := filepath.Join(dir, "parent.star")
	src := "def main():\n    print(posixfs.path_join(argv[1], \"..\"))\n"
	if err := os.WriteFile(script, []byte(src), 0o600); err != nil {
		return err
	}

	if err := expectOutput("/a", "run", script, "/a/b"); err != nil {
		return err
	}

	metrics := filepath.Join(dir, "posixfs.prom")
	if err := sh.Run("./"+binary, "--metrics-file", metrics, "scan", ".", "--no-dots"); err != nil {
		return err
	}

	written, err := os.ReadFile(metrics)
	if err != nil {
		return err
	}

	if !strings.Contains(string(written), `posixfs_scans_total{backend="local"} 1`) {
		return fmt.Errorf("metrics file %s does not count the scan:\n%s", metrics, written)
	}

	return nil
}

// Lint lints the codebase with the repository config
func Lint() error {
	fmt.Println("Linting...")
	return run(context.Background(), "golangci-lint", "run", "-c", lintConfig, "./...")
}

// LintForFail lints the codebase purely to find out whether anything fails
func LintForFail() error {
	fmt.Println("Linting to check for overall pass/fail...")
	return run(
		context.Background(),
		"golangci-lint", "run",
		"-c", lintConfig,
		"--fix=false",
		"--max-issues-per-linter=1",
		"--max-same-issues=1",
		"./...",
	)
}

// CheckNils checks for nils
func CheckNils() error {
	fmt.Println("Running check for nils...")
	return run(context.Background(), "nilaway", "./...")
}

// CheckForFail runs all checks on the code for determining whether any fail
func CheckForFail() error {
	fmt.Println("Checking for failures...")
	mg.SerialDeps(LintForFail, TestForFail, CheckNils)
	return nil
}

// Check formats, lints, tests and smoke tests
func Check() {
	mg.SerialDeps(Fmt, Lint, Test, CheckNils, Smoke)
}

// Fmt formats the code
func Fmt() error {
	fmt.Println("Formatting code...")
	return run(context.Background(), "golangci-lint", "fmt", "-c", lintConfig)
}

// Coverage writes coverage.html from a fresh test run
func Coverage() error {
	mg.Deps(Test)
	fmt.Println("Generating coverage report...")
	return sh.Run("go", "tool", "cover", "-html="+coverage, "-o", "coverage.html")
}

// Clean removes build artifacts
func Clean() {
	fmt.Println("Cleaning...")
	for _, artifact := range []string{binary, coverage, "coverage.html"} {
		os.Remove(artifact)
	}
}

// expectOutput runs the built binary and compares its trimmed stdout.
func expectOutput(want string, args ...string) error {
	out, err := sh.Output("./"+binary, args...)
	if err != nil {
		return err
	}

	if strings.TrimSpace(out) != want {
		return fmt.Errorf("%s %s = %q, want %q", binary, strings.Join(args, " "), out, want)
	}

	return nil
}

func goTest(args ...string) error {
	return run(context.Background(), "go", append([]string{"test"}, args...)...)
}

// Helper function to run commands with context
func run(c context.Context, command string, arg ...string) error {
	cmd := exec.CommandContext(c, command, arg...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}
