//go:build ignore

// build.go - Credit Underwriter build script
// Usage: go run build.go [-target=TARGET] [-v]
// Targets: all, cli, web, test, clean

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const contractsPkg = "github.com/piyushmakhija5/ai-playground/pkg/contracts"

var (
	distDir = "dist"

	// key = directory under cmd/, value = binary name
	executables = map[string]string{
		"summarize": "underwriter",
		"web":       "underwriter-web",
	}

	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
)

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	if runtime.GOOS == "windows" {
		colorReset, colorRed, colorGreen, colorCyan = "", "", "", ""
	}

	start := time.Now()
	var err error
	switch *target {
	case "all":
		for _, name := range []string{"summarize", "web"} {
			if err = buildExecutable(name, *verbose); err != nil {
				break
			}
		}
	case "cli", "summarize":
		err = buildExecutable("summarize", *verbose)
	case "web":
		err = buildExecutable("web", *verbose)
	case "test":
		err = runTests(*verbose)
	case "clean":
		err = os.RemoveAll(distDir)
	default:
		fmt.Println("Targets: all, cli, web, test, clean")
		os.Exit(2)
	}
	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}
	printSuccess(fmt.Sprintf("Build completed in %s", time.Since(start).Round(time.Millisecond)))
}

func buildExecutable(name string, verbose bool) error {
	exeName := executables[name]
	if runtime.GOOS == "windows" {
		exeName += ".exe"
	}
	printInfo(fmt.Sprintf("Building %s...", name))

	outputPath := filepath.Join(distDir, exeName)
	ldflags := fmt.Sprintf("-s -w -X %s.BuildTime=%s -X %s.GitCommit=%s",
		contractsPkg, time.Now().UTC().Format(time.RFC3339),
		contractsPkg, gitCommit())

	args := []string{"build"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "-ldflags", ldflags, "-o", outputPath, "./cmd/"+name)

	if err := run(verbose, "go", args...); err != nil {
		return fmt.Errorf("failed to build %s: %w", name, err)
	}
	if info, err := os.Stat(outputPath); err == nil {
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", outputPath, float64(info.Size())/1024/1024))
	}
	return nil
}

func runTests(verbose bool) error {
	args := []string{"test", "-race"}
	if verbose {
		args = append(args, "-v")
	}
	return run(true, "go", append(args, "./...")...)
}

func gitCommit() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}

func run(verbose bool, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if verbose {
		fmt.Printf("Running: %s %s\n", name, strings.Join(args, " "))
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func printInfo(msg string)    { fmt.Println(colorCyan + "[INFO] " + colorReset + msg) }
func printSuccess(msg string) { fmt.Println(colorGreen + "[OK] " + colorReset + msg) }
func printError(msg string)   { fmt.Println(colorRed + "[ERROR] " + colorReset + msg) }
