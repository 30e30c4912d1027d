// Command validate checks arena profile files (JSON or YAML) before the
// server loads them. For each profile it checks:
//   - The file parses as JSON or YAML
//   - Every constant passes the same playability rules the server enforces
//   - The profile name matches the file name the server looks it up by
//
// With no arguments it scans ../configs. Arguments may be files or directories.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/mcp-training/pongserver/game/config"
	"github.com/wricardo/mcp-training/pongserver/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateProfile loads and validates a single arena profile.
func validateProfile(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	arena, err := config.ParseFile(filePath)
	if err != nil {
		result.Valid = false
		if errors.Is(err, config.ErrConfigNotFound) {
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %s does not exist", filePath))
		} else {
			result.Errors = append(result.Errors, fmt.Sprintf("Invalid profile: %v", err))
		}
		return result
	}

	stem := strings.TrimSuffix(result.File, filepath.Ext(result.File))
	if arena.Name == "" {
		arena.Name = stem
	} else if arena.Name != stem {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Name %q does not match file name %q", arena.Name, stem))
	}

	if err := engine.ValidateArena(&arena); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, strings.TrimPrefix(err.Error(), "arena validation: "))
		return result
	}

	if result.Valid {
		result.Errors = append(result.Errors, describe(arena)...)
	}

	return result
}

// describe summarises a valid arena in player terms
func describe(a engine.Arena) []string {
	rate := float64(a.TickRate)
	crossing := (a.Width - 2*a.PaddleWidth) / (a.BallSpeedX * rate)
	sweep := a.MaxPaddleY() / (a.PaddleSpeed * rate)

	return []string{
		fmt.Sprintf("✓ Name: %s", a.Name),
		fmt.Sprintf("✓ Arena: %gx%g @ %d Hz", a.Width, a.Height, a.TickRate),
		fmt.Sprintf("✓ Paddle: %gx%g", a.PaddleWidth, a.PaddleHeight),
		fmt.Sprintf("✓ Ball crosses the court in %.2fs", crossing),
		fmt.Sprintf("✓ Paddle sweeps top to bottom in %.2fs", sweep),
	}
}

// collectProfiles expands the arguments into a sorted list of profile files
func collectProfiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			// Let validateProfile report the missing file
			files = append(files, arg)
			continue
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(arg, pattern))
			if err != nil {
				return nil, err
			}
			files = append(files, matches...)
		}
	}
	sort.Strings(files)
	return files, nil
}

// main validates every profile it is given, printing a concise report and
// exiting with non-zero status if any are invalid.
func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		args = []string{"../configs"}
	}

	files, err := collectProfiles(args)
	if err != nil {
		fmt.Printf("Error finding profiles: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Println("No arena profiles found")
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateProfile(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All arena profiles are valid!")
	} else {
		fmt.Println("❌ Some arena profiles have errors")
		os.Exit(1)
	}
}
