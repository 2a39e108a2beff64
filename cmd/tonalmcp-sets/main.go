package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/claude/tonalmcp/internal/config"
	"github.com/claude/tonalmcp/internal/models"
	"github.com/claude/tonalmcp/internal/tonal"
	"github.com/claude/tonalmcp/internal/workout"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	movementsPath := flag.String("movements", "", "movement catalog JSON file (default: fetch from Tonal using -config)")
	configPath := flag.String("config", "config.yaml", "path to config file, used when -movements is not set")
	inPath := flag.String("in", "-", "input JSON file, - for stdin")
	decode := flag.Bool("decode", false, "read set records and print exercises instead")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("tonalmcp-sets", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	movements, err := loadMovements(*movementsPath, *configPath, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	catalog := workout.NewCatalog(movements)

	input, err := readInput(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var out any
	if *decode {
		var sets []models.SetRecord
		if err := json.Unmarshal(input, &sets); err != nil {
			fmt.Fprintf(os.Stderr, "Error: parsing set records: %v\n", err)
			os.Exit(1)
		}
		out = workout.SetsToExercises(sets, catalog)
	} else {
		var exercises []models.ExerciseSpec
		if err := json.Unmarshal(input, &exercises); err != nil {
			fmt.Fprintf(os.Stderr, "Error: parsing exercises: %v\n", err)
			os.Exit(1)
		}
		sets, err := workout.ExercisesToSets(exercises, catalog)
		if err != nil {
			var ve *workout.ValidationError
			if errors.As(err, &ve) {
				fmt.Fprintf(os.Stderr, "Invalid workout: %v\n", ve)
			} else {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			os.Exit(1)
		}
		if names := workout.IgnoredWarmups(exercises); len(names) > 0 {
			fmt.Fprintf(os.Stderr, "Warning: isWarmup ignored for %s\n", strings.Join(names, ", "))
		}
		out = sets
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadMovements(path, configPath string, log *slog.Logger) ([]models.Movement, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading movement catalog: %w", err)
		}
		var movements []models.Movement
		if err := json.Unmarshal(data, &movements); err != nil {
			return nil, fmt.Errorf("parsing movement catalog: %w", err)
		}
		return movements, nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	movements, err := tonal.New(cfg.Tonal, log).GetMovements(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching movement catalog: %w", err)
	}
	return movements, nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
