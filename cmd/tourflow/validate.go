package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/tourflow/internal/validator"
	"github.com/aretw0/tourflow/pkg/adapters/loam"
	"github.com/aretw0/tourflow/pkg/schema"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file-or-dir...]",
	Short: "Check tour files for errors",
	Long: `Validates tour files against the tour schema and checks each step for problems
that would only show at playback time (empty targets, duplicate step ids).
A directory is read as a tour library.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			args = []string{"."}
		}

		failed := false
		for _, path := range args {
			if err := runValidate(cmd.Context(), path); err != nil {
				fmt.Printf("%s: validation failed: %v\n", path, err)
				for _, issue := range schema.ValidationErrors(err) {
					fmt.Printf("  - %v\n", issue)
				}
				failed = true
			}
		}
		if failed {
			os.Exit(1)
		}
		fmt.Println("Tours are valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if info.IsDir() {
		src, err := loam.Open(path)
		if err != nil {
			return err
		}
		_, err = validator.ValidateLibrary(ctx, src)
		return err
	}

	tour, err := schema.ParseFile(path)
	if err != nil {
		return err
	}
	issues := validator.CheckTour(tour)
	if len(issues) == 0 {
		return nil
	}
	errs := make([]error, len(issues))
	for i, is := range issues {
		errs[i] = errors.New(is.String())
	}
	return &schema.AggregateError{Errors: errs}
}
