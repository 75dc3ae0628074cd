package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/gesture"
)

var classifyVerbose bool

var classifyCmd = &cobra.Command{
	Use:   "classify <points.json|->",
	Short: "Classify a recorded pointer path",
	Long: `Classify reads a path as a JSON array of {"x","y"} samples, or an
object with a "points" field, and prints the recognized gesture.`,
	Args: cobra.ExactArgs(1),
	RunE: classify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().BoolVarP(&classifyVerbose, "verbose", "v", false, "print recognition diagnostics")
}

func classify(cmd *cobra.Command, args []string) error {
	var data []byte
	var err error
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read path: %w", err)
	}

	points, err := decodePoints(data)
	if err != nil {
		return err
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	rec, err := gesture.NewRecognizer(settings.Engine)
	if err != nil {
		return err
	}

	result, diag := rec.Recognize(points)
	out := cmd.OutOrStdout()
	if result.Recognized() {
		fmt.Fprintf(out, "%s (%.3f)\n", result.Token, result.Similarity)
	} else {
		fmt.Fprintf(out, "no gesture: %s\n", diag.Reason)
	}

	if classifyVerbose {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(diag)
	}
	return nil
}

// decodePoints accepts a bare point array or an object with a points field.
func decodePoints(data []byte) ([]gesture.Point, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var points []gesture.Point
		if err := json.Unmarshal(data, &points); err != nil {
			return nil, fmt.Errorf("failed to parse points: %w", err)
		}
		return points, nil
	}

	var wrapped struct {
		Points []gesture.Point `json:"points"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse points: %w", err)
	}
	return wrapped.Points, nil
}
