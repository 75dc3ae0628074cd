// Package main provides the browser-keys plugin. It turns browser actions
// into keyboard shortcuts, sent with osascript on macOS and xdotool on Linux.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// dryRunEnv makes the plugin report the command instead of running it.
const dryRunEnv = "BROWSER_KEYS_DRY_RUN"

// Request represents the input from the plugin executor.
type Request struct {
	Action     string          `json:"action"`
	Gesture    string          `json:"gesture"`
	Similarity float64         `json:"similarity"`
	Params     json.RawMessage `json:"params"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Params are the optional per-binding parameters.
type Params struct {
	Key       string   `json:"key"`
	Modifiers []string `json:"modifiers"`
	DryRun    bool     `json:"dry_run"`
}

type result struct {
	Action  string   `json:"action"`
	Chord   string   `json:"chord"`
	Command []string `json:"command"`
	DryRun  bool     `json:"dry_run"`
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	var p Params
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &p); err != nil {
			writeErrorResponse(fmt.Sprintf("failed to parse params: %v", err))
			return
		}
	}

	chord, err := resolveChord(runtime.GOOS, req.Action, p)
	if err != nil {
		writeErrorResponse(err.Error())
		return
	}

	command, err := buildCommand(runtime.GOOS, chord)
	if err != nil {
		writeErrorResponse(err.Error())
		return
	}

	res := result{
		Action:  req.Action,
		Chord:   chord.String(),
		Command: command,
		DryRun:  p.DryRun || os.Getenv(dryRunEnv) != "",
	}
	if !res.DryRun {
		if err := run(command); err != nil {
			writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
			return
		}
	}

	writeSuccessResponse(res)
}

func run(command []string) error {
	cmd := exec.Command(command[0], command[1:]...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{
		Success: false,
		Error:   errMsg,
	})
}

// writeSuccessResponse writes a success response carrying res to stdout.
func writeSuccessResponse(res result) {
	data, _ := json.Marshal(res)
	json.NewEncoder(os.Stdout).Encode(Response{
		Success: true,
		Data:    data,
	})
}
