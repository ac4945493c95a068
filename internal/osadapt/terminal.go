package osadapt

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/google/shlex"
)

// SpawnTerminal creates a detached terminal window running the command
// string. On Windows the command is materialized as a temporary batch file
// that deletes itself when it finishes; elsewhere a terminal emulator is
// located on PATH.
func SpawnTerminal(command string) error {
	if command == "" {
		return fmt.Errorf("empty command")
	}
	switch runtime.GOOS {
	case "windows":
		return spawnWindows(command)
	case "darwin":
		script := fmt.Sprintf(`tell application "Terminal" to do script %q`, command)
		if err := exec.Command("osascript", "-e", script).Start(); err != nil {
			return fmt.Errorf("start Terminal: %w", err)
		}
		return nil
	default:
		return spawnUnix(command)
	}
}

func spawnWindows(command string) error {
	f, err := os.CreateTemp("", "nodesailor-*.bat")
	if err != nil {
		return fmt.Errorf("create batch file: %w", err)
	}
	content := "@echo off\r\n" + command + "\r\ndel \"%~f0\"\r\n"
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("write batch file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close batch file: %w", err)
	}
	if err := exec.Command("cmd", "/c", "start", "", f.Name()).Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	return nil
}

func spawnUnix(command string) error {
	for _, term := range []string{"x-terminal-emulator", "gnome-terminal", "konsole", "xterm"} {
		if _, err := exec.LookPath(term); err != nil {
			continue
		}
		var cmd *exec.Cmd
		if term == "gnome-terminal" {
			cmd = exec.Command(term, "--", "sh", "-c", command)
		} else {
			cmd = exec.Command(term, "-e", "sh", "-c", command)
		}
		if err := cmd.Start(); err != nil {
			return fmt.Errorf("start %s: %w", term, err)
		}
		return nil
	}

	// No terminal emulator found: run the command detached without one.
	parts, err := shlex.Split(command)
	if err != nil {
		return fmt.Errorf("parse command: %w", err)
	}
	if len(parts) == 0 {
		return fmt.Errorf("empty command")
	}
	if err := exec.Command(parts[0], parts[1:]...).Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}
	return nil
}
