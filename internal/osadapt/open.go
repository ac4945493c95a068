package osadapt

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
)

// ErrUnsupported is returned when the platform has no adapter for the
// requested action. Callers surface it as an informational dialog.
var ErrUnsupported = errors.New("not supported on this platform")

// OpenFile hands a path to the OS file association.
func OpenFile(path string) error {
	if path == "" {
		return errors.New("no file path configured")
	}
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("explorer", path)
	case "darwin":
		cmd = exec.Command("open", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	return nil
}

// OpenURL hands a URL to the default browser.
func OpenURL(url string) error {
	if url == "" {
		return errors.New("no URL configured")
	}
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	return nil
}

// OpenRDP spawns the platform remote desktop client against host. On
// platforms without one it returns ErrUnsupported.
func OpenRDP(host string) error {
	if host == "" {
		return errors.New("no remote desktop address configured")
	}
	switch runtime.GOOS {
	case "windows":
		if err := exec.Command("mstsc", "/v:"+host).Start(); err != nil {
			return fmt.Errorf("start mstsc: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("remote desktop to %s: %w", host, ErrUnsupported)
	}
}
