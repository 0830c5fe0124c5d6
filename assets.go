package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const defaultAlarmName = "alarm.wav"

// defaultAlarm resolves the bundled alert sound. A copy installed next to the
// executable wins; otherwise the embedded sound is extracted into the cache
// directory so the audio decoder can open it by path.
func defaultAlarm(assets fs.FS, exeDir string) (string, error) {
	if exeDir != "" {
		installed := filepath.Join(exeDir, "assets", defaultAlarmName)
		if _, err := os.Stat(installed); err == nil {
			return installed, nil
		}
	}

	data, err := fs.ReadFile(assets, "assets/"+defaultAlarmName)
	if err != nil {
		return "", fmt.Errorf("read bundled alarm: %w", err)
	}

	path, err := xdg.CacheFile(filepath.Join("studybreak", defaultAlarmName))
	if err != nil {
		return "", fmt.Errorf("resolve cache path: %w", err)
	}
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) {
		return path, nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("extract bundled alarm: %w", err)
	}
	return path, nil
}

// executableDir returns the directory of the running binary, or "" if it
// cannot be determined.
func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}
