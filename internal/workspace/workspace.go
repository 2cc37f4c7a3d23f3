package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"bookconv/internal/config"
	"bookconv/internal/services"
)

// LockFileName is the lock file created inside the base directory.
const LockFileName = ".bookconv.lock"

// Layout names the directories a run works in.
type Layout struct {
	BaseDir   string
	InputDir  string
	OutputDir string
}

// LayoutFromConfig returns the layout described by cfg.Paths.
func LayoutFromConfig(cfg *config.Config) Layout {
	if cfg == nil {
		return Layout{}
	}
	return Layout{
		BaseDir:   cfg.Paths.BaseDir,
		InputDir:  cfg.Paths.InputDir,
		OutputDir: cfg.Paths.OutputDir,
	}
}

// LockPath returns the lock file location for the layout.
func (l Layout) LockPath() string {
	return filepath.Join(l.BaseDir, LockFileName)
}

func (l Layout) dirs() []string {
	out := make([]string, 0, 3)
	for _, dir := range []string{l.BaseDir, l.InputDir, l.OutputDir} {
		if strings.TrimSpace(dir) != "" {
			out = append(out, dir)
		}
	}
	return out
}

// Prepare creates the base, input and output directories when absent.
// Existing directories are left untouched.
func Prepare(layout Layout) error {
	if strings.TrimSpace(layout.BaseDir) == "" {
		return services.Wrap(services.ErrIO, "workspace", "prepare", "base directory not configured", nil)
	}
	for _, dir := range layout.dirs() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return services.Wrap(services.ErrIO, "workspace", "prepare", fmt.Sprintf("create %s", dir), err)
		}
		info, err := os.Stat(dir)
		if err != nil {
			return services.Wrap(services.ErrIO, "workspace", "prepare", fmt.Sprintf("stat %s", dir), err)
		}
		if !info.IsDir() {
			return services.Wrap(services.ErrIO, "workspace", "prepare", fmt.Sprintf("%s is not a directory", dir), nil)
		}
	}
	return nil
}

// Lock is a held workspace lock.
type Lock struct {
	path string
	lock *flock.Flock
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Acquire takes the workspace lock without blocking. A lock held by another
// process fails with services.ErrBusy. The base directory must exist.
func Acquire(layout Layout) (*Lock, error) {
	path := layout.LockPath()
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "workspace", "lock", fmt.Sprintf("acquire %s", path), err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrBusy, "workspace", "lock", fmt.Sprintf("another bookconv run holds %s", path), nil)
	}
	return &Lock{path: path, lock: fl}, nil
}

// Release unlocks the workspace. Releasing a nil lock is a no-op.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release workspace lock: %w", err)
	}
	return nil
}
