// Package librarylink maintains the derived, human-browsable symlink tree
// that exposes each recording's best artifact under a library naming
// convention.
package librarylink

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"recut/internal/catalog"
	"recut/internal/config"
	"recut/internal/logging"
)

// Manager creates library links and prunes the tree of dead entries.
type Manager struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewManager constructs a manager over the configured library root.
func NewManager(cfg *config.Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "library"),
	}
}

// EnsureLink points the recording's library entry at the best artifact and
// returns the link path. If the intended path is already occupied by a
// symlink whose resolved target exists and differs from the new artifact,
// that stale target is deleted first; the occupying entry is then removed
// unconditionally before the new link is created.
func (m *Manager) EnsureLink(record *catalog.Record, bestPath string) (string, error) {
	target, err := filepath.Abs(bestPath)
	if err != nil {
		return "", err
	}
	linkPath := LinkPath(m.cfg, record, bestPath)
	if err := os.MkdirAll(filepath.Dir(linkPath), 0o755); err != nil {
		return "", err
	}
	if info, err := os.Lstat(linkPath); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			if err := m.removeStaleTarget(linkPath, target); err != nil {
				return "", err
			}
		}
		if err := os.Remove(linkPath); err != nil {
			return "", err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	if err := os.Symlink(target, linkPath); err != nil {
		return "", err
	}
	m.logger.Info("library link created",
		logging.String("link", linkPath),
		logging.String("target", target))
	return linkPath, nil
}

// removeStaleTarget deletes the file an occupying symlink points at when it
// still exists and is about to become unreachable.
func (m *Manager) removeStaleTarget(linkPath, newTarget string) error {
	resolved, err := os.Readlink(linkPath)
	if err != nil {
		return err
	}
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(filepath.Dir(linkPath), resolved)
	}
	if resolved == newTarget {
		return nil
	}
	if _, err := os.Stat(resolved); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	m.logger.Info("removing superseded link target", logging.String("path", resolved))
	return os.Remove(resolved)
}

// PruneBrokenLinks removes every symlink under the library root whose
// target no longer exists, except the one path named by exclude. A link
// that resolves through a symlink loop can never reach a target and is
// treated as broken too. The
// exclusion tolerates existence-check races around a link created moments
// earlier in the same run. Idempotent: a second sweep with no intervening
// filesystem changes removes nothing.
func (m *Manager) PruneBrokenLinks(exclude string) (int, error) {
	removed := 0
	err := filepath.WalkDir(m.cfg.Paths.LibraryDir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if errors.Is(walkErr, os.ErrNotExist) {
				return nil
			}
			return walkErr
		}
		if entry.Type()&os.ModeSymlink == 0 || path == exclude {
			return nil
		}
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) || errors.Is(err, syscall.ELOOP) {
			if err := os.Remove(path); err != nil {
				return err
			}
			m.logger.Info("pruned broken library link", logging.String("link", path))
			removed++
		}
		return nil
	})
	return removed, err
}

// PruneEmptyDirs removes directories under the library root that contain no
// entries. It works over a single snapshot of the tree: a parent emptied by
// a child's removal is picked up on the next sweep.
func (m *Manager) PruneEmptyDirs() (int, error) {
	var dirs []string
	err := filepath.WalkDir(m.cfg.Paths.LibraryDir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if errors.Is(walkErr, os.ErrNotExist) {
				return nil
			}
			return walkErr
		}
		if entry.IsDir() && path != m.cfg.Paths.LibraryDir {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return removed, err
		}
		if len(entries) == 0 {
			if err := os.Remove(dir); err != nil {
				return removed, err
			}
			m.logger.Info("pruned empty library directory", logging.String("dir", dir))
			removed++
		}
	}
	return removed, nil
}
