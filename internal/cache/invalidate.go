package cache

import (
    "errors"
    "io/fs"
    "os"
    "path/filepath"
    "strings"
    "time"
)

// ClearDir removes the directory and all contents. It recreates the directory
// afterwards to leave a valid empty cache location.
func ClearDir(dir string) error {
    if strings.TrimSpace(dir) == "" {
        return errors.New("empty dir")
    }
    if err := os.RemoveAll(dir); err != nil {
        return err
    }
    return os.MkdirAll(dir, 0o755)
}

// PurgeByAge removes document entries whose modification time is older than
// maxAge and returns how many were removed. A non-positive maxAge is a no-op.
func PurgeByAge(dir string, maxAge time.Duration) (int, error) {
    if maxAge <= 0 {
        return 0, nil
    }
    now := time.Now().UTC()
    removed := 0
    err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
        if err != nil {
            if errors.Is(err, fs.ErrNotExist) {
                return nil
            }
            return err
        }
        if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
            return nil
        }
        info, err := d.Info()
        if err != nil {
            return nil // vanished mid-walk
        }
        if now.Sub(info.ModTime().UTC()) <= maxAge {
            return nil
        }
        if os.Remove(path) == nil {
            removed++
        }
        return nil
    })
    return removed, err
}
