package app

import (
    "bytes"
    "fmt"
    "os"
    "path/filepath"

    "github.com/hyperifyio/labelflat/internal/schema"
)

// writeDocument encodes doc in memory and replaces path in one rename, so a
// failed run never leaves a partial output file behind.
func writeDocument(path string, doc schema.Document) error {
    var buf bytes.Buffer
    if err := schema.Encode(&buf, doc); err != nil {
        return fmt.Errorf("encode document: %w", err)
    }
    return writeFileAtomic(path, buf.Bytes())
}

func writeFileAtomic(path string, data []byte) error {
    dir := filepath.Dir(path)
    tmp, err := os.CreateTemp(dir, ".labelflat-*.tmp")
    if err != nil {
        return err
    }
    name := tmp.Name()
    cleanup := func() { _ = os.Remove(name) }

    if _, err := tmp.Write(data); err != nil {
        tmp.Close()
        cleanup()
        return err
    }
    if err := tmp.Sync(); err != nil {
        tmp.Close()
        cleanup()
        return err
    }
    if err := tmp.Close(); err != nil {
        cleanup()
        return err
    }
    if err := os.Chmod(name, 0o644); err != nil {
        cleanup()
        return err
    }
    if err := os.Rename(name, path); err != nil {
        cleanup()
        return err
    }
    return nil
}
