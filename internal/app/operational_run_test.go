package app

import (
    "bytes"
    "context"
    "os"
    "path/filepath"
    "regexp"
    "strings"
    "testing"

    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"
)

// TestOperationalLogs_Stages ensures that a run emits structured logs for
// each pipeline stage so the run is auditable.
func TestOperationalLogs_Stages(t *testing.T) {
    // Capture logs to a buffer
    var buf bytes.Buffer
    oldLogger := log.Logger
    log.Logger = zerolog.New(&buf).With().Timestamp().Logger()
    t.Cleanup(func() { log.Logger = oldLogger })

    tmp := t.TempDir()
    in := filepath.Join(tmp, "doc.md")
    if err := os.WriteFile(in, []byte(labelMarkdown+"\n<table></table>"), 0o644); err != nil {
        t.Fatalf("write input: %v", err)
    }

    app, err := New(Config{
        InputPath:  in,
        OutputPath: filepath.Join(tmp, "out.json"),
        Debug:      true,
    })
    if err != nil { t.Fatalf("new app: %v", err) }

    if _, err := app.Run(context.Background()); err != nil {
        t.Fatalf("run: %v", err)
    }

    logs := buf.String()
    mustContain := []string{
        `"stage":"load"`,
        `"stage":"extract"`,
        `"stage":"export"`,
        `"stage":"write"`,
        `"instructions":3`,
    }
    for _, needle := range mustContain {
        if !strings.Contains(logs, needle) {
            t.Fatalf("expected log to contain %s; got logs:\n%s", needle, logs)
        }
    }

    if !regexp.MustCompile(`"elapsed":\d+`).MatchString(logs) {
        t.Fatalf("expected elapsed field in logs; got:\n%s", logs)
    }
}
