package app

import "testing"

func TestVersionString(t *testing.T) {
    old := BuildVersion
    BuildVersion = "1.2.3"
    t.Cleanup(func() { BuildVersion = old })
    if got := VersionString(); got != "labelflat 1.2.3 (commit unknown, built unknown)" {
        t.Fatalf("VersionString()=%q", got)
    }
}
