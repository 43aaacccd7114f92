package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestCreateUserCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HASH_WORKERS", "1")
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{
		"create-user",
		"--env-file", filepath.Join(dir, "absent.env"),
		"--db", filepath.Join(dir, "data", "conduit.db"),
		"--username", "alice",
		"--email", "alice@example.com",
		"--password", "secret",
		"--print-token",
	})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("create-user: %v", err)
	}
	if !strings.Contains(out.String(), "created user alice") || !strings.Contains(out.String(), "token: ") {
		t.Fatalf("unexpected output %q", out.String())
	}

	rootCmd.SetArgs([]string{"create-user", "--username", "", "--email", "", "--password", ""})
	if err := rootCmd.Execute(); err == nil {
		t.Fatalf("expected missing flag error")
	}
}

func TestSeedCommandIsRepeatable(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HASH_WORKERS", "1")
	t.Setenv("LOG_LEVEL", "error")
	dbPath := filepath.Join(dir, "seed.db")

	for i := 0; i < 2; i++ {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs([]string{"seed", "--env-file", filepath.Join(dir, "absent.env"), "--db", dbPath})
		if err := rootCmd.Execute(); err != nil {
			t.Fatalf("seed run %d: %v", i, err)
		}
		articles := strings.Count(out.String(), "article ")
		if i == 0 && articles != len(seedArticles) {
			t.Fatalf("first run created %d articles, want %d: %q", articles, len(seedArticles), out.String())
		}
		if i == 1 && articles != 0 {
			t.Fatalf("second run should skip existing articles: %q", out.String())
		}
	}
}
