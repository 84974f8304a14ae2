package handlers

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anvena/launchpad/config"
	"github.com/anvena/launchpad/db"
	"github.com/anvena/launchpad/db/zombiezen"
	"github.com/anvena/launchpad/migrations"
	"github.com/anvena/launchpad/queue"
	"zombiezen.com/go/sqlite/sqlitex"
)

// setupBackupTest creates a source database with the full schema plus one
// row, and a config provider pointing at temporary paths.
func setupBackupTest(t *testing.T) (*config.Provider, string) {
	t.Helper()

	tempDir := t.TempDir()
	sourceDbPath := filepath.Join(tempDir, "source.db")
	backupDir := filepath.Join(tempDir, "backups")

	conn, err := zombiezen.NewConn(sourceDbPath)
	if err != nil {
		t.Fatalf("Failed to open source db connection: %v", err)
	}
	defer conn.Close()

	schemaFS := migrations.Schema()
	err = fs.WalkDir(schemaFS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		sqlBytes, err := fs.ReadFile(schemaFS, path)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", path, err)
		}
		if err := sqlitex.ExecuteScript(conn, string(sqlBytes), nil); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	err = sqlitex.Execute(conn,
		"INSERT INTO users (id, name, email) VALUES ('u1', 'test-user', 'test@example.com');", nil)
	if err != nil {
		t.Fatalf("Failed to insert test data: %v", err)
	}

	cfg := config.NewDefaultConfig()
	cfg.DBPath = sourceDbPath
	cfg.Backup.Dir = backupDir

	return config.NewProvider(cfg), backupDir
}

// verifyBackup decompresses the backup and checks the SQLite header.
func verifyBackup(t *testing.T, backupPath string) {
	t.Helper()

	gzFile, err := os.Open(backupPath)
	if err != nil {
		t.Fatalf("Failed to open gzipped backup file: %v", err)
	}
	defer gzFile.Close()

	gzReader, err := gzip.NewReader(gzFile)
	if err != nil {
		t.Fatalf("Failed to create gzip reader: %v", err)
	}
	defer gzReader.Close()

	data, err := io.ReadAll(gzReader)
	if err != nil {
		t.Fatalf("Failed to read decompressed backup: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Decompressed backup is empty")
	}
	if !strings.HasPrefix(string(data[:16]), "SQLite format 3") {
		t.Errorf("Backup does not start with the SQLite magic header")
	}
}

func TestBackupHandlerStrategies(t *testing.T) {
	for _, strategy := range []string{StrategyVacuum, StrategyOnline} {
		t.Run(strategy, func(t *testing.T) {
			provider, backupDir := setupBackupTest(t)
			h := NewBackupHandler(provider, testLogger())

			payload, _ := json.Marshal(queue.PayloadBackup{Strategy: strategy})
			err := h.Handle(context.Background(), db.Job{
				JobType: queue.JobTypeBackup,
				Payload: payload,
			})
			if err != nil {
				t.Fatalf("Handle() error = %v", err)
			}

			entries, err := os.ReadDir(backupDir)
			if err != nil {
				t.Fatalf("Failed to read backup dir: %v", err)
			}
			if len(entries) != 1 {
				t.Fatalf("backup dir has %d entries, want 1", len(entries))
			}
			name := entries[0].Name()
			if !strings.Contains(name, strategy) || !strings.HasSuffix(name, ".bck.gz") {
				t.Errorf("backup file name = %q, want *-%s.bck.gz", name, strategy)
			}
			verifyBackup(t, filepath.Join(backupDir, name))
		})
	}
}

func TestBackupHandlerUnknownStrategy(t *testing.T) {
	provider, _ := setupBackupTest(t)
	h := NewBackupHandler(provider, testLogger())

	payload, _ := json.Marshal(queue.PayloadBackup{Strategy: "tape"})
	err := h.Handle(context.Background(), db.Job{Payload: payload})
	if err == nil || !strings.Contains(err.Error(), "unknown backup strategy") {
		t.Errorf("Handle() error = %v, want unknown strategy", err)
	}
}

func TestBackupHandlerDefaultStrategy(t *testing.T) {
	// Small databases default to the vacuum strategy.
	provider, backupDir := setupBackupTest(t)
	h := NewBackupHandler(provider, testLogger())

	if err := h.Handle(context.Background(), db.Job{JobType: queue.JobTypeBackup}); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	entries, err := os.ReadDir(backupDir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("backup dir entries = %v, err %v", entries, err)
	}
	if !strings.Contains(entries[0].Name(), StrategyVacuum) {
		t.Errorf("backup file = %q, want vacuum strategy", entries[0].Name())
	}
}
