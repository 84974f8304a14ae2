package handlers

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/anvena/launchpad/config"
	"github.com/anvena/launchpad/db"
	"github.com/anvena/launchpad/db/zombiezen"
	"github.com/anvena/launchpad/queue"
	"zombiezen.com/go/sqlite"
)

const (
	StrategyVacuum = "vacuum"
	StrategyOnline = "online"
)

// BackupHandler copies the SQLite database to a gzipped file in the backup
// directory. Two strategies: VACUUM INTO produces a defragmented copy but
// holds the source longer; the online backup API copies in steps so writers
// keep making progress. A payload without a strategy picks by database size.
type BackupHandler struct {
	configProvider *config.Provider
	logger         *slog.Logger
}

func NewBackupHandler(provider *config.Provider, logger *slog.Logger) *BackupHandler {
	if provider == nil || logger == nil {
		panic("NewBackupHandler: received nil provider or logger")
	}
	return &BackupHandler{
		configProvider: provider,
		logger:         logger.With("job_handler", "sqlite_backup"),
	}
}

func (h *BackupHandler) Handle(ctx context.Context, job db.Job) error {
	cfg := h.configProvider.Get()
	backupCfg := cfg.Backup

	var payload queue.PayloadBackup
	if len(job.Payload) > 0 {
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return fmt.Errorf("failed to parse backup payload: %w", err)
		}
	}

	strategy := payload.Strategy
	if strategy == "" {
		strategy = h.pickStrategy(cfg.DBPath, backupCfg.VacuumThreshold)
	}

	tempBackupPath := filepath.Join(os.TempDir(), fmt.Sprintf("backup-%d.db", time.Now().UnixNano()))

	baseName := filepath.Base(cfg.DBPath)
	fileNameOnly := strings.TrimSuffix(baseName, filepath.Ext(baseName))
	timestamp := time.Now().UTC().Format("2006-01-02T15-04-05Z")
	finalBackupName := fmt.Sprintf("%s-%s-%s.bck.gz", fileNameOnly, timestamp, strategy)
	finalBackupPath := filepath.Join(backupCfg.Dir, finalBackupName)

	h.logger.Info("starting database backup", "source", cfg.DBPath, "strategy", strategy, "destination", finalBackupPath)

	var backupErr error
	switch strategy {
	case StrategyVacuum:
		backupErr = h.vacuumInto(cfg.DBPath, tempBackupPath)
	case StrategyOnline:
		backupErr = h.onlineBackup(cfg.DBPath, tempBackupPath, backupCfg)
	default:
		return fmt.Errorf("unknown backup strategy: %q", strategy)
	}

	if backupErr != nil {
		return fmt.Errorf("backup creation failed: %w", backupErr)
	}
	defer func() {
		if err := os.Remove(tempBackupPath); err != nil {
			h.logger.Error("error removing temporary backup file", "error", err)
		}
	}()

	if err := os.MkdirAll(backupCfg.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	if err := h.compressFile(tempBackupPath, finalBackupPath); err != nil {
		return fmt.Errorf("failed to gzip backup file: %w", err)
	}

	h.logger.Info("database backup completed", "path", finalBackupPath)
	return nil
}

// pickStrategy chooses vacuum for small databases and the stepped online
// copy once the file crosses the threshold.
func (h *BackupHandler) pickStrategy(dbPath string, threshold int64) string {
	info, err := os.Stat(dbPath)
	if err != nil || threshold <= 0 || info.Size() < threshold {
		return StrategyVacuum
	}
	return StrategyOnline
}

// vacuumInto creates a clean, defragmented copy of the database.
func (h *BackupHandler) vacuumInto(sourcePath, destPath string) error {
	sourceConn, err := zombiezen.NewConn(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to open source db for vacuum: %w", err)
	}
	defer func() {
		if err := sourceConn.Close(); err != nil {
			h.logger.Error("error closing source database connection", "error", err)
		}
	}()

	stmt, err := sourceConn.Prepare(fmt.Sprintf("VACUUM INTO '%s';", destPath))
	if err != nil {
		return fmt.Errorf("failed to prepare vacuum statement: %w", err)
	}
	defer stmt.Finalize()

	if _, err := stmt.Step(); err != nil {
		return fmt.Errorf("failed to execute vacuum statement: %w", err)
	}
	return nil
}

// onlineBackup performs a live copy using the SQLite Online Backup API.
func (h *BackupHandler) onlineBackup(sourcePath, destPath string, backupCfg config.Backup) error {
	if backupCfg.PagesPerStep <= 0 {
		return fmt.Errorf("invalid configuration for online backup: pages_per_step must be positive, got %d", backupCfg.PagesPerStep)
	}

	srcConn, err := zombiezen.NewConn(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to open source db for online backup: %w", err)
	}
	defer func() {
		if err := srcConn.Close(); err != nil {
			h.logger.Error("error closing source database connection", "error", err)
		}
	}()

	destConn, err := zombiezen.NewConn(destPath)
	if err != nil {
		return fmt.Errorf("failed to create destination db for online backup: %w", err)
	}
	defer func() {
		if err := destConn.Close(); err != nil {
			h.logger.Error("error closing destination database connection", "error", err)
		}
	}()

	backup, err := sqlite.NewBackup(destConn, "main", srcConn, "main")
	if err != nil {
		return fmt.Errorf("failed to initialize backup: %w", err)
	}
	defer func() {
		if err := backup.Close(); err != nil {
			h.logger.Error("error closing backup resource", "error", err)
		}
	}()

	if _, err := backup.Step(0); err != nil {
		return fmt.Errorf("backup step(0) failed: %w", err)
	}
	totalPages := backup.PageCount()
	if totalPages == 0 {
		h.logger.Info("source database is empty, backup completed immediately")
		return nil
	}

	h.logger.Info("starting online backup copy", "pages_per_step", backupCfg.PagesPerStep, "total_pages", totalPages)

	for {
		more, err := backup.Step(backupCfg.PagesPerStep)
		if err != nil {
			return fmt.Errorf("backup step failed: %w", err)
		}
		if !more {
			h.logger.Info("online backup copy completed", "total_pages", totalPages)
			return nil
		}

		if backupCfg.SleepBetween.Duration > 0 {
			time.Sleep(backupCfg.SleepBetween.Duration)
		}
	}
}

// compressFile gzips sourcePath into destPath.
func (h *BackupHandler) compressFile(sourcePath, destPath string) error {
	sourceFile, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to open source file for compression: %w", err)
	}
	defer func() {
		if err := sourceFile.Close(); err != nil {
			h.logger.Error("error closing source file", "error", err)
		}
	}()

	destFile, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file for compression: %w", err)
	}
	defer func() {
		if err := destFile.Close(); err != nil {
			h.logger.Error("error closing destination file", "error", err)
		}
	}()

	gzipWriter := gzip.NewWriter(destFile)
	defer func() {
		if err := gzipWriter.Close(); err != nil {
			h.logger.Error("error closing gzip writer", "error", err)
		}
	}()

	if _, err := io.Copy(gzipWriter, sourceFile); err != nil {
		return fmt.Errorf("failed to copy and compress data: %w", err)
	}

	return nil
}
