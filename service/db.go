package service

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"postbrowser/app/store"
)

// ErrCancelled is returned when the operator declines a confirmation.
var ErrCancelled = errors.New("operation cancelled")

// DB runs the maintenance commands against the database at Path.
type DB struct {
	Path      string
	BackupDir string
	// Out receives progress messages; In answers confirmations.
	Out    io.Writer
	In     io.Reader
	Logger *slog.Logger
	// Yes skips confirmations.
	Yes bool
}

func (d DB) exists() bool {
	_, err := os.Stat(d.Path)
	return err == nil
}

func (d DB) confirm(question string) bool {
	if d.Yes {
		return true
	}
	fmt.Fprintf(d.Out, "%s [y/N] ", question)
	line, _ := bufio.NewReader(d.In).ReadString('\n')
	answer := strings.TrimSpace(line)
	return answer == "y" || answer == "Y"
}

// Init creates a new empty database.
func (d DB) Init() error {
	if d.exists() {
		return fmt.Errorf("database already exists at %s, use 'db clean' first if you want to reinitialize", d.Path)
	}
	if err := os.MkdirAll(d.Path, 0o755); err != nil {
		return fmt.Errorf("create database directory: %w", err)
	}
	db, err := store.Open(d.Path, d.Logger)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintln(d.Out, "Database initialized successfully")
	return nil
}

// Clean removes the database after confirmation.
func (d DB) Clean() error {
	if !d.exists() {
		fmt.Fprintln(d.Out, "Database is already clean (does not exist)")
		return nil
	}
	if !d.confirm("Are you sure you want to clean the database? This cannot be undone.") {
		return ErrCancelled
	}
	if err := os.RemoveAll(d.Path); err != nil {
		return fmt.Errorf("clean database: %w", err)
	}
	fmt.Fprintln(d.Out, "Database cleaned successfully")
	return nil
}

// Seed loads fixture into the database, creating it if needed. An empty
// fixturePath uses the built-in fixture.
func (d DB) Seed(fixturePath string) error {
	fixture, err := d.loadFixture(fixturePath)
	if err != nil {
		return err
	}
	db, err := store.Open(d.Path, d.Logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.Seed(store.NewBadgerStores(db), fixture); err != nil {
		return err
	}
	fmt.Fprintf(d.Out, "Seeded %d users, %d posts and %d comments\n",
		len(fixture.Users), len(fixture.Posts), len(fixture.Comments))
	return nil
}

func (d DB) loadFixture(path string) (*store.Fixture, error) {
	if path == "" {
		return store.DefaultFixture()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()
	return store.LoadFixture(f)
}

// Backup writes a timestamped backup into BackupDir and returns its path.
func (d DB) Backup() (string, error) {
	if !d.exists() {
		return "", errors.New("no database exists to backup")
	}
	if err := os.MkdirAll(d.BackupDir, 0o755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}
	db, err := store.Open(d.Path, d.Logger)
	if err != nil {
		return "", err
	}
	defer db.Close()

	backupFile := filepath.Join(d.BackupDir, fmt.Sprintf("backup_%d.db", time.Now().UnixNano()))
	f, err := os.Create(backupFile)
	if err != nil {
		return "", fmt.Errorf("create backup file: %w", err)
	}
	defer f.Close()

	if err := store.Backup(db, f); err != nil {
		return "", err
	}
	fmt.Fprintf(d.Out, "Database backed up successfully to %s\n", backupFile)
	return backupFile, nil
}

// Restore replaces the database with the contents of backupFile.
func (d DB) Restore(backupFile string) error {
	fi, err := os.Stat(backupFile)
	if err != nil {
		return fmt.Errorf("backup file: %w", err)
	}
	if fi.Size() == 0 {
		return fmt.Errorf("backup file is empty: %s", backupFile)
	}

	if d.exists() {
		if !d.confirm("Existing database found. Do you want to replace it?") {
			return ErrCancelled
		}
		if err := os.RemoveAll(d.Path); err != nil {
			return fmt.Errorf("remove existing database: %w", err)
		}
	}
	if err := os.MkdirAll(d.Path, 0o755); err != nil {
		return fmt.Errorf("create database directory: %w", err)
	}

	db, err := store.Open(d.Path, d.Logger)
	if err != nil {
		return err
	}
	defer db.Close()

	f, err := os.Open(backupFile)
	if err != nil {
		return fmt.Errorf("open backup file: %w", err)
	}
	defer f.Close()

	if err := store.Restore(db, f); err != nil {
		return err
	}
	fmt.Fprintln(d.Out, "Database restored successfully")
	return nil
}
