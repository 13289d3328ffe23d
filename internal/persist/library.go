package persist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/mitchellh/go-homedir"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// measurementSet is the stored snapshot of one model
type measurementSet struct {
	Source    string `gorm:"primaryKey"`
	Data      string `gorm:"not null"`
	Pairs     int
	UpdatedAt time.Time
}

func (measurementSet) TableName() string { return "measurement_sets" }

// OpenLibrary opens, creating if needed, the SQLite measurement library at path
func OpenLibrary(path string) (*gorm.DB, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("invalid library path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create library directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open library %s: %w", path, err)
	}
	if err := db.AutoMigrate(&measurementSet{}); err != nil {
		return nil, fmt.Errorf("failed to migrate library: %w", err)
	}
	return db, nil
}

// Library keeps the snapshots of many models in one database, one row
// per model source
type Library struct {
	db     *gorm.DB
	source string
}

// NewLibrary creates the port for source
func NewLibrary(db *gorm.DB, source string) *Library {
	return &Library{db: db, source: source}
}

// Save stores the encoded snapshot; an empty snapshot deletes the row
func (l *Library) Save(s Snapshot) error {
	if len(s) == 0 {
		if err := l.db.Delete(&measurementSet{}, "source = ?", l.source).Error; err != nil {
			return fmt.Errorf("failed to delete measurements of %s: %w", l.source, err)
		}
		return nil
	}

	blob, err := Encode(s)
	if err != nil {
		return err
	}
	set := measurementSet{Source: l.source, Data: blob, Pairs: len(s)}
	err = l.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&set).Error
	if err != nil {
		return fmt.Errorf("failed to store measurements of %s: %w", l.source, err)
	}
	return nil
}

// Load reads the snapshot of the source
func (l *Library) Load() (Snapshot, bool, error) {
	var set measurementSet
	err := l.db.First(&set, "source = ?", l.source).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read measurements of %s: %w", l.source, err)
	}

	snap, err := Decode(set.Data)
	if err != nil {
		return nil, false, err
	}
	return snap, true, nil
}

// Entry summarizes one stored model
type Entry struct {
	Source    string
	Pairs     int
	UpdatedAt time.Time
}

// Entries lists the stored models, most recently updated first
func Entries(db *gorm.DB) ([]Entry, error) {
	var sets []measurementSet
	if err := db.Order("updated_at desc").Find(&sets).Error; err != nil {
		return nil, fmt.Errorf("failed to list library: %w", err)
	}
	entries := make([]Entry, 0, len(sets))
	for _, s := range sets {
		entries = append(entries, Entry{Source: s.Source, Pairs: s.Pairs, UpdatedAt: s.UpdatedAt})
	}
	return entries, nil
}
