package storage

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pentestreports/mcp-server/pkg/models"
)

type SQLiteStorage struct {
	db *gorm.DB
}

type Config struct {
	DatabasePath string
	Debug        bool
}

func NewSQLiteStorage(cfg Config) (*SQLiteStorage, error) {
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}

	database, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	// Auto-migrate schema
	if err := database.AutoMigrate(&models.CallRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &SQLiteStorage{db: database}, nil
}

func (s *SQLiteStorage) CreateCallRecord(ctx context.Context, rec *models.CallRecord) error {
	return s.db.WithContext(ctx).Create(rec).Error
}

func (s *SQLiteStorage) GetCallRecord(ctx context.Context, id uint) (*models.CallRecord, error) {
	var rec models.CallRecord
	err := s.db.WithContext(ctx).First(&rec, id).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *SQLiteStorage) GetCallRecords(ctx context.Context, limit, offset int) ([]models.CallRecord, int64, error) {
	var records []models.CallRecord
	var total int64

	s.db.WithContext(ctx).Model(&models.CallRecord{}).Count(&total)

	query := s.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&records).Error
	return records, total, err
}

func (s *SQLiteStorage) GetCallRecordsBySession(ctx context.Context, sessionID string) ([]models.CallRecord, error) {
	var records []models.CallRecord
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

func (s *SQLiteStorage) GetCallRecordsByTool(ctx context.Context, toolName string, limit int) ([]models.CallRecord, error) {
	var records []models.CallRecord
	query := s.db.WithContext(ctx).
		Where("tool_name = ?", toolName).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&records).Error
	return records, err
}

func (s *SQLiteStorage) DeleteCallRecord(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.CallRecord{}, id).Error
}

func (s *SQLiteStorage) DeleteAllCallRecords(ctx context.Context) error {
	return s.db.WithContext(ctx).Where("1 = 1").Delete(&models.CallRecord{}).Error
}

func (s *SQLiteStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
