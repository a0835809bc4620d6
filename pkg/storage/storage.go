package storage

import (
	"context"

	"github.com/pentestreports/mcp-server/pkg/models"
)

type Storage interface {
	// Call audit-trail operations
	CreateCallRecord(ctx context.Context, rec *models.CallRecord) error
	GetCallRecord(ctx context.Context, id uint) (*models.CallRecord, error)
	GetCallRecords(ctx context.Context, limit, offset int) ([]models.CallRecord, int64, error)
	GetCallRecordsBySession(ctx context.Context, sessionID string) ([]models.CallRecord, error)
	GetCallRecordsByTool(ctx context.Context, toolName string, limit int) ([]models.CallRecord, error)
	DeleteCallRecord(ctx context.Context, id uint) error
	DeleteAllCallRecords(ctx context.Context) error

	// Lifecycle
	Close() error
}
