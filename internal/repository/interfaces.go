package repository

import (
	"context"

	"github.com/alexanderramin/costvar/internal/domain"
)

type SessionRepo interface {
	Create(ctx context.Context, s *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	// FindByFileHash returns the earliest session uploaded from identical
	// bytes.
	FindByFileHash(ctx context.Context, hash string) (*domain.Session, error)
	// ListRecent returns at most limit sessions, newest first.
	ListRecent(ctx context.Context, limit int) ([]*domain.Session, error)
	// ListIDsByPrefix returns every session ID starting with prefix,
	// newest first, regardless of age.
	ListIDsByPrefix(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, id string) error
}

type CostItemRepo interface {
	CreateBatch(ctx context.Context, rows []domain.CostItemRow) error
	// ListByView returns the rows of one view ordered by (level, sort_order).
	ListByView(ctx context.Context, sessionID string, view domain.View) ([]domain.CostItemRow, error)
	CountBySession(ctx context.Context, sessionID string) (int, error)
	DeleteBySession(ctx context.Context, sessionID string) (int64, error)
}

type ProcessBreakdownRepo interface {
	CreateBatch(ctx context.Context, items []domain.ProcessBreakdown) error
	ListBySession(ctx context.Context, sessionID string) ([]domain.ProcessBreakdown, error)
	DeleteBySession(ctx context.Context, sessionID string) (int64, error)
}
