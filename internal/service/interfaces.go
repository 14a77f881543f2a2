package service

import (
	"context"

	"github.com/alexanderramin/costvar/internal/domain"
)

// CostVarianceService is the entry point for every front end: upload a
// cost sheet, read its trees back, list and delete sessions.
type CostVarianceService interface {
	ProcessUpload(ctx context.Context, content []byte, fileName string) (*UploadSummary, error)
	GetCostTree(ctx context.Context, sessionID string, view domain.View) (*CostTreeResult, error)
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	ListSessions(ctx context.Context, limit int) ([]*domain.Session, error)
	// MatchSessionIDs returns the IDs of all sessions whose ID starts with
	// prefix, newest first. No match is an empty slice, not an error.
	MatchSessionIDs(ctx context.Context, prefix string) ([]string, error)
	DeleteSession(ctx context.Context, sessionID string) error
	GetProcessBreakdown(ctx context.Context, sessionID string) ([]domain.ProcessBreakdown, error)
}

// UploadSummary identifies the new session and its headline variance.
type UploadSummary struct {
	SessionID       string  `json:"session_id"`
	PartNumber      string  `json:"part_number"`
	PartDescription string  `json:"part_description"`
	SupplierName    string  `json:"supplier_name"`
	Currency        string  `json:"currency"`
	TargetPrice     float64 `json:"target_price"`
	SupplierPrice   float64 `json:"supplier_price"`
	TotalVariance   float64 `json:"total_variance"`
	VariancePct     float64 `json:"variance_pct"`
	FileHash        string  `json:"file_hash"`
	// DuplicateOf is the earliest session uploaded from identical bytes.
	DuplicateOf string `json:"duplicate_of,omitempty"`
}

type CostTreeResult struct {
	SessionID string               `json:"session_id"`
	View      domain.View          `json:"view"`
	Tree      *domain.CostTreeNode `json:"tree"`
}
