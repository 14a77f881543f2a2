package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/costvar/internal/costsheet"
	"github.com/alexanderramin/costvar/internal/costtree"
	"github.com/alexanderramin/costvar/internal/db"
	"github.com/alexanderramin/costvar/internal/domain"
	"github.com/alexanderramin/costvar/internal/repository"
)

// acceptedExtensions gate uploads by name. The reader itself picks xlsx or
// legacy xls from the content.
var acceptedExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xls":  true,
}

type costVarianceService struct {
	sessions  repository.SessionRepo
	items     repository.CostItemRepo
	breakdown repository.ProcessBreakdownRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
	now       func() time.Time
}

func NewCostVarianceService(
	sessions repository.SessionRepo,
	items repository.CostItemRepo,
	breakdown repository.ProcessBreakdownRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) CostVarianceService {
	return &costVarianceService{
		sessions:  sessions,
		items:     items,
		breakdown: breakdown,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *costVarianceService) observe(ctx context.Context, name string, startedAt time.Time, err error, fields map[string]any) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}

func (s *costVarianceService) ProcessUpload(ctx context.Context, content []byte, fileName string) (summary *UploadSummary, err error) {
	startedAt := time.Now()
	fields := map[string]any{"file_name": fileName, "bytes": len(content)}
	defer func() { s.observe(ctx, "process-upload", startedAt, err, fields) }()

	ext := strings.ToLower(filepath.Ext(fileName))
	if !acceptedExtensions[ext] {
		return nil, fmt.Errorf("%w: %q (want .xlsx, .xlsm or .xls)", ErrUnsupportedFile, fileName)
	}

	sum := sha256.Sum256(content)
	hash := hex.EncodeToString(sum[:])

	data, err := costsheet.ExtractReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	var duplicateOf string
	if prev, lookupErr := s.sessions.FindByFileHash(ctx, hash); lookupErr == nil {
		duplicateOf = prev.ID
	} else if !errors.Is(lookupErr, repository.ErrNotFound) {
		return nil, fmt.Errorf("checking for duplicate upload: %w", lookupErr)
	}

	session := &domain.Session{
		ID:              uuid.New().String(),
		PartNumber:      data.PartNumber,
		PartDescription: data.PartDescription,
		SupplierName:    data.SupplierName,
		Currency:        data.Currency,
		TargetPrice:     data.TargetPrice,
		SupplierPrice:   data.SupplierPrice,
		TotalVariance:   data.TotalVariance(),
		VariancePct:     data.TotalVariancePct(),
		UploadTime:      s.now(),
		FileName:        fileName,
		FileHash:        hash,
	}
	fields["session_id"] = session.ID

	var rows []domain.CostItemRow
	for _, view := range domain.AllViews() {
		rows = append(rows, costtree.Flatten(session.ID, view, costtree.Build(data, view))...)
	}
	breakdown := processBreakdown(session.ID, data.Processes)
	fields["cost_items"] = len(rows)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteSessionRepo(tx).Create(ctx, session); err != nil {
			return err
		}
		if err := repository.NewSQLiteCostItemRepo(tx).CreateBatch(ctx, rows); err != nil {
			return err
		}
		return repository.NewSQLiteProcessBreakdownRepo(tx).CreateBatch(ctx, breakdown)
	})
	if err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	return &UploadSummary{
		SessionID:       session.ID,
		PartNumber:      session.PartNumber,
		PartDescription: session.PartDescription,
		SupplierName:    session.SupplierName,
		Currency:        session.Currency,
		TargetPrice:     session.TargetPrice,
		SupplierPrice:   session.SupplierPrice,
		TotalVariance:   session.TotalVariance,
		VariancePct:     session.VariancePct,
		FileHash:        hash,
		DuplicateOf:     duplicateOf,
	}, nil
}

func processBreakdown(sessionID string, processes []domain.ProcessItem) []domain.ProcessBreakdown {
	out := make([]domain.ProcessBreakdown, 0, len(processes))
	for i, p := range processes {
		out = append(out, domain.ProcessBreakdown{
			ID:               uuid.New().String(),
			SessionID:        sessionID,
			ProcessID:        costtree.ProcessID(i),
			ProcessDesc:      p.OperationDesc,
			EquipmentDesc:    p.EquipmentDesc,
			SetupCostTarget:  p.SetupCostTarget,
			SetupCostActual:  p.SetupCostActual,
			LaborCostTarget:  p.LaborCostTarget,
			LaborCostActual:  p.LaborCostActual,
			BurdenCostTarget: p.BurdenCostTarget,
			BurdenCostActual: p.BurdenCostActual,
		})
	}
	return out
}

func (s *costVarianceService) GetCostTree(ctx context.Context, sessionID string, view domain.View) (result *CostTreeResult, err error) {
	startedAt := time.Now()
	defer func() {
		s.observe(ctx, "get-cost-tree", startedAt, err, map[string]any{"session_id": sessionID, "view": string(view)})
	}()

	if _, err = domain.ParseView(string(view)); err != nil {
		return nil, err
	}

	rows, err := s.items.ListByView(ctx, sessionID, view)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("cost tree %s/%s: %w", sessionID, view, repository.ErrNotFound)
	}

	root, err := costtree.Reconstruct(view, rows)
	if err != nil {
		return nil, fmt.Errorf("reconstructing %s tree: %w", view, err)
	}
	return &CostTreeResult{SessionID: sessionID, View: view, Tree: root}, nil
}

func (s *costVarianceService) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.sessions.GetByID(ctx, sessionID)
}

func (s *costVarianceService) ListSessions(ctx context.Context, limit int) ([]*domain.Session, error) {
	return s.sessions.ListRecent(ctx, ClampLimit(limit))
}

func (s *costVarianceService) MatchSessionIDs(ctx context.Context, prefix string) ([]string, error) {
	return s.sessions.ListIDsByPrefix(ctx, prefix)
}

func (s *costVarianceService) DeleteSession(ctx context.Context, sessionID string) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"session_id": sessionID}
	defer func() { s.observe(ctx, "delete-session", startedAt, err, fields) }()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		n, err := repository.NewSQLiteCostItemRepo(tx).DeleteBySession(ctx, sessionID)
		if err != nil {
			return err
		}
		fields["cost_items"] = n
		if _, err := repository.NewSQLiteProcessBreakdownRepo(tx).DeleteBySession(ctx, sessionID); err != nil {
			return err
		}
		return repository.NewSQLiteSessionRepo(tx).Delete(ctx, sessionID)
	})
}

func (s *costVarianceService) GetProcessBreakdown(ctx context.Context, sessionID string) ([]domain.ProcessBreakdown, error) {
	if _, err := s.sessions.GetByID(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.breakdown.ListBySession(ctx, sessionID)
}
