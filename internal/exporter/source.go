package exporter

import (
	"context"
	"fmt"

	"github.com/alexanderramin/costvar/internal/domain"
	"github.com/alexanderramin/costvar/internal/service"
)

// TreeSource reads stored cost trees.
type TreeSource interface {
	GetCostTree(ctx context.Context, sessionID string, view domain.View) (*service.CostTreeResult, error)
}

// LoadAllTrees fetches every view of a session for WriteWorkbook.
func LoadAllTrees(ctx context.Context, src TreeSource, sessionID string) (map[domain.View]*domain.CostTreeNode, error) {
	trees := make(map[domain.View]*domain.CostTreeNode, len(domain.AllViews()))
	for _, view := range domain.AllViews() {
		res, err := src.GetCostTree(ctx, sessionID, view)
		if err != nil {
			return nil, err
		}
		trees[view] = res.Tree
	}
	return trees, nil
}

// FileName is the download name for an export of s.
func FileName(s *domain.Session, ext string) string {
	name := s.PartNumber
	if name == "" {
		name = s.ID
	}
	return fmt.Sprintf("cost-variance-%s.%s", name, ext)
}
