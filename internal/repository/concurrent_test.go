package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/costvar/internal/costtree"
	"github.com/alexanderramin/costvar/internal/db"
	"github.com/alexanderramin/costvar/internal/domain"
	"github.com/alexanderramin/costvar/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func retry(fn func() error) error {
	const maxRetries = 10
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		time.Sleep(time.Millisecond * time.Duration(1<<attempt))
	}
	return err
}

// TestConcurrentAccess_HeaderNeverWithoutRows writes sessions with their
// trees in transactions while readers check that every visible header
// already has its cost items.
func TestConcurrentAccess_HeaderNeverWithoutRows(t *testing.T) {
	database := testutil.NewFileTestDB(t, "concurrent.db")
	ctx := context.Background()
	uow := db.NewSQLiteUnitOfWork(database)
	sessions := NewSQLiteSessionRepo(database)
	items := NewSQLiteCostItemRepo(database)

	data := testutil.NewRichCostSheet()
	const writers = 8
	var done atomic.Bool
	var wg sync.WaitGroup
	errCh := make(chan error, writers+1)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess := testutil.NewTestSession(fmt.Sprintf("P-%d", i))
			err := retry(func() error {
				return uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
					if err := NewSQLiteSessionRepo(tx).Create(ctx, sess); err != nil {
						return err
					}
					txItems := NewSQLiteCostItemRepo(tx)
					for _, view := range domain.AllViews() {
						if err := txItems.CreateBatch(ctx, costtree.Flatten(sess.ID, view, costtree.Build(data, view))); err != nil {
							return err
						}
					}
					return nil
				})
			})
			if err != nil {
				errCh <- err
			}
		}(i)
	}

	var readers sync.WaitGroup
	readers.Add(1)
	go func() {
		defer readers.Done()
		for !done.Load() {
			list, err := sessions.ListRecent(ctx, 100)
			if err != nil {
				continue
			}
			for _, s := range list {
				n, err := items.CountBySession(ctx, s.ID)
				if err == nil && n == 0 {
					errCh <- fmt.Errorf("session %s visible without cost items", s.ID)
					return
				}
			}
		}
	}()

	wg.Wait()
	done.Store(true)
	readers.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	list, err := sessions.ListRecent(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, list, writers)
}
