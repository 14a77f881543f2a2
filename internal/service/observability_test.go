package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/costvar/internal/repository"
	"github.com/alexanderramin/costvar/internal/testutil"
)

type recordingObserver struct {
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.events = append(r.events, e)
}

func TestObserver_UploadEvent(t *testing.T) {
	database := testutil.NewTestDB(t)
	rec := &recordingObserver{}
	svc, _ := newTestServiceOn(t, database, testutil.NewTestUoW(database), rec)

	summary, err := svc.ProcessUpload(context.Background(), testutil.NewCostSheetWorkbook(t, testutil.NewExampleCostSheet()), "a.xlsx")
	require.NoError(t, err)

	require.Len(t, rec.events, 1)
	e := rec.events[0]
	assert.Equal(t, "process-upload", e.Name)
	assert.True(t, e.Success)
	assert.Equal(t, summary.SessionID, e.Fields["session_id"])
	assert.Equal(t, "a.xlsx", e.Fields["file_name"])
}

func TestObserver_FailureRecorded(t *testing.T) {
	database := testutil.NewTestDB(t)
	rec := &recordingObserver{}
	svc, _ := newTestServiceOn(t, database, testutil.NewTestUoW(database), rec)

	_, err := svc.ProcessUpload(context.Background(), nil, "a.txt")
	require.Error(t, err)

	require.Len(t, rec.events, 1)
	assert.False(t, rec.events[0].Success)
	assert.ErrorIs(t, rec.events[0].Err, ErrUnsupportedFile)
}

func TestLogUseCaseObserver_WritesSortedFields(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:    "get-cost-tree",
		Success: false,
		Err:     errors.New("boom"),
		Fields:  map[string]any{"view": "by_type", "session_id": "s1"},
	})

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "use_case=get-cost-tree")
	assert.Contains(t, out, "error=boom")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("session_id=")), bytes.Index(buf.Bytes(), []byte("view=")))
}

func TestNewLogUseCaseObserver_NilWriter(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
}

func TestLogUseCaseObserver_CallerErrorsAreWarnings(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name: "get-session",
		Err:  fmt.Errorf("session x: %w", repository.ErrNotFound),
	})

	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "success=false")
}

func TestLogUseCaseObserver_SlowCallIsWarning(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:     "process-upload",
		Success:  true,
		Duration: SlowUseCase + time.Second,
	})

	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "slow=true")
	assert.Contains(t, buf.String(), "duration_ms=3000")
}

func TestLogUseCaseObserver_SuccessIsInfo(t *testing.T) {
	var buf bytes.Buffer
	NewLogUseCaseObserver(&buf).ObserveUseCase(context.Background(), UseCaseEvent{
		Name: "list-sessions", Success: true, Duration: time.Millisecond,
	})
	assert.Contains(t, buf.String(), "level=INFO")
	assert.NotContains(t, buf.String(), "slow=")
}
