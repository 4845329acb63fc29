package api

import (
	"context"
	"sync"
	"testing"

	"github.com/minasamy417/resultsboard/chat"
	"github.com/minasamy417/resultsboard/config"
	"github.com/minasamy417/resultsboard/domain"
	"github.com/minasamy417/resultsboard/logger"
	"github.com/minasamy417/resultsboard/prompt"
	"github.com/minasamy417/resultsboard/tests/helpers"
)

// fakePrompt returns a scripted reply. When release is set, SubmitPrompt
// blocks until it is closed.
type fakePrompt struct {
	mu    sync.Mutex
	reply string
	err   error

	release chan struct{}
	entered chan struct{}
}

func (f *fakePrompt) SubmitPrompt(_ context.Context, _ string) (string, error) {
	f.mu.Lock()
	release, entered := f.release, f.entered
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if release != nil {
		<-release
	}
	return f.reply, f.err
}

func newTestHandler(t *testing.T, f *fakePrompt) *Handler {
	t.Helper()
	st := helpers.NewTestStore(t)

	ctx := context.Background()
	records := []domain.Record{
		{IdentityKey: "mina", Code: "101", Name: "مينا مجدي", Group: "إعدادي", Course: "عقيدة", Score: 90, Attendance: 0.9},
		{IdentityKey: "mina", Code: "101", Name: "مينا مجدي", Group: "إعدادي", Course: "طقس", Score: 80, Attendance: 1.0},
		{IdentityKey: "sara", Code: "102", Name: "سارة يوسف", Group: "ثانوي", Course: "عقيدة", Absent: true, Attendance: 0.3},
	}
	for i := range records {
		if err := st.CreateRecord(ctx, "d1", &records[i]); err != nil {
			t.Fatalf("CreateRecord failed: %v", err)
		}
	}

	svc := chat.NewService(st, f, prompt.NewBuilder(0), nil, logger.NewNop())
	cfg := &config.Config{PageSize: 50}
	return NewHandler(svc, st, nil, cfg, logger.NewNop())
}
