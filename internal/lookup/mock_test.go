package lookup

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/credentialguard/pkg/nppes"
)

// --- NPPES Mock ---

type mockNPPESClient struct {
	mock.Mock
}

func (m *mockNPPESClient) Search(ctx context.Context, number string) (*nppes.SearchResponse, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*nppes.SearchResponse), args.Error(1)
}

// --- Resolver Mock ---

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Resolve(ctx context.Context, key Key) (*Record, *Failure) {
	args := m.Called(ctx, key)
	var rec *Record
	if v := args.Get(0); v != nil {
		rec = v.(*Record)
	}
	var fail *Failure
	if v := args.Get(1); v != nil {
		fail = v.(*Failure)
	}
	return rec, fail
}

// --- Observer ---

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *recordingObserver) ObserveLookup(outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}
