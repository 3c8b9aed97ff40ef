package factory

import (
	"time"

	"github.com/relayhq/chatrelay/internal/dependencies/mocks"
	"github.com/relayhq/chatrelay/internal/storage/memory"
	"github.com/relayhq/chatrelay/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	MockIdent *mocks.MockIdent
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockIdent := mocks.NewMockIdent()

	app := newWithDependencies(store, mockClock, mockIdent, testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		MockIdent: mockIdent,
	}
}
