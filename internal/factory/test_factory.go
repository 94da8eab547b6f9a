package factory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/minigolf-go/internal/dependencies/mocks"
	"github.com/mcoot/minigolf-go/internal/services/room"
	"github.com/mcoot/minigolf-go/internal/storage/memory"
	"github.com/mcoot/minigolf-go/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	roomCfg := room.Config{
		BcryptCost: bcrypt.MinCost,
		IdleTTL:    time.Hour,
	}
	app := newWithDependencies(store, mockClock, mockRandom, roomCfg, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
