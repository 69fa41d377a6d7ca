package contract

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/wikireflex/reflex/schema"
)

// MockStore is a mock implementation of Store for testing.
type MockStore struct {
	mock.Mock
}

var _ Store = &MockStore{} // Compile-time check

// Edits implements the Store interface.
func (m *MockStore) Edits(ctx context.Context, req *schema.EditRequest) ([]schema.EditRow, error) {
	args := m.Called(ctx, req)
	rows, _ := args.Get(0).([]schema.EditRow)
	return rows, args.Error(1)
}

// UsersByNameFold implements the Store interface.
func (m *MockStore) UsersByNameFold(ctx context.Context, names []string) ([]schema.UserIdentity, error) {
	args := m.Called(ctx, names)
	ids, _ := args.Get(0).([]schema.UserIdentity)
	return ids, args.Error(1)
}

// Reverts implements the Store interface.
func (m *MockStore) Reverts(ctx context.Context, req *schema.RevertRequest) ([]schema.RevertRow, error) {
	args := m.Called(ctx, req)
	rows, _ := args.Get(0).([]schema.RevertRow)
	return rows, args.Error(1)
}

// Projects implements the Store interface.
func (m *MockStore) Projects(ctx context.Context, titleFilter string) ([]schema.Project, error) {
	args := m.Called(ctx, titleFilter)
	rows, _ := args.Get(0).([]schema.Project)
	return rows, args.Error(1)
}

// ProjectPages implements the Store interface.
func (m *MockStore) ProjectPages(ctx context.Context, req *schema.ProjectPagesRequest) ([]schema.ProjectPage, error) {
	args := m.Called(ctx, req)
	rows, _ := args.Get(0).([]schema.ProjectPage)
	return rows, args.Error(1)
}

// ProjectPageIDs implements the Store interface.
func (m *MockStore) ProjectPageIDs(ctx context.Context, project string) ([]int64, error) {
	args := m.Called(ctx, project)
	ids, _ := args.Get(0).([]int64)
	return ids, args.Error(1)
}

// LatestActivityWeek implements the Store interface.
func (m *MockStore) LatestActivityWeek(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// ProjectActivity implements the Store interface.
func (m *MockStore) ProjectActivity(ctx context.Context, req *schema.ActivityRequest) ([]schema.ActivityRow, error) {
	args := m.Called(ctx, req)
	rows, _ := args.Get(0).([]schema.ActivityRow)
	return rows, args.Error(1)
}

// ActiveProjectPages implements the Store interface.
func (m *MockStore) ActiveProjectPages(ctx context.Context, req *schema.ActivePagesRequest) ([]schema.ActivePageRow, error) {
	args := m.Called(ctx, req)
	rows, _ := args.Get(0).([]schema.ActivePageRow)
	return rows, args.Error(1)
}

// LinkEvents implements the Store interface.
func (m *MockStore) LinkEvents(ctx context.Context, pageIDs []int64, endWeek int) ([]schema.LinkEvent, error) {
	args := m.Called(ctx, pageIDs, endWeek)
	events, _ := args.Get(0).([]schema.LinkEvent)
	return events, args.Error(1)
}

// AnonCoords implements the Store interface.
func (m *MockStore) AnonCoords(ctx context.Context, req *schema.AnonCoordsRequest) ([]schema.AnonCoordRow, error) {
	args := m.Called(ctx, req)
	rows, _ := args.Get(0).([]schema.AnonCoordRow)
	return rows, args.Error(1)
}

// Close implements the Store interface.
func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
