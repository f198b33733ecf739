package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/stamp/pkg/model"
)

// MockSnapshotRepository is a mock implementation of repository.SnapshotRepository.
type MockSnapshotRepository struct {
	mock.Mock
}

// SaveSnapshot mocks the SaveSnapshot method.
func (m *MockSnapshotRepository) SaveSnapshot(ctx context.Context, snap *model.MappingSnapshot) error {
	args := m.Called(ctx, snap)
	return args.Error(0)
}

// GetSnapshot mocks the GetSnapshot method.
func (m *MockSnapshotRepository) GetSnapshot(ctx context.Context, id string) (*model.MappingSnapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MappingSnapshot), args.Error(1)
}

// ListSnapshots mocks the ListSnapshots method.
func (m *MockSnapshotRepository) ListSnapshots(ctx context.Context, limit int) ([]*model.MappingSnapshot, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.MappingSnapshot), args.Error(1)
}

// DeleteSnapshot mocks the DeleteSnapshot method.
func (m *MockSnapshotRepository) DeleteSnapshot(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
