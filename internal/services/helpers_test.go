package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"salespulse/internal/dataset"
)

// MockDatasetLoader is a mock for the DatasetLoader interface
type MockDatasetLoader struct {
	mock.Mock
}

func (m *MockDatasetLoader) Load(ctx context.Context, src dataset.Sources) (*dataset.Datasets, error) {
	args := m.Called(ctx, src)
	ds, _ := args.Get(0).(*dataset.Datasets)
	return ds, args.Error(1)
}

func (m *MockDatasetLoader) LoadMonthly(ctx context.Context, src dataset.Sources) (*dataset.Table, error) {
	args := m.Called(ctx, src)
	t, _ := args.Get(0).(*dataset.Table)
	return t, args.Error(1)
}

func (m *MockDatasetLoader) Cache() dataset.Cache {
	args := m.Called()
	return args.Get(0).(dataset.Cache)
}

// MockClientCounter is a mock for the ClientCounter interface
type MockClientCounter struct {
	mock.Mock
}

func (m *MockClientCounter) ClientCount() int {
	return m.Called().Int(0)
}
