package mocks

import (
	"context"
	"io"
	"os"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Save(ctx context.Context, name string, r io.Reader, limit int64) (int64, error) {
	args := m.Called(ctx, name, r, limit)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) Open(name string) (*os.File, os.FileInfo, error) {
	args := m.Called(name)
	f, _ := args.Get(0).(*os.File)
	info, _ := args.Get(1).(os.FileInfo)
	return f, info, args.Error(2)
}

func (m *MockStorage) Remove(name string) error {
	args := m.Called(name)
	return args.Error(0)
}

func (m *MockStorage) List() ([]string, error) {
	args := m.Called()
	names, _ := args.Get(0).([]string)
	return names, args.Error(1)
}

func (m *MockStorage) Partials() ([]string, error) {
	args := m.Called()
	names, _ := args.Get(0).([]string)
	return names, args.Error(1)
}
