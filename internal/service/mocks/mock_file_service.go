package mocks

import (
	"context"
	"tush00nka/utransfer/internal/model"
	"tush00nka/utransfer/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockFileService struct {
	mock.Mock
}

func (m *MockFileService) Upload(ctx context.Context, req service.UploadRequest) (*model.FileRecord, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FileRecord), args.Error(1)
}

func (m *MockFileService) Download(ctx context.Context, stored, pin string) (*service.Download, error) {
	args := m.Called(ctx, stored, pin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Download), args.Error(1)
}

func (m *MockFileService) Delete(ctx context.Context, stored, pin string) (*model.FileRecord, error) {
	args := m.Called(ctx, stored, pin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FileRecord), args.Error(1)
}

func (m *MockFileService) List() []model.FileRecord {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]model.FileRecord)
}

func (m *MockFileService) Reconcile(mode string) (int, error) {
	args := m.Called(mode)
	return args.Int(0), args.Error(1)
}
