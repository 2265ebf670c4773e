package mocks

import (
	"tush00nka/utransfer/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) Broadcast(files []model.FileRecord) {
	m.Called(files)
}
