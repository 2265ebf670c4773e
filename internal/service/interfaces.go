package service

import (
	"context"
	"io"
	"os"
	"tush00nka/utransfer/internal/model"
)

type FileService interface {
	Upload(ctx context.Context, req UploadRequest) (*model.FileRecord, error)
	Download(ctx context.Context, stored, pin string) (*Download, error)
	Delete(ctx context.Context, stored, pin string) (*model.FileRecord, error)
	List() []model.FileRecord
	Reconcile(mode string) (int, error)
}

// Broadcaster рассылает полный список файлов всем подключённым клиентам.
type Broadcaster interface {
	Broadcast(files []model.FileRecord)
}

type UploadRequest struct {
	Filename string
	Content  io.Reader
	PIN      string
	Nickname string
	Device   string
}

// Download is an opened file ready to be streamed. The caller closes File.
type Download struct {
	Record model.FileRecord
	File   *os.File
	Info   os.FileInfo
}
