package repository

import (
	"errors"
	"slices"
	"sync"
	"tush00nka/utransfer/internal/model"
)

var ErrFileNotFound = errors.New("file not found")

type FileRepository interface {
	Add(file model.FileRecord)
	Remove(stored string) bool
	Find(stored string) (*model.FileRecord, error)
	List() []model.FileRecord
	Len() int
}

// fileRepository хранит метаданные в памяти в порядке добавления.
// Уникальность stored не проверяется.
type fileRepository struct {
	mu    sync.RWMutex
	files []model.FileRecord
}

func NewFileRepository() FileRepository {
	return &fileRepository{}
}

func (r *fileRepository) Add(file model.FileRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.files = append(r.files, file)
}

// Remove удаляет первую запись с указанным stored.
func (r *fileRepository) Remove(stored string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.files {
		if r.files[i].Stored == stored {
			r.files = slices.Delete(r.files, i, i+1)
			return true
		}
	}
	return false
}

func (r *fileRepository) Find(stored string) (*model.FileRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.files {
		if r.files[i].Stored == stored {
			file := r.files[i]
			return &file, nil
		}
	}
	return nil, ErrFileNotFound
}

// List возвращает копию, вызывающий может её свободно менять.
func (r *fileRepository) List() []model.FileRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	files := make([]model.FileRecord, len(r.files))
	copy(files, r.files)
	return files
}

func (r *fileRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.files)
}
