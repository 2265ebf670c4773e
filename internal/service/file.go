package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"
	"tush00nka/utransfer/internal/config"
	"tush00nka/utransfer/internal/model"
	"tush00nka/utransfer/internal/pkg/storage"
	"tush00nka/utransfer/internal/repository"
)

var (
	ErrPINRequired  = errors.New("PIN is required")
	ErrFileRequired = errors.New("file is required")
	ErrFileNotFound = errors.New("file not found")
	ErrInvalidPIN   = errors.New("invalid PIN")
	ErrFileTooLarge = errors.New("file too large")
)

// fileService реализация FileService
type fileService struct {
	repo        repository.FileRepository
	store       storage.Storage
	broadcaster Broadcaster
	maxSize     int64

	// mu упорядочивает изменения списка и их рассылку
	mu    sync.Mutex
	clock nameClock
	now   func() time.Time
}

// NewFileService создает новый экземпляр FileService. maxSize <= 0 снимает
// ограничение на размер загрузки.
func NewFileService(repo repository.FileRepository, store storage.Storage, broadcaster Broadcaster, maxSize int64) FileService {
	return &fileService{
		repo:        repo,
		store:       store,
		broadcaster: broadcaster,
		maxSize:     maxSize,
		now:         time.Now,
	}
}

// Upload сохраняет файл на диск, добавляет запись и рассылает новый список
func (s *fileService) Upload(ctx context.Context, req UploadRequest) (*model.FileRecord, error) {
	if req.PIN == "" {
		return nil, ErrPINRequired
	}
	if req.Content == nil {
		return nil, ErrFileRequired
	}

	now := s.now()
	// имя на диске очищается, отображаемое имя остается как прислал клиент
	stored := fmt.Sprintf("%d-%s", s.clock.Next(now), storage.CleanName(req.Filename))

	size, err := s.store.Save(ctx, stored, req.Content, s.maxSize)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return nil, ErrFileTooLarge
		}
		return nil, fmt.Errorf("save upload: %w", err)
	}

	record := model.FileRecord{
		Name:     req.Filename,
		Stored:   stored,
		Size:     size,
		Device:   req.Device,
		Nickname: req.Nickname,
		PIN:      req.PIN,
		Time:     model.FormatTime(now),
	}

	s.mu.Lock()
	s.repo.Add(record)
	files := s.repo.List()
	s.broadcaster.Broadcast(files)
	s.mu.Unlock()

	log.Printf("📂 New file uploaded: %s (%d bytes) as %s by %s", record.Name, record.Size, record.Stored, record.Device)
	log.Printf("📂 Current files: %d", len(files))

	return &record, nil
}

// Download проверяет PIN и открывает файл для отдачи клиенту
func (s *fileService) Download(ctx context.Context, stored, pin string) (*Download, error) {
	record, err := s.authorize(stored, pin)
	if err != nil {
		return nil, err
	}

	f, info, err := s.store.Open(record.Stored)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("⚠️ Record %s has no file on disk", record.Stored)
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("open %s: %w", record.Stored, err)
	}

	log.Printf("⬇️ Downloaded: %s by %s", record.Name, record.Device)

	return &Download{Record: *record, File: f, Info: info}, nil
}

// Delete удаляет файл с диска и запись из списка, затем рассылает список.
// Уже отсутствующий на диске файл считается удалённым.
func (s *fileService) Delete(ctx context.Context, stored, pin string) (*model.FileRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.authorize(stored, pin)
	if err != nil {
		return nil, err
	}

	if err := s.store.Remove(record.Stored); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("remove %s: %w", record.Stored, err)
		}
		log.Printf("⚠️ File %s was already missing on disk", record.Stored)
	}

	s.repo.Remove(record.Stored)
	s.broadcaster.Broadcast(s.repo.List())

	log.Printf("🗑️ Deleted: %s by %s", record.Name, record.Device)

	return record, nil
}

func (s *fileService) List() []model.FileRecord {
	return s.repo.List()
}

// Reconcile ищет файлы без записей в каталоге загрузок. В режиме purge они
// удаляются. Возвращает количество найденных файлов.
func (s *fileService) Reconcile(mode string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.store.List()
	if err != nil {
		return 0, fmt.Errorf("list upload dir: %w", err)
	}

	if mode == config.ReconcilePurge {
		if err := s.purgePartials(); err != nil {
			return 0, err
		}
	}

	known := make(map[string]struct{})
	for _, f := range s.repo.List() {
		known[f.Stored] = struct{}{}
	}

	orphans := 0
	for _, name := range names {
		if _, ok := known[name]; ok {
			continue
		}
		orphans++
		if mode != config.ReconcilePurge {
			continue
		}
		if err := s.store.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			return orphans, fmt.Errorf("purge %s: %w", name, err)
		}
	}

	if orphans > 0 {
		if mode == config.ReconcilePurge {
			log.Printf("🧹 Purged %d orphan file(s) from upload dir", orphans)
		} else {
			log.Printf("🧹 Upload dir holds %d file(s) without metadata, keeping them", orphans)
		}
	}

	return orphans, nil
}

// purgePartials удаляет временные файлы загрузок, прерванных падением процесса
func (s *fileService) purgePartials() error {
	partials, err := s.store.Partials()
	if err != nil {
		return fmt.Errorf("list partial uploads: %w", err)
	}
	for _, name := range partials {
		if err := s.store.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("purge %s: %w", name, err)
		}
	}
	if len(partials) > 0 {
		log.Printf("🧹 Purged %d unfinished upload(s)", len(partials))
	}
	return nil
}

func (s *fileService) authorize(stored, pin string) (*model.FileRecord, error) {
	record, err := s.repo.Find(stored)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	if !record.MatchPIN(pin) {
		return nil, ErrInvalidPIN
	}
	return record, nil
}
