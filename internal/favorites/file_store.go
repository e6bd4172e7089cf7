package favorites

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"oohunt/internal/domain"

	"github.com/goccy/go-json"
	"github.com/spf13/afero"
)

type fileEntry struct {
	ProductID string    `json:"productId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type fileDocument struct {
	Favorites []fileEntry `json:"favorites"`
}

// FileStore keeps one JSON document per anonymous client under dir
type FileStore struct {
	fs        afero.Fs
	dir       string
	validator *ClientIDValidator
	now       func() time.Time

	// mu serializes read-modify-write cycles within this process
	mu sync.Mutex
}

// NewFileStore creates a FileStore rooted at dir on fs
func NewFileStore(fs afero.Fs, dir string, validator *ClientIDValidator) (*FileStore, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create favorites directory: %w", err)
	}
	return &FileStore{fs: fs, dir: dir, validator: validator, now: time.Now}, nil
}

func (s *FileStore) path(owner string) (string, error) {
	if !s.validator.Valid(owner) {
		return "", domain.NewUnauthorizedError("valid x-client-id header is required")
	}
	return filepath.Join(s.dir, owner+".json"), nil
}

func (s *FileStore) read(path string) (map[string]fileEntry, error) {
	entries := make(map[string]fileEntry)

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return entries, nil
		}
		return nil, domain.NewInternalError("failed to read favorites", err)
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, domain.NewInternalError("failed to decode favorites", err)
	}
	for _, e := range doc.Favorites {
		entries[e.ProductID] = e
	}
	return entries, nil
}

// write replaces the document through a temp file and rename so readers
// never observe a partial file
func (s *FileStore) write(path string, entries map[string]fileEntry) error {
	doc := fileDocument{Favorites: make([]fileEntry, 0, len(entries))}
	for _, e := range entries {
		doc.Favorites = append(doc.Favorites, e)
	}
	sortEntries(doc.Favorites)

	data, err := json.Marshal(doc)
	if err != nil {
		return domain.NewInternalError("failed to encode favorites", err)
	}

	tmp, err := afero.TempFile(s.fs, s.dir, ".favorites-*")
	if err != nil {
		return domain.NewInternalError("failed to write favorites", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return domain.NewInternalError("failed to write favorites", err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return domain.NewInternalError("failed to write favorites", err)
	}
	if err := s.fs.Rename(tmpName, path); err != nil {
		_ = s.fs.Remove(tmpName)
		return domain.NewInternalError("failed to write favorites", err)
	}
	return nil
}

func sortEntries(entries []fileEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].UpdatedAt.Equal(entries[j].UpdatedAt) {
			return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
		}
		return entries[i].ProductID < entries[j].ProductID
	})
}

// Add implements Store
func (s *FileStore) Add(ctx context.Context, owner, productID string) error {
	path, err := s.path(owner)
	if err != nil {
		return err
	}
	productID, err = requireProductID(productID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read(path)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	entry, ok := entries[productID]
	if !ok {
		entry = fileEntry{ProductID: productID, CreatedAt: now}
	}
	entry.UpdatedAt = now
	entries[productID] = entry

	return s.write(path, entries)
}

// Remove implements Store
func (s *FileStore) Remove(ctx context.Context, owner, productID string) error {
	path, err := s.path(owner)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read(path)
	if err != nil {
		return err
	}
	productID = strings.TrimSpace(productID)
	if _, ok := entries[productID]; !ok {
		return nil
	}
	delete(entries, productID)

	return s.write(path, entries)
}

// List implements Store
func (s *FileStore) List(ctx context.Context, owner string) ([]*domain.Favorite, error) {
	path, err := s.path(owner)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	entries, err := s.read(path)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	sorted := make([]fileEntry, 0, len(entries))
	for _, e := range entries {
		sorted = append(sorted, e)
	}
	sortEntries(sorted)

	favorites := make([]*domain.Favorite, len(sorted))
	for i, e := range sorted {
		favorites[i] = &domain.Favorite{
			OwnerID:   owner,
			ProductID: e.ProductID,
			CreatedAt: e.CreatedAt,
			UpdatedAt: e.UpdatedAt,
		}
	}
	return favorites, nil
}

// Sync implements Store
func (s *FileStore) Sync(ctx context.Context, owner string, productIDs []string) error {
	path, err := s.path(owner)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	entries := make(map[string]fileEntry)
	for _, id := range NormalizeIDs(productIDs) {
		entries[id] = fileEntry{ProductID: id, CreatedAt: now, UpdatedAt: now}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(path, entries)
}
