package newsstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/khabarhub/newsdesk/internal/models"
)

// Repository hands out the single active aggregate and persists it back.
// There is no optimistic locking: each mutation is one read-modify-write
// cycle and concurrent writers to the same key race last-write-wins.
type Repository interface {
	// Active returns the active aggregate, or nil when none exists yet.
	Active(ctx context.Context) (*models.ConfigAggregate, error)
	// Save persists the aggregate as the active one.
	Save(ctx context.Context, agg *models.ConfigAggregate) error
}

const aggregateFile = "aggregate.json"

// FileRepository keeps the aggregate as one JSON document on disk.
type FileRepository struct {
	basePath string
	mu       sync.RWMutex
}

func NewFileRepository(basePath string) (*FileRepository, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileRepository{basePath: basePath}, nil
}

func (r *FileRepository) Active(ctx context.Context) (*models.ConfigAggregate, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
		r.mu.RLock()
		defer r.mu.RUnlock()

		data, err := os.ReadFile(filepath.Join(r.basePath, aggregateFile))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to read aggregate: %w", err)
		}

		var agg models.ConfigAggregate
		if err := json.Unmarshal(data, &agg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal aggregate: %w", err)
		}
		return &agg, nil
	}
}

func (r *FileRepository) Save(ctx context.Context, agg *models.ConfigAggregate) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		r.mu.Lock()
		defer r.mu.Unlock()

		data, err := json.MarshalIndent(agg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal aggregate: %w", err)
		}
		if err := os.WriteFile(filepath.Join(r.basePath, aggregateFile), data, 0644); err != nil {
			return fmt.Errorf("failed to write aggregate: %w", err)
		}
		return nil
	}
}

// MemoryRepository holds the aggregate in memory. Used by tests and by
// embedders that manage persistence themselves.
type MemoryRepository struct {
	mu  sync.RWMutex
	agg *models.ConfigAggregate
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Active(ctx context.Context) (*models.ConfigAggregate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.agg == nil {
		return nil, nil
	}
	// Deep copy through JSON so callers never alias the stored document.
	data, err := json.Marshal(r.agg)
	if err != nil {
		return nil, err
	}
	var out models.ConfigAggregate
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *MemoryRepository) Save(ctx context.Context, agg *models.ConfigAggregate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agg = agg
	return nil
}
