package aircraft

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/iancoleman/orderedmap"
	"github.com/yegors/preflight/pkg/logger"
)

// Notifier is told about catalog changes (e.g. to push them to connected clients)
type Notifier interface {
	ModelUpserted(summary Summary)
}

// Catalog is the registry of aircraft models. It owns every record; callers
// only ever receive copies.
type Catalog struct {
	models   map[string]*Model
	order    []string // insertion order of model codes
	store    Store
	notifier Notifier
	logger   *logger.Logger
	mu       sync.RWMutex
}

// NewCatalog creates a catalog seeded with the built-in models.
// Call Load to restore models persisted in the store.
func NewCatalog(store Store, log *logger.Logger) *Catalog {
	c := &Catalog{
		models: make(map[string]*Model),
		store:  store,
		logger: log.Named("aircraft-catalog"),
	}

	for _, m := range BuiltinModels() {
		c.putLocked(m.Code, m)
	}

	return c
}

// SetNotifier sets the receiver of upsert notifications
func (c *Catalog) SetNotifier(n Notifier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifier = n
}

// Load restores persisted models from the store. Persisted entries replace
// built-in models with the same code.
func (c *Catalog) Load(ctx context.Context) error {
	if c.store == nil {
		return nil
	}

	data, ok, err := c.store.Get(ctx, StorageKey)
	if err != nil {
		return fmt.Errorf("failed to read aircraft catalog: %w", err)
	}
	if !ok {
		c.logger.Info("No persisted aircraft catalog, using built-in models",
			logger.Int("model_count", c.Len()))
		return nil
	}

	if err := c.Restore(data); err != nil {
		return err
	}

	c.logger.Info("Aircraft catalog loaded",
		logger.Int("model_count", c.Len()))
	return nil
}

// Performance returns the takeoff and landing charts for a model
func (c *Catalog) Performance(code string) (Performance, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m, ok := c.models[code]
	if !ok || m.Performance == nil {
		return Performance{}, false
	}
	return *m.Performance.Clone(), true
}

// FuelConstants returns the fuel planning constants for a model
func (c *Catalog) FuelConstants(code string) (FuelConstants, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m, ok := c.models[code]
	if !ok || m.Fuel == nil {
		return FuelConstants{}, false
	}
	return *m.Fuel, true
}

// WeightBalance returns the weight & balance geometry for a model
func (c *Catalog) WeightBalance(code string) (WeightBalance, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m, ok := c.models[code]
	if !ok || m.WeightBalance == nil {
		return WeightBalance{}, false
	}
	return *m.WeightBalance, true
}

// Model returns a copy of the full model record
func (c *Catalog) Model(code string) (Model, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m, ok := c.models[code]
	if !ok {
		return Model{}, false
	}
	return *m.Clone(), true
}

// ListModels returns all models in insertion order
func (c *Catalog) ListModels() []Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	summaries := make([]Summary, 0, len(c.order))
	for _, code := range c.order {
		summaries = append(summaries, c.models[code].Summary())
	}
	return summaries
}

// Len returns the number of models
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// Upsert inserts or wholly replaces the model stored under code and persists
// the catalog. The model is stored as given; no sub-record is merged with
// the previous entry. A persistence failure is returned, but the in-memory
// entry is kept. A model that cannot be encoded is reported as an error while
// the rest of the catalog is still saved.
func (c *Catalog) Upsert(ctx context.Context, code string, m Model) error {
	c.mu.Lock()
	c.putLocked(code, &m)
	summary := c.models[code].Summary()
	blob, skipped, snapErr := c.snapshotLocked()
	store, notifier := c.store, c.notifier
	c.mu.Unlock()

	c.logger.Info("Aircraft model upserted",
		logger.String("code", code),
		logger.String("name", m.Name))

	if notifier != nil {
		notifier.ModelUpserted(summary)
	}

	if snapErr != nil {
		c.logger.Error("Failed to encode aircraft catalog", logger.Error(snapErr))
		return fmt.Errorf("failed to encode aircraft catalog: %w", snapErr)
	}
	if store == nil {
		return nil
	}
	if err := store.Set(ctx, StorageKey, blob); err != nil {
		c.logger.Error("Failed to save aircraft catalog",
			logger.String("code", code),
			logger.Error(err))
		return fmt.Errorf("failed to save aircraft catalog: %w", err)
	}
	if err, ok := skipped[code]; ok {
		return fmt.Errorf("failed to encode aircraft model %q: %w", code, err)
	}
	return nil
}

// Snapshot encodes every model as a JSON object keyed by model code, in insertion order.
// Models that cannot be encoded (NaN or infinite values) are left out.
func (c *Catalog) Snapshot() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	blob, _, err := c.snapshotLocked()
	return blob, err
}

// Restore decodes a snapshot and upserts each model it contains.
// Entries that cannot be decoded are skipped and logged.
func (c *Catalog) Restore(data []byte) error {
	// The ordered map gives us the key order, the raw map the values
	keys := orderedmap.New()
	if err := json.Unmarshal(data, keys); err != nil {
		return fmt.Errorf("failed to decode aircraft catalog: %w", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode aircraft catalog: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, code := range keys.Keys() {
		var m Model
		if err := json.Unmarshal(raw[code], &m); err != nil {
			c.logger.Warn("Skipping undecodable aircraft model",
				logger.String("code", code),
				logger.Error(err))
			continue
		}
		c.putLocked(code, &m)
	}
	return nil
}

// snapshotLocked encodes the models one at a time. Models that fail to encode
// are left out and returned in the skipped map, keyed by code.
func (c *Catalog) snapshotLocked() ([]byte, map[string]error, error) {
	om := orderedmap.New()
	skipped := map[string]error{}
	for _, code := range c.order {
		raw, err := json.Marshal(c.models[code])
		if err != nil {
			c.logger.Warn("Leaving unencodable aircraft model out of the snapshot",
				logger.String("code", code),
				logger.Error(err))
			skipped[code] = err
			continue
		}
		om.Set(code, json.RawMessage(raw))
	}
	blob, err := json.Marshal(om)
	return blob, skipped, err
}

// putLocked stores a copy of m under code, keeping the original position of an existing code
func (c *Catalog) putLocked(code string, m *Model) {
	stored := m.Clone()
	stored.Code = code

	if _, exists := c.models[code]; !exists {
		c.order = append(c.order, code)
	}
	c.models[code] = stored
}
