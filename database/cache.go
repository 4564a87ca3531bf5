// database/cache.go
package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Snapshot - содержимое всех представлений на момент последнего обновления
type Snapshot struct {
	Cases       []CaseCount
	Vaccination []VaccinationCount
	Symptoms    []SymptomFrequency
	Indicators  []map[string]any
	Profile     []map[string]any
	Labs        []map[string]any
	UpdatedAt   time.Time
}

// ViewSource - источник данных представлений
type ViewSource interface {
	CasesByMunicipality(ctx context.Context) ([]CaseCount, error)
	VaccinationByOutcome(ctx context.Context) ([]VaccinationCount, error)
	FrequentSymptoms(ctx context.Context) ([]SymptomFrequency, error)
	Generic(ctx context.Context, name string) ([]map[string]any, error)
}

// ViewCache хранит снимок представлений и обновляет его по расписанию
type ViewCache struct {
	source    ViewSource
	logger    *zap.SugaredLogger
	mu        sync.RWMutex
	snapshot  Snapshot
	scheduler *gocron.Scheduler
}

// NewViewCache создает новый экземпляр ViewCache
func NewViewCache(source ViewSource, logger *zap.SugaredLogger) *ViewCache {
	return &ViewCache{source: source, logger: logger}
}

// Snapshot возвращает текущий снимок
func (c *ViewCache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// Refresh перечитывает все представления. Каждое представление читается независимо:
// при ошибке остается его прежнее значение, остальные обновляются.
// Возвращает объединенную ошибку всех неудачных чтений
func (c *ViewCache) Refresh(ctx context.Context) error {
	prev := c.Snapshot()
	var errs []error

	next := Snapshot{
		Cases: readView(c, ViewCasesByMunicipality, prev.Cases, &errs, func() ([]CaseCount, error) {
			return c.source.CasesByMunicipality(ctx)
		}),
		Vaccination: readView(c, ViewVaccinationByOutcome, prev.Vaccination, &errs, func() ([]VaccinationCount, error) {
			return c.source.VaccinationByOutcome(ctx)
		}),
		Symptoms: readView(c, ViewFrequentSymptoms, prev.Symptoms, &errs, func() ([]SymptomFrequency, error) {
			return c.source.FrequentSymptoms(ctx)
		}),
		Indicators: readView(c, TableMunicipalIndicators, prev.Indicators, &errs, func() ([]map[string]any, error) {
			return c.source.Generic(ctx, TableMunicipalIndicators)
		}),
		Profile: readView(c, ViewEpidemiologicProfile, prev.Profile, &errs, func() ([]map[string]any, error) {
			return c.source.Generic(ctx, ViewEpidemiologicProfile)
		}),
		Labs: readView(c, ViewTestsByLaboratory, prev.Labs, &errs, func() ([]map[string]any, error) {
			return c.source.Generic(ctx, ViewTestsByLaboratory)
		}),
		UpdatedAt: time.Now(),
	}

	c.mu.Lock()
	c.snapshot = next
	c.mu.Unlock()

	c.logger.Infow("Кэш представлений обновлен",
		"cases", len(next.Cases),
		"symptoms", len(next.Symptoms),
		"failed_views", len(errs),
	)
	return errors.Join(errs...)
}

// readView читает одно представление; при ошибке пишет предупреждение и возвращает prev
func readView[T any](c *ViewCache, name string, prev []T, errs *[]error, read func() ([]T, error)) []T {
	rows, err := read()
	if err != nil {
		c.logger.Warnw("Не удалось прочитать представление", "view", name, "error", err)
		*errs = append(*errs, fmt.Errorf("%s: %w", name, err))
		return prev
	}
	return rows
}

// Start запускает периодическое обновление с интервалом ttl
func (c *ViewCache) Start(ttl time.Duration) error {
	c.scheduler = gocron.NewScheduler(time.UTC)

	_, err := c.scheduler.Every(ttl).WaitForSchedule().Do(func() {
		if err := c.Refresh(context.Background()); err != nil {
			c.logger.Errorw("Ошибка обновления кэша представлений", "error", err)
		}
	})
	if err != nil {
		return err
	}

	c.scheduler.StartAsync()
	c.logger.Infow("Запущено обновление кэша представлений", "interval", ttl)
	return nil
}

// Stop останавливает обновление
func (c *ViewCache) Stop() {
	if c.scheduler != nil {
		c.scheduler.Stop()
	}
}
