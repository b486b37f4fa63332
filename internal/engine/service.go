package engine

import (
	"fmt"
	"sync"

	"spatial-server/internal/domain"
	"spatial-server/internal/infrastructure/storage"
	"spatial-server/pkg/battlemap"
	"spatial-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// CombatService — реестр энкаунтеров процесса. Каждый энкаунтер владеет
// своей сеткой независимо; сервис лишь раздает ID и держит общий каталог
// сохранений.
type CombatService struct {
	cfg   Config
	store *storage.SnapshotService

	mu         sync.Mutex
	encounters map[int]*Encounter
	nextID     int
}

// NewService создает сервис с каталогом снапшотов из конфига.
func NewService(cfg Config) *CombatService {
	return &CombatService{
		cfg:        cfg,
		store:      storage.NewSnapshotService(cfg.SaveDir),
		encounters: make(map[int]*Encounter),
		nextID:     1,
	}
}

// CreateEncounter создает энкаунтер. templateKey — ключ встроенного
// шаблона местности или пустая строка для чистой сетки.
func (s *CombatService) CreateEncounter(width, height int, templateKey string) (*Encounter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.encounters) >= s.cfg.MaxEncounters {
		return nil, fmt.Errorf("encounter limit reached (%d)", s.cfg.MaxEncounters)
	}

	var tmpl battlemap.Template
	hasTemplate := false
	if templateKey != "" {
		var ok bool
		tmpl, ok = battlemap.ByName(templateKey)
		if !ok {
			return nil, fmt.Errorf("unknown terrain template %q", templateKey)
		}
		hasTemplate = true
	}

	enc, err := NewEncounter(s.nextID, width, height)
	if err != nil {
		return nil, err
	}

	if hasTemplate {
		if err := enc.ApplyTemplate(tmpl); err != nil {
			return nil, fmt.Errorf("apply template %q: %w", templateKey, err)
		}
	}

	s.encounters[enc.ID] = enc
	s.nextID++
	return enc, nil
}

// Encounter возвращает энкаунтер по ID.
func (s *CombatService) Encounter(id int) (*Encounter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	enc, ok := s.encounters[id]
	if !ok {
		return nil, fmt.Errorf("encounter %d: %w", id, domain.ErrNotFound)
	}
	return enc, nil
}

// EncounterIDs возвращает ID всех активных энкаунтеров.
func (s *CombatService) EncounterIDs() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int, 0, len(s.encounters))
	for id := range s.encounters {
		ids = append(ids, id)
	}
	return ids
}

// EndEncounter завершает энкаунтер и выбрасывает его состояние.
// Идемпотентна, как и RemoveCombatant.
func (s *CombatService) EndEncounter(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.encounters[id]; ok {
		delete(s.encounters, id)
		logger.Log.WithFields(logrus.Fields{
			"component":    "combat_service",
			"encounter_id": id,
		}).Info("Encounter ended")
	}
}

// SaveEncounter пишет снапшот энкаунтера в каталог сохранений.
func (s *CombatService) SaveEncounter(id int) (string, error) {
	enc, err := s.Encounter(id)
	if err != nil {
		return "", err
	}
	return s.store.Save(id, enc.Snapshot())
}

// LoadEncounter восстанавливает энкаунтер из файла снапшота
// и регистрирует его под новым ID.
func (s *CombatService) LoadEncounter(path string) (*Encounter, error) {
	snap, err := s.store.Load(path)
	if err != nil {
		return nil, err
	}

	grid, err := domain.FromSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("restore snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.encounters) >= s.cfg.MaxEncounters {
		return nil, fmt.Errorf("encounter limit reached (%d)", s.cfg.MaxEncounters)
	}

	enc := newEncounterWithGrid(s.nextID, grid)
	s.encounters[enc.ID] = enc
	s.nextID++
	return enc, nil
}
