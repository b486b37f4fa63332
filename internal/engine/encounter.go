package engine

import (
	"sync"

	"spatial-server/internal/domain"
	"spatial-server/internal/systems"
	"spatial-server/pkg/battlemap"
	"spatial-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Encounter — один изолированный энкаунтер: сетка, резолвер обзора и
// мьютекс. Сам движок внутренних блокировок не держит (он однопоточен
// в пределах операции), поэтому сериализацию команд обеспечивает этот
// слой: один мьютекс на энкаунтер.
type Encounter struct {
	ID int

	mu    sync.Mutex
	grid  *domain.CombatGrid
	sight *systems.SightResolver
}

// NewEncounter создает энкаунтер с пустой (открытой) сеткой.
func NewEncounter(id, width, height int) (*Encounter, error) {
	grid, err := domain.NewCombatGrid(width, height)
	if err != nil {
		return nil, err
	}
	return newEncounterWithGrid(id, grid), nil
}

func newEncounterWithGrid(id int, grid *domain.CombatGrid) *Encounter {
	logger.Log.WithFields(logrus.Fields{
		"component":    "encounter",
		"encounter_id": id,
		"width":        grid.Width,
		"height":       grid.Height,
	}).Info("Encounter created")

	return &Encounter{
		ID:    id,
		grid:  grid,
		sight: systems.NewSightResolver(grid),
	}
}

// ApplyTemplate накладывает шаблон местности через примитив SetTerrain.
// Клетки шаблона за границами сетки пропускаются: пресеты рассчитаны
// на 20x15, но применимы к любой сетке.
func (e *Encounter) ApplyTemplate(t battlemap.Template) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, feature := range t.Features {
		for _, p := range feature.Positions {
			if !e.grid.InBounds(p) {
				continue
			}
			if err := e.grid.SetTerrain(p, feature.Kind); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetTerrain меняет тип местности одной клетки.
func (e *Encounter) SetTerrain(p domain.GridPosition, kind domain.TerrainKind) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.SetTerrain(p, kind)
}

// PlaceCombatant ставит бойца на сетку.
func (e *Encounter) PlaceCombatant(id string, p domain.GridPosition) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.PlaceCombatant(id, p)
}

// RemoveCombatant убирает бойца с сетки (идемпотентно).
func (e *Encounter) RemoveCombatant(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.grid.RemoveCombatant(id)
}

// PositionOf возвращает позицию бойца.
func (e *Encounter) PositionOf(id string) (domain.GridPosition, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.PositionOf(id)
}

// MoveResult — результат зафиксированного перемещения.
type MoveResult struct {
	Path      systems.PathResult
	StepFlags []systems.StepFlag
}

// MoveCombatant валидирует перемещение, фиксирует его на сетке и
// возвращает путь, стоимость и сигналы атак по возможности для каждого
// шага. При любой ошибке валидации сетка не меняется.
func (e *Encounter) MoveCombatant(id string, dest domain.GridPosition, budgetFeet int, caps domain.MoveCaps, hostileIDs []string) (MoveResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start, err := e.grid.PositionOf(id)
	if err != nil {
		return MoveResult{}, err
	}

	path, err := systems.ValidateMove(e.grid, id, dest, budgetFeet, caps)
	if err != nil {
		return MoveResult{}, err
	}

	// Сигналы считаем по состоянию ДО фиксации: позиции врагов те же,
	// а сам боец по пути еще не прошел.
	flags := systems.OpportunityFlags(e.grid, id, start, path.Path, hostileIDs)

	if err := e.grid.MoveCombatant(id, dest, caps); err != nil {
		return MoveResult{}, err
	}

	logger.Log.WithFields(logrus.Fields{
		"component":    "encounter",
		"encounter_id": e.ID,
		"combatant_id": id,
		"cost_feet":    path.CostFeet,
	}).Debug("Combatant moved")

	return MoveResult{Path: path, StepFlags: flags}, nil
}

// ValidMoves возвращает все клетки, достижимые в пределах бюджета.
func (e *Encounter) ValidMoves(id string, budgetFeet int, caps domain.MoveCaps) (map[domain.GridPosition]int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return systems.ReachableSet(e.grid, id, budgetFeet, caps)
}

// AttackRange возвращает все клетки в пределах дальности оружия
// (по метрике с чередованием диагоналей, без учета линии обзора).
func (e *Encounter) AttackRange(id string, rangeFeet int) ([]domain.GridPosition, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	origin, err := e.grid.PositionOf(id)
	if err != nil {
		return nil, err
	}

	// Окно поиска: дальность в клетках с запасом на диагонали.
	maxCells := rangeFeet/domain.CellSizeFeet + 1

	var cells []domain.GridPosition
	for y := maxInt(0, origin.Y-maxCells); y < minInt(e.grid.Height, origin.Y+maxCells+1); y++ {
		for x := maxInt(0, origin.X-maxCells); x < minInt(e.grid.Width, origin.X+maxCells+1); x++ {
			p := domain.GridPosition{X: x, Y: y}
			if p == origin {
				continue
			}
			if origin.DistanceFeet(p) <= rangeFeet {
				cells = append(cells, p)
			}
		}
	}
	return cells, nil
}

// CoverResult — ответ на запрос укрытия между двумя бойцами.
type CoverResult struct {
	Sight        systems.SightResult
	Modifiers    systems.AttackModifiers
	DistanceFeet int
}

// Cover трассирует линию обзора от атакующего к цели и выводит
// модификаторы атаки.
func (e *Encounter) Cover(attackerID, targetID string, normalRangeFeet int) (CoverResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	attacker, err := e.grid.PositionOf(attackerID)
	if err != nil {
		return CoverResult{}, err
	}
	target, err := e.grid.PositionOf(targetID)
	if err != nil {
		return CoverResult{}, err
	}

	sight := e.sight.Trace(attacker, target)
	distance := attacker.DistanceFeet(target)

	return CoverResult{
		Sight:        sight,
		Modifiers:    systems.CoverModifiers(sight, distance, normalRangeFeet),
		DistanceFeet: distance,
	}, nil
}

// CoverBetween — вариант Cover для пары клеток (для тестовых стендов
// и отладочных запросов, где бойцы не нужны).
func (e *Encounter) CoverBetween(from, to domain.GridPosition) (systems.SightResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.grid.InBounds(from) || !e.grid.InBounds(to) {
		return systems.SightResult{}, domain.ErrOutOfBounds
	}
	return e.sight.Trace(from, to), nil
}

// VisibleCells возвращает клетки, видимые бойцу в радиусе radiusFeet.
func (e *Encounter) VisibleCells(id string, radiusFeet int) (map[domain.GridPosition]bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	origin, err := e.grid.PositionOf(id)
	if err != nil {
		return nil, err
	}
	return systems.VisibleCells(e.grid, origin, radiusFeet), nil
}

// Snapshot делает снимок состояния энкаунтера.
func (e *Encounter) Snapshot() domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.Snapshot()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
