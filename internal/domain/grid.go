package domain

import "fmt"

// MaxGridDimension — верхняя граница размера сетки.
// Движок не должен молча выделять неограниченную память.
const MaxGridDimension = 256

// CombatGrid — изменяемое поле боя: тайлы местности и позиции бойцов.
// Один экземпляр на один энкаунтер; внутренних блокировок нет,
// сериализацию доступа обеспечивает владелец (см. engine.Encounter).
type CombatGrid struct {
	Width  int
	Height int

	// Tiles[y][x], как и карта у GameWorld: ряд за рядом.
	Tiles [][]TerrainTile

	// positions: ID бойца -> клетка. occupants — обратный индекс,
	// чтобы проверка занятости была O(1), а не обходом всей мапы.
	positions map[string]GridPosition
	occupants map[GridPosition]string

	// revision монотонно растет при каждой правке местности.
	// Это ключ инвалидации для кэша линии обзора.
	revision uint64
}

// NewCombatGrid создает сетку указанного размера, вся местность открытая.
func NewCombatGrid(width, height int) (*CombatGrid, error) {
	if width <= 0 || height <= 0 || width > MaxGridDimension || height > MaxGridDimension {
		return nil, ErrInvalidDimensions
	}

	tiles := make([][]TerrainTile, height)
	for y := 0; y < height; y++ {
		row := make([]TerrainTile, width)
		for x := 0; x < width; x++ {
			row[x] = TerrainTile{Kind: TerrainOpen}
		}
		tiles[y] = row
	}

	return &CombatGrid{
		Width:     width,
		Height:    height,
		Tiles:     tiles,
		positions: make(map[string]GridPosition),
		occupants: make(map[GridPosition]string),
	}, nil
}

// InBounds проверяет, что клетка лежит внутри сетки.
func (g *CombatGrid) InBounds(p GridPosition) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// TileAt возвращает тайл клетки. Выход за границы — ошибка,
// никакого подрезания координат к допустимым.
func (g *CombatGrid) TileAt(p GridPosition) (TerrainTile, error) {
	if !g.InBounds(p) {
		return TerrainTile{}, ErrOutOfBounds
	}
	return g.Tiles[p.Y][p.X], nil
}

// Revision возвращает текущую ревизию местности.
func (g *CombatGrid) Revision() uint64 { return g.revision }

// SetTerrain меняет тип местности одной клетки и поднимает ревизию.
// Правка, делающая клетку под стоящим бойцом непроходимой, отклоняется:
// инвариант «боец стоит на проходимом тайле» не нарушается никогда.
func (g *CombatGrid) SetTerrain(p GridPosition, kind TerrainKind) error {
	if !g.InBounds(p) {
		return ErrOutOfBounds
	}
	if _, ok := Classify(kind); !ok {
		return fmt.Errorf("unknown terrain kind %q", kind)
	}

	tile := TerrainTile{Kind: kind}
	if _, occupied := g.occupants[p]; occupied && !IsPassable(tile, MoveCaps{}) {
		return ErrOccupiedCell
	}

	g.Tiles[p.Y][p.X] = tile
	g.revision++
	return nil
}

// PlaceCombatant ставит бойца на клетку (или переставляет, если он уже
// на сетке). Начальная расстановка способностей не знает: яма для нее
// непроходима всегда.
func (g *CombatGrid) PlaceCombatant(id string, p GridPosition) error {
	return g.placeCombatant(id, p, MoveCaps{})
}

// placeCombatant — общая механика размещения. Валидация полностью
// предшествует мутации: при любой ошибке состояние сетки не меняется.
func (g *CombatGrid) placeCombatant(id string, p GridPosition, caps MoveCaps) error {
	if !g.InBounds(p) {
		return ErrOutOfBounds
	}
	if !IsPassable(g.Tiles[p.Y][p.X], caps) {
		return ErrImpassable
	}
	if occupant, ok := g.occupants[p]; ok && occupant != id {
		return ErrOccupiedCell
	}

	if old, ok := g.positions[id]; ok {
		delete(g.occupants, old)
	}
	g.positions[id] = p
	g.occupants[p] = id
	return nil
}

// MoveCombatant переставляет уже размещенного бойца. Способности те же,
// что и при валидации пути: клетка, которую поиск пути принял как
// назначение, принимается и здесь (летающий может встать на яму).
func (g *CombatGrid) MoveCombatant(id string, p GridPosition, caps MoveCaps) error {
	if _, ok := g.positions[id]; !ok {
		return ErrNotFound
	}
	return g.placeCombatant(id, p, caps)
}

// RemoveCombatant убирает бойца с сетки. Идемпотентна: отсутствие — не ошибка.
func (g *CombatGrid) RemoveCombatant(id string) {
	if p, ok := g.positions[id]; ok {
		delete(g.occupants, p)
		delete(g.positions, id)
	}
}

// PositionOf возвращает текущую позицию бойца.
func (g *CombatGrid) PositionOf(id string) (GridPosition, error) {
	p, ok := g.positions[id]
	if !ok {
		return GridPosition{}, ErrNotFound
	}
	return p, nil
}

// OccupantAt возвращает ID бойца в клетке, если она занята.
func (g *CombatGrid) OccupantAt(p GridPosition) (string, bool) {
	id, ok := g.occupants[p]
	return id, ok
}

// Combatants возвращает копию мапы позиций (для снапшотов и DTO).
func (g *CombatGrid) Combatants() map[string]GridPosition {
	out := make(map[string]GridPosition, len(g.positions))
	for id, p := range g.positions {
		out[id] = p
	}
	return out
}
