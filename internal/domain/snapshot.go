package domain

import "fmt"

// Snapshot — сериализуемый снимок боевой сетки: размеры, местность,
// позиции бойцов и ревизия. Snapshot -> FromSnapshot восстанавливает
// сетку без потерь (round-trip закон), ревизия переносится как есть.
type Snapshot struct {
	Width      int                     `json:"width"`
	Height     int                     `json:"height"`
	Terrain    [][]TerrainKind         `json:"terrain"`
	Combatants map[string]GridPosition `json:"combatants"`
	Revision   uint64                  `json:"revision"`
}

// Snapshot делает снимок текущего состояния сетки.
func (g *CombatGrid) Snapshot() Snapshot {
	terrain := make([][]TerrainKind, g.Height)
	for y := 0; y < g.Height; y++ {
		row := make([]TerrainKind, g.Width)
		for x := 0; x < g.Width; x++ {
			row[x] = g.Tiles[y][x].Kind
		}
		terrain[y] = row
	}

	return Snapshot{
		Width:      g.Width,
		Height:     g.Height,
		Terrain:    terrain,
		Combatants: g.Combatants(),
		Revision:   g.revision,
	}
}

// FromSnapshot восстанавливает сетку из снимка.
// Снимок проверяется целиком до создания сетки: битые данные
// (неизвестный тип местности, боец вне границ или на стене) — ошибка,
// а не молчаливое исправление.
func FromSnapshot(s Snapshot) (*CombatGrid, error) {
	g, err := NewCombatGrid(s.Width, s.Height)
	if err != nil {
		return nil, err
	}

	if len(s.Terrain) != s.Height {
		return nil, fmt.Errorf("terrain rows mismatch: got %d, want %d", len(s.Terrain), s.Height)
	}
	for y, row := range s.Terrain {
		if len(row) != s.Width {
			return nil, fmt.Errorf("terrain row %d length mismatch: got %d, want %d", y, len(row), s.Width)
		}
		for x, kind := range row {
			if _, ok := Classify(kind); !ok {
				return nil, fmt.Errorf("unknown terrain kind %q at (%d, %d)", kind, x, y)
			}
			// Пишем тайлы напрямую, минуя SetTerrain:
			// ревизия должна совпасть со снимком, а не с числом правок.
			g.Tiles[y][x] = TerrainTile{Kind: kind}
		}
	}

	// Боец на яме — легальное зафиксированное состояние (летающие могут
	// заканчивать перемещение на ямах), поэтому восстанавливаем с
	// соответствующей способностью. Стены и занятые клетки — ошибка.
	for id, p := range s.Combatants {
		if err := g.placeCombatant(id, p, MoveCaps{CrossPits: true}); err != nil {
			return nil, fmt.Errorf("combatant %s at %v: %w", id, p, err)
		}
	}

	g.revision = s.Revision
	return g, nil
}
