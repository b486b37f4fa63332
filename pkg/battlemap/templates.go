package battlemap

import "spatial-server/internal/domain"

// Feature — один элемент местности шаблона: тип и затронутые клетки.
type Feature struct {
	Kind        domain.TerrainKind    `json:"kind"`
	Description string                `json:"description,omitempty"`
	Positions   []domain.GridPosition `json:"positions"`
}

// Template — именованный пресет местности. Шаблоны — это данные:
// движок знает только примитив SetTerrain, а не имена пресетов.
type Template struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Features    []Feature `json:"features"`
}

// ByName возвращает встроенный шаблон по ключу.
func ByName(key string) (Template, bool) {
	t, ok := builtin[key]
	return t, ok
}

// Names возвращает ключи всех встроенных шаблонов.
func Names() []string {
	keys := make([]string, 0, len(builtin))
	for k := range builtin {
		keys = append(keys, k)
	}
	return keys
}

var builtin = map[string]Template{
	"dungeon_room":     DungeonRoom,
	"forest_clearing":  ForestClearing,
	"castle_courtyard": CastleCourtyard,
}

// --- Вспомогательные конструкторы ---

func hline(y, x0, x1 int) []domain.GridPosition {
	cells := make([]domain.GridPosition, 0, x1-x0)
	for x := x0; x < x1; x++ {
		cells = append(cells, domain.GridPosition{X: x, Y: y})
	}
	return cells
}

func vline(x, y0, y1 int) []domain.GridPosition {
	cells := make([]domain.GridPosition, 0, y1-y0)
	for y := y0; y < y1; y++ {
		cells = append(cells, domain.GridPosition{X: x, Y: y})
	}
	return cells
}

func rect(x0, y0, x1, y1 int) []domain.GridPosition {
	cells := make([]domain.GridPosition, 0, (x1-x0)*(y1-y0))
	for x := x0; x < x1; x++ {
		for y := y0; y < y1; y++ {
			cells = append(cells, domain.GridPosition{X: x, Y: y})
		}
	}
	return cells
}

func concat(groups ...[]domain.GridPosition) []domain.GridPosition {
	var out []domain.GridPosition
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// --- Встроенные шаблоны (рассчитаны на сетку 20x15) ---

// DungeonRoom — типовая комната подземелья: стены по периметру и колонны.
var DungeonRoom = Template{
	Name:        "Dungeon Room",
	Description: "A typical dungeon room with walls and some cover",
	Features: []Feature{
		{
			Kind:        domain.TerrainBlocking,
			Description: "Stone Wall",
			Positions: concat(
				hline(0, 0, 20),
				hline(14, 0, 20),
				vline(0, 0, 15),
				vline(19, 0, 15),
			),
		},
		{
			Kind:        domain.TerrainPartialCover,
			Description: "Stone Pillar",
			Positions: []domain.GridPosition{
				{X: 6, Y: 5}, {X: 13, Y: 5},
				{X: 6, Y: 9}, {X: 13, Y: 9},
			},
		},
	},
}

// ForestClearing — лесная поляна: заросли по краям, деревья и поваленное бревно.
var ForestClearing = Template{
	Name:        "Forest Clearing",
	Description: "An outdoor combat in a forest clearing",
	Features: []Feature{
		{
			Kind:        domain.TerrainDifficult,
			Description: "Dense Undergrowth",
			Positions:   concat(rect(0, 0, 5, 15), rect(15, 0, 20, 15)),
		},
		{
			Kind:        domain.TerrainBlocking,
			Description: "Large Tree",
			Positions: []domain.GridPosition{
				{X: 8, Y: 3}, {X: 11, Y: 8}, {X: 15, Y: 12},
			},
		},
		{
			Kind:        domain.TerrainPartialCover,
			Description: "Fallen Log",
			Positions:   hline(7, 5, 10),
		},
	},
}

// CastleCourtyard — замковый двор: стены, помост, башня и ров.
var CastleCourtyard = Template{
	Name:        "Castle Courtyard",
	Description: "A castle courtyard with various defensive features",
	Features: []Feature{
		{
			Kind:        domain.TerrainBlocking,
			Description: "Castle Wall",
			Positions: concat(
				hline(0, 0, 20),
				vline(0, 0, 8),
				vline(19, 0, 8),
			),
		},
		{
			Kind:        domain.TerrainElevated,
			Description: "Raised Platform",
			Positions:   rect(8, 2, 12, 5),
		},
		{
			Kind:        domain.TerrainFullCover,
			Description: "Guard Tower",
			Positions: []domain.GridPosition{
				{X: 15, Y: 2}, {X: 16, Y: 2},
				{X: 15, Y: 3}, {X: 16, Y: 3},
			},
		},
		{
			Kind:        domain.TerrainWater,
			Description: "Moat",
			Positions:   hline(12, 5, 15),
		},
	},
}
