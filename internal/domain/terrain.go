package domain

// TerrainKind — тип местности одной клетки.
type TerrainKind string

// Типы местности (закрытый набор: новый тип = одна строка в terrainTable)
const (
	TerrainOpen         TerrainKind = "open"
	TerrainDifficult    TerrainKind = "difficult"
	TerrainBlocking     TerrainKind = "blocking"
	TerrainPartialCover TerrainKind = "partial_cover"
	TerrainFullCover    TerrainKind = "full_cover"
	TerrainWater        TerrainKind = "water"
	TerrainPit          TerrainKind = "pit"
	TerrainElevated     TerrainKind = "elevated"
)

// CoverGrade — степень укрытия по правилам D&D 5e.
// Числовой порядок важен: большее значение = лучшее укрытие.
type CoverGrade uint8

const (
	CoverNone CoverGrade = iota
	CoverHalf
	CoverThreeQuarters
	CoverFull
)

func (c CoverGrade) String() string {
	switch c {
	case CoverHalf:
		return "half"
	case CoverThreeQuarters:
		return "three_quarters"
	case CoverFull:
		return "full"
	default:
		return "none"
	}
}

// TerrainProps — производные свойства типа местности.
// MoveMult = 0 означает непроходимую клетку (сторожевое значение).
type TerrainProps struct {
	MoveMult    int
	BlocksSight bool
	Cover       CoverGrade
}

// terrainTable — полная таблица свойств. Тип местности однозначно
// определяет все три поля, отдельно они не настраиваются.
var terrainTable = map[TerrainKind]TerrainProps{
	TerrainOpen:         {MoveMult: 1, BlocksSight: false, Cover: CoverNone},
	TerrainDifficult:    {MoveMult: 2, BlocksSight: false, Cover: CoverNone},
	TerrainBlocking:     {MoveMult: 0, BlocksSight: true, Cover: CoverFull},
	TerrainPartialCover: {MoveMult: 1, BlocksSight: false, Cover: CoverHalf},
	TerrainFullCover:    {MoveMult: 1, BlocksSight: false, Cover: CoverFull},
	TerrainWater:        {MoveMult: 2, BlocksSight: false, Cover: CoverNone},
	TerrainPit:          {MoveMult: 0, BlocksSight: false, Cover: CoverNone},
	TerrainElevated:     {MoveMult: 1, BlocksSight: false, Cover: CoverNone},
}

// Classify возвращает свойства типа местности.
// ok == false для неизвестного типа (например, из битого снапшота).
func Classify(kind TerrainKind) (TerrainProps, bool) {
	props, ok := terrainTable[kind]
	return props, ok
}

// TerrainTile — одна клетка сетки. Хранит только тип: все свойства
// выводятся из таблицы, чтобы нельзя было получить рассогласованный тайл.
type TerrainTile struct {
	Kind TerrainKind `json:"kind"`
}

// Props возвращает производные свойства тайла.
func (t TerrainTile) Props() TerrainProps {
	props, ok := terrainTable[t.Kind]
	if !ok {
		// Неизвестный тип трактуем как открытую местность,
		// но снапшоты с такими типами отклоняются при загрузке.
		return terrainTable[TerrainOpen]
	}
	return props
}

// BlocksSight возвращает true, если тайл перекрывает линию обзора.
func (t TerrainTile) BlocksSight() bool { return t.Props().BlocksSight }

// Cover возвращает степень укрытия, которую дает тайл.
func (t TerrainTile) Cover() CoverGrade { return t.Props().Cover }

// MoveCaps — способности бойца, снимающие ограничения местности.
// Передаются вызывающей стороной, на тайле не хранятся.
type MoveCaps struct {
	// CrossPits true для летающих/прыгающих существ: ямы проходимы.
	CrossPits bool `json:"crossPits"`
}

// IsPassable возвращает false ровно для blocking и pit
// (яма проходима при наличии соответствующей способности).
func IsPassable(t TerrainTile, caps MoveCaps) bool {
	switch t.Kind {
	case TerrainBlocking:
		return false
	case TerrainPit:
		return caps.CrossPits
	default:
		return true
	}
}

// StepMult возвращает множитель стоимости шага В эту клетку.
// 0 = шаг невозможен, ребро отсутствует в графе движения.
func StepMult(t TerrainTile, caps MoveCaps) int {
	switch t.Kind {
	case TerrainBlocking:
		return 0
	case TerrainPit:
		if caps.CrossPits {
			return 1
		}
		return 0
	default:
		return t.Props().MoveMult
	}
}
