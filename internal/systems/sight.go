package systems

import (
	"spatial-server/internal/domain"
	"spatial-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// SightResult — результат трассировки линии обзора.
type SightResult struct {
	HasClearPath bool
	Cover        domain.CoverGrade
}

// CellsOnLine возвращает клетки между двумя центрами по алгоритму Брезенхэма
// (включая обе конечные). Только целочисленная арифметика: результат
// детерминирован, но зависит от направления обхода — при разрешении
// округления линия (a,b) может пройти не через те клетки, что (b,a).
// Симметрию обеспечивает SightResolver, канонизируя порядок концов.
func CellsOnLine(a, b domain.GridPosition) []domain.GridPosition {
	cells := []domain.GridPosition{a}
	if a == b {
		return cells
	}

	x0, y0 := a.X, a.Y
	x1, y1 := b.X, b.Y

	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy < 0 {
		dy = -dy
	}

	sx, sy := a.DirectionTo(b)
	err := dx - dy

	for x0 != x1 || y0 != y1 {
		e2 := err * 2
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
		cells = append(cells, domain.GridPosition{X: x0, Y: y0})
	}

	return cells
}

// sightKey — ключ кэша: неупорядоченная пара клеток + ревизия местности.
// Пара канонизируется, чтобы Trace(a,b) и Trace(b,a) делили одну запись.
type sightKey struct {
	a, b domain.GridPosition
	rev  uint64
}

func newSightKey(a, b domain.GridPosition, rev uint64) sightKey {
	if b.Y < a.Y || (b.Y == a.Y && b.X < a.X) {
		a, b = b, a
	}
	return sightKey{a: a, b: b, rev: rev}
}

// Порог ленивой чистки кэша. Записи устаревших ревизий недостижимы по ключу
// и просто лежат мусором, пока кэш не разрастется.
const maxSightCacheEntries = 4096

// SightResolver считает линию обзора и укрытие поверх одной сетки.
// Кэш — чистая мемоизация: источником истины остается местность,
// правка которой поднимает ревизию и делает старые записи недостижимыми.
type SightResolver struct {
	grid  *domain.CombatGrid
	cache map[sightKey]SightResult
}

func NewSightResolver(grid *domain.CombatGrid) *SightResolver {
	return &SightResolver{
		grid:  grid,
		cache: make(map[sightKey]SightResult, 256),
	}
}

// Trace трассирует линию обзора между двумя клетками и выводит укрытие:
//  1. если промежуточная клетка перекрывает обзор — линия закрыта,
//     укрытие полное независимо от остальных клеток;
//  2. иначе укрытие = максимум укрытий промежуточных клеток
//     (full_cover, не перекрывающий обзор, тоже участвует в максимуме).
//
// Конечные клетки в расчете не участвуют. Обе должны лежать в границах
// сетки — это контракт вызывающей стороны (движок проверяет до вызова).
// Trace(a,b) и Trace(b,a) всегда совпадают: расчет идет по
// канонизированной паре, независимо от состояния кэша.
func (r *SightResolver) Trace(from, to domain.GridPosition) SightResult {
	traceLogger := logger.Log.WithFields(logrus.Fields{
		"component": "sight_system",
		"from":      from,
		"to":        to,
	})

	if from == to {
		return SightResult{HasClearPath: true, Cover: domain.CoverNone}
	}

	key := newSightKey(from, to, r.grid.Revision())
	if cached, ok := r.cache[key]; ok {
		traceLogger.Debug("Sight trace served from cache")
		return cached
	}

	// Считаем по канонизированной паре из ключа: линия Брезенхэма
	// зависит от направления обхода, а результат трассировки — нет.
	result := r.compute(key.a, key.b, traceLogger)

	if len(r.cache) >= maxSightCacheEntries {
		r.prune()
	}
	r.cache[key] = result
	return result
}

func (r *SightResolver) compute(from, to domain.GridPosition, traceLogger *logrus.Entry) SightResult {
	line := CellsOnLine(from, to)

	maxCover := domain.CoverNone

	// Проверяем только промежуточные клетки.
	for _, cell := range line[1 : len(line)-1] {
		tile := r.grid.Tiles[cell.Y][cell.X]

		if tile.BlocksSight() {
			traceLogger.WithField("blocking_cell", cell).
				Debug("Sight line blocked, full cover")
			return SightResult{HasClearPath: false, Cover: domain.CoverFull}
		}

		if grade := tile.Cover(); grade > maxCover {
			maxCover = grade
		}
	}

	traceLogger.WithField("cover", maxCover.String()).Debug("Sight line clear")
	return SightResult{HasClearPath: true, Cover: maxCover}
}

// prune выбрасывает записи устаревших ревизий. Если переполнение
// набрала текущая генерация (местность не менялась), кэш сбрасывается
// целиком: это мемоизация, потеря записей стоит лишь пересчета.
func (r *SightResolver) prune() {
	rev := r.grid.Revision()
	for key := range r.cache {
		if key.rev != rev {
			delete(r.cache, key)
		}
	}
	if len(r.cache) >= maxSightCacheEntries {
		r.cache = make(map[sightKey]SightResult, 256)
	}
}

// AttackModifiers — модификаторы атаки, выведенные из укрытия и дистанции.
// Контракт для внешнего боевого контроллера; сам движок бросков не делает.
type AttackModifiers struct {
	ACBonus      int  `json:"acBonus"`
	Untargetable bool `json:"untargetable"`
	Disadvantage bool `json:"disadvantage"`
}

// CoverModifiers переводит степень укрытия в бонусы по правилам D&D 5e:
// половинное +2 к AC и спасброскам Ловкости, три четверти +5,
// полное — цель нельзя атаковать напрямую. Дистанция дальше нормальной
// дальности оружия дает помеху.
func CoverModifiers(res SightResult, distanceFeet, normalRangeFeet int) AttackModifiers {
	mods := AttackModifiers{}

	switch res.Cover {
	case domain.CoverHalf:
		mods.ACBonus = 2
	case domain.CoverThreeQuarters:
		mods.ACBonus = 5
	case domain.CoverFull:
		mods.Untargetable = true
	}

	if normalRangeFeet > 0 && distanceFeet > normalRangeFeet {
		mods.Disadvantage = true
	}

	return mods
}
