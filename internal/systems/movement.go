package systems

import (
	"container/heap"

	"spatial-server/internal/domain"
)

// pathNode — состояние поиска пути. Четность диагоналей входит в состояние:
// стоимость следующего диагонального шага зависит от того, сколько
// диагоналей уже пройдено в этом перемещении (чередование 5/10 футов).
type pathNode struct {
	Pos domain.GridPosition
	// DiagParity = (число пройденных диагональных шагов) % 2.
	// 0 — следующая диагональ стоит 5 футов, 1 — стоит 10.
	DiagParity int
}

// frontierItem — элемент очереди приоритетов фронтира.
type frontierItem struct {
	Node     pathNode
	CostFeet int // Приоритет. Чем меньше, тем раньше раскрываем.
	Index    int // Индекс в куче
}

// frontier реализует heap.Interface (MinHeap по стоимости).
type frontier []*frontierItem

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	return f[i].CostFeet < f[j].CostFeet
}

func (f frontier) Swap(i, j int) {
	f[i], f[j] = f[j], f[i]
	f[i].Index = i
	f[j].Index = j
}

func (f *frontier) Push(x interface{}) {
	n := len(*f)
	item := x.(*frontierItem)
	item.Index = n
	*f = append(*f, item)
}

func (f *frontier) Pop() interface{} {
	old := *f
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // избегаем утечки памяти
	item.Index = -1 // для безопасности
	*f = old[0 : n-1]
	return item
}

// PathResult — найденный путь и его полная стоимость в футах.
type PathResult struct {
	Path     []domain.GridPosition
	CostFeet int
}

// searchState — результат раскрытия графа движения из стартовой клетки.
type searchState struct {
	dist map[pathNode]int
	prev map[pathNode]pathNode
}

// dijkstra раскрывает граф движения из start. Стоимость ребра =
// базовый шаг (5 футов прямо, 5/10 по диагонали с чередованием) ×
// множитель местности клетки НАЗНАЧЕНИЯ. Ребра в непроходимые и занятые
// другими бойцами клетки отсутствуют. Состояние мира не меняется.
func dijkstra(g *domain.CombatGrid, moverID string, start domain.GridPosition, budgetFeet int, caps domain.MoveCaps) searchState {
	st := searchState{
		dist: make(map[pathNode]int),
		prev: make(map[pathNode]pathNode),
	}

	startNode := pathNode{Pos: start, DiagParity: 0}
	st.dist[startNode] = 0

	pq := &frontier{{Node: startNode, CostFeet: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		item := heap.Pop(pq).(*frontierItem)
		node, cost := item.Node, item.CostFeet

		if cost > st.dist[node] {
			continue // Устаревшая запись очереди
		}
		if cost >= budgetFeet {
			// Любой следующий шаг только дороже: фронтир дальше не раскрываем.
			continue
		}

		for _, next := range node.Pos.Neighbors(g.Width, g.Height) {
			mult := domain.StepMult(g.Tiles[next.Y][next.X], caps)
			if mult == 0 {
				continue
			}
			if occupant, ok := g.OccupantAt(next); ok && occupant != moverID {
				continue
			}

			diagonal := next.X != node.Pos.X && next.Y != node.Pos.Y

			stepFeet := domain.CellSizeFeet
			parity := node.DiagParity
			if diagonal {
				if parity == 1 {
					stepFeet = 2 * domain.CellSizeFeet
				}
				parity = 1 - parity
			}

			nextNode := pathNode{Pos: next, DiagParity: parity}
			nextCost := cost + stepFeet*mult

			if best, seen := st.dist[nextNode]; !seen || nextCost < best {
				st.dist[nextNode] = nextCost
				st.prev[nextNode] = node
				heap.Push(pq, &frontierItem{Node: nextNode, CostFeet: nextCost})
			}
		}
	}

	return st
}

// bestAt возвращает минимальную стоимость достижения клетки по обеим
// четностям и узел-победитель.
func (st searchState) bestAt(p domain.GridPosition) (pathNode, int, bool) {
	found := false
	var bestNode pathNode
	bestCost := 0

	for parity := 0; parity <= 1; parity++ {
		node := pathNode{Pos: p, DiagParity: parity}
		if cost, ok := st.dist[node]; ok && (!found || cost < bestCost) {
			found = true
			bestNode = node
			bestCost = cost
		}
	}
	return bestNode, bestCost, found
}

// ValidateMove проверяет перемещение бойца в клетку назначения и считает
// минимальную стоимость пути. Только чтение: фиксирует перемещение
// вызывающая сторона через CombatGrid.MoveCombatant.
func ValidateMove(g *domain.CombatGrid, moverID string, dest domain.GridPosition, budgetFeet int, caps domain.MoveCaps) (PathResult, error) {
	start, err := g.PositionOf(moverID)
	if err != nil {
		return PathResult{}, err
	}

	if !g.InBounds(dest) {
		// Вне сетки = недостижимо. Никакого подрезания координат.
		return PathResult{}, domain.ErrNoPath
	}

	if dest == start {
		return PathResult{Path: []domain.GridPosition{}, CostFeet: 0}, nil
	}

	// Раскрываем граф без ограничения бюджета, чтобы различить
	// «пути нет вообще» и «путь есть, но бюджета не хватает».
	st := dijkstra(g, moverID, start, maxBudgetFeet, caps)

	node, cost, ok := st.bestAt(dest)
	if !ok {
		return PathResult{}, domain.ErrNoPath
	}
	if cost > budgetFeet {
		return PathResult{}, domain.ErrInsufficientBudget
	}

	// Восстанавливаем путь от назначения к старту.
	path := []domain.GridPosition{}
	startNode := pathNode{Pos: start, DiagParity: 0}
	for node != startNode {
		path = append(path, node.Pos)
		node = st.prev[node]
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return PathResult{Path: path, CostFeet: cost}, nil
}

// maxBudgetFeet — «безлимитный» бюджет для полного раскрытия графа.
// Граф конечен (ограничен размером сетки), поэтому раскрытие всегда завершается.
const maxBudgetFeet = int(^uint(0) >> 1)

// ReachableSet возвращает все клетки, достижимые в пределах бюджета,
// с минимальной стоимостью каждой. Стартовая клетка входит со стоимостью 0.
// Гарантия согласованности: ValidateMove принимает ровно те клетки,
// которые возвращает эта функция (и с той же стоимостью).
func ReachableSet(g *domain.CombatGrid, moverID string, budgetFeet int, caps domain.MoveCaps) (map[domain.GridPosition]int, error) {
	start, err := g.PositionOf(moverID)
	if err != nil {
		return nil, err
	}

	st := dijkstra(g, moverID, start, budgetFeet, caps)

	reachable := make(map[domain.GridPosition]int)
	for node, cost := range st.dist {
		if cost > budgetFeet {
			continue
		}
		if best, ok := reachable[node.Pos]; !ok || cost < best {
			reachable[node.Pos] = cost
		}
	}
	return reachable, nil
}

// StepFlag — производный сигнал одного шага пути для внешнего боевого
// контроллера: спровоцировал ли шаг атаку по возможности и от кого.
// Движок сам никаких атак не разыгрывает.
type StepFlag struct {
	From     domain.GridPosition `json:"from"`
	To       domain.GridPosition `json:"to"`
	Provokes bool                `json:"provokes"`
	// Attackers — ID врагов, из зоны досягаемости которых вышел этот шаг.
	Attackers []string `json:"attackers,omitempty"`
}

// OpportunityFlags размечает зафиксированный путь: шаг провоцирует атаку,
// если ДО шага боец был рядом с врагом, а ПОСЛЕ — уже нет.
// Список врагов задает вызывающая сторона: движок фракций не знает.
func OpportunityFlags(g *domain.CombatGrid, moverID string, start domain.GridPosition, path []domain.GridPosition, hostileIDs []string) []StepFlag {
	flags := make([]StepFlag, 0, len(path))

	cur := start
	for _, next := range path {
		flag := StepFlag{From: cur, To: next}

		for _, hostileID := range hostileIDs {
			if hostileID == moverID {
				continue
			}
			hostilePos, err := g.PositionOf(hostileID)
			if err != nil {
				continue // Врага уже нет на сетке
			}
			if cur.IsAdjacent(hostilePos) && !next.IsAdjacent(hostilePos) {
				flag.Provokes = true
				flag.Attackers = append(flag.Attackers, hostileID)
			}
		}

		flags = append(flags, flag)
		cur = next
	}

	return flags
}
