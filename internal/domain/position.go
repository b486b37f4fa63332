package domain

// CellSizeFeet размер одной клетки сетки в футах (стандарт D&D).
const CellSizeFeet = 5

// GridPosition — координаты клетки на боевой сетке (колонка, ряд).
// Неизменяемое значение: все методы возвращают новые структуры.
type GridPosition struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// DistanceFeet возвращает расстояние до другой клетки в футах.
// Диагонали считаются по опциональному правилу D&D 5e: первая диагональ
// стоит 5 футов, вторая 10, третья снова 5 и так далее. Счетчик чередования
// начинается заново при каждом вызове (одно дискретное перемещение).
func (p GridPosition) DistanceFeet(other GridPosition) int {
	dx := absInt(p.X - other.X)
	dy := absInt(p.Y - other.Y)

	diagonals := dx
	if dy < dx {
		diagonals = dy
	}
	straights := absInt(dx - dy)

	// Пара диагоналей = 5 + 10 = 15 футов, нечетный остаток = 5 футов.
	diagonalFeet := (diagonals/2)*15 + (diagonals%2)*CellSizeFeet

	return diagonalFeet + straights*CellSizeFeet
}

// IsAdjacent возвращает true, если цель в соседней клетке (включая диагональ).
func (p GridPosition) IsAdjacent(other GridPosition) bool {
	dx := absInt(p.X - other.X)
	dy := absInt(p.Y - other.Y)
	return dx <= 1 && dy <= 1 && (dx != 0 || dy != 0)
}

// Shift возвращает новую позицию со смещением, не меняя текущую.
func (p GridPosition) Shift(dx, dy int) GridPosition {
	return GridPosition{X: p.X + dx, Y: p.Y + dy}
}

// DirectionTo возвращает единичный вектор (sx, sy) в сторону цели.
func (p GridPosition) DirectionTo(other GridPosition) (int, int) {
	sx, sy := 0, 0
	if p.X < other.X {
		sx = 1
	} else if p.X > other.X {
		sx = -1
	}
	if p.Y < other.Y {
		sy = 1
	} else if p.Y > other.Y {
		sy = -1
	}
	return sx, sy
}

// Neighbors возвращает до 8 соседних клеток, отфильтрованных по границам сетки.
func (p GridPosition) Neighbors(width, height int) []GridPosition {
	result := make([]GridPosition, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n := p.Shift(dx, dy)
			if n.X >= 0 && n.X < width && n.Y >= 0 && n.Y < height {
				result = append(result, n)
			}
		}
	}
	return result
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
