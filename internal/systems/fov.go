package systems

import (
	"spatial-server/internal/domain"
	"spatial-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Мультипликаторы для трансформации координат в 8 октантов
var multipliers = [4][8]int{
	{1, 0, 0, -1, -1, 0, 0, 1},
	{0, 1, -1, 0, 0, -1, 1, 0},
	{0, 1, 1, 0, 0, -1, -1, 0},
	{1, 0, 0, 1, -1, 0, 0, -1},
}

// VisibleCells возвращает множество клеток, видимых из origin в радиусе
// radiusFeet. Рекурсивный shadowcasting по 8 октантам; обзор перекрывают
// тайлы с BlocksSight (стены, глухие препятствия). Используется
// презентационным слоем для тумана войны.
func VisibleCells(g *domain.CombatGrid, origin domain.GridPosition, radiusFeet int) map[domain.GridPosition]bool {
	fovLogger := logger.Log.WithFields(logrus.Fields{
		"component":    "fov_system",
		"observer_pos": origin,
		"radius_feet":  radiusFeet,
	})

	visible := make(map[domain.GridPosition]bool)

	radius := radiusFeet / domain.CellSizeFeet
	if radius <= 0 || !g.InBounds(origin) {
		fovLogger.Warn("FOV calculation skipped (blind observer or origin off-grid).")
		return visible
	}

	// Центр всегда виден
	visible[origin] = true

	// Запускаем рекурсивный shadowcasting для 8 октантов
	for i := 0; i < 8; i++ {
		castLight(g, origin.X, origin.Y, 1, 1.0, 0.0, radius,
			multipliers[0][i], multipliers[1][i],
			multipliers[2][i], multipliers[3][i], visible)
	}

	fovLogger.WithField("visible_cells", len(visible)).Debug("FOV calculation complete.")

	return visible
}

func castLight(g *domain.CombatGrid, cx, cy, row int, start, end float64, radius, xx, xy, yx, yy int, visible map[domain.GridPosition]bool) {
	if start < end {
		return
	}

	radiusSq := float64(radius * radius)

	for j := row; j <= radius; j++ {
		dx, dy := -j-1, -j
		blocked := false
		newStart := start

		for {
			dx++
			if dx > 0 {
				break
			}
			dy = -j

			// Расчет наклонов (Slopes)
			lSlope := (float64(dx) - 0.5) / (float64(dy) + 0.5)
			rSlope := (float64(dx) + 0.5) / (float64(dy) - 0.5)

			if start < rSlope {
				continue
			}
			if end > lSlope {
				break
			}

			// Трансформация координат в глобальные
			cell := domain.GridPosition{
				X: cx + dx*xx + dy*xy,
				Y: cy + dx*yx + dy*yy,
			}

			// Проверка границ и радиуса
			if g.InBounds(cell) && float64(dx*dx+dy*dy) < radiusSq {
				visible[cell] = true
			}

			// Логика теней
			if blocked {
				// Мы идем вдоль препятствия...
				if isOpaque(g, cell) {
					newStart = rSlope
					continue
				} else {
					// Препятствие кончилось, началась пустота
					blocked = false
					start = newStart
				}
			} else {
				// Мы шли по пустоте и наткнулись на препятствие
				if isOpaque(g, cell) && j < radius {
					blocked = true
					// Рекурсивно запускаем сканирование следующего ряда
					castLight(g, cx, cy, j+1, start, lSlope, radius, xx, xy, yx, yy, visible)
					newStart = rSlope
				}
			}
		}
		if blocked {
			break
		}
	}
}

// isOpaque проверяет, перекрывает ли клетка обзор
func isOpaque(g *domain.CombatGrid, cell domain.GridPosition) bool {
	// Выход за границы считается непрозрачным
	if !g.InBounds(cell) {
		return true
	}
	return g.Tiles[cell.Y][cell.X].BlocksSight()
}
