package server

import (
	"sort"

	"spatial-server/internal/domain"
	"spatial-server/internal/engine"
	"spatial-server/pkg/api"
)

// Сборка DTO из доменных структур. Клиент получает производные свойства
// тайлов готовыми, чтобы не дублировать таблицу местности на фронте.

func buildGridView(snap domain.Snapshot) *api.GridView {
	view := &api.GridView{
		Width:      snap.Width,
		Height:     snap.Height,
		Revision:   snap.Revision,
		Tiles:      make([]api.TileView, 0, snap.Width*snap.Height),
		Combatants: make([]api.CombatantView, 0, len(snap.Combatants)),
	}

	for y, row := range snap.Terrain {
		for x, kind := range row {
			props, _ := domain.Classify(kind)
			view.Tiles = append(view.Tiles, api.TileView{
				X:           x,
				Y:           y,
				Kind:        string(kind),
				BlocksSight: props.BlocksSight,
				Cover:       props.Cover.String(),
				MoveMult:    props.MoveMult,
			})
		}
	}

	// Детерминированный порядок: удобнее клиенту и тестам
	ids := make([]string, 0, len(snap.Combatants))
	for id := range snap.Combatants {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		p := snap.Combatants[id]
		view.Combatants = append(view.Combatants, api.CombatantView{ID: id, X: p.X, Y: p.Y})
	}

	return view
}

func buildMoveView(res engine.MoveResult) *api.MoveView {
	view := &api.MoveView{
		Path:     buildPositions(res.Path.Path),
		CostFeet: res.Path.CostFeet,
		Steps:    make([]api.StepView, 0, len(res.StepFlags)),
	}

	for _, flag := range res.StepFlags {
		view.Steps = append(view.Steps, api.StepView{
			From:      api.PositionView{X: flag.From.X, Y: flag.From.Y},
			To:        api.PositionView{X: flag.To.X, Y: flag.To.Y},
			Provokes:  flag.Provokes,
			Attackers: flag.Attackers,
		})
	}

	return view
}

func buildPositions(cells []domain.GridPosition) []api.PositionView {
	out := make([]api.PositionView, 0, len(cells))
	for _, p := range cells {
		out = append(out, api.PositionView{X: p.X, Y: p.Y})
	}
	return out
}

func buildReachableCells(reachable map[domain.GridPosition]int) []api.CellView {
	cells := make([]api.CellView, 0, len(reachable))
	for p, cost := range reachable {
		cells = append(cells, api.CellView{X: p.X, Y: p.Y, CostFeet: cost})
	}
	sortCells(cells)
	return cells
}

func buildRangeCells(positions []domain.GridPosition) []api.CellView {
	cells := make([]api.CellView, 0, len(positions))
	for _, p := range positions {
		cells = append(cells, api.CellView{X: p.X, Y: p.Y})
	}
	sortCells(cells)
	return cells
}

func buildCoverView(res engine.CoverResult) *api.CoverView {
	return &api.CoverView{
		HasClearPath: res.Sight.HasClearPath,
		Cover:        res.Sight.Cover.String(),
		ACBonus:      res.Modifiers.ACBonus,
		Untargetable: res.Modifiers.Untargetable,
		Disadvantage: res.Modifiers.Disadvantage,
		DistanceFeet: res.DistanceFeet,
	}
}

func buildVisibleCells(visible map[domain.GridPosition]bool) []api.PositionView {
	cells := make([]domain.GridPosition, 0, len(visible))
	for p := range visible {
		cells = append(cells, p)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Y != cells[j].Y {
			return cells[i].Y < cells[j].Y
		}
		return cells[i].X < cells[j].X
	})
	return buildPositions(cells)
}

func sortCells(cells []api.CellView) {
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Y != cells[j].Y {
			return cells[i].Y < cells[j].Y
		}
		return cells[i].X < cells[j].X
	})
}
