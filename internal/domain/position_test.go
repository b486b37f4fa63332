package domain

import "testing"

func TestDistanceFeet(t *testing.T) {
	tests := []struct {
		name string
		from GridPosition
		to   GridPosition
		want int
	}{
		{"Same cell", GridPosition{X: 3, Y: 3}, GridPosition{X: 3, Y: 3}, 0},
		{"One straight step", GridPosition{X: 0, Y: 0}, GridPosition{X: 1, Y: 0}, 5},
		{"Four straight steps", GridPosition{X: 0, Y: 0}, GridPosition{X: 0, Y: 4}, 20},
		// Чередование диагоналей: 5, 10, 5, 10...
		{"One diagonal", GridPosition{X: 0, Y: 0}, GridPosition{X: 1, Y: 1}, 5},
		{"Two diagonals", GridPosition{X: 0, Y: 0}, GridPosition{X: 2, Y: 2}, 15},
		{"Three diagonals", GridPosition{X: 0, Y: 0}, GridPosition{X: 3, Y: 3}, 20},
		{"Four diagonals", GridPosition{X: 0, Y: 0}, GridPosition{X: 4, Y: 4}, 30},
		// Смешанный путь: диагонали + остаток прямыми
		{"Two diagonals one straight", GridPosition{X: 0, Y: 0}, GridPosition{X: 3, Y: 2}, 20},
		{"One diagonal three straight", GridPosition{X: 5, Y: 5}, GridPosition{X: 9, Y: 6}, 20},
		// Знак смещения роли не играет
		{"Negative direction", GridPosition{X: 3, Y: 3}, GridPosition{X: 0, Y: 0}, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.DistanceFeet(tt.to); got != tt.want {
				t.Errorf("DistanceFeet(%v, %v) = %d, want %d", tt.from, tt.to, got, tt.want)
			}
			// Расстояние симметрично
			if got := tt.to.DistanceFeet(tt.from); got != tt.want {
				t.Errorf("DistanceFeet(%v, %v) = %d, want %d (symmetry)", tt.to, tt.from, got, tt.want)
			}
		})
	}
}

func TestIsAdjacent(t *testing.T) {
	center := GridPosition{X: 5, Y: 5}

	tests := []struct {
		name  string
		other GridPosition
		want  bool
	}{
		{"Orthogonal neighbor", GridPosition{X: 5, Y: 4}, true},
		{"Diagonal neighbor", GridPosition{X: 6, Y: 6}, true},
		{"Self is not adjacent", center, false},
		{"Two cells away", GridPosition{X: 5, Y: 7}, false},
		{"Knight move", GridPosition{X: 7, Y: 6}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := center.IsAdjacent(tt.other); got != tt.want {
				t.Errorf("IsAdjacent(%v, %v) = %v, want %v", center, tt.other, got, tt.want)
			}
		})
	}
}

func TestNeighbors(t *testing.T) {
	tests := []struct {
		name string
		pos  GridPosition
		want int
	}{
		{"Center has 8", GridPosition{X: 2, Y: 2}, 8},
		{"Corner has 3", GridPosition{X: 0, Y: 0}, 3},
		{"Edge has 5", GridPosition{X: 0, Y: 2}, 5},
		{"Opposite corner has 3", GridPosition{X: 4, Y: 4}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.pos.Neighbors(5, 5)
			if len(got) != tt.want {
				t.Errorf("Neighbors(%v) returned %d cells, want %d", tt.pos, len(got), tt.want)
			}
			for _, n := range got {
				if n == tt.pos {
					t.Errorf("Neighbors(%v) includes the cell itself", tt.pos)
				}
				if n.X < 0 || n.X >= 5 || n.Y < 0 || n.Y >= 5 {
					t.Errorf("Neighbors(%v) returned out-of-bounds cell %v", tt.pos, n)
				}
			}
		})
	}
}

func TestDirectionTo(t *testing.T) {
	from := GridPosition{X: 3, Y: 3}

	tests := []struct {
		name   string
		to     GridPosition
		sx, sy int
	}{
		{"East", GridPosition{X: 7, Y: 3}, 1, 0},
		{"NorthWest", GridPosition{X: 0, Y: 0}, -1, -1},
		{"South", GridPosition{X: 3, Y: 9}, 0, 1},
		{"Same cell", from, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sx, sy := from.DirectionTo(tt.to)
			if sx != tt.sx || sy != tt.sy {
				t.Errorf("DirectionTo(%v, %v) = (%d, %d), want (%d, %d)", from, tt.to, sx, sy, tt.sx, tt.sy)
			}
		})
	}
}
