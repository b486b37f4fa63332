package battlemap

import (
	"testing"

	"spatial-server/internal/domain"
)

func TestBuiltinTemplates(t *testing.T) {
	keys := []string{"dungeon_room", "forest_clearing", "castle_courtyard"}

	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			tmpl, ok := ByName(key)
			if !ok {
				t.Fatalf("builtin template %q missing", key)
			}
			if tmpl.Name == "" || len(tmpl.Features) == 0 {
				t.Fatalf("template %q is empty", key)
			}

			// Все типы местности валидны, все клетки в пределах пресета 20x15
			for _, f := range tmpl.Features {
				if _, ok := domain.Classify(f.Kind); !ok {
					t.Errorf("feature %q uses unknown terrain kind %q", f.Description, f.Kind)
				}
				if len(f.Positions) == 0 {
					t.Errorf("feature %q has no cells", f.Description)
				}
				for _, p := range f.Positions {
					if p.X < 0 || p.X >= 20 || p.Y < 0 || p.Y >= 15 {
						t.Errorf("feature %q cell %v outside the 20x15 preset", f.Description, p)
					}
				}
			}
		})
	}

	if _, ok := ByName("volcano_lair"); ok {
		t.Error("ByName returned an unknown template")
	}

	if got := len(Names()); got != len(keys) {
		t.Errorf("Names() = %d templates, want %d", got, len(keys))
	}
}

func TestDungeonRoomLayout(t *testing.T) {
	tmpl, _ := ByName("dungeon_room")

	// Стены по периметру: верхний левый и нижний правый углы
	walls := tmpl.Features[0]
	if walls.Kind != domain.TerrainBlocking {
		t.Fatalf("first feature kind = %q, want blocking", walls.Kind)
	}

	hasCell := func(f Feature, p domain.GridPosition) bool {
		for _, c := range f.Positions {
			if c == p {
				return true
			}
		}
		return false
	}

	for _, corner := range []domain.GridPosition{{X: 0, Y: 0}, {X: 19, Y: 14}} {
		if !hasCell(walls, corner) {
			t.Errorf("perimeter wall misses corner %v", corner)
		}
	}

	// Колонны дают половинное укрытие
	pillars := tmpl.Features[1]
	if pillars.Kind != domain.TerrainPartialCover {
		t.Errorf("pillar kind = %q, want partial_cover", pillars.Kind)
	}
	if !hasCell(pillars, domain.GridPosition{X: 6, Y: 5}) {
		t.Error("pillar at (6,5) missing")
	}
}
