package domain

import (
	"reflect"
	"testing"
)

func buildScenarioGrid(t *testing.T) *CombatGrid {
	t.Helper()

	g, err := NewCombatGrid(8, 6)
	if err != nil {
		t.Fatalf("NewCombatGrid failed: %v", err)
	}

	edits := []struct {
		p    GridPosition
		kind TerrainKind
	}{
		{GridPosition{X: 3, Y: 0}, TerrainBlocking},
		{GridPosition{X: 3, Y: 1}, TerrainBlocking},
		{GridPosition{X: 1, Y: 4}, TerrainDifficult},
		{GridPosition{X: 2, Y: 4}, TerrainWater},
		{GridPosition{X: 5, Y: 2}, TerrainPartialCover},
		{GridPosition{X: 6, Y: 5}, TerrainPit},
	}
	for _, e := range edits {
		if err := g.SetTerrain(e.p, e.kind); err != nil {
			t.Fatalf("SetTerrain(%v, %q) failed: %v", e.p, e.kind, err)
		}
	}

	g.PlaceCombatant("fighter", GridPosition{X: 0, Y: 0})
	g.PlaceCombatant("goblin_1", GridPosition{X: 7, Y: 5})
	g.PlaceCombatant("goblin_2", GridPosition{X: 5, Y: 2})

	return g
}

func TestSnapshotRoundTrip(t *testing.T) {
	g := buildScenarioGrid(t)

	snap := g.Snapshot()
	restored, err := FromSnapshot(snap)
	if err != nil {
		t.Fatalf("FromSnapshot failed: %v", err)
	}

	// Round-trip закон: снимок восстановленной сетки равен исходному
	if !reflect.DeepEqual(restored.Snapshot(), snap) {
		t.Error("restored snapshot differs from original")
	}

	// Ревизия переносится как есть, а не пересчитывается по числу правок
	if restored.Revision() != g.Revision() {
		t.Errorf("restored revision = %d, want %d", restored.Revision(), g.Revision())
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	g := buildScenarioGrid(t)
	snap := g.Snapshot()

	// Правки после снимка не должны менять уже снятый снимок
	g.SetTerrain(GridPosition{X: 0, Y: 0}, TerrainElevated)
	g.RemoveCombatant("fighter")

	if snap.Terrain[0][0] != TerrainOpen {
		t.Error("snapshot terrain changed after grid edit")
	}
	if _, ok := snap.Combatants["fighter"]; !ok {
		t.Error("snapshot combatants changed after grid edit")
	}
}

func TestSnapshotRestoresPitStander(t *testing.T) {
	g, _ := NewCombatGrid(6, 6)
	pit := GridPosition{X: 3, Y: 3}
	g.SetTerrain(pit, TerrainPit)
	g.PlaceCombatant("harpy", GridPosition{X: 2, Y: 3})
	if err := g.MoveCombatant("harpy", pit, MoveCaps{CrossPits: true}); err != nil {
		t.Fatalf("MoveCombatant failed: %v", err)
	}

	// Летающий боец на яме — легальное состояние, round-trip его сохраняет
	restored, err := FromSnapshot(g.Snapshot())
	if err != nil {
		t.Fatalf("FromSnapshot rejected a pit-standing combatant: %v", err)
	}
	if p, _ := restored.PositionOf("harpy"); p != pit {
		t.Errorf("restored position = %v, want %v", p, pit)
	}
}

func TestFromSnapshotRejectsCorrupt(t *testing.T) {
	base := buildScenarioGrid(t).Snapshot()

	tests := []struct {
		name   string
		mutate func(s *Snapshot)
	}{
		{"Unknown terrain kind", func(s *Snapshot) {
			s.Terrain[0][0] = "lava"
		}},
		{"Combatant out of bounds", func(s *Snapshot) {
			s.Combatants["fighter"] = GridPosition{X: 99, Y: 99}
		}},
		{"Combatant on a wall", func(s *Snapshot) {
			s.Combatants["fighter"] = GridPosition{X: 3, Y: 0}
		}},
		{"Two combatants on one cell", func(s *Snapshot) {
			s.Combatants["fighter"] = s.Combatants["goblin_1"]
		}},
		{"Terrain rows mismatch", func(s *Snapshot) {
			s.Terrain = s.Terrain[:len(s.Terrain)-1]
		}},
		{"Terrain row length mismatch", func(s *Snapshot) {
			s.Terrain[2] = s.Terrain[2][:3]
		}},
		{"Invalid dimensions", func(s *Snapshot) {
			s.Width = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Глубокая копия, чтобы мутации кейсов не пересекались
			snap := buildScenarioGrid(t).Snapshot()
			tt.mutate(&snap)

			if _, err := FromSnapshot(snap); err == nil {
				t.Error("FromSnapshot accepted a corrupt snapshot")
			}
		})
	}

	// Исходный снимок остался валидным
	if _, err := FromSnapshot(base); err != nil {
		t.Fatalf("FromSnapshot rejected a valid snapshot: %v", err)
	}
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrInvalidDimensions, "InvalidDimensions"},
		{ErrOutOfBounds, "OutOfBounds"},
		{ErrOccupiedCell, "OccupiedCell"},
		{ErrImpassable, "Impassable"},
		{ErrNotFound, "NotFound"},
		{ErrNoPath, "NoPath"},
		{ErrInsufficientBudget, "InsufficientBudget"},
	}

	for _, tt := range tests {
		if got := ErrorKind(tt.err); got != tt.want {
			t.Errorf("ErrorKind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
