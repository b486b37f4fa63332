package domain

import "testing"

func TestClassifyTotality(t *testing.T) {
	kinds := []TerrainKind{
		TerrainOpen, TerrainDifficult, TerrainBlocking, TerrainPartialCover,
		TerrainFullCover, TerrainWater, TerrainPit, TerrainElevated,
	}

	for _, kind := range kinds {
		if _, ok := Classify(kind); !ok {
			t.Errorf("Classify(%q) not in terrain table", kind)
		}
	}

	if _, ok := Classify("lava"); ok {
		t.Error("Classify accepted unknown terrain kind")
	}
}

func TestTerrainProps(t *testing.T) {
	tests := []struct {
		kind        TerrainKind
		moveMult    int
		blocksSight bool
		cover       CoverGrade
	}{
		{TerrainOpen, 1, false, CoverNone},
		{TerrainDifficult, 2, false, CoverNone},
		{TerrainBlocking, 0, true, CoverFull},
		{TerrainPartialCover, 1, false, CoverHalf},
		{TerrainFullCover, 1, false, CoverFull},
		{TerrainWater, 2, false, CoverNone},
		{TerrainPit, 0, false, CoverNone},
		{TerrainElevated, 1, false, CoverNone},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			props, ok := Classify(tt.kind)
			if !ok {
				t.Fatalf("Classify(%q) failed", tt.kind)
			}
			if props.MoveMult != tt.moveMult {
				t.Errorf("MoveMult = %d, want %d", props.MoveMult, tt.moveMult)
			}
			if props.BlocksSight != tt.blocksSight {
				t.Errorf("BlocksSight = %v, want %v", props.BlocksSight, tt.blocksSight)
			}
			if props.Cover != tt.cover {
				t.Errorf("Cover = %v, want %v", props.Cover, tt.cover)
			}
		})
	}
}

func TestBlocksSightOnlyBlocking(t *testing.T) {
	// Обзор перекрывает ровно один тип — blocking.
	// full_cover дает полное укрытие, но линию обзора НЕ рвет.
	for kind, props := range terrainTable {
		want := kind == TerrainBlocking
		if props.BlocksSight != want {
			t.Errorf("terrain %q: BlocksSight = %v, want %v", kind, props.BlocksSight, want)
		}
	}
}

func TestIsPassable(t *testing.T) {
	tests := []struct {
		name string
		kind TerrainKind
		caps MoveCaps
		want bool
	}{
		{"Open passable", TerrainOpen, MoveCaps{}, true},
		{"Difficult passable", TerrainDifficult, MoveCaps{}, true},
		{"Blocking impassable", TerrainBlocking, MoveCaps{}, false},
		{"Blocking impassable even flying", TerrainBlocking, MoveCaps{CrossPits: true}, false},
		{"Pit impassable by default", TerrainPit, MoveCaps{}, false},
		{"Pit passable with crossing caps", TerrainPit, MoveCaps{CrossPits: true}, true},
		{"Full cover passable", TerrainFullCover, MoveCaps{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tile := TerrainTile{Kind: tt.kind}
			if got := IsPassable(tile, tt.caps); got != tt.want {
				t.Errorf("IsPassable(%q, %+v) = %v, want %v", tt.kind, tt.caps, got, tt.want)
			}
		})
	}
}

func TestStepMult(t *testing.T) {
	tests := []struct {
		name string
		kind TerrainKind
		caps MoveCaps
		want int
	}{
		{"Open x1", TerrainOpen, MoveCaps{}, 1},
		{"Difficult x2", TerrainDifficult, MoveCaps{}, 2},
		{"Water x2", TerrainWater, MoveCaps{}, 2},
		{"Blocking no edge", TerrainBlocking, MoveCaps{}, 0},
		{"Pit no edge", TerrainPit, MoveCaps{}, 0},
		{"Pit x1 with crossing caps", TerrainPit, MoveCaps{CrossPits: true}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tile := TerrainTile{Kind: tt.kind}
			if got := StepMult(tile, tt.caps); got != tt.want {
				t.Errorf("StepMult(%q, %+v) = %d, want %d", tt.kind, tt.caps, got, tt.want)
			}
		})
	}
}

func TestCoverGradeOrdering(t *testing.T) {
	// Порядок степеней укрытия используется правилом максимума в sight-системе.
	if !(CoverNone < CoverHalf && CoverHalf < CoverThreeQuarters && CoverThreeQuarters < CoverFull) {
		t.Fatal("cover grades are not strictly ordered")
	}

	if CoverHalf.String() != "half" || CoverFull.String() != "full" {
		t.Error("unexpected cover grade names")
	}
}
