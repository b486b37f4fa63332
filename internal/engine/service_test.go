package engine

import (
	"errors"
	"testing"

	"spatial-server/internal/domain"
)

func newTestService(t *testing.T, maxEncounters int) *CombatService {
	t.Helper()
	return NewService(Config{
		Port:          "0",
		SaveDir:       t.TempDir(),
		MaxEncounters: maxEncounters,
	})
}

func TestCreateEncounter(t *testing.T) {
	s := newTestService(t, 4)

	enc, err := s.CreateEncounter(10, 10, "")
	if err != nil {
		t.Fatalf("CreateEncounter failed: %v", err)
	}
	if enc.ID != 1 {
		t.Errorf("first encounter ID = %d, want 1", enc.ID)
	}

	got, err := s.Encounter(enc.ID)
	if err != nil {
		t.Fatalf("Encounter lookup failed: %v", err)
	}
	if got != enc {
		t.Error("Encounter returned a different instance")
	}

	// Невалидные размеры пробрасываются из домена
	if _, err := s.CreateEncounter(0, 10, ""); !errors.Is(err, domain.ErrInvalidDimensions) {
		t.Errorf("expected ErrInvalidDimensions, got %v", err)
	}

	// Неизвестный шаблон
	if _, err := s.CreateEncounter(10, 10, "volcano_lair"); err == nil {
		t.Error("CreateEncounter accepted an unknown template")
	}

	// Шаблонный энкаунтер
	if _, err := s.CreateEncounter(20, 15, "forest_clearing"); err != nil {
		t.Errorf("CreateEncounter with template failed: %v", err)
	}
}

func TestEncounterLimit(t *testing.T) {
	s := newTestService(t, 2)

	if _, err := s.CreateEncounter(5, 5, ""); err != nil {
		t.Fatalf("CreateEncounter failed: %v", err)
	}
	if _, err := s.CreateEncounter(5, 5, ""); err != nil {
		t.Fatalf("CreateEncounter failed: %v", err)
	}
	if _, err := s.CreateEncounter(5, 5, ""); err == nil {
		t.Error("encounter limit not enforced")
	}

	// Завершение энкаунтера освобождает слот
	s.EndEncounter(1)
	if _, err := s.CreateEncounter(5, 5, ""); err != nil {
		t.Errorf("CreateEncounter after EndEncounter failed: %v", err)
	}
}

func TestEndEncounter(t *testing.T) {
	s := newTestService(t, 4)
	enc, _ := s.CreateEncounter(5, 5, "")

	s.EndEncounter(enc.ID)
	if _, err := s.Encounter(enc.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound after EndEncounter, got %v", err)
	}

	// Идемпотентность
	s.EndEncounter(enc.ID)
	s.EndEncounter(999)
}

func TestSaveAndLoadEncounter(t *testing.T) {
	s := newTestService(t, 4)

	enc, err := s.CreateEncounter(12, 9, "")
	if err != nil {
		t.Fatalf("CreateEncounter failed: %v", err)
	}
	enc.SetTerrain(domain.GridPosition{X: 3, Y: 3}, domain.TerrainBlocking)
	enc.SetTerrain(domain.GridPosition{X: 4, Y: 4}, domain.TerrainDifficult)
	enc.PlaceCombatant("fighter", domain.GridPosition{X: 1, Y: 1})

	path, err := s.SaveEncounter(enc.ID)
	if err != nil {
		t.Fatalf("SaveEncounter failed: %v", err)
	}

	loaded, err := s.LoadEncounter(path)
	if err != nil {
		t.Fatalf("LoadEncounter failed: %v", err)
	}
	if loaded.ID == enc.ID {
		t.Error("loaded encounter must get a fresh ID")
	}

	// Снапшоты совпадают с точностью до полей состояния
	a, b := enc.Snapshot(), loaded.Snapshot()
	if a.Revision != b.Revision {
		t.Errorf("revision = %d, want %d", b.Revision, a.Revision)
	}
	if len(a.Combatants) != len(b.Combatants) {
		t.Errorf("combatants = %d, want %d", len(b.Combatants), len(a.Combatants))
	}
	if b.Terrain[3][3] != domain.TerrainBlocking {
		t.Error("terrain lost across save/load")
	}

	// Сохранение несуществующего энкаунтера
	if _, err := s.SaveEncounter(999); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
