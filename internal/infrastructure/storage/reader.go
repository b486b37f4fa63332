package storage

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"spatial-server/internal/domain"
)

// Load читает снапшот из файла.
func (s *SnapshotService) Load(path string) (domain.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Snapshot{}, err
	}
	defer f.Close()

	return ReadSnapshot(f)
}

// ReadSnapshot десериализует снапшот из потока.
// Битый файл — ошибка, а не частично восстановленное состояние.
func ReadSnapshot(r io.Reader) (domain.Snapshot, error) {
	// 1. Читаем заголовок целиком
	var header SnapshotFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to read header: %w", err)
	}

	if string(header.Magic[:]) != MagicHeader {
		return domain.Snapshot{}, fmt.Errorf("invalid magic header: %q", header.Magic)
	}
	if header.Version != Version1 {
		return domain.Snapshot{}, fmt.Errorf("unsupported snapshot version: %d", header.Version)
	}

	width := int(header.Width)
	height := int(header.Height)
	if width <= 0 || height <= 0 || width > domain.MaxGridDimension || height > domain.MaxGridDimension {
		return domain.Snapshot{}, fmt.Errorf("snapshot dimensions out of range: %dx%d", width, height)
	}
	if header.CombatantCount < 0 {
		return domain.Snapshot{}, fmt.Errorf("negative combatant count: %d", header.CombatantCount)
	}

	// 2. Местность
	cells := make([]byte, width*height)
	if _, err := io.ReadFull(r, cells); err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to read terrain: %w", err)
	}

	terrain := make([][]domain.TerrainKind, height)
	for y := 0; y < height; y++ {
		row := make([]domain.TerrainKind, width)
		for x := 0; x < width; x++ {
			code := cells[y*width+x]
			kind, ok := codeKinds[code]
			if !ok {
				return domain.Snapshot{}, fmt.Errorf("unknown terrain code %d at (%d, %d)", code, x, y)
			}
			row[x] = kind
		}
		terrain[y] = row
	}

	// 3. Бойцы
	combatants := make(map[string]domain.GridPosition, header.CombatantCount)
	for i := int32(0); i < header.CombatantCount; i++ {
		var rec CombatantHeader
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return domain.Snapshot{}, fmt.Errorf("failed to read combatant %d: %w", i, err)
		}

		idBytes := make([]byte, rec.IDLen)
		if _, err := io.ReadFull(r, idBytes); err != nil {
			return domain.Snapshot{}, fmt.Errorf("failed to read combatant %d id: %w", i, err)
		}

		id := string(idBytes)
		if _, dup := combatants[id]; dup {
			return domain.Snapshot{}, fmt.Errorf("duplicate combatant id %q", id)
		}
		combatants[id] = domain.GridPosition{X: int(rec.X), Y: int(rec.Y)}
	}

	return domain.Snapshot{
		Width:      width,
		Height:     height,
		Terrain:    terrain,
		Combatants: combatants,
		Revision:   header.Revision,
	}, nil
}
