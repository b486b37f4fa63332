package storage

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"spatial-server/internal/domain"
)

const (
	MagicHeader string = `CDGS` // 4 байта
	Version1    uint32 = 1
)

// SnapshotFileHeader — точное представление заголовка файла в памяти.
// binary.Write умеет писать это целиком: тут нет слайсов и строк,
// только массивы и числа.
type SnapshotFileHeader struct {
	Magic          [4]byte // 4 байта
	Version        uint32  // 4 байта
	Width          int32   // 4 байта
	Height         int32   // 4 байта
	Revision       uint64  // 8 байт
	CombatantCount int32   // 4 байта
}

// CombatantHeader — заголовок каждой записи бойца.
type CombatantHeader struct {
	X     int32 // 4
	Y     int32 // 4
	IDLen uint8 // 1
}

// Коды типов местности в бинарном формате. Менять нельзя:
// формат версионирован, новый тип = следующий свободный код.
var kindCodes = map[domain.TerrainKind]uint8{
	domain.TerrainOpen:         0,
	domain.TerrainDifficult:    1,
	domain.TerrainBlocking:     2,
	domain.TerrainPartialCover: 3,
	domain.TerrainFullCover:    4,
	domain.TerrainWater:        5,
	domain.TerrainPit:          6,
	domain.TerrainElevated:     7,
}

var codeKinds = func() map[uint8]domain.TerrainKind {
	m := make(map[uint8]domain.TerrainKind, len(kindCodes))
	for kind, code := range kindCodes {
		m[code] = kind
	}
	return m
}()

// SnapshotService пишет и читает бинарные снапшоты боевой сетки.
type SnapshotService struct {
	SaveDir string
}

func NewSnapshotService(dir string) *SnapshotService {
	// Создаем папку если нет
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		_ = os.MkdirAll(dir, 0755)
	}
	return &SnapshotService{SaveDir: dir}
}

// Save пишет снапшот в новый файл и возвращает его путь.
func (s *SnapshotService) Save(encounterID int, snap domain.Snapshot) (string, error) {
	filename := fmt.Sprintf("encounter_%d_%d.cdgs", encounterID, time.Now().Unix())
	path := filepath.Join(s.SaveDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := WriteSnapshot(f, snap); err != nil {
		return "", err
	}
	return path, nil
}

// WriteSnapshot сериализует снапшот в поток.
func WriteSnapshot(w io.Writer, snap domain.Snapshot) error {
	// 1. Глобальный заголовок
	header := SnapshotFileHeader{
		Version:        Version1,
		Width:          int32(snap.Width),
		Height:         int32(snap.Height),
		Revision:       snap.Revision,
		CombatantCount: int32(len(snap.Combatants)),
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// 2. Местность: по байту на клетку, ряд за рядом
	cells := make([]byte, 0, snap.Width*snap.Height)
	for y, row := range snap.Terrain {
		for x, kind := range row {
			code, ok := kindCodes[kind]
			if !ok {
				return fmt.Errorf("unknown terrain kind %q at (%d, %d)", kind, x, y)
			}
			cells = append(cells, code)
		}
	}
	if _, err := w.Write(cells); err != nil {
		return err
	}

	// 3. Бойцы. Сортируем ID, чтобы файл был детерминированным:
	// один и тот же снапшот — одни и те же байты.
	ids := make([]string, 0, len(snap.Combatants))
	for id := range snap.Combatants {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		idBytes := []byte(id)
		if len(idBytes) > 255 {
			return fmt.Errorf("combatant id too long: %d", len(idBytes))
		}

		pos := snap.Combatants[id]
		rec := CombatantHeader{
			X:     int32(pos.X),
			Y:     int32(pos.Y),
			IDLen: uint8(len(idBytes)),
		}

		if err := binary.Write(w, binary.LittleEndian, &rec); err != nil {
			return err
		}
		if _, err := w.Write(idBytes); err != nil {
			return err
		}
	}

	return nil
}
