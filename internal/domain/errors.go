package domain

import "errors"

// Все ошибки движка локальны и детерминированы: операция либо
// полностью применяется, либо полностью отклоняется с одной из них.
// Проверять через errors.Is — на границе сервиса они оборачиваются контекстом.
var (
	ErrInvalidDimensions  = errors.New("invalid grid dimensions")
	ErrOutOfBounds        = errors.New("position is outside grid bounds")
	ErrOccupiedCell       = errors.New("cell is occupied by another combatant")
	ErrImpassable         = errors.New("tile is impassable")
	ErrNotFound           = errors.New("combatant not found on grid")
	ErrNoPath             = errors.New("no path to destination")
	ErrInsufficientBudget = errors.New("insufficient movement budget")
)

// ErrorKind возвращает строковый код ошибки для протокола.
// Неизвестные ошибки получают код "internal".
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidDimensions):
		return "InvalidDimensions"
	case errors.Is(err, ErrOutOfBounds):
		return "OutOfBounds"
	case errors.Is(err, ErrOccupiedCell):
		return "OccupiedCell"
	case errors.Is(err, ErrImpassable):
		return "Impassable"
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	case errors.Is(err, ErrNoPath):
		return "NoPath"
	case errors.Is(err, ErrInsufficientBudget):
		return "InsufficientBudget"
	default:
		return "internal"
	}
}
