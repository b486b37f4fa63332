package api

import (
	"encoding/json"
)

// --- КЛИЕНТ -> СЕРВЕР ---

// Типы команд сессионного протокола. Каждая соответствует ровно одной
// операции движка.
const (
	CmdCreate      = "CREATE"       // создать энкаунтер
	CmdEnd         = "END"          // завершить энкаунтер
	CmdSetTerrain  = "SET_TERRAIN"  // поменять местность клетки
	CmdPlace       = "PLACE"        // поставить/переставить бойца
	CmdMove        = "MOVE"         // валидировать и зафиксировать перемещение
	CmdRemove      = "REMOVE"       // убрать бойца
	CmdValidMoves  = "VALID_MOVES"  // клетки, достижимые в пределах бюджета
	CmdAttackRange = "ATTACK_RANGE" // клетки в дальности оружия
	CmdCover       = "COVER"        // линия обзора и укрытие между бойцами
	CmdVisible     = "VISIBLE"      // поле зрения бойца (туман войны)
	CmdState       = "STATE"        // полный дамп состояния энкаунтера
	CmdSave        = "SAVE"         // снапшот на диск
)

// ClientCommand — корневой объект входящего сообщения.
type ClientCommand struct {
	Type string `json:"type"`

	// EncounterID обязателен для всех команд, кроме CREATE.
	EncounterID int `json:"encounterId,omitempty"`

	// Payload — типизированная нагрузка команды (см. *Payload ниже).
	Payload json.RawMessage `json:"payload,omitempty"`
}

// CreatePayload — параметры нового энкаунтера.
type CreatePayload struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// Template — ключ встроенного шаблона местности ("" = чистая сетка).
	Template string `json:"template,omitempty"`
}

// TerrainPayload — правка местности одной клетки.
type TerrainPayload struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Kind string `json:"kind"`
}

// PlacePayload — размещение бойца.
type PlacePayload struct {
	CombatantID string `json:"combatantId"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
}

// MovePayload — перемещение бойца с бюджетом в футах.
type MovePayload struct {
	CombatantID string `json:"combatantId"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	BudgetFeet  int    `json:"budgetFeet"`

	// CrossPits true для существ, которым ямы не преграда.
	CrossPits bool `json:"crossPits,omitempty"`

	// HostileIDs — враги для разметки атак по возможности.
	// Движок фракций не знает, их сообщает боевой контроллер.
	HostileIDs []string `json:"hostileIds,omitempty"`
}

// CombatantPayload — команда, которой достаточно одного ID.
type CombatantPayload struct {
	CombatantID string `json:"combatantId"`
}

// BudgetPayload — запрос достижимых клеток.
type BudgetPayload struct {
	CombatantID string `json:"combatantId"`
	BudgetFeet  int    `json:"budgetFeet"`
	CrossPits   bool   `json:"crossPits,omitempty"`
}

// RangePayload — запрос клеток в дальности атаки.
type RangePayload struct {
	CombatantID string `json:"combatantId"`
	RangeFeet   int    `json:"rangeFeet"`
}

// CoverPayload — запрос укрытия между атакующим и целью.
type CoverPayload struct {
	AttackerID string `json:"attackerId"`
	TargetID   string `json:"targetId"`

	// NormalRangeFeet — нормальная дальность оружия для помехи
	// на дальней дистанции (0 = не проверять).
	NormalRangeFeet int `json:"normalRangeFeet,omitempty"`
}

// VisionPayload — запрос поля зрения.
type VisionPayload struct {
	CombatantID string `json:"combatantId"`
	RadiusFeet  int    `json:"radiusFeet"`
}

// --- СЕРВЕР -> КЛИЕНТ ---

// Типы ответов сервера.
const (
	RespResult = "RESULT"
	RespError  = "ERROR"
	RespState  = "STATE"
)

// ServerResponse — корневой объект ответа. Заполняется только поле,
// соответствующее команде (остальные omitempty).
type ServerResponse struct {
	Type string `json:"type"`

	// Command — тип команды, на которую это ответ.
	Command     string `json:"command,omitempty"`
	EncounterID int    `json:"encounterId,omitempty"`

	Error *ErrorView `json:"error,omitempty"`

	State   *GridView      `json:"state,omitempty"`
	Move    *MoveView      `json:"move,omitempty"`
	Cells   []CellView     `json:"cells,omitempty"`
	Cover   *CoverView     `json:"cover,omitempty"`
	Visible []PositionView `json:"visible,omitempty"`

	// SavedTo — путь файла снапшота (ответ на SAVE).
	SavedTo string `json:"savedTo,omitempty"`
}

// ErrorView — структурированная ошибка протокола.
// Kind — машинный код (OutOfBounds, NoPath, ...), Message — для человека.
type ErrorView struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// PositionView — DTO клетки.
type PositionView struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// TileView — DTO одного тайла карты со всеми производными свойствами,
// чтобы клиент не дублировал таблицу местности.
type TileView struct {
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Kind        string `json:"kind"`
	BlocksSight bool   `json:"blocksSight"`
	Cover       string `json:"cover"`

	// MoveMult — множитель стоимости шага. 0 = клетка непроходима.
	MoveMult int `json:"moveMult"`
}

// CombatantView — DTO бойца на сетке.
type CombatantView struct {
	ID string `json:"id"`
	X  int    `json:"x"`
	Y  int    `json:"y"`
}

// GridView — полный снимок энкаунтера для клиента.
type GridView struct {
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Revision   uint64          `json:"revision"`
	Tiles      []TileView      `json:"tiles"`
	Combatants []CombatantView `json:"combatants"`
}

// StepView — один шаг зафиксированного пути с сигналом атаки
// по возможности для внешнего боевого контроллера.
type StepView struct {
	From      PositionView `json:"from"`
	To        PositionView `json:"to"`
	Provokes  bool         `json:"provokes"`
	Attackers []string     `json:"attackers,omitempty"`
}

// MoveView — результат команды MOVE.
type MoveView struct {
	Path     []PositionView `json:"path"`
	CostFeet int            `json:"costFeet"`
	Steps    []StepView     `json:"steps"`
}

// CellView — клетка со стоимостью достижения (VALID_MOVES)
// или без нее (ATTACK_RANGE).
type CellView struct {
	X        int `json:"x"`
	Y        int `json:"y"`
	CostFeet int `json:"costFeet,omitempty"`
}

// CoverView — результат запроса укрытия.
type CoverView struct {
	HasClearPath bool   `json:"hasClearPath"`
	Cover        string `json:"cover"`
	ACBonus      int    `json:"acBonus"`
	Untargetable bool   `json:"untargetable"`
	Disadvantage bool   `json:"disadvantage"`
	DistanceFeet int    `json:"distanceFeet"`
}
