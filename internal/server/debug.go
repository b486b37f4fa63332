package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"spatial-server/internal/engine"
	"spatial-server/pkg/battlemap"
)

// DebugHandler предоставляет доступ к внутреннему состоянию движка
type DebugHandler struct {
	Service *engine.CombatService
}

func NewDebugHandler(s *engine.CombatService) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/encounters", h.handleListEncounters)
	mux.HandleFunc("/debug/encounter", h.handleDumpEncounter)
	mux.HandleFunc("/debug/templates", h.handleListTemplates)
}

// /debug/encounters - список активных энкаунтеров
func (h *DebugHandler) handleListEncounters(w http.ResponseWriter, r *http.Request) {
	type EncounterSummary struct {
		EncounterID    int    `json:"encounter_id"`
		Width          int    `json:"width"`
		Height         int    `json:"height"`
		CombatantCount int    `json:"combatant_count"`
		Revision       uint64 `json:"revision"`
	}

	var summary []EncounterSummary

	for _, id := range h.Service.EncounterIDs() {
		enc, err := h.Service.Encounter(id)
		if err != nil {
			continue // Завершился между списком и запросом
		}
		snap := enc.Snapshot()
		summary = append(summary, EncounterSummary{
			EncounterID:    id,
			Width:          snap.Width,
			Height:         snap.Height,
			CombatantCount: len(snap.Combatants),
			Revision:       snap.Revision,
		})
	}

	writeJSON(w, summary)
}

// /debug/encounter?id=1 - полный дамп состояния энкаунтера
func (h *DebugHandler) handleDumpEncounter(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get("id")
	var id int
	fmt.Sscanf(idStr, "%d", &id)

	enc, err := h.Service.Encounter(id)
	if err != nil {
		http.Error(w, "Encounter not found", http.StatusNotFound)
		return
	}

	writeJSON(w, buildGridView(enc.Snapshot()))
}

// /debug/templates - встроенные шаблоны местности
func (h *DebugHandler) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, battlemap.Names())
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	// Разрешаем запросы с любого источника (нужно для локального debug_client.html)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	// Если data == nil (например, ни одного энкаунтера), возвращаем [], а не null
	if data == nil {
		w.Write([]byte("[]"))
		return
	}

	json.NewEncoder(w).Encode(data)
}
