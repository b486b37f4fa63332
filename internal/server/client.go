package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"spatial-server/internal/domain"
	"spatial-server/internal/engine"
	"spatial-server/internal/network"
	"spatial-server/pkg/api"
	"spatial-server/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Счетчик для ID сессий. Атомарный: клиенты подключаются конкурентно.
var clientSeq uint64

// Client - посредник между Websocket и CombatService
type Client struct {
	Service  *engine.CombatService
	Hub      *network.Broadcaster
	Conn     *websocket.Conn
	Send     chan api.ServerResponse
	ClientID string
}

func NewClient(service *engine.CombatService, hub *network.Broadcaster, conn *websocket.Conn) *Client {
	return &Client{
		Service:  service,
		Hub:      hub,
		Conn:     conn,
		Send:     make(chan api.ServerResponse, 256),
		ClientID: fmt.Sprintf("session_%d", atomic.AddUint64(&clientSeq, 1)),
	}
}

// readPump читает команды от клиента
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(c.ClientID)
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Warn("failed to close websocket connection")
		}
		logger.Log.WithField("client_id", c.ClientID).Info("Client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			logger.Log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	// Подписка на обновления энкаунтеров
	updates := c.Hub.Register(c.ClientID)
	go func() {
		for msg := range updates {
			c.Send <- msg
		}
		close(c.Send)
	}()

	logger.Log.WithField("client_id", c.ClientID).Info("Client connected")

	// Цикл чтения команд
	for {
		var cmd api.ClientCommand
		if err := c.Conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Errorf("WS Error: %v", err)
			}
			break
		}
		c.Hub.SendTo(c.ClientID, c.handleCommand(cmd))
	}
}

// handleCommand выполняет одну команду протокола и строит ответ.
// Мутации дополнительно рассылают STATE всем, кто смотрит на энкаунтер.
func (c *Client) handleCommand(cmd api.ClientCommand) api.ServerResponse {
	cmdLogger := logger.Log.WithFields(logrus.Fields{
		"component":    "session",
		"client_id":    c.ClientID,
		"command":      cmd.Type,
		"encounter_id": cmd.EncounterID,
	})
	cmdLogger.Debug("Command received")

	resp, mutated := c.dispatch(cmd)

	if resp.Error != nil {
		cmdLogger.WithField("error_kind", resp.Error.Kind).Warn(resp.Error.Message)
		return resp
	}

	if mutated {
		c.broadcastState(resp.EncounterID)
	}
	return resp
}

// dispatch — собственно маршрутизация. Возвращает ответ и флаг
// «состояние энкаунтера изменилось».
func (c *Client) dispatch(cmd api.ClientCommand) (api.ServerResponse, bool) {
	switch cmd.Type {
	case api.CmdCreate:
		var p api.CreatePayload
		if resp, ok := decodePayload(cmd, &p); !ok {
			return resp, false
		}
		enc, err := c.Service.CreateEncounter(p.Width, p.Height, p.Template)
		if err != nil {
			return errorResponse(cmd, err), false
		}
		c.Hub.Watch(c.ClientID, enc.ID)
		return api.ServerResponse{
			Type:        api.RespResult,
			Command:     cmd.Type,
			EncounterID: enc.ID,
			State:       buildGridView(enc.Snapshot()),
		}, false

	case api.CmdEnd:
		c.Service.EndEncounter(cmd.EncounterID)
		return okResponse(cmd), false

	case api.CmdSetTerrain:
		var p api.TerrainPayload
		if resp, ok := decodePayload(cmd, &p); !ok {
			return resp, false
		}
		enc, err := c.Service.Encounter(cmd.EncounterID)
		if err != nil {
			return errorResponse(cmd, err), false
		}
		pos := domain.GridPosition{X: p.X, Y: p.Y}
		if err := enc.SetTerrain(pos, domain.TerrainKind(p.Kind)); err != nil {
			return errorResponse(cmd, err), false
		}
		return okResponse(cmd), true

	case api.CmdPlace:
		var p api.PlacePayload
		if resp, ok := decodePayload(cmd, &p); !ok {
			return resp, false
		}
		enc, err := c.Service.Encounter(cmd.EncounterID)
		if err != nil {
			return errorResponse(cmd, err), false
		}
		if err := enc.PlaceCombatant(p.CombatantID, domain.GridPosition{X: p.X, Y: p.Y}); err != nil {
			return errorResponse(cmd, err), false
		}
		return okResponse(cmd), true

	case api.CmdMove:
		var p api.MovePayload
		if resp, ok := decodePayload(cmd, &p); !ok {
			return resp, false
		}
		enc, err := c.Service.Encounter(cmd.EncounterID)
		if err != nil {
			return errorResponse(cmd, err), false
		}
		caps := domain.MoveCaps{CrossPits: p.CrossPits}
		res, err := enc.MoveCombatant(p.CombatantID, domain.GridPosition{X: p.X, Y: p.Y}, p.BudgetFeet, caps, p.HostileIDs)
		if err != nil {
			return errorResponse(cmd, err), false
		}
		return api.ServerResponse{
			Type:        api.RespResult,
			Command:     cmd.Type,
			EncounterID: cmd.EncounterID,
			Move:        buildMoveView(res),
		}, true

	case api.CmdRemove:
		var p api.CombatantPayload
		if resp, ok := decodePayload(cmd, &p); !ok {
			return resp, false
		}
		enc, err := c.Service.Encounter(cmd.EncounterID)
		if err != nil {
			return errorResponse(cmd, err), false
		}
		enc.RemoveCombatant(p.CombatantID)
		return okResponse(cmd), true

	case api.CmdValidMoves:
		var p api.BudgetPayload
		if resp, ok := decodePayload(cmd, &p); !ok {
			return resp, false
		}
		enc, err := c.Service.Encounter(cmd.EncounterID)
		if err != nil {
			return errorResponse(cmd, err), false
		}
		reachable, err := enc.ValidMoves(p.CombatantID, p.BudgetFeet, domain.MoveCaps{CrossPits: p.CrossPits})
		if err != nil {
			return errorResponse(cmd, err), false
		}
		return api.ServerResponse{
			Type:        api.RespResult,
			Command:     cmd.Type,
			EncounterID: cmd.EncounterID,
			Cells:       buildReachableCells(reachable),
		}, false

	case api.CmdAttackRange:
		var p api.RangePayload
		if resp, ok := decodePayload(cmd, &p); !ok {
			return resp, false
		}
		enc, err := c.Service.Encounter(cmd.EncounterID)
		if err != nil {
			return errorResponse(cmd, err), false
		}
		cells, err := enc.AttackRange(p.CombatantID, p.RangeFeet)
		if err != nil {
			return errorResponse(cmd, err), false
		}
		return api.ServerResponse{
			Type:        api.RespResult,
			Command:     cmd.Type,
			EncounterID: cmd.EncounterID,
			Cells:       buildRangeCells(cells),
		}, false

	case api.CmdCover:
		var p api.CoverPayload
		if resp, ok := decodePayload(cmd, &p); !ok {
			return resp, false
		}
		enc, err := c.Service.Encounter(cmd.EncounterID)
		if err != nil {
			return errorResponse(cmd, err), false
		}
		res, err := enc.Cover(p.AttackerID, p.TargetID, p.NormalRangeFeet)
		if err != nil {
			return errorResponse(cmd, err), false
		}
		return api.ServerResponse{
			Type:        api.RespResult,
			Command:     cmd.Type,
			EncounterID: cmd.EncounterID,
			Cover:       buildCoverView(res),
		}, false

	case api.CmdVisible:
		var p api.VisionPayload
		if resp, ok := decodePayload(cmd, &p); !ok {
			return resp, false
		}
		enc, err := c.Service.Encounter(cmd.EncounterID)
		if err != nil {
			return errorResponse(cmd, err), false
		}
		visible, err := enc.VisibleCells(p.CombatantID, p.RadiusFeet)
		if err != nil {
			return errorResponse(cmd, err), false
		}
		return api.ServerResponse{
			Type:        api.RespResult,
			Command:     cmd.Type,
			EncounterID: cmd.EncounterID,
			Visible:     buildVisibleCells(visible),
		}, false

	case api.CmdState:
		enc, err := c.Service.Encounter(cmd.EncounterID)
		if err != nil {
			return errorResponse(cmd, err), false
		}
		c.Hub.Watch(c.ClientID, enc.ID)
		return api.ServerResponse{
			Type:        api.RespState,
			Command:     cmd.Type,
			EncounterID: cmd.EncounterID,
			State:       buildGridView(enc.Snapshot()),
		}, false

	case api.CmdSave:
		path, err := c.Service.SaveEncounter(cmd.EncounterID)
		if err != nil {
			return errorResponse(cmd, err), false
		}
		return api.ServerResponse{
			Type:        api.RespResult,
			Command:     cmd.Type,
			EncounterID: cmd.EncounterID,
			SavedTo:     path,
		}, false

	default:
		return api.ServerResponse{
			Type:    api.RespError,
			Command: cmd.Type,
			Error:   &api.ErrorView{Kind: "unknown_command", Message: fmt.Sprintf("unknown command %q", cmd.Type)},
		}, false
	}
}

// broadcastState рассылает свежий снимок энкаунтера его зрителям.
func (c *Client) broadcastState(encounterID int) {
	enc, err := c.Service.Encounter(encounterID)
	if err != nil {
		return // Энкаунтер уже завершен
	}
	c.Hub.BroadcastEncounter(encounterID, api.ServerResponse{
		Type:        api.RespState,
		EncounterID: encounterID,
		State:       buildGridView(enc.Snapshot()),
	})
}

// decodePayload разбирает и валидирует нагрузку команды.
// target — указатель на *Payload; все нагрузки реализуют api.Validator.
func decodePayload(cmd api.ClientCommand, target api.Validator) (api.ServerResponse, bool) {
	if err := json.Unmarshal(cmd.Payload, target); err != nil {
		return api.ServerResponse{
			Type:        api.RespError,
			Command:     cmd.Type,
			EncounterID: cmd.EncounterID,
			Error:       &api.ErrorView{Kind: "bad_payload", Message: err.Error()},
		}, false
	}
	if err := target.Validate(); err != nil {
		return api.ServerResponse{
			Type:        api.RespError,
			Command:     cmd.Type,
			EncounterID: cmd.EncounterID,
			Error:       &api.ErrorView{Kind: "bad_payload", Message: err.Error()},
		}, false
	}
	return api.ServerResponse{}, true
}

func errorResponse(cmd api.ClientCommand, err error) api.ServerResponse {
	return api.ServerResponse{
		Type:        api.RespError,
		Command:     cmd.Type,
		EncounterID: cmd.EncounterID,
		Error:       &api.ErrorView{Kind: domain.ErrorKind(err), Message: err.Error()},
	}
}

func okResponse(cmd api.ClientCommand) api.ServerResponse {
	return api.ServerResponse{
		Type:        api.RespResult,
		Command:     cmd.Type,
		EncounterID: cmd.EncounterID,
	}
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Warn("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					logger.Log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				logger.Log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
