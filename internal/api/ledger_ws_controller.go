package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Разрешаем подключения с любого origin
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// LedgerWSController отдает события учета по WebSocket
type LedgerWSController struct {
	hub *Hub
}

// NewLedgerWSController создает WebSocket контроллер
func NewLedgerWSController(hub *Hub) *LedgerWSController {
	return &LedgerWSController{hub: hub}
}

// Serve обрабатывает WebSocket подключения
// GET /api/v1/ledger/ws
func (wc *LedgerWSController) Serve(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("⚠️ Ошибка обновления WebSocket соединения")
		return
	}

	wc.hub.AddClient(conn)
	log.Info().Msgf("🖥️ Клиент учета подключен. Всего подключений: %d", wc.hub.GetClientsCount())

	defer func() {
		wc.hub.RemoveClient(conn)
		log.Info().Msgf("🖥️ Клиент учета отключен. Осталось подключений: %d", wc.hub.GetClientsCount())
	}()

	// Читаем сообщения от клиента только ради ping/pong и обнаружения закрытия
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Msg("⚠️ WebSocket ошибка")
			}
			break
		}
	}
}
