package game

import (
	"errors"
	"net/http"

	"github.com/aryan2709-code/InkThink/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type gameHandler struct {
	registry   RegistryClient
	userGetter UserGetter
}

func NewGameHandler(registry RegistryClient, userGetter UserGetter) *gameHandler {
	return &gameHandler{registry: registry, userGetter: userGetter}
}

// ConnectHandler authenticates the caller, upgrades to a websocket and
// starts the connection's pumps. Room membership happens later, through
// createRoom/joinRoom events on the socket itself.
func (h *gameHandler) ConnectHandler(ctx *gin.Context) {
	userId := ctx.GetString("id")
	if userId == "" {
		ctx.String(http.StatusUnauthorized, "unauthenticated")
		return
	}

	user, err := h.userGetter.GetUserById(ctx.Request.Context(), userId)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			ctx.String(http.StatusUnauthorized, "user-not-found")
			return
		}
		log.Error().Err(err).Str("user", userId).Msg("failed to resolve user")
		ctx.String(http.StatusInternalServerError, "failed-to-get-user")
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("ip", ctx.ClientIP()).Msg("websocket upgrade failed")
		return
	}

	socket := NewGorillaWebSocketWrapper(conn)
	// one connection identity per socket, even for the same account
	p := NewPlayer(uuid.NewString(), user.Username, h.registry)

	log.Info().Str("player", user.Username).Str("conn", p.Id()).Msg("player connected")
	go p.ReadPump(socket)
	go p.WritePump(socket)
}

func RegisterRoutes(engine *gin.Engine, h *gameHandler, requireAuth gin.HandlerFunc) {
	grp := engine.Group("/game")
	grp.Use(requireAuth)
	grp.GET("/ws", h.ConnectHandler)
}
