package network

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"quadpong/logger"
	"quadpong/protocol"
	"quadpong/room"
	"quadpong/session"
)

type Server struct {
	room     *room.Room
	upgrader websocket.Upgrader
}

// NewServer serves r. An empty allowedOrigin accepts any origin.
func NewServer(r *room.Room, allowedOrigin string) *Server {
	return &Server{
		room: r,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(req *http.Request) bool {
				if allowedOrigin == "" {
					return true
				}
				return req.Header.Get("Origin") == allowedOrigin
			},
		},
	}
}

// NewRouter mounts /ws, /healthz and /metrics.
func NewRouter(s *Server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/ws", s.HandleWS)
	r.GET("/healthz", s.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

func (s *Server) Health(c *gin.Context) {
	st := s.room.Stats()
	c.JSON(http.StatusOK, gin.H{
		"ok":           true,
		"status":       st.Status,
		"participants": st.Participants,
		"connections":  st.Connections,
	})
}

func (s *Server) HandleWS(c *gin.Context) {
	codec, err := protocol.ParseCodec(c.Query("codec"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ws, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "remote", c.ClientIP(), "error", err)
		return
	}

	id := session.NewID()
	log := logger.With("component", "network", "participant", id)
	conn := newConn(id, ws, codec, log)
	go conn.writePump()

	if err := s.room.Submit(room.Attach{ID: id, Conn: conn}); err != nil {
		log.Warn("room closed, dropping connection", "error", err)
		conn.Close()
		return
	}
	log.Info("connection attached", "codec", codec.String(), "remote", c.ClientIP())
	conn.readPump(s.room)
}
