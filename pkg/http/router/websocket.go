package router

import (
	"net"
	"net/http"

	"github.com/gobwas/ws"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// snapshotStream upgrades the request and subscribes the client to every snapshot the control loop publishes.
func (api *API) snapshotStream(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, _, hs, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		api.log.Info("upgrade error", zap.Error(err), zap.String("remote", r.RemoteAddr))
		return
	}

	api.log.Info("established websocket connection", zap.String("connection name", nameConn(conn)),
		zap.String("protocol", hs.Protocol))

	user := api.hub.Register(conn)
	go func() {
		err := user.Listen()
		api.log.Info("websocket client left", zap.String("connection name", nameConn(conn)), zap.Error(err))
		api.hub.Remove(user)
	}()
}

func nameConn(conn net.Conn) string {
	return conn.LocalAddr().String() + " > " + conn.RemoteAddr().String()
}
