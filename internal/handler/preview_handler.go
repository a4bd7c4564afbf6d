package handler

import (
	"strings"

	"sitebuilder-be/internal/pkg/logger"
	"sitebuilder-be/internal/relay"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// PreviewHandler upgrades preview connections and hands them to the relay
// hub. The socket is unauthenticated: a preview window holds no token and
// viewers are read-only anyway.
type PreviewHandler struct {
	hub    *relay.Hub
	logger logger.ILogger
}

func NewPreviewHandler(hub *relay.Hub, log logger.ILogger) *PreviewHandler {
	return &PreviewHandler{hub: hub, logger: log}
}

// ServeWs handles websocket requests from preview and builder windows.
func (h *PreviewHandler) ServeWs(c *fiber.Ctx) error {
	role := resolveRole(c)

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("PreviewHandler", "Starting preview socket", map[string]interface{}{"role": role})
			h.hub.Serve(conn, role)
			h.logger.Info("PreviewHandler", "Preview socket ended", map[string]interface{}{"role": role})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// resolveRole decides whether a connection may push updates. The builder UI
// connects with role=editor; older builds only send mode=builder, so that
// keeps working. Everything else is a passive viewer.
func resolveRole(c *fiber.Ctx) relay.Role {
	if c.Query("role") == "editor" {
		return relay.RoleEditor
	}
	if strings.Contains(c.Query("mode"), "builder") {
		return relay.RoleEditor
	}
	return relay.RoleViewer
}

// RegisterRoutes mounts the preview socket at the given path.
func (h *PreviewHandler) RegisterRoutes(app *fiber.App, path string) {
	app.Get(path, h.ServeWs)
}
