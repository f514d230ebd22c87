package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clearpay-api/internal/bridge"
	"clearpay-api/internal/config"
	"clearpay-api/internal/logger"
	"clearpay-api/internal/middleware"
	"clearpay-api/internal/service"
)

// CallbackHandler owns the two endpoints the gateway drives through the
// user's browser. Neither is authenticated: everything in these requests is
// untrusted input, and both must answer with the bridge page no matter what.
type CallbackHandler struct {
	payments *service.PaymentService
}

func NewCallbackHandler() *CallbackHandler {
	return &CallbackHandler{payments: service.NewPaymentService()}
}

func (h *CallbackHandler) renderBridge(c *gin.Context, msg bridge.Message) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := bridge.Render(c.Writer, msg, config.C.Server.PublicBaseURL); err != nil && logger.App != nil {
		logger.App.Errorf("[Bridge] render failed: %v", err)
	}
}

// Callback handles POST /pay/callback, the form-encoded browser redirect
// after the widget completes.
func (h *CallbackHandler) Callback(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		h.renderBridge(c, bridge.Error("malformed callback"))
		return
	}
	msg := h.payments.HandleCallback(c.Request.Context(), c.Request.PostForm, middleware.TraceID(c))
	h.renderBridge(c, msg)
}

// Close handles GET /pay/close, the widget's explicit close/cancel redirect.
// Always a CANCEL message: the order itself is finalized by the callback
// path or left to expire.
func (h *CallbackHandler) Close(c *gin.Context) {
	h.renderBridge(c, bridge.Cancel(c.Query("oid")))
}
