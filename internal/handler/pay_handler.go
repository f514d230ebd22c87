package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clearpay-api/internal/constant"
	"clearpay-api/internal/dto"
	"clearpay-api/internal/middleware"
	"clearpay-api/internal/service"
	"clearpay-api/internal/utils"
)

type PayHandler struct {
	orders *service.OrderService
}

func NewPayHandler() *PayHandler {
	return &PayHandler{orders: service.NewOrderService()}
}

// Create handles POST /pay/order: mints the order and returns the signed
// widget parameters. The fee is looked up server-side; an amount in the body
// is ignored.
func (h *PayHandler) Create(c *gin.Context) {
	uid := middleware.CallerUID(c)
	if uid == 0 {
		c.JSON(http.StatusUnauthorized, utils.Error(constant.CodeUnauthorized))
		return
	}

	var req dto.CreateOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.Error(constant.CodeInvalidParams))
		return
	}

	resp, cerr := h.orders.Create(uid, req)
	if cerr != nil {
		fail := utils.CustomError(cerr.Code(), cerr.Message())
		fail.TraceID = middleware.TraceID(c)
		c.JSON(http.StatusOK, fail)
		return
	}
	c.JSON(http.StatusOK, utils.Success(resp))
}

// Get handles GET /pay/order/:id for the continuation page polling fallback.
func (h *PayHandler) Get(c *gin.Context) {
	uid := middleware.CallerUID(c)
	if uid == 0 {
		c.JSON(http.StatusUnauthorized, utils.Error(constant.CodeUnauthorized))
		return
	}

	vo, cerr := h.orders.Get(uid, c.Param("id"))
	if cerr != nil {
		c.JSON(http.StatusOK, utils.ErrorWithTrace(cerr.Code(), middleware.TraceID(c)))
		return
	}
	c.JSON(http.StatusOK, utils.Success(vo))
}

// Health handles GET /healthz.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, utils.Success(gin.H{"status": "ok"}))
}
