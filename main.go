package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"clearpay-api/internal/config"
	"clearpay-api/internal/dal"
	"clearpay-api/internal/handler"
	"clearpay-api/internal/idgen"
	"clearpay-api/internal/logger"
	"clearpay-api/internal/middleware"
	"clearpay-api/internal/mq"
)

func main() {
	// load config env
	config.Init()
	logger.Init()

	// fail fast on an incomplete credential set, before any order exists
	gw := config.MustGateway()
	log.Printf("gateway mode: %s", gw.Mode)

	// init infra
	dal.InitMainDB()
	dal.InitOrderDB()
	dal.InitRedis()
	dal.InitRabbitMQ()

	// idgen
	idgen.InitFromEnv()

	// start consumers
	go mq.StartConsumers()

	// http server
	if config.C.Server.Mode != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.Recover(), middleware.TraceAudit())

	r.GET("/healthz", handler.Health)

	v1 := r.Group("/api/v1")
	{
		ph := handler.NewPayHandler()
		ch := handler.NewCallbackHandler()

		pay := v1.Group("/pay")
		pay.POST("/order", middleware.AuthUser(), ph.Create)
		pay.GET("/order/:id", middleware.AuthUser(), ph.Get)

		// gateway-driven browser redirects, unauthenticated by nature
		pay.POST("/callback", ch.Callback)
		pay.GET("/close", ch.Close)
	}

	addr := ":" + config.C.Server.Port
	log.Printf("listening %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
