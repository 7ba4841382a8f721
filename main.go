package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"teamboard/config"
	"teamboard/connection"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	gin.SetMode(gin.ReleaseMode)
	connection.StartServer(cfg)
}
