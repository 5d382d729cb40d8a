package main

import (
	"log"

	"github.com/aldairalfaro98/prueba-agent-toteat/configs"
	"github.com/aldairalfaro98/prueba-agent-toteat/routes"
	"github.com/aldairalfaro98/prueba-agent-toteat/ws"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := configs.LoadConfig()

	// DB
	configs.ConnectionDB(cfg.DBSource)
	configs.SetupDatabase()

	if err := configs.SeedLookups(); err != nil {
		log.Fatalf("seed lookups failed: %v", err)
	}
	if err := configs.SeedAdmin(); err != nil {
		log.Fatalf("seed admin failed: %v", err)
	}

	hub := ws.NewKitchenHub()
	go hub.Run()

	r := gin.Default()
	routes.RegisterRoutes(r, hub)

	log.Println("listening on :" + cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
