package main

import (
	"log"

	"github.com/Emannuh254/Forexpro/internal/config"
	"github.com/Emannuh254/Forexpro/internal/database"
	routes "github.com/Emannuh254/Forexpro/internal/server"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Cargar configuración (lee .env si existe)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error al cargar la configuración: %v", err)
	}

	// Crear el router de Gin
	router := gin.Default()

	// Configurar CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length"}
	router.Use(cors.New(corsConfig))

	// Inicializar base de datos
	if err := database.InitDB(); err != nil {
		log.Fatalf("Error al inicializar la base de datos: %v", err)
	}
	defer database.DB.Close()

	// Asegurar la cuenta de administrador
	if err := database.SeedAdmin(database.DB, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("Error al crear la cuenta de administrador: %v", err)
	}

	// Configurar las rutas
	routes.RegisterRoutes(router, database.DB, cfg)

	// Iniciar el servidor
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Error al iniciar el servidor: %v", err)
	}
}
