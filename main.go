package main

import (
	"log"
	"os"

	"mp3stego-backend/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	router := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = []string{corsOrigin()}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	config.ExposeHeaders = []string{"X-Stego-PSNR", "X-Stego-Quality", "X-Stego-Message", "X-Stego-Capacity", "Content-Disposition"}
	config.AllowCredentials = true
	router.Use(cors.New(config))

	stegoHandler := handlers.NewStegoHandler()

	// API Routes
	api := router.Group("/api/v1")
	{
		api.GET("/health", stegoHandler.HealthCheck)

		stegoGroup := api.Group("/stego")
		{
			stegoGroup.POST("/insert", stegoHandler.InsertMessage)
			stegoGroup.POST("/extract", stegoHandler.ExtractMessage)
			stegoGroup.POST("/analyze", stegoHandler.AnalyzeCover)
			stegoGroup.POST("/preview", stegoHandler.PreviewCover)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	log.Printf("API endpoints:")
	log.Printf("  POST /api/v1/stego/insert  - Hide a file in the MP3 bitstream (returns stego MP3)")
	log.Printf("  POST /api/v1/stego/extract - Recover a hidden file (blind nlsb/offset search)")
	log.Printf("  POST /api/v1/stego/analyze - Report frame count and capacity of a cover")
	log.Printf("  POST /api/v1/stego/preview - WAV rendition of a cover for playback")
	log.Printf("  GET  /api/v1/health        - Health check")
	log.Printf("")
	log.Printf("Features:")
	log.Printf("  • LSB embedding in MP3 main data (headers and side info untouched)")
	log.Printf("  • Self-describing container with CRC-32 validation")
	log.Printf("  • Extended Vigenère encryption and keyed random start offset")
	log.Printf("  • PSNR quality assessment (returned in X-Stego-PSNR header)")
	log.Printf("  • Direct streaming (no disk storage)")

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func corsOrigin() string {
	if origin := os.Getenv("CORS_ORIGIN"); origin != "" {
		return origin
	}
	return "http://localhost:3000"
}
