package main

import (
	"log"
	"os"

	"ladder-api/config"
	"ladder-api/cron"
	_ "ladder-api/docs" // Swagger docs
	"ladder-api/handlers"
	"ladder-api/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Ladder API
// @version         1.0
// @description     Game result reconciliation and matchmaking rating engine

// @license.name  MIT
// @license.url   http://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.ConnectDatabase()

	reportStore := services.NewReportStore(config.DB)
	settlementService := services.NewSettlementService(config.DB)
	statsService := services.NewStatsService(config.DB)
	resultService := services.NewResultService(config.DB, reportStore, settlementService, statsService)
	gameService := services.NewGameService(config.DB, settlementService)
	ladderService := services.NewLadderService(config.DB)

	gameHandler := handlers.NewGameHandler(gameService, resultService)
	ladderHandler := handlers.NewLadderHandler(ladderService, statsService)

	scheduler := cron.NewScheduler(resultService)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	r := gin.Default()
	r.Use(cors.Default())

	games := r.Group("/games")
	{
		games.POST("", gameHandler.CreateGame)
		games.GET("/:gameId", gameHandler.GetGame)
		games.PUT("/:gameId/status", gameHandler.UpdateGameStatus)
		games.POST("/:gameId/results", gameHandler.SubmitResults)
	}

	r.GET("/ladder/:matchmakingType", ladderHandler.GetLadder)

	users := r.Group("/users")
	{
		users.GET("/:id/rating-changes", ladderHandler.GetRatingChanges)
		users.GET("/:id/stats", ladderHandler.GetUserStats)
	}

	// Swagger endpoint
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/health", healthHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	r.Run(":" + port)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Message  string `json:"message" example:"Server is running"`
	Database string `json:"database" example:"connected"`
}

// @Summary Health Check
// @Description Check if the server is running and database is connected
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func healthHandler(c *gin.Context) {
	c.JSON(200, HealthResponse{
		Message:  "Server is running",
		Database: "connected",
	})
}
