package handlers

import (
	"errors"
	"net/http"

	"ladder-api/models"
	"ladder-api/services"

	"github.com/gin-gonic/gin"
)

type GameHandler struct {
	gameService   *services.GameService
	resultService *services.ResultService
}

func NewGameHandler(gameService *services.GameService, resultService *services.ResultService) *GameHandler {
	return &GameHandler{
		gameService:   gameService,
		resultService: resultService,
	}
}

// CreateGame registers a match at launch time
// @Summary Register a new game
// @Description Register a match at launch time. Returns one secret result code per human participant, delivered out-of-band to each client.
// @Tags games
// @Accept json
// @Produce json
// @Param game body models.CreateGameRequest true "Game configuration"
// @Success 201 {object} models.CreateGameResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /games [post]
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req models.CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	resp, err := h.gameService.CreateGame(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetGame retrieves a game with its players
// @Summary Get a game
// @Tags games
// @Produce json
// @Param gameId path string true "Game ID"
// @Success 200 {object} models.Game
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /games/{gameId} [get]
func (h *GameHandler) GetGame(c *gin.Context) {
	game, err := h.gameService.GetGame(c.Param("gameId"))
	if err != nil {
		if errors.Is(err, services.ErrGameNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve game"})
		return
	}

	c.JSON(http.StatusOK, game)
}

// UpdateGameStatus advances the game lifecycle
// @Summary Update game status
// @Description Advance the game through playing, has_result, result_sent, finished or error. Transitions that require a specific current state return 409.
// @Tags games
// @Accept json
// @Produce json
// @Param gameId path string true "Game ID"
// @Param status body models.UpdateGameStatusRequest true "New status"
// @Success 200 {object} models.Game
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /games/{gameId}/status [put]
func (h *GameHandler) UpdateGameStatus(c *gin.Context) {
	var req models.UpdateGameStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	game, err := h.gameService.UpdateStatus(c.Param("gameId"), req.Status)
	if err != nil {
		if errors.Is(err, services.ErrGameNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			return
		}
		if errors.Is(err, services.ErrInvalidStatusTransition) {
			c.JSON(http.StatusConflict, gin.H{"error": "Game is not in a state that allows this transition"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update game status"})
		return
	}

	c.JSON(http.StatusOK, game)
}

// SubmitResults accepts one client's result report
// @Summary Submit a result report
// @Description Store one participant's sworn report of the game outcome. The response covers only this report; reconciliation and settlement happen in the background.
// @Tags games
// @Accept json
// @Param gameId path string true "Game ID"
// @Param report body models.SubmitResultRequest true "Result report"
// @Success 204 "Report accepted"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /games/{gameId}/results [post]
func (h *GameHandler) SubmitResults(c *gin.Context) {
	var req models.SubmitResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.resultService.SubmitReport(c.Param("gameId"), req); err != nil {
		if errors.Is(err, services.ErrGameNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No game membership matches this user and result code"})
			return
		}
		if errors.Is(err, services.ErrAlreadyReported) {
			c.JSON(http.StatusConflict, gin.H{"error": "Results already reported for this game"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit results"})
		return
	}

	c.Status(http.StatusNoContent)
}
