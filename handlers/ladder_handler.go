package handlers

import (
	"net/http"
	"strconv"

	"ladder-api/models"
	"ladder-api/services"

	"github.com/gin-gonic/gin"
)

type LadderHandler struct {
	ladderService *services.LadderService
	statsService  *services.StatsService
}

func NewLadderHandler(ladderService *services.LadderService, statsService *services.StatsService) *LadderHandler {
	return &LadderHandler{
		ladderService: ladderService,
		statsService:  statsService,
	}
}

// GetLadder retrieves the top rated players for a matchmaking type
// @Summary Get the ladder
// @Tags ladder
// @Produce json
// @Param matchmakingType path string true "Matchmaking type" Enums(1v1,2v2)
// @Param limit query int false "Number of entries (default: 50, max: 250)"
// @Success 200 {object} models.LadderResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /ladder/{matchmakingType} [get]
func (h *LadderHandler) GetLadder(c *gin.Context) {
	matchmakingType := c.Param("matchmakingType")
	if matchmakingType != models.MatchmakingType1v1 && matchmakingType != models.MatchmakingType2v2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid matchmaking type"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
		return
	}
	if limit > 250 {
		limit = 250
	}

	ladder, err := h.ladderService.GetLadder(matchmakingType, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve ladder"})
		return
	}

	c.JSON(http.StatusOK, ladder)
}

// GetRatingChanges retrieves the recent rating change history for a user
// @Summary Get a user's rating change history
// @Tags ladder
// @Produce json
// @Param id path int true "User ID"
// @Param limit query int false "Number of changes to retrieve (default: 20, max: 100)"
// @Success 200 {array} models.MatchmakingRatingChange
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /users/{id}/rating-changes [get]
func (h *LadderHandler) GetRatingChanges(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
		return
	}
	if limit > 100 {
		limit = 100
	}

	changes, err := h.ladderService.GetRecentRatingChanges(uint(userID), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rating changes"})
		return
	}

	c.JSON(http.StatusOK, changes)
}

// GetUserStats retrieves a user's race matchup counters
// @Summary Get a user's game stats
// @Tags stats
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.UserStatsResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /users/{id}/stats [get]
func (h *LadderHandler) GetUserStats(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	stats, err := h.statsService.GetUserStats(uint(userID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
