package app

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"example/companion-api/app/config"
	"example/companion-api/app/models"
	"example/companion-api/auth"

	"github.com/gin-gonic/gin"
)

// PostChat runs one chat turn: usage gate, history assembly, model call,
// directive parsing, persistence.
func PostChat(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
		return
	}

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CompanionID == "" || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	if db == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db not initialized"})
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("LoadConfig failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load config"})
		return
	}

	ctx := c.Request.Context()

	user, err := getUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		log.Printf("user lookup failed sub=%s: %v", claims.Subject, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	now := time.Now().UTC()
	decision := evaluateUsage(user, now, cfg.Usage.FreeDailyLimit)
	if !decision.Allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": decision.Reason})
		return
	}
	if decision.Update != nil {
		if err := applyUsageUpdate(ctx, user.ID, decision.Update); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
	}

	companion, err := getOwnedCompanion(ctx, req.CompanionID, user.ID)
	if err != nil {
		if errors.Is(err, errCompanionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		log.Printf("companion lookup failed id=%s: %v", req.CompanionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	encryptKey := []byte(cfg.EncryptKey)

	if _, err := createMessage(ctx, encryptKey, companion.ID, models.RoleUser, req.Message); err != nil {
		log.Printf("failed to store user message companion=%s: %v", companion.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	history, err := listMessages(ctx, encryptKey, companion.ID)
	if err != nil {
		log.Printf("failed to load history companion=%s: %v", companion.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	contents := assembleHistory(history, historyWindow)

	reply, err := generateCompanionReply(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model,
		chatSystemPrompt(companion.SystemPrompt), contents)
	if err != nil {
		log.Printf("model call failed companion=%s: %v", companion.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	visible, dirs := parseDirectives(reply)

	if dirs.ScheduleMinutes > 0 {
		scheduledAt := now.Add(time.Duration(dirs.ScheduleMinutes) * time.Minute)
		promptContext := fmt.Sprintf("User requested message after %d minutes. Previous context: %s",
			dirs.ScheduleMinutes, req.Message)
		if err := createScheduledMessage(ctx, companion.ID, user.ID, scheduledAt, promptContext); err != nil {
			// The reply itself is fine; losing the schedule is logged, not fatal.
			log.Printf("failed to schedule message companion=%s: %v", companion.ID, err)
		}
	}

	if dirs.Call {
		dispatchCallJob(ctx, cfg.CallQueueURL, companion)
	}

	if _, err := createMessage(ctx, encryptKey, companion.ID, models.RoleAssistant, visible); err != nil {
		log.Printf("failed to store assistant message companion=%s: %v", companion.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, models.ChatResponse{Response: visible, Call: dirs.Call})
}

// GetChat returns a companion's full conversation, marking assistant turns
// read as a side effect.
func GetChat(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
		return
	}

	companionID := c.Query("companionId")
	if companionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "companion ID required"})
		return
	}

	if db == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db not initialized"})
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("LoadConfig failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load config"})
		return
	}

	ctx := c.Request.Context()
	if _, err := getOwnedCompanion(ctx, companionID, claims.Subject); err != nil {
		if errors.Is(err, errCompanionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		log.Printf("companion lookup failed id=%s: %v", companionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if err := markMessagesRead(ctx, companionID); err != nil {
		log.Printf("failed to mark messages read companion=%s: %v", companionID, err)
	}

	messages, err := listMessages(ctx, []byte(cfg.EncryptKey), companionID)
	if err != nil {
		log.Printf("failed to load messages companion=%s: %v", companionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// GetCompanions lists the authenticated user's companions.
func GetCompanions(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
		return
	}
	if db == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db not initialized"})
		return
	}

	companions, err := listCompanions(c.Request.Context(), claims.Subject)
	if err != nil {
		log.Printf("failed to list companions sub=%s: %v", claims.Subject, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"companions": companions})
}

// CreateCompanion builds a persona and its behavioral system prompt.
func CreateCompanion(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
		return
	}

	var req models.CreateCompanionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Age <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}
	if req.Gender != "female" && req.Gender != "male" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid gender"})
		return
	}

	if db == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db not initialized"})
		return
	}

	companion, err := createCompanion(c.Request.Context(), claims.Subject, req, buildSystemPrompt(req))
	if err != nil {
		log.Printf("failed to create companion sub=%s: %v", claims.Subject, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"companion": companion})
}

// DeleteCompanion removes a persona; its messages cascade.
func DeleteCompanion(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
		return
	}

	companionID := c.Query("id")
	if companionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "companion ID required"})
		return
	}

	if db == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db not initialized"})
		return
	}

	ctx := c.Request.Context()
	if _, err := getOwnedCompanion(ctx, companionID, claims.Subject); err != nil {
		if errors.Is(err, errCompanionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		log.Printf("companion lookup failed id=%s: %v", companionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if err := deleteCompanion(ctx, companionID); err != nil {
		log.Printf("failed to delete companion id=%s: %v", companionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted successfully"})
}

// GetCompanionPresets returns the curated starter personas.
func GetCompanionPresets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"presets": companionPresets})
}

// ScheduledSweep runs the sweeper once. Intended to be hit by a cron
// trigger; when CRON_SECRET is configured the caller must present it.
func ScheduledSweep(c *gin.Context) {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("LoadConfig failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load config"})
		return
	}

	if cfg.CronSecret != "" {
		header := c.GetHeader("Authorization")
		if strings.TrimPrefix(header, "Bearer ") != cfg.CronSecret {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid cron secret"})
			return
		}
	}

	processed, results, err := RunScheduledSweep(c.Request.Context(), cfg)
	if err != nil {
		log.Printf("scheduled sweep failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"processed": processed, "results": results})
}
