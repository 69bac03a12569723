// Package app provides public health and authenticated identity endpoints.
package app

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"example/companion-api/app/config"
	"example/companion-api/app/models"
	"example/companion-api/auth"

	"github.com/gin-gonic/gin"
)

// Health is a public health check endpoint.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Me returns the authenticated user's tier and daily usage window.
func Me(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("LoadConfig failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load config"})
		return
	}
	limitSeconds := int(cfg.Usage.FreeDailyLimit.Seconds())

	if db == nil {
		c.JSON(http.StatusOK, gin.H{
			"tier":            models.TierFree,
			"dailyLimitSecs":  limitSeconds,
			"remainingSecs":   limitSeconds,
			"usageWindowOpen": false,
			"dailyUsageStart": nil,
		})
		return
	}

	user, err := getUserByID(c.Request.Context(), claims.Subject)
	if err != nil {
		if err == sql.ErrNoRows {
			_ = UpsertUserFromClaims(c.Request.Context(), claims)
			user, err = getUserByID(c.Request.Context(), claims.Subject)
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
			return
		}
	}

	if user.Tier == models.TierPremium {
		c.JSON(http.StatusOK, gin.H{
			"tier":            user.Tier,
			"dailyLimitSecs":  nil,
			"remainingSecs":   nil,
			"usageWindowOpen": false,
			"dailyUsageStart": nil,
		})
		return
	}

	now := time.Now().UTC()
	today := dayStartUTC(now)

	windowOpen := false
	remaining := limitSeconds
	var windowStart *time.Time
	if user.LastActiveDate != nil && dayStartUTC(*user.LastActiveDate).Equal(today) && user.DailyUsageStart != nil {
		windowOpen = true
		windowStart = user.DailyUsageStart
		elapsed := int(now.Sub(*user.DailyUsageStart).Seconds())
		remaining = limitSeconds - elapsed
		if remaining < 0 {
			remaining = 0
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"tier":            user.Tier,
		"dailyLimitSecs":  limitSeconds,
		"remainingSecs":   remaining,
		"usageWindowOpen": windowOpen,
		"dailyUsageStart": windowStart,
	})
}
