package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"go-upwork-automation/internal/database"
	"go-upwork-automation/internal/scraper"
)

// Small API in front of the scraped data: health, recent jobs and a webhook
// receiver so the workflow server can push job batches back for persistence.
func main() {
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	var repo *database.Repository
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		var err error
		repo, err = database.ConnectDB(ctx, dbURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer repo.Close()
	}

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Upwork automation API is running!",
			"status":  "healthy",
		})
	})

	r.GET("/jobs", func(c *gin.Context) {
		if repo == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no database configured"})
			return
		}
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
		if err != nil || limit < 1 || limit > 500 {
			limit = 50
		}
		jobs, err := repo.RecentJobs(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(jobs), "jobs": jobs})
	})

	r.POST("/webhook/jobs", func(c *gin.Context) {
		var payload struct {
			Source string              `json:"source"`
			Jobs   []scraper.JobRecord `json:"jobs"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if repo == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "saved": 0})
			return
		}
		saved, err := repo.SaveJobs(c.Request.Context(), payload.Jobs)
		if err != nil {
			log.Printf("webhook save: %v", err)
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "saved": saved})
	})

	log.Printf("Server listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
