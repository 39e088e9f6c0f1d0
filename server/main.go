package main

import (
	"database/sql"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/uclaacm/cyber-platform/server/admin"
	"github.com/uclaacm/cyber-platform/server/live"
	"github.com/uclaacm/cyber-platform/server/rewards"
	"github.com/uclaacm/cyber-platform/server/submission"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET not set")
	}
	secret := []byte(jwtSecret)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	if err := ensureAdmin(db); err != nil {
		log.Fatalf("failed to ensure admin team: %v", err)
	}

	// Scoreboard snapshots for the live feed; wired here to keep the live
	// package free of a submission dependency.
	live.Snapshot = func() (interface{}, error) {
		return submission.ScoreboardSnapshot(db)
	}

	r := gin.Default()

	api := r.Group("/api")
	{
		api.POST("/register", func(c *gin.Context) {
			handleRegister(c, db)
		})
		api.POST("/login", func(c *gin.Context) {
			handleLogin(c, db, secret)
		})

		api.GET("/scoreboard", func(c *gin.Context) {
			submission.HandleGetScoreboard(c, db)
		})
		api.GET("/scoreboard/ws", live.HandleScoreboardWS)

		// Anonymous callers may browse and submit; their submissions are
		// rejected the same way a wrong flag is.
		open := api.Group("")
		open.Use(teamAuthOptional(secret))
		{
			open.GET("/challenges", func(c *gin.Context) {
				submission.HandleGetChallenges(c, db)
			})
			open.POST("/submit", func(c *gin.Context) {
				submission.HandleSubmitFlag(c, db)
			})
		}

		teamAPI := api.Group("")
		teamAPI.Use(teamAuth(secret))
		{
			teamAPI.GET("/profile", func(c *gin.Context) {
				handleGetProfile(c, db)
			})
			teamAPI.PUT("/profile", func(c *gin.Context) {
				handleUpdateProfile(c, db)
			})

			teamAPI.GET("/rewards", func(c *gin.Context) {
				rewards.HandleGetRewards(c, db)
			})
			teamAPI.POST("/rewards/regular", func(c *gin.Context) {
				rewards.HandleRedeemRegular(c, db)
			})
			teamAPI.POST("/rewards/premium", func(c *gin.Context) {
				rewards.HandleRedeemPremium(c, db)
			})
		}

		adminAPI := api.Group("/admin")
		adminAPI.Use(adminAuth(secret))
		{
			adminAPI.POST("/tickets", func(c *gin.Context) {
				admin.HandleGrantTickets(c, db)
			})
			adminAPI.GET("/challenges", func(c *gin.Context) {
				admin.HandleListChallenges(c, db)
			})
			adminAPI.POST("/challenges", func(c *gin.Context) {
				admin.HandleCreateChallenge(c, db)
			})
			adminAPI.PUT("/challenges/:id", func(c *gin.Context) {
				admin.HandleUpdateChallenge(c, db)
			})
			adminAPI.POST("/challenges/import", func(c *gin.Context) {
				admin.HandleImportChallenges(c, db)
			})
		}
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
