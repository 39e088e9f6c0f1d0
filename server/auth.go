package main

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/uclaacm/cyber-platform/server/rewards"
)

// Discord handles look like cyber#1234.
var discordRe = regexp.MustCompile(`^.{2,32}?#\d{4}$`)

func validTeamName(name string) bool {
	if len(name) == 0 || len(name) > 64 {
		return false
	}
	for _, r := range name {
		if r < ' ' || r > '~' {
			return false
		}
	}
	return true
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// ensureAdmin creates or refreshes the admin team from the environment.
func ensureAdmin(db *sql.DB) error {
	name := os.Getenv("ADMIN_TEAM")
	password := os.Getenv("ADMIN_PASSWORD")
	if name == "" || password == "" {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = db.Exec(`INSERT INTO teams (name, discord, hash, is_admin)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (name) DO UPDATE SET hash = EXCLUDED.hash, is_admin = TRUE`,
		name, name+"#0000", string(hash))
	if err != nil {
		return err
	}
	log.Printf("[ensureAdmin] admin team %q ready", name)
	return nil
}

// handleRegister creates a team. A duplicate name or Discord handle is a
// conflict, never a partial insert.
func handleRegister(c *gin.Context, db *sql.DB) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_REQUEST", "message": "name, discord and password are required"})
		return
	}
	if !validTeamName(req.Name) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_NAME", "message": "invalid team name length or characters"})
		return
	}
	if !discordRe.MatchString(req.Discord) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_DISCORD", "message": "invalid Discord handle"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}

	_, err = db.Exec(`INSERT INTO teams (name, discord, hash) VALUES ($1, $2, $3)`,
		req.Name, req.Discord, string(hash))
	if isUniqueViolation(err) {
		c.JSON(http.StatusConflict, gin.H{"error": "CONFLICT", "message": "team name or Discord handle already taken"})
		return
	}
	if err != nil {
		log.Printf("register: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"registered": true})
}

// handleLogin verifies the credentials and issues a 24h token. Unknown team
// and wrong password get the same response.
func handleLogin(c *gin.Context, db *sql.DB, secret []byte) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_REQUEST"})
		return
	}

	var team Team
	var hash string
	err := db.QueryRow(`SELECT id, name, hash, is_admin FROM teams WHERE name = $1`,
		req.Name).Scan(&team.ID, &team.Name, &hash, &team.IsAdmin)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "INVALID_CREDENTIALS"})
		return
	}
	if err != nil {
		log.Printf("login query: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "INVALID_CREDENTIALS"})
		return
	}

	token, err := generateJWT(team, secret)
	if err != nil {
		log.Printf("generate token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "team": team})
}

func generateJWT(team Team, secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"sub":   team.ID,
		"name":  team.Name,
		"admin": team.IsAdmin,
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// handleGetProfile returns the caller's team profile and ticket balances.
func handleGetProfile(c *gin.Context, db *sql.DB) {
	teamID := c.GetInt64("teamID")

	var name, discord string
	var score, redeemed, premium int
	err := db.QueryRow(`SELECT name, discord, score, redeemed_score, premium_tickets
		FROM teams WHERE id = $1`, teamID).Scan(&name, &discord, &score, &redeemed, &premium)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":           name,
		"discord":        discord,
		"score":          score,
		"tickets":        rewards.Tickets(score, redeemed),
		"premiumTickets": premium,
	})
}

// handleUpdateProfile edits the Discord handle and optionally the password;
// both require the current password.
func handleUpdateProfile(c *gin.Context, db *sql.DB) {
	teamID := c.GetInt64("teamID")

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_REQUEST", "message": "discord and current password are required"})
		return
	}
	if !discordRe.MatchString(req.Discord) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_DISCORD", "message": "invalid Discord handle"})
		return
	}

	var hash string
	if err := db.QueryRow(`SELECT hash FROM teams WHERE id = $1`, teamID).Scan(&hash); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.CurrentPassword)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "INVALID_CREDENTIALS", "message": "incorrect password"})
		return
	}

	newHash := hash
	if req.Password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
			return
		}
		newHash = string(h)
	}

	_, err := db.Exec(`UPDATE teams SET discord = $2, hash = $3 WHERE id = $1`,
		teamID, req.Discord, newHash)
	if isUniqueViolation(err) {
		c.JSON(http.StatusConflict, gin.H{"error": "CONFLICT", "message": "Discord handle already taken"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": true})
}
