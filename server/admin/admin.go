// Package admin holds the admin-gated endpoints: premium ticket grants and
// challenge administration.
package admin

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/uclaacm/cyber-platform/server/solves"
)

// Challenge is the admin view of a challenge, flag included.
type Challenge struct {
	ID          int    `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
	Flag        string `json:"flag"`
	Value       int    `json:"value"`
	Solves      int    `json:"solves"`
	Enabled     bool   `json:"enabled"`
}

type grantTicketsRequest struct {
	Name    string `json:"name" binding:"required"`
	Tickets int    `json:"tickets" binding:"required"`
}

type createChallengeRequest struct {
	Slug        string `json:"slug" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
	Flag        string `json:"flag" binding:"required"`
	Value       int    `json:"value" binding:"required"`
	Enabled     *bool  `json:"enabled"`
}

type updateChallengeRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
	Flag        string `json:"flag"`
	Value       int    `json:"value"`
	Enabled     *bool  `json:"enabled"`
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// HandleGrantTickets adds premium tickets to a team by name.
func HandleGrantTickets(c *gin.Context, db *sql.DB) {
	var req grantTicketsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_REQUEST", "message": "team name and ticket count are required"})
		return
	}
	if req.Tickets < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_REQUEST", "message": "ticket count must be positive"})
		return
	}

	res, err := db.Exec(`UPDATE teams SET premium_tickets = premium_tickets + $2 WHERE name = $1`,
		req.Name, req.Tickets)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "TEAM_NOT_FOUND", "message": "no such team"})
		return
	}

	log.Printf("granted %d premium tickets to %q", req.Tickets, req.Name)
	c.JSON(http.StatusOK, gin.H{"granted": req.Tickets})
}

// HandleListChallenges lists every challenge, enabled or not.
func HandleListChallenges(c *gin.Context, db *sql.DB) {
	rows, err := db.Query(`SELECT id, slug, title, author, description, tags, flag, value, solves, enabled
		FROM challenges ORDER BY id ASC`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}
	defer rows.Close()

	challenges := []Challenge{}
	for rows.Next() {
		var ch Challenge
		if err := rows.Scan(&ch.ID, &ch.Slug, &ch.Title, &ch.Author, &ch.Description,
			&ch.Tags, &ch.Flag, &ch.Value, &ch.Solves, &ch.Enabled); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
			return
		}
		challenges = append(challenges, ch)
	}
	c.JSON(http.StatusOK, gin.H{"challenges": challenges})
}

// HandleCreateChallenge inserts a challenge. Ids double as bitmask positions,
// so creation stops once the mask is full.
func HandleCreateChallenge(c *gin.Context, db *sql.DB) {
	var req createChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_REQUEST", "message": "slug, title, flag and value are required"})
		return
	}

	var maxID int
	if err := db.QueryRow(`SELECT COALESCE(MAX(id), 0) FROM challenges`).Scan(&maxID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}
	if maxID >= solves.MaxChallenges {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CHALLENGE_LIMIT",
			"message": "the solve mask supports at most 63 challenges"})
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	var id int
	err := db.QueryRow(`INSERT INTO challenges (slug, title, author, description, tags, flag, value, enabled)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		req.Slug, req.Title, req.Author, req.Description, req.Tags, req.Flag, req.Value, enabled).Scan(&id)
	if isUniqueViolation(err) {
		c.JSON(http.StatusConflict, gin.H{"error": "CONFLICT", "message": "slug already exists"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}

	log.Printf("created challenge %s (id %d)", req.Slug, id)
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// HandleUpdateChallenge edits challenge metadata or toggles it. Disabling a
// challenge hides it from the listing and scoreboard without retracting
// score already credited for it.
func HandleUpdateChallenge(c *gin.Context, db *sql.DB) {
	id := c.Param("id")

	var req updateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_REQUEST"})
		return
	}

	res, err := db.Exec(`UPDATE challenges SET
			title = COALESCE(NULLIF($2, ''), title),
			author = COALESCE(NULLIF($3, ''), author),
			description = COALESCE(NULLIF($4, ''), description),
			tags = COALESCE(NULLIF($5, ''), tags),
			flag = COALESCE(NULLIF($6, ''), flag),
			value = CASE WHEN $7 > 0 THEN $7 ELSE value END,
			enabled = COALESCE($8, enabled)
		WHERE id = $1`,
		id, req.Title, req.Author, req.Description, req.Tags, req.Flag, req.Value, req.Enabled)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "CHALLENGE_NOT_FOUND"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": true})
}
