// Package submission credits flag submissions, keeps team scores derived
// from the solve bitmask, and serves the challenge list and scoreboard.
package submission

import (
	"database/sql"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uclaacm/cyber-platform/server/live"
)

// SubmitFlagRequest carries one flag submission.
type SubmitFlagRequest struct {
	Slug string `json:"slug" binding:"required"`
	Flag string `json:"flag" binding:"required"`
}

// SubmitFlagResponse reports whether the submission was credited. Rejections
// name only the slug, never which check failed.
type SubmitFlagResponse struct {
	Correct bool   `json:"correct"`
	Slug    string `json:"slug"`
	Message string `json:"message"`
}

// competitionWindow reads the configured start/stop times. Either bound may
// be unset, which leaves that side of the window open.
func competitionWindow(db *sql.DB) (start, stop sql.NullTime, err error) {
	err = db.QueryRow(`SELECT start, stop FROM ctf`).Scan(&start, &stop)
	if err == sql.ErrNoRows {
		return sql.NullTime{}, sql.NullTime{}, nil
	}
	return start, stop, err
}

// WindowClosed reports whether now falls outside the competition window.
func WindowClosed(now time.Time, start, stop sql.NullTime) bool {
	if start.Valid && now.Before(start.Time) {
		return true
	}
	if stop.Valid && now.After(stop.Time) {
		return true
	}
	return false
}

// BeforeStart reports whether the competition has not started yet; the
// challenge list and scoreboard are withheld until then.
func BeforeStart(now time.Time, start sql.NullTime) bool {
	return start.Valid && now.Before(start.Time)
}

func rejected(slug string) SubmitFlagResponse {
	return SubmitFlagResponse{Correct: false, Slug: slug, Message: "incorrect flag"}
}

// HandleSubmitFlag processes one flag submission. The credit is a single
// conditional update whose predicate includes "not already solved", so two
// concurrent submissions for the same team and challenge credit exactly one:
// the loser affects zero rows and is treated as a rejection. The solve bit,
// the challenge solve counter, and the recomputed score commit together or
// not at all.
func HandleSubmitFlag(c *gin.Context, db *sql.DB) {
	var req SubmitFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_REQUEST", "message": "slug and flag are required"})
		return
	}
	slug := strings.TrimSpace(req.Slug)
	flag := strings.TrimSpace(req.Flag)

	start, stop, err := competitionWindow(db)
	if err != nil {
		log.Printf("read competition window: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}
	if WindowClosed(time.Now(), start, stop) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "COMPETITION_CLOSED", "message": "the competition is not open"})
		return
	}

	// Anonymous submissions get the same rejection as a wrong flag.
	teamID := c.GetInt64("teamID")
	if teamID == 0 {
		c.JSON(http.StatusOK, rejected(slug))
		return
	}

	tx, err := db.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE teams t
		SET solves = t.solves | (1::BIGINT << (c.id - 1)), submit = NOW()
		FROM challenges c
		WHERE t.id = $1 AND c.slug = $2 AND c.flag = $3 AND c.enabled
		  AND t.solves & (1::BIGINT << (c.id - 1)) = 0`,
		teamID, slug, flag)
	if err != nil {
		log.Printf("submit update: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}
	rows, err := res.RowsAffected()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}
	if rows == 0 {
		c.JSON(http.StatusOK, rejected(slug))
		return
	}

	if _, err := tx.Exec(`UPDATE challenges SET solves = solves + $2 WHERE slug = $1`, slug, rows); err != nil {
		log.Printf("bump solve counter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}

	// Score is always recomputed from the mask, never incremented, so a
	// retry after a crash lands on the same value.
	if _, err := tx.Exec(`
		UPDATE teams t
		SET score = COALESCE((SELECT SUM(c.value) FROM challenges c
			WHERE t.solves & (1::BIGINT << (c.id - 1)) <> 0), 0)
		WHERE t.id = $1`, teamID); err != nil {
		log.Printf("recompute score: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}

	if err := tx.Commit(); err != nil {
		log.Printf("commit submission: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}

	log.Printf("team %d solved %s", teamID, slug)
	go live.Broadcast()

	c.JSON(http.StatusOK, SubmitFlagResponse{Correct: true, Slug: slug, Message: "correct flag"})
}
