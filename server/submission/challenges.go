package submission

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uclaacm/cyber-platform/server/solves"
)

// ChallengeView is the player-facing shape of a challenge; the flag never
// leaves the store.
type ChallengeView struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Value       int      `json:"value"`
	Solves      int      `json:"solves"`
	Solved      bool     `json:"solved"`
}

// splitTags turns the stored comma-separated tag list into a slice.
func splitTags(tags string) []string {
	out := []string{}
	for _, t := range strings.Split(tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// HandleGetChallenges lists the enabled challenges, with the caller's solved
// bit when authenticated. Withheld before the competition starts.
func HandleGetChallenges(c *gin.Context, db *sql.DB) {
	start, _, err := competitionWindow(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}
	if BeforeStart(time.Now(), start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "NOT_AVAILABLE", "message": "challenges are not available"})
		return
	}

	var mask int64
	if teamID := c.GetInt64("teamID"); teamID != 0 {
		db.QueryRow(`SELECT solves FROM teams WHERE id = $1`, teamID).Scan(&mask)
	}

	rows, err := db.Query(`SELECT id, slug, title, author, description, tags, solves, value
		FROM challenges WHERE enabled = TRUE
		ORDER BY value ASC, slug ASC`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}
	defer rows.Close()

	challenges := []ChallengeView{}
	for rows.Next() {
		var id int
		var tags string
		var cv ChallengeView
		if err := rows.Scan(&id, &cv.Slug, &cv.Title, &cv.Author, &cv.Description, &tags, &cv.Solves, &cv.Value); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
			return
		}
		cv.Tags = splitTags(tags)
		cv.Solved = solves.IsSolved(mask, id)
		challenges = append(challenges, cv)
	}

	c.JSON(http.StatusOK, gin.H{"challenges": challenges})
}
