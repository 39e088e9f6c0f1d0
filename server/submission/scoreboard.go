package submission

import (
	"database/sql"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uclaacm/cyber-platform/server/solves"
)

// ScoreboardChallenge is one column header of the scoreboard grid.
type ScoreboardChallenge struct {
	ID    int    `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// Standing is one scoreboard row. Solved cells follow the challenge column
// order of the same snapshot.
type Standing struct {
	Rank   int    `json:"rank"`
	Team   string `json:"team"`
	Score  int    `json:"score"`
	Solved []bool `json:"solved"`

	mask   int64
	submit time.Time
}

// rankStandings orders rows by score descending, then by the timestamp of
// the last successful submission ascending (earlier reach of a score wins
// ties), and assigns ranks from the same order.
func rankStandings(standings []Standing) {
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Score != standings[j].Score {
			return standings[i].Score > standings[j].Score
		}
		return standings[i].submit.Before(standings[j].submit)
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}
}

// ScoreboardSnapshot builds the current scoreboard: ranked teams and their
// per-challenge solved cells over the enabled challenges.
func ScoreboardSnapshot(db *sql.DB) (gin.H, error) {
	rows, err := db.Query(`SELECT id, slug, title FROM challenges
		WHERE enabled = TRUE
		ORDER BY value ASC, slug ASC`)
	if err != nil {
		return nil, err
	}
	challenges := []ScoreboardChallenge{}
	for rows.Next() {
		var sc ScoreboardChallenge
		if err := rows.Scan(&sc.ID, &sc.Slug, &sc.Title); err != nil {
			rows.Close()
			return nil, err
		}
		challenges = append(challenges, sc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	teamRows, err := db.Query(`SELECT name, score, solves, submit FROM teams WHERE is_admin = FALSE`)
	if err != nil {
		return nil, err
	}
	defer teamRows.Close()

	standings := []Standing{}
	for teamRows.Next() {
		var s Standing
		if err := teamRows.Scan(&s.Team, &s.Score, &s.mask, &s.submit); err != nil {
			return nil, err
		}
		s.Solved = make([]bool, len(challenges))
		for i, ch := range challenges {
			s.Solved[i] = solves.IsSolved(s.mask, ch.ID)
		}
		standings = append(standings, s)
	}
	if err := teamRows.Err(); err != nil {
		return nil, err
	}

	rankStandings(standings)
	return gin.H{"challenges": challenges, "standings": standings}, nil
}

// HandleGetScoreboard serves the ranked scoreboard. Withheld before the
// competition starts.
func HandleGetScoreboard(c *gin.Context, db *sql.DB) {
	start, _, err := competitionWindow(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}
	if BeforeStart(time.Now(), start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "NOT_AVAILABLE", "message": "scoreboard is not available"})
		return
	}

	snapshot, err := ScoreboardSnapshot(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
