// Package rewards converts score surplus and premium tickets into prize
// draws. Every 50 points of unredeemed score is one regular ticket; premium
// tickets are granted by admins and enter the team into an external raffle.
package rewards

import (
	"database/sql"
	"log"
	"math/rand"
	"net/http"

	"github.com/gin-gonic/gin"
)

// TicketCost is the score consumed by one regular draw.
const TicketCost = 50

// Tickets converts a team's unredeemed score into whole regular tickets.
func Tickets(score, redeemed int) int {
	return (score - redeemed) / TicketCost
}

// ownedPrizes returns the prizes a team holds with a positive count, read
// inside the redemption transaction.
func ownedPrizes(tx *sql.Tx, teamID int64) (map[Prize]bool, error) {
	rows, err := tx.Query(`SELECT prize FROM prizes WHERE team_id = $1 AND counts > 0`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	owned := make(map[Prize]bool)
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		owned[Prize(p)] = true
	}
	return owned, rows.Err()
}

// HandleGetRewards returns the caller's ticket balances and prize inventory.
func HandleGetRewards(c *gin.Context, db *sql.DB) {
	teamID := c.GetInt64("teamID")

	var score, redeemed, premium int
	err := db.QueryRow(`SELECT score, redeemed_score, premium_tickets FROM teams WHERE id = $1`,
		teamID).Scan(&score, &redeemed, &premium)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}
	if redeemed > score {
		// Redemption only ever consumes existing surplus; a team over its
		// score means the store has been tampered with.
		log.Printf("integrity violation: team %d redeemed %d of %d", teamID, redeemed, score)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTEGRITY_ERROR"})
		return
	}

	type prizeCount struct {
		Prize  string `json:"prize"`
		Counts int    `json:"counts"`
	}
	prizes := []prizeCount{}
	rows, err := db.Query(`SELECT prize, counts FROM prizes WHERE team_id = $1 ORDER BY prize`, teamID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}
	defer rows.Close()
	for rows.Next() {
		var pc prizeCount
		if err := rows.Scan(&pc.Prize, &pc.Counts); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
			return
		}
		prizes = append(prizes, pc)
	}

	c.JSON(http.StatusOK, gin.H{
		"tickets":        Tickets(score, redeemed),
		"premiumTickets": premium,
		"prizes":         prizes,
	})
}

// HandleRedeemRegular spends one regular ticket on a weighted prize draw.
// The ticket consumption is a conditional update so concurrent redemptions
// cannot double-spend the same surplus; consumption and the prize record
// commit together or not at all.
func HandleRedeemRegular(c *gin.Context, db *sql.DB) {
	teamID := c.GetInt64("teamID")

	tx, err := db.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}
	defer tx.Rollback()

	res, err := tx.Exec(`UPDATE teams
		SET redeemed_score = redeemed_score + $2
		WHERE id = $1 AND score - redeemed_score >= $2`,
		teamID, TicketCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INSUFFICIENT_TICKETS", "message": "not enough tickets"})
		return
	}

	owned, err := ownedPrizes(tx, teamID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}

	prize := Draw(owned, rand.Intn(WeightTotal))

	if _, err := tx.Exec(`INSERT INTO prizes (team_id, prize, counts) VALUES ($1, $2, 1)
		ON CONFLICT (team_id, prize) DO UPDATE SET counts = prizes.counts + 1`,
		teamID, string(prize)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}

	log.Printf("team %d won %q", teamID, prize)

	var score, redeemed int
	db.QueryRow(`SELECT score, redeemed_score FROM teams WHERE id = $1`,
		teamID).Scan(&score, &redeemed)

	c.JSON(http.StatusOK, gin.H{"prize": string(prize), "tickets": Tickets(score, redeemed)})
}

// HandleRedeemPremium spends one premium ticket to enter the external
// raffle. The decrement is conditional on a positive balance; the raffle
// row is drawn later by the Discord bot.
func HandleRedeemPremium(c *gin.Context, db *sql.DB) {
	teamID := c.GetInt64("teamID")

	tx, err := db.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}
	defer tx.Rollback()

	res, err := tx.Exec(`UPDATE teams
		SET premium_tickets = premium_tickets - 1
		WHERE id = $1 AND premium_tickets > 0`, teamID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INSUFFICIENT_TICKETS", "message": "not enough tickets"})
		return
	}

	if _, err := tx.Exec(`INSERT INTO raffle (team_id) VALUES ($1)`, teamID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}

	log.Printf("team %d entered the premium raffle", teamID)

	var remaining int
	db.QueryRow(`SELECT premium_tickets FROM teams WHERE id = $1`, teamID).Scan(&remaining)

	c.JSON(http.StatusOK, gin.H{"entered": true, "premiumTickets": remaining})
}
