package admin

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/uclaacm/cyber-platform/server/solves"
)

// importChallengeRow is one parsed spreadsheet row.
type importChallengeRow struct {
	Slug        string
	Title       string
	Author      string
	Description string
	Tags        string
	Flag        string
	Value       int
	Enabled     bool
}

// ImportResult summarizes a bulk challenge import.
type ImportResult struct {
	Total    int      `json:"total"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// HandleImportChallenges bulk-creates challenges from an .xlsx upload: a
// header row, then one challenge per row. Rows that fail validation are
// reported and skipped; the valid rows are inserted in a single transaction
// so a store failure imports nothing. The bitmask ceiling applies to the
// whole batch.
func HandleImportChallenges(c *gin.Context, db *sql.DB) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "FILE_REQUIRED", "message": "upload an .xlsx file"})
		return
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_FILE", "message": "could not read spreadsheet: " + err.Error()})
		return
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "EMPTY_FILE", "message": "spreadsheet has no sheets"})
		return
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "READ_ERROR", "message": "could not read the first sheet"})
		return
	}
	if len(rows) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "NO_DATA", "message": "need a header row and at least one challenge"})
		return
	}

	colMap := make(map[string]int)
	for i, col := range rows[0] {
		colMap[strings.TrimSpace(strings.ToLower(col))] = i
	}
	for _, required := range []string{"slug", "title", "flag", "value"} {
		if _, ok := colMap[required]; !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "MISSING_COLUMN", "message": "missing required column: " + required})
			return
		}
	}

	cell := func(row []string, name string) string {
		i, ok := colMap[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	result := ImportResult{Errors: []string{}}
	var parsed []importChallengeRow
	seen := make(map[string]bool)
	for n, row := range rows[1:] {
		result.Total++
		line := n + 2 // spreadsheet row number

		r := importChallengeRow{
			Slug:        cell(row, "slug"),
			Title:       cell(row, "title"),
			Author:      cell(row, "author"),
			Description: cell(row, "description"),
			Tags:        cell(row, "tags"),
			Flag:        cell(row, "flag"),
			Enabled:     true,
		}
		if r.Slug == "" || r.Title == "" || r.Flag == "" {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: slug, title and flag are required", line))
			continue
		}
		if seen[r.Slug] {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: duplicate slug %q in file", line, r.Slug))
			continue
		}
		r.Value, err = strconv.Atoi(cell(row, "value"))
		if err != nil || r.Value < 1 {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: invalid value", line))
			continue
		}
		if e := strings.ToLower(cell(row, "enabled")); e == "false" || e == "no" || e == "0" {
			r.Enabled = false
		}
		seen[r.Slug] = true
		parsed = append(parsed, r)
	}

	var maxID int
	if err := db.QueryRow(`SELECT COALESCE(MAX(id), 0) FROM challenges`).Scan(&maxID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}
	if maxID+len(parsed) > solves.MaxChallenges {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CHALLENGE_LIMIT",
			"message": fmt.Sprintf("import of %d challenges would exceed the 63-challenge ceiling", len(parsed))})
		return
	}

	tx, err := db.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}
	defer tx.Rollback()

	for _, r := range parsed {
		_, err := tx.Exec(`INSERT INTO challenges (slug, title, author, description, tags, flag, value, enabled)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			r.Slug, r.Title, r.Author, r.Description, r.Tags, r.Flag, r.Value, r.Enabled)
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "CONFLICT", "message": "slug already exists: " + r.Slug})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
			return
		}
		result.Imported++
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}

	log.Printf("imported %d challenges (%d skipped)", result.Imported, result.Skipped)
	c.JSON(http.StatusOK, result)
}
