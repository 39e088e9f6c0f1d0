package admin

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// badRowDriver serves a challenge row whose value column is not a number, so
// the first Scan fails.
type badRowDriver struct{}

func (badRowDriver) Open(string) (driver.Conn, error) { return badRowConn{}, nil }

type badRowConn struct{}

func (badRowConn) Prepare(string) (driver.Stmt, error) { return badRowStmt{}, nil }
func (badRowConn) Close() error                        { return nil }
func (badRowConn) Begin() (driver.Tx, error)           { return nil, errors.New("not supported") }

type badRowStmt struct{}

func (badRowStmt) Close() error  { return nil }
func (badRowStmt) NumInput() int { return -1 }
func (badRowStmt) Exec([]driver.Value) (driver.Result, error) {
	return nil, errors.New("not supported")
}
func (badRowStmt) Query([]driver.Value) (driver.Rows, error) { return &badRows{}, nil }

type badRows struct{ done bool }

func (*badRows) Columns() []string {
	return []string{"id", "slug", "title", "author", "description", "tags", "flag", "value", "solves", "enabled"}
}
func (*badRows) Close() error { return nil }
func (r *badRows) Next(dest []driver.Value) error {
	if r.done {
		return io.EOF
	}
	r.done = true
	dest[0] = int64(1)
	dest[1] = "pwn-1"
	dest[2] = "title"
	dest[3] = "author"
	dest[4] = "description"
	dest[5] = "pwn"
	dest[6] = "flag{x}"
	dest[7] = "notanumber"
	dest[8] = int64(0)
	dest[9] = true
	return nil
}

func TestListChallengesSurfacesScanFailure(t *testing.T) {
	sql.Register("badrow", badRowDriver{})
	db, err := sql.Open("badrow", "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/admin/challenges", nil)

	HandleListChallenges(c, db)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}
