package migrations

import (
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestUp_DBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	_ = mock // goose issues its own queries; none are expected, so Up must fail

	if err := Up(db); err == nil {
		t.Fatal("expected error from Up, got nil")
	} else if !strings.Contains(err.Error(), "migration") {
		t.Errorf("expected wrapped migration error, got: %v", err)
	}
}
