package persistent

import (
	"strings"
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var dollar = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func TestUpdateAuthorisedQuery(t *testing.T) {
	id := uuid.New()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	sql, args, err := updateAuthorisedQuery(dollar, id, true, at)
	if err != nil {
		t.Fatalf("updateAuthorisedQuery: %v", err)
	}

	want := "UPDATE statuses SET authorised = $1, updated_at = $2 WHERE id = $3 " +
		"RETURNING id, picture_id, authorised, created_at, updated_at"
	if sql != want {
		t.Errorf("sql = %q\nwant %q", sql, want)
	}

	if len(args) != 3 || args[0] != true || args[1] != at || args[2] != id {
		t.Errorf("args = %v", args)
	}
}

func TestOrphansQuery(t *testing.T) {
	before := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	sql, args, err := orphansQuery(dollar, before, 25)
	if err != nil {
		t.Fatalf("orphansQuery: %v", err)
	}

	for _, part := range []string{
		"SELECT p.id, p.name, p.url, p.created_at, p.updated_at FROM pictures p",
		"LEFT JOIN statuses s ON s.picture_id = p.id",
		"s.id IS NULL",
		"p.created_at < $1",
		"ORDER BY p.created_at",
		"LIMIT 25",
	} {
		if !strings.Contains(sql, part) {
			t.Errorf("sql %q is missing %q", sql, part)
		}
	}

	if len(args) != 1 || args[0] != before {
		t.Errorf("args = %v", args)
	}
}
