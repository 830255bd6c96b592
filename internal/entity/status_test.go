package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestStatusProjectionWireShape(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	updated := created.Add(time.Minute)

	pic := &Picture{ID: uuid.New(), Name: "uploads/a.jpg", URL: "http://s3/bucket/uploads/a.jpg", CreatedAt: created}
	st := &Status{ID: uuid.New(), PictureID: pic.ID, Authorised: true, CreatedAt: created, UpdatedAt: &updated}

	raw, err := json.Marshal(NewStatusProjection(st, pic))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		t.Fatalf("unmarshal generic: %v", err)
	}
	for _, key := range []string{"id", "picture", "authorised", "created_at", "updated_at"} {
		if _, ok := generic[key]; !ok {
			t.Errorf("missing key %q in %s", key, raw)
		}
	}
	picture, ok := generic["picture"].(map[string]any)
	if !ok {
		t.Fatalf("picture is not an object: %s", raw)
	}
	if picture["updated_at"] != nil {
		t.Errorf("picture.updated_at = %v, want null", picture["updated_at"])
	}

	var back StatusProjection
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.ID != st.ID || back.Authorised != st.Authorised {
		t.Errorf("round trip mismatch: %+v", back)
	}
	if back.Picture.ID != pic.ID || back.Picture.Name != pic.Name || back.Picture.URL != pic.URL {
		t.Errorf("picture mismatch: %+v", back.Picture)
	}
	if back.UpdatedAt == nil || !back.UpdatedAt.Equal(updated) {
		t.Errorf("updated_at = %v, want %v", back.UpdatedAt, updated)
	}
}

func TestPush(t *testing.T) {
	id := uuid.New()
	p := StatusProjection{ID: id, Authorised: true}

	push := p.Push()
	if push.ID != id.String() || !push.Authorised {
		t.Fatalf("Push() = %+v", push)
	}
}
