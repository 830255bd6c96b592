package document

import (
	"testing"
	"time"

	"github.com/andreyxaxa/Access-Gate/internal/entity"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestStatusDocumentRoundTrip(t *testing.T) {
	updated := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	in := &entity.Status{
		ID:         uuid.New(),
		PictureID:  uuid.New(),
		Authorised: true,
		CreatedAt:  time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC),
		UpdatedAt:  &updated,
	}

	raw, err := bson.Marshal(fromStatus(in))
	if err != nil {
		t.Fatalf("bson.Marshal: %v", err)
	}

	var doc statusDocument
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("bson.Unmarshal: %v", err)
	}

	out, err := doc.entity()
	if err != nil {
		t.Fatalf("entity: %v", err)
	}
	if out.ID != in.ID || out.PictureID != in.PictureID || out.Authorised != in.Authorised {
		t.Errorf("got %+v, want %+v", out, in)
	}
	if !out.CreatedAt.Equal(in.CreatedAt) || out.UpdatedAt == nil || !out.UpdatedAt.Equal(updated) {
		t.Errorf("timestamps: got %v/%v", out.CreatedAt, out.UpdatedAt)
	}
}

func TestPictureDocumentStoresIDAsString(t *testing.T) {
	in := &entity.Picture{ID: uuid.New(), Name: "uploads/a.jpg", URL: "http://x/b/uploads/a.jpg", CreatedAt: time.Now()}

	raw, err := bson.Marshal(fromPicture(in))
	if err != nil {
		t.Fatalf("bson.Marshal: %v", err)
	}

	id, ok := bson.Raw(raw).Lookup("_id").StringValueOK()
	if !ok || id != in.ID.String() {
		t.Fatalf("_id = %q (ok=%v), want %q", id, ok, in.ID.String())
	}

	if v := bson.Raw(raw).Lookup("updated_at"); v.Type != bson.TypeNull {
		t.Errorf("updated_at type = %v, want null", v.Type)
	}
}

func TestPictureDocumentRejectsBadID(t *testing.T) {
	_, err := pictureDocument{ID: "not-a-uuid"}.entity()
	if err == nil {
		t.Fatal("expected error")
	}
}
