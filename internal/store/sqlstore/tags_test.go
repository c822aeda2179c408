package sqlstore

import (
	"context"
	"errors"
	"testing"

	"github.com/notekeeperapp/notekeeper/internal/domain"
	"github.com/notekeeperapp/notekeeper/internal/store"
)

// makeTestTag creates a domain.Tag with sensible defaults for testing.
func makeTestTag(userID int64, name, color string) *domain.Tag {
	now := tick()
	return &domain.Tag{UserID: userID, Name: name, Color: color, CreatedAt: now, UpdatedAt: now}
}

func testTags(t *testing.T, s *Store) {
	ctx := context.Background()
	u := mustUser(t, s, "tags@example.com")
	other := mustUser(t, s, "other@example.com")

	urgent := makeTestTag(u.ID, "urgent", "bg-red-500")
	if err := s.CreateTag(ctx, urgent); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	// Names are not unique.
	again := makeTestTag(u.ID, "urgent", domain.DefaultTagColor)
	if err := s.CreateTag(ctx, again); err != nil {
		t.Fatalf("CreateTag duplicate name: %v", err)
	}

	tags, err := s.ListTags(ctx, u.ID)
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(tags) != 2 || tags[0].ID != urgent.ID || tags[1].ID != again.ID {
		t.Fatalf("ListTags: got %+v", tags)
	}

	urgent.Name = "later"
	urgent.Color = "bg-gray-500"
	urgent.UpdatedAt = tick()
	if err := s.UpdateTag(ctx, urgent); err != nil {
		t.Fatalf("UpdateTag: %v", err)
	}
	got, err := s.GetTag(ctx, u.ID, urgent.ID)
	if err != nil {
		t.Fatalf("GetTag: %v", err)
	}
	if got.Name != "later" || got.Color != "bg-gray-500" {
		t.Errorf("GetTag: got %+v", got)
	}

	if _, err := s.GetTag(ctx, other.ID, urgent.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetTag as other user: got %v", err)
	}
	if err := s.DeleteTag(ctx, other.ID, urgent.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("DeleteTag as other user: got %v", err)
	}

	if err := s.DeleteTag(ctx, u.ID, urgent.ID); err != nil {
		t.Fatalf("DeleteTag: %v", err)
	}
	tags, _ = s.ListTags(ctx, u.ID)
	if len(tags) != 1 {
		t.Errorf("ListTags after delete: got %d", len(tags))
	}
}
