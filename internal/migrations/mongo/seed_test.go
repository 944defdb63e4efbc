package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"innkeep/pkg/model"
)

func TestRoomUpsert_SetsTimestampsOnInsert(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	update := roomUpsert(roomCatalog[0], now)

	onInsert, ok := update["$setOnInsert"].(bson.M)
	if !ok {
		t.Fatal("update has no $setOnInsert document")
	}
	if onInsert["created_at"] != now {
		t.Errorf("created_at = %v, want %v", onInsert["created_at"], now)
	}
	if onInsert["status"] != model.RoomAvailable {
		t.Errorf("status = %v, want %v", onInsert["status"], model.RoomAvailable)
	}

	set, ok := update["$set"].(bson.M)
	if !ok {
		t.Fatal("update has no $set document")
	}
	if set["updated_at"] != now {
		t.Errorf("updated_at = %v, want %v", set["updated_at"], now)
	}
	if _, refreshed := set["status"]; refreshed {
		t.Error("$set touches status, which would clobber live room state")
	}
}
