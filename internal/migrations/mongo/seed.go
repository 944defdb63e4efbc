package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"innkeep/pkg/model"
	"innkeep/pkg/password"
)

// roomCatalog is the fixture inventory. Seeding upserts by room number, so
// rooms already taken keep their live status.
var roomCatalog = []model.Room{
	{RoomNumber: "101", Category: model.CategorySingle, Price: 75, Capacity: 1, Amenities: []string{"wifi", "tv"}},
	{RoomNumber: "102", Category: model.CategorySingle, Price: 75, Capacity: 1, Amenities: []string{"wifi", "tv"}},
	{RoomNumber: "103", Category: model.CategoryDouble, Price: 120, Capacity: 2, Amenities: []string{"wifi", "tv", "minibar"}},
	{RoomNumber: "104", Category: model.CategoryDouble, Price: 120, Capacity: 2, Amenities: []string{"wifi", "tv", "minibar"}},
	{RoomNumber: "201", Category: model.CategoryDouble, Price: 140, Capacity: 3, Amenities: []string{"wifi", "tv", "minibar", "balcony"}},
	{RoomNumber: "202", Category: model.CategorySuite, Price: 250, Capacity: 4, Amenities: []string{"wifi", "tv", "minibar", "balcony", "jacuzzi"}},
	{RoomNumber: "301", Category: model.CategorySuite, Price: 320, Capacity: 4, Amenities: []string{"wifi", "tv", "minibar", "balcony", "jacuzzi", "kitchenette"}},
}

type demoUser struct {
	Username string
	Email    string
	Password string
	Role     model.Role
}

// Demo accounts for local development. Passwords are hashed at seed time and
// only written on first insert.
var demoUsers = []demoUser{
	{Username: "frontdesk", Email: "frontdesk@innkeep.local", Password: "frontdesk123", Role: model.RoleReceptionist},
	{Username: "admin", Email: "admin@innkeep.local", Password: "admin12345", Role: model.RoleAdmin},
	{Username: "demo", Email: "demo@innkeep.local", Password: "demo12345", Role: model.RoleGuest},
}

func RunSeed(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	fmt.Printf("🌱 Seeding database: %s\n", dbName)

	if err := seedRooms(ctx, db); err != nil {
		return fmt.Errorf("failed to seed rooms: %w", err)
	}
	if err := seedUsers(ctx, db); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	fmt.Println("✅ Seed data applied successfully.")
	return nil
}

// roomUpsert builds the seed update for one room. Catalog attributes are
// always refreshed; identity, status, and created_at are written on first
// insert only so live rooms keep their state.
func roomUpsert(room model.Room, now time.Time) bson.M {
	return bson.M{
		"$set": bson.M{
			"category":   room.Category,
			"price":      room.Price,
			"capacity":   room.Capacity,
			"amenities":  room.Amenities,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"room_number": room.RoomNumber,
			"status":      model.RoomAvailable,
			"created_at":  now,
		},
	}
}

func seedRooms(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection("Rooms")
	now := time.Now().UTC()

	for _, room := range roomCatalog {
		filter := bson.M{"room_number": room.RoomNumber}
		update := roomUpsert(room, now)

		result, err := coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("failed upserting room %s: %w", room.RoomNumber, err)
		}
		if result.UpsertedCount > 0 {
			fmt.Printf("🆕 Seeded room %s (%s)\n", room.RoomNumber, room.Category)
		}
	}

	return nil
}

func seedUsers(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection("Users")
	now := time.Now().UTC()

	for _, u := range demoUsers {
		hash, err := password.Hash(u.Password)
		if err != nil {
			return fmt.Errorf("failed hashing password for %s: %w", u.Username, err)
		}

		filter := bson.M{"username": u.Username}
		update := bson.M{
			"$setOnInsert": bson.M{
				"username":       u.Username,
				"email":          u.Email,
				"password_hash":  hash,
				"role":           u.Role,
				"loyalty_points": 0,
				"created_at":     now,
				"updated_at":     now,
			},
		}

		result, err := coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("failed upserting user %s: %w", u.Username, err)
		}
		if result.UpsertedCount > 0 {
			fmt.Printf("🆕 Seeded user %s (%s)\n", u.Username, u.Role)
		}
	}

	return nil
}
