// Mongo-backed itinerary store: one document per (user, itinerary).
package itinerary

import (
	"context"
	"time"

	"oneclick/db"
	"oneclick/models"
	"oneclick/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore() *MongoStore {
	return &MongoStore{coll: db.ItineraryCollection}
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// GetByUser returns the user's itinerary or nil when none exists. If
// duplicates ever crept in, the most recently updated one is canonical.
func (s *MongoStore) GetByUser(ctx context.Context, userID string) (*models.PlanRecord, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "updated_at", Value: -1}})

	var rec models.PlanRecord
	err := s.coll.FindOne(ctx, bson.M{"user_id": userID}, opts).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Save upserts the record, assigning an itinerary id on first persist.
func (s *MongoStore) Save(ctx context.Context, userID string, plan *models.PlanRecord) (*models.PlanRecord, error) {
	rec := *plan
	rec.UserID = userID
	if rec.ItineraryID == "" {
		rec.ItineraryID = utils.GetUUID()
	}
	if rec.CreatedAt == "" {
		rec.CreatedAt = nowISO()
	}
	rec.UpdatedAt = nowISO()
	if rec.Attractions == nil {
		rec.Attractions = []models.PlanItem{}
	}
	if rec.Restaurants == nil {
		rec.Restaurants = []models.PlanItem{}
	}

	filter := bson.M{"user_id": userID, "itineraryid": rec.ItineraryID}
	_, err := s.coll.ReplaceOne(ctx, filter, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// AppendToCategory pushes the item onto the category list atomically.
func (s *MongoStore) AppendToCategory(ctx context.Context, userID, itineraryID string, item models.PlanItem, categoryKey string) error {
	filter := bson.M{"user_id": userID, "itineraryid": itineraryID}
	update := bson.M{
		"$push": bson.M{categoryKey: item},
		"$set":  bson.M{"updated_at": nowISO()},
	}
	_, err := s.coll.UpdateOne(ctx, filter, update)
	return err
}

func (s *MongoStore) RemoveFromCategory(ctx context.Context, userID, itineraryID, itemID, categoryKey string) error {
	filter := bson.M{"user_id": userID, "itineraryid": itineraryID}
	update := bson.M{
		"$pull": bson.M{categoryKey: bson.M{"id": itemID}},
		"$set":  bson.M{"updated_at": nowISO()},
	}
	_, err := s.coll.UpdateOne(ctx, filter, update)
	return err
}

func (s *MongoStore) Delete(ctx context.Context, userID, itineraryID string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"user_id": userID, "itineraryid": itineraryID})
	return err
}
