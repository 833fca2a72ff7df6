package sessionRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"servicesync/database"
	"servicesync/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSessionRepo implements SessionRepository using MongoDB.
type MongoSessionRepo struct {
	coll *mongo.Collection
}

// NewMongoSessionRepo creates a new instance of SessionRepository using MongoDB.
func NewMongoSessionRepo() SessionRepository {
	coll := database.MongoClient.Database(database.DatabaseName).Collection("sessions")
	repo := &MongoSessionRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoSessionRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "sessionId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "hostessId", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "shiftTime", Value: 1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new session document.
func (r *MongoSessionRepo) Create(session *models.SessionRecord) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetBySessionID retrieves a session by its public session ID.
func (r *MongoSessionRepo) GetBySessionID(sessionID string) (*models.SessionRecord, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var session models.SessionRecord
	err := r.coll.FindOne(ctx, bson.M{"sessionId": sessionID}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session %s: %w", sessionID, err)
	}
	return &session, nil
}

// Update applies the patched fields with a targeted $set. The document is
// never replaced wholesale, so ledger entries written between a read and
// this update survive.
func (r *MongoSessionRepo) Update(sessionID string, patch SessionPatch) error {
	set := bson.M{}
	if patch.MealsServed != nil {
		set["mealData.served"] = *patch.MealsServed
	}
	if patch.Comments != nil {
		set["documentation.comments"] = *patch.Comments
	}
	if patch.AdditionalNotes != nil {
		set["documentation.additionalNotes"] = *patch.AdditionalNotes
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.DietSheetPhoto != nil {
		set["documentation.dietSheetPhoto"] = *patch.DietSheetPhoto
	}
	if patch.NurseInfo != nil {
		set["nurseInfo"] = *patch.NurseInfo
	}
	if patch.Performance != nil {
		set["performance"] = *patch.Performance
	}
	if len(set) == 0 {
		return nil
	}

	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx, bson.M{"sessionId": sessionID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update session %s: %w", sessionID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("session %s not found", sessionID)
	}
	return nil
}

// SetTimestamp records one ledger milestone. The filter refuses to touch a
// key that is already set, keeping the ledger append-only at the store too.
func (r *MongoSessionRepo) SetTimestamp(sessionID string, key models.TimestampKey, at time.Time) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	field := "timestamps." + string(key)
	filter := bson.M{
		"sessionId": sessionID,
		field:       bson.M{"$exists": false},
	}
	update := bson.M{"$set": bson.M{field: at}}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to set %s on session %s: %w", key, sessionID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("session %s not found or %s already recorded", sessionID, key)
	}
	return nil
}

// ListByDay returns all sessions whose shift started within the given day.
func (r *MongoSessionRepo) ListByDay(day time.Time) ([]models.SessionRecord, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)
	filter := bson.M{"shiftTime": bson.M{"$gte": start, "$lt": end}}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []models.SessionRecord
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}
	return sessions, nil
}

// ExpireOlderThan marks still-active sessions older than cutoff as expired
// and returns the affected records.
func (r *MongoSessionRepo) ExpireOlderThan(cutoff time.Time) ([]models.SessionRecord, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{
		"status":    models.SessionActive,
		"shiftTime": bson.M{"$lt": cutoff},
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find stale sessions: %w", err)
	}
	var stale []models.SessionRecord
	if err := cursor.All(ctx, &stale); err != nil {
		return nil, fmt.Errorf("failed to decode stale sessions: %w", err)
	}

	if len(stale) > 0 {
		update := bson.M{"$set": bson.M{"status": models.SessionExpired}}
		if _, err := r.coll.UpdateMany(ctx, filter, update); err != nil {
			return nil, fmt.Errorf("failed to expire sessions: %w", err)
		}
	}
	return stale, nil
}
