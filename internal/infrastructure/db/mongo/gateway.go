package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pawhaven/canine-care/internal/core/domain"
	"github.com/pawhaven/canine-care/internal/core/ports"
)

// scopeFunc translates a gateway filter into a query document for one
// collection. A nil result means no server-side filtering.
type scopeFunc func(ports.Filter) bson.M

func canineScope(f ports.Filter) bson.M {
	if f.OwnerID == "" {
		return bson.M{}
	}
	return bson.M{"owner_id": f.OwnerID}
}

func dependentScope(f ports.Filter) bson.M {
	if f.CanineID == "" {
		return bson.M{}
	}
	return bson.M{"canine_id": f.CanineID}
}

func sharedScope(ports.Filter) bson.M { return bson.M{} }

// collectionGateway implements ports.Gateway for one entity family. Records
// map to documents through their bson tags; sync state never leaves the
// process.
type collectionGateway[T domain.Record[T]] struct {
	col   *mongo.Collection
	scope scopeFunc
}

func newGateway[T domain.Record[T]](db *mongo.Database, name string, scope scopeFunc) *collectionGateway[T] {
	return &collectionGateway[T]{col: db.Collection(name), scope: scope}
}

func (g *collectionGateway[T]) GetAll(ctx context.Context, f ports.Filter) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := g.col.Find(ctx, g.scope(f), opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", g.col.Name(), err)
	}
	defer cur.Close(ctx)

	var rows []T
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode %s: %w", g.col.Name(), err)
	}
	return markSynced(rows), nil
}

func (g *collectionGateway[T]) GetByID(ctx context.Context, id string) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var row T
	if err := g.col.FindOne(ctx, bson.M{"_id": id}).Decode(&row); err != nil {
		var zero T
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, domain.ErrNotFound
		}
		return zero, fmt.Errorf("find %s %s: %w", g.col.Name(), id, err)
	}
	return synced(row), nil
}

func (g *collectionGateway[T]) Create(ctx context.Context, e T) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m := e.Meta()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.SyncState = ""
	e = e.WithMeta(m)

	if _, err := g.col.InsertOne(ctx, e); err != nil {
		var zero T
		return zero, fmt.Errorf("insert %s: %w", g.col.Name(), err)
	}
	return synced(e), nil
}

func (g *collectionGateway[T]) Update(ctx context.Context, id string, e T) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m := e.Meta()
	m.ID = id
	m.SyncState = ""
	e = e.WithMeta(m)

	res, err := g.col.ReplaceOne(ctx, bson.M{"_id": id}, e)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("replace %s %s: %w", g.col.Name(), id, err)
	}
	if res.MatchedCount == 0 {
		var zero T
		return zero, domain.ErrNotFound
	}
	return synced(e), nil
}

func (g *collectionGateway[T]) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := g.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete %s %s: %w", g.col.Name(), id, err)
	}
	return res.DeletedCount > 0, nil
}

func synced[T domain.Record[T]](e T) T {
	m := e.Meta()
	m.SyncState = domain.SyncStateSynced
	return e.WithMeta(m)
}

func markSynced[T domain.Record[T]](rows []T) []T {
	for i, e := range rows {
		rows[i] = synced(e)
	}
	return rows
}

// NewGateways wires one gateway per entity family against the given database.
func NewGateways(db *mongo.Database) ports.Gateways {
	return ports.Gateways{
		Configured:    true,
		Canines:       newGateway[domain.CanineProfile](db, "canines", canineScope),
		Nutrition:     newGateway[domain.NutritionEntry](db, "nutrition_entries", dependentScope),
		Training:      newGateway[domain.TrainingLog](db, "training_logs", dependentScope),
		Appointments:  newGateway[domain.Appointment](db, "appointments", dependentScope),
		Media:         newGateway[domain.MediaItem](db, "media_items", dependentScope),
		Medical:       newGateway[domain.MedicalRecord](db, "medical_records", dependentScope),
		Medications:   newGateway[domain.MedicationEntry](db, "medication_entries", dependentScope),
		Visits:        newGateway[domain.VetVisit](db, "vet_visits", dependentScope),
		Immunizations: newGateway[domain.ImmunizationRecord](db, "immunization_records", dependentScope),
		Allergies:     newGateway[domain.CanineAllergy](db, "canine_allergies", dependentScope),
		Vets:          newGateway[domain.VetProfile](db, "vet_profiles", sharedScope),
		Contacts:      newGateway[domain.Contact](db, "contacts", sharedScope),
	}
}

// EnsureIndexes creates the foreign-key lookup indexes used by scoped loads
// and cascades.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	if _, err := db.Collection("canines").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}},
	}); err != nil {
		return fmt.Errorf("index canines: %w", err)
	}

	dependents := []string{
		"nutrition_entries", "training_logs", "appointments", "media_items",
		"medical_records", "medication_entries", "vet_visits",
		"immunization_records", "canine_allergies",
	}
	for _, name := range dependents {
		if _, err := db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "canine_id", Value: 1}},
		}); err != nil {
			return fmt.Errorf("index %s: %w", name, err)
		}
	}
	return nil
}
