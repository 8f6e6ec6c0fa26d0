package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/viriyakhulung/kosalla-new/internal/core/domain"
	"github.com/viriyakhulung/kosalla-new/internal/core/ports"
)

const accessEventsCollection = "access_events"

// accessEventDoc is the stored shape of domain.AccessEvent.
type accessEventDoc struct {
	ID        string    `bson:"_id"`
	Kind      string    `bson:"kind"`
	Email     string    `bson:"email,omitempty"`
	Path      string    `bson:"path,omitempty"`
	Roles     []string  `bson:"roles,omitempty"`
	RemoteIP  string    `bson:"remote_ip,omitempty"`
	RequestID string    `bson:"request_id,omitempty"`
	Detail    string    `bson:"detail,omitempty"`
	At        time.Time `bson:"at"`
}

// AuditRepository stores access events in the access_events collection.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(accessEventsCollection)}
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

// EnsureIndexes creates the lookup indexes used when reviewing the trail.
// retention > 0 additionally expires events after that long.
func (r *AuditRepository) EnsureIndexes(ctx context.Context, retention time.Duration) error {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "at", Value: -1}}},
	}
	if retention > 0 {
		models = append(models, mongo.IndexModel{
			Keys:    bson.D{{Key: "at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(retention.Seconds())),
		})
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("access_events indexes: %w", err)
	}
	return nil
}

func (r *AuditRepository) Insert(ctx context.Context, event *domain.AccessEvent) error {
	_, err := r.coll.InsertOne(ctx, toDoc(event))
	return err
}

func toDoc(e *domain.AccessEvent) accessEventDoc {
	return accessEventDoc{
		ID:        e.ID,
		Kind:      string(e.Kind),
		Email:     e.Email,
		Path:      e.Path,
		Roles:     e.Roles,
		RemoteIP:  e.RemoteIP,
		RequestID: e.RequestID,
		Detail:    e.Detail,
		At:        e.At.UTC(),
	}
}
