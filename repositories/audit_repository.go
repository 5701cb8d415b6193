package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/AnthonyFclub/glor-crm/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const auditCollection = "activity_logs"

// AuditFilter acota la consulta del registro de actividad
type AuditFilter struct {
	Entity   string
	EntityID string
	UserID   string
	Limit    int64
}

// AuditRepository guarda el registro de cambios en MongoDB
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.ActivityLog) error
	List(ctx context.Context, filter AuditFilter) ([]domain.ActivityLog, error)
}

type auditRepository struct {
	collection *mongo.Collection
}

// ConnectMongo abre el cliente y verifica la conexión
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

// NewAuditRepository crea el repositorio sobre la base indicada
func NewAuditRepository(client *mongo.Client, database string) AuditRepository {
	return &auditRepository{collection: client.Database(database).Collection(auditCollection)}
}

func (r *auditRepository) Insert(ctx context.Context, entry *domain.ActivityLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// List devuelve las entradas más recientes primero
func (r *auditRepository) List(ctx context.Context, filter AuditFilter) ([]domain.ActivityLog, error) {
	query := bson.M{}
	if filter.Entity != "" {
		query["entity"] = filter.Entity
	}
	if filter.EntityID != "" {
		query["entity_id"] = filter.EntityID
	}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []domain.ActivityLog{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
