package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mywallhq/mywall-backend/internal/models"
)

const messagesCollection = "chat_messages"

// MongoMessageStore implements chat.MessageStore on a flat collection, one
// document per message with the receipt set embedded. A replace-upsert of the
// whole document keeps every multi-receipt mutation atomic.
type MongoMessageStore struct {
	col *mongo.Collection
}

func NewMongoMessageStore(db *mongo.Database) *MongoMessageStore {
	return &MongoMessageStore{col: db.Collection(messagesCollection)}
}

// EnsureIndexes configures indexes for the chat_messages collection.
// Called on startup from main after Mongo has connected.
func (s *MongoMessageStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "chat_id", Value: 1},
			{Key: "created_at", Value: 1},
		},
		Options: options.Index().SetName("idx_chat_created"),
	})
	return err
}

func (s *MongoMessageStore) SaveMessage(ctx context.Context, msg *models.Message) error {
	_, err := s.col.ReplaceOne(ctx,
		bson.M{"_id": msg.ID},
		msg,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (s *MongoMessageStore) MessageByID(ctx context.Context, messageID string) (*models.Message, error) {
	var msg models.Message
	err := s.col.FindOne(ctx, bson.M{"_id": messageID}).Decode(&msg)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *MongoMessageStore) MessagesByChat(ctx context.Context, chatID string) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.col.Find(ctx, bson.M{"chat_id": chatID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var msgs []models.Message
	for cur.Next(ctx) {
		var m models.Message
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, cur.Err()
}
