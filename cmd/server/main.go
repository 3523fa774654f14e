package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/mywallhq/mywall-backend/internal/chat"
	"github.com/mywallhq/mywall-backend/internal/config"
	"github.com/mywallhq/mywall-backend/internal/database"
	"github.com/mywallhq/mywall-backend/internal/store"
)

// application is the composition root: the wired chat domain plus whatever
// transport the deployment mounts on top of it. This repo ships only the
// operational endpoints; the API layer lives with the front-end deployment.
type application struct {
	chat *chat.Service
}

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	// Connect to PostgreSQL
	log.Printf("Connecting to PostgreSQL...")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer database.DisconnectPostgres()

	// Connect to Redis
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	// Connect to MongoDB
	log.Printf("Connecting to MongoDB...")
	if err := database.Connect(cfg.MongoURI); err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.Disconnect()

	// Wire the chat domain: Postgres chats/identity, Mongo messages,
	// Redis-backed membership cache in front of the chat store.
	messages := store.NewMongoMessageStore(database.DB)
	if err := messages.EnsureIndexes(context.Background()); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure MongoDB message indexes: %v", err)
	} else {
		log.Println("✅ MongoDB message indexes ensured")
	}

	chats := store.NewCachedChatStore(store.NewPostgresChatStore(database.PostgresDB), database.RedisClient)
	identity := store.NewPostgresIdentity(database.PostgresDB)

	app := &application{
		chat: chat.NewService(chats, messages, identity),
	}
	log.Println("✅ Chat domain wired")

	// Setup router (operational endpoints only)
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Get("/readyz", app.ready)

	log.Printf("🚀 MyWall backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// ready reports whether every datastore behind the chat domain answers.
func (app *application) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := database.PostgresDB.PingContext(ctx); err != nil {
		http.Error(w, "postgres unavailable", http.StatusServiceUnavailable)
		return
	}
	if err := database.RedisClient.Ping(ctx).Err(); err != nil {
		http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
		return
	}
	if err := database.Client.Ping(ctx, nil); err != nil {
		http.Error(w, "mongodb unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Write([]byte("ready"))
}
