package database

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultDatabase = "mindcare"

// ConnectMongo connects and pings MongoDB, returning the client and the database
// named by dbName, the URI path, or "mindcare" in that order.
func ConnectMongo(ctx context.Context, mongoURI, dbName string) (*mongo.Client, *mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(mongoURI)
	clientOptions.SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 10*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, nil, err
	}

	if dbName == "" {
		dbName = DatabaseNameFromURI(mongoURI)
	}
	return client, client.Database(dbName), nil
}

// DatabaseNameFromURI extracts the database segment of a mongodb:// URI.
func DatabaseNameFromURI(mongoURI string) string {
	rest := mongoURI
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	slash := strings.Index(rest, "/")
	if slash < 0 {
		return defaultDatabase
	}
	name := strings.SplitN(rest[slash+1:], "?", 2)[0]
	if name == "" {
		return defaultDatabase
	}
	return name
}

func DisconnectMongo(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return client.Disconnect(ctx)
}
