package mongodb

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const (
	_defaultConnAttempts = 10
	_defaultConnTimeout  = time.Second
)

type MongoDB struct {
	connAttempts int
	connTimeout  time.Duration

	Client   *mongo.Client
	Database *mongo.Database
}

func New(ctx context.Context, uri, database string, opts ...Option) (*MongoDB, error) {
	m := &MongoDB{
		connAttempts: _defaultConnAttempts,
		connTimeout:  _defaultConnTimeout,
	}

	for _, opt := range opts {
		opt(m)
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("MongoDB - New - mongo.Connect: %w", err)
	}

	for m.connAttempts > 0 {
		err = client.Ping(ctx, readpref.Primary())
		if err == nil {
			break
		}

		log.Printf("MongoDB is trying to connect, attempts left: %d", m.connAttempts)

		time.Sleep(m.connTimeout)

		m.connAttempts--
	}

	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("MongoDB - New - connAttempts == 0: %w", err)
	}

	m.Client = client
	m.Database = client.Database(database)

	return m, nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	if m.Client == nil {
		return nil
	}

	err := m.Client.Disconnect(ctx)
	if err != nil {
		return fmt.Errorf("MongoDB - Close - m.Client.Disconnect: %w", err)
	}

	return nil
}
