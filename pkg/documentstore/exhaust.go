package documentstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/maplelabs/chaos-actions/pkg/log"
)

// HeldConnections keeps a set of single-connection clients open until the
// experiment releases them.
type HeldConnections struct {
	clients []*mongo.Client
}

// Count returns how many connections are being held.
func (h *HeldConnections) Count() int {
	return len(h.clients)
}

// Release closes every held connection.
func (h *HeldConnections) Release(ctx context.Context) {
	for _, client := range h.clients {
		if err := client.Disconnect(ctx); err != nil {
			log.Warnf("could not release a held connection: %v", err)
		}
	}
	h.clients = nil
}

// ExhaustConnections opens up to n clients, each pinned to a single pooled
// connection, and holds them open to starve the store's connection budget.
// It stops at the first client that fails to connect and returns whatever
// was established so far.
func ExhaustConnections(ctx context.Context, uri string, n int) *HeldConnections {
	held := &HeldConnections{}
	for i := 0; i < n; i++ {
		client, err := mongo.Connect(ctx, options.Client().
			ApplyURI(uri).
			SetServerSelectionTimeout(2*time.Second).
			SetConnectTimeout(2*time.Second).
			SetSocketTimeout(5*time.Second).
			SetMaxPoolSize(1))
		if err != nil {
			log.Warnf("connection %v failed: %v", i+1, err)
			break
		}
		if err := client.Ping(ctx, nil); err != nil {
			log.Warnf("connection %v failed: %v", i+1, err)
			_ = client.Disconnect(ctx)
			break
		}
		held.clients = append(held.clients, client)
	}
	log.Infof("[Chaos]: Holding %v of %v requested connections", held.Count(), n)
	return held
}
