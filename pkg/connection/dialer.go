package connection

import (
	"context"
	"fmt"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/localstore"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/qdrant"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/vectordb"
)

// DefaultDialer opens the embedded store for local mode and the Qdrant
// gRPC client otherwise.
func DefaultDialer(ctx context.Context, ep Endpoint) (vectordb.Backend, error) {
	switch ep.Mode {
	case ModeLocal:
		store, err := localstore.Open(ctx, localstore.Options{Path: ep.Path, BusyTimeout: ep.Timeout})
		if err != nil {
			return nil, err
		}
		return store, nil
	case ModeServer, ModeCloud:
		client, err := qdrant.New(qdrant.Options{
			Host:               ep.Host,
			Port:               ep.Port,
			APIKey:             ep.APIKey,
			UseTLS:             ep.UseTLS,
			Timeout:            ep.Timeout,
			CheckCompatibility: ep.CheckCompatibility,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	return nil, fmt.Errorf("unsupported connection mode %q", ep.Mode)
}
