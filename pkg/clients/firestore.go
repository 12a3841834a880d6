package clients

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/ecosort-tech/go-backend/internal/cfg"
	"github.com/ecosort-tech/go-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"google.golang.org/api/option"
)

// NewFirestoreClient создаёт клиент Firestore для cfg.ProjectID.
func NewFirestoreClient(ctx context.Context, cfg *cfg.FirestoreCfg) (*firestore.Client, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("%s: projectID must be provided to create a firestore client", whereami.WhereAmI())
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return client, nil
}
