package clients

import (
	"context"

	"cloud.google.com/go/storage"
	"github.com/ecosort-tech/go-backend/internal/cfg"
	"github.com/ecosort-tech/go-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"google.golang.org/api/option"
)

// NewGCSClient создаёт клиент Firebase Storage. Без CredentialsFile используются ADC.
func NewGCSClient(ctx context.Context, cfg *cfg.GCSCfg) (*storage.Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return client, nil
}
