package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/weiwei-tsao/country-stats/apps/api/internal/platform/config"
)

const pingTimeout = 5 * time.Second

// New creates the Firestore client backing report history. With an emulator
// host configured it connects without credentials; otherwise it authenticates
// with the service account from env (base64 or file). The returned string
// describes the connection for startup logs.
func New(ctx context.Context, cfg config.Config) (*firestore.Client, string, error) {
	opts, source, err := clientOptions(cfg)
	if err != nil {
		return nil, "", err
	}
	client, err := firestore.NewClient(ctx, cfg.FirebaseProjectID, opts...)
	if err != nil {
		return nil, "", fmt.Errorf("init firestore client (%s): %w", source, err)
	}
	return client, source, nil
}

func clientOptions(cfg config.Config) ([]option.ClientOption, string, error) {
	if cfg.FirestoreEmulatorHost != "" {
		return []option.ClientOption{
			option.WithEndpoint(cfg.FirestoreEmulatorHost),
			option.WithoutAuthentication(),
			option.WithGRPCDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		}, "emulator " + cfg.FirestoreEmulatorHost, nil
	}
	creds, source, err := cfg.FirebaseCredentialsJSON()
	if err != nil {
		return nil, "", err
	}
	return []option.ClientOption{option.WithCredentialsJSON(creds)}, source + " credentials", nil
}

// Ping reads at most one document of collection to confirm the project is
// reachable and the credentials can read report history. An empty
// collection is fine.
func Ping(ctx context.Context, client *firestore.Client, collection string) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	iter := client.Collection(collection).Limit(1).Documents(ctx)
	defer iter.Stop()
	if _, err := iter.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("read %s: %w", collection, err)
	}
	return nil
}
