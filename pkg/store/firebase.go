package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"
)

// FirebaseConfig points at a Realtime Database and the service account used
// to reach it.
type FirebaseConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
	DatabaseURL     string `mapstructure:"database_url"`
	Root            string `mapstructure:"root"`
}

// Firebase stores each key as a string child of Root in a Firebase Realtime
// Database.
type Firebase struct {
	client *db.Client
	root   string
}

// NewFirebase initialises the Firebase app and database client.
func NewFirebase(ctx context.Context, cfg FirebaseConfig) (*Firebase, error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("store: firebase database url is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{DatabaseURL: cfg.DatabaseURL}, opts...)
	if err != nil {
		return nil, fmt.Errorf("store: firebase app: %w", err)
	}
	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: firebase database client: %w", err)
	}

	root := strings.Trim(cfg.Root, "/")
	if root == "" {
		root = "formwalk"
	}
	return &Firebase{client: client, root: root}, nil
}

func (f *Firebase) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	// missing nodes decode from null and leave value empty
	var value string
	if err := f.client.NewRef(f.path(key)).Get(ctx, &value); err != nil {
		return nil, wrapf("firebase", "get", key, err)
	}
	if value == "" {
		return nil, ErrNotFound
	}
	return []byte(value), nil
}

func (f *Firebase) Set(ctx context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := f.client.NewRef(f.path(key)).Set(ctx, string(value)); err != nil {
		return wrapf("firebase", "set", key, err)
	}
	return nil
}

func (f *Firebase) Close() error {
	return nil
}

func (f *Firebase) path(key string) string {
	return f.root + "/" + strings.Trim(key, "/")
}
