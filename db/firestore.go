package db

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const defaultSnapshotsCollection = "snapshots"

// FirestoreStore keeps each key as one document holding the raw JSON in its "data" field.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreStore connects with base64 encoded service account credentials.
func NewFirestoreStore(ctx context.Context, encodedCreds, collection string) (*FirestoreStore, error) {
	if encodedCreds == "" {
		return nil, errors.New("FIREBASE_CREDENTIALS is required for the firestore store")
	}
	creds, err := base64.StdEncoding.DecodeString(encodedCreds)
	if err != nil {
		return nil, fmt.Errorf("decode firestore credentials: %w", err)
	}

	opt := option.WithCredentialsJSON(creds)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("get firestore client: %w", err)
	}

	if collection == "" {
		collection = defaultSnapshotsCollection
	}
	return &FirestoreStore{client: client, collection: collection}, nil
}

func (s *FirestoreStore) Load(ctx context.Context, key string) ([]byte, error) {
	doc, err := s.client.Collection(s.collection).Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting %s: %w", key, err)
	}

	raw, ok := doc.Data()["data"].(string)
	if !ok {
		return nil, fmt.Errorf("document %s has no data field", key)
	}
	return []byte(raw), nil
}

func (s *FirestoreStore) Save(ctx context.Context, key string, data []byte) error {
	_, err := s.client.Collection(s.collection).Doc(key).Set(ctx, map[string]interface{}{
		"data":      string(data),
		"updatedAt": time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("error saving %s: %w", key, err)
	}
	return nil
}

func (s *FirestoreStore) List(ctx context.Context, prefix string) ([]string, error) {
	iter := s.client.Collection(s.collection).DocumentRefs(ctx)
	var keys []string
	for {
		ref, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error listing %s: %w", s.collection, err)
		}
		if strings.HasPrefix(ref.ID, prefix) {
			keys = append(keys, ref.ID)
		}
	}
	return keys, nil
}

func (s *FirestoreStore) Delete(ctx context.Context, key string) error {
	if _, err := s.client.Collection(s.collection).Doc(key).Delete(ctx); err != nil {
		return fmt.Errorf("error deleting %s: %w", key, err)
	}
	return nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
