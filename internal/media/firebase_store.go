package media

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/storage"
)

// FirebaseStore keeps media in the Firebase Storage bucket of the project
type FirebaseStore struct {
	bucket *storage.BucketHandle
	prefix string
}

func NewFirebaseStore(bucket *storage.BucketHandle, prefix string) *FirebaseStore {
	return &FirebaseStore{bucket: bucket, prefix: prefix}
}

func (s *FirebaseStore) Save(ctx context.Context, name string, u Upload) error {
	w := s.bucket.Object(s.prefix + name).NewWriter(ctx)
	w.ContentType = u.ContentType
	if _, err := w.Write(u.Data); err != nil {
		w.Close()
		return fmt.Errorf("writing object: %w", err)
	}
	return w.Close()
}

func (s *FirebaseStore) Remove(ctx context.Context, name string) error {
	err := s.bucket.Object(s.prefix + name).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}
