// Package media stores uploaded post files and turns them into public URLs.
package media

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/JohnnyRuss/academind-back/internal/apperror"
	"github.com/google/uuid"
)

// Upload is one file taken from a multipart request
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Store persists media objects under a flat object name
type Store interface {
	Save(ctx context.Context, name string, u Upload) error
	Remove(ctx context.Context, name string) error
}

// Resolver maps uploads to stored objects and stored objects back to URLs
type Resolver struct {
	store   Store
	baseURL string
}

func NewResolver(store Store, baseURL string) *Resolver {
	return &Resolver{store: store, baseURL: strings.TrimRight(baseURL, "/")}
}

// StoreMedia saves every upload and returns their URLs in upload order. On
// failure the objects written so far are removed again.
func (r *Resolver) StoreMedia(ctx context.Context, uploads []Upload) ([]string, error) {
	urls := make([]string, 0, len(uploads))
	for _, u := range uploads {
		name := uuid.NewString() + strings.ToLower(filepath.Ext(u.Filename))
		if err := r.store.Save(ctx, name, u); err != nil {
			for _, url := range urls {
				_ = r.store.Remove(ctx, r.ObjectName(url))
			}
			return nil, apperror.Internal(err, "storing %s", u.Filename)
		}
		urls = append(urls, r.baseURL+"/"+name)
	}
	return urls, nil
}

// DeleteMedia removes the objects behind urls. Failures do not stop the
// loop; each one becomes a warning carrying the url.
func (r *Resolver) DeleteMedia(ctx context.Context, urls []string) []apperror.Warning {
	var warnings []apperror.Warning
	for _, url := range urls {
		name := r.ObjectName(url)
		if name == "" {
			warnings = append(warnings, apperror.Warning{Reference: url, Message: "not a managed media url"})
			continue
		}
		if err := r.store.Remove(ctx, name); err != nil {
			warnings = append(warnings, apperror.Warning{Reference: url, Message: fmt.Sprintf("media removal failed: %v", err)})
		}
	}
	return warnings
}

// ObjectName returns the object name behind a URL produced by StoreMedia, or
// "" when the URL does not belong to this resolver.
func (r *Resolver) ObjectName(url string) string {
	prefix := r.baseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return ""
	}
	name := strings.TrimPrefix(url, prefix)
	if name == "" || path.Base(name) != name {
		return ""
	}
	return name
}
