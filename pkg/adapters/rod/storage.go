package rod

import (
	"context"
	"fmt"

	"github.com/aretw0/tourflow/pkg/domain"
	"github.com/go-rod/rod"
)

// LocalStorage implements ports.KeyValueStore on the page's localStorage,
// so completion records live where the embedded widget keeps them.
type LocalStorage struct {
	page *rod.Page
}

// NewLocalStorage wraps page's origin storage.
func NewLocalStorage(page *rod.Page) *LocalStorage {
	return &LocalStorage{page: page}
}

// Get returns domain.ErrKeyNotFound when localStorage has no item.
func (l *LocalStorage) Get(ctx context.Context, key string) (string, error) {
	res, err := l.page.Context(ctx).Evaluate(&rod.EvalOptions{
		JS:      `(k) => localStorage.getItem(k)`,
		JSArgs:  []interface{}{key},
		ByValue: true,
	})
	if err != nil {
		return "", fmt.Errorf("localStorage get %q: %w", key, err)
	}
	if res == nil || res.Value.Nil() {
		return "", domain.ErrKeyNotFound
	}
	return res.Value.Str(), nil
}

// Set stores value.
func (l *LocalStorage) Set(ctx context.Context, key, value string) error {
	_, err := l.page.Context(ctx).Evaluate(&rod.EvalOptions{
		JS:      `(k, v) => localStorage.setItem(k, v)`,
		JSArgs:  []interface{}{key, value},
		ByValue: true,
	})
	if err != nil {
		return fmt.Errorf("localStorage set %q: %w", key, err)
	}
	return nil
}

// Delete removes the item.
func (l *LocalStorage) Delete(ctx context.Context, key string) error {
	_, err := l.page.Context(ctx).Evaluate(&rod.EvalOptions{
		JS:      `(k) => localStorage.removeItem(k)`,
		JSArgs:  []interface{}{key},
		ByValue: true,
	})
	if err != nil {
		return fmt.Errorf("localStorage delete %q: %w", key, err)
	}
	return nil
}
