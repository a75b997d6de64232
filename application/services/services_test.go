package services

import (
	"context"
	"sort"
	"strings"

	"mtp-backend/application/ports"
	apperrors "mtp-backend/pkg/errors"
)

// fakeStore is an in-memory ports.Store good enough to exercise the
// services without DynamoDB.
type fakeStore struct {
	items map[string]map[string]interface{}

	failNext    error
	deleteCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: map[string]map[string]interface{}{}}
}

func storeKey(pk, sk string) string {
	return pk + "|" + sk
}

func (f *fakeStore) take() error {
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeStore) PutItemIfAbsent(ctx context.Context, item map[string]interface{}) error {
	if err := f.take(); err != nil {
		return err
	}
	key := storeKey(item["PK"].(string), item["SK"].(string))
	if _, exists := f.items[key]; exists {
		return apperrors.NewConflictError("Item already exists")
	}
	f.items[key] = item
	return nil
}

func (f *fakeStore) GetItem(ctx context.Context, pk, sk string) (map[string]interface{}, error) {
	if err := f.take(); err != nil {
		return nil, err
	}
	item, ok := f.items[storeKey(pk, sk)]
	if !ok {
		return nil, nil
	}
	return item, nil
}

func (f *fakeStore) DeleteItem(ctx context.Context, pk, sk string) error {
	f.deleteCalls++
	if err := f.take(); err != nil {
		return err
	}
	delete(f.items, storeKey(pk, sk))
	return nil
}

func (f *fakeStore) UpdateItem(ctx context.Context, pk, sk string, set map[string]interface{}) (map[string]interface{}, error) {
	if err := f.take(); err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return nil, apperrors.NewValidationError("No fields to update")
	}
	item, ok := f.items[storeKey(pk, sk)]
	if !ok {
		item = map[string]interface{}{"PK": pk, "SK": sk}
		f.items[storeKey(pk, sk)] = item
	}
	for name, value := range set {
		item[name] = value
	}
	return item, nil
}

func (f *fakeStore) QueryByPartition(ctx context.Context, pk, skPrefix string, limit int32, lastKey string) (*ports.Page, error) {
	if err := f.take(); err != nil {
		return nil, err
	}
	items := []map[string]interface{}{}
	for _, item := range f.items {
		if item["PK"] == pk && strings.HasPrefix(item["SK"].(string), skPrefix) {
			items = append(items, item)
		}
	}
	return &ports.Page{Items: items}, nil
}

func (f *fakeStore) QueryGSI1(ctx context.Context, gsi1pk string, limit int32, lastKey string) (*ports.Page, error) {
	if err := f.take(); err != nil {
		return nil, err
	}
	items := []map[string]interface{}{}
	for _, item := range f.items {
		if item["GSI1PK"] == gsi1pk {
			items = append(items, item)
		}
	}
	// Descending GSI1SK order, matching the index scan direction
	sort.Slice(items, func(i, j int) bool {
		a, _ := items[i]["GSI1SK"].(string)
		b, _ := items[j]["GSI1SK"].(string)
		return a > b
	})
	if limit > 0 && int(limit) < len(items) {
		items = items[:limit]
	}
	return &ports.Page{Items: items}, nil
}

// recordingPublisher captures emitted lifecycle events
type recordingPublisher struct {
	detailTypes []string
}

func (r *recordingPublisher) Publish(ctx context.Context, detailType string, detail interface{}) {
	r.detailTypes = append(r.detailTypes, detailType)
}
