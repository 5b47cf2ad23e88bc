package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// maxListPages bounds ListAll so a misbehaving backend cannot keep us paging forever.
const maxListPages = 1000

type ListQuery struct {
	Page     int
	PageSize int
	Search   string
	Filters  map[string]string
}

func (q ListQuery) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		v.Set("search", s)
	}
	for k, val := range q.Filters {
		if val != "" {
			v.Set(k, val)
		}
	}
	return v
}

// Resource is a typed client for one REST collection on the backend, e.g. /employees.
type Resource[T any] struct {
	client *Client
	name   string
	path   string
}

func NewResource[T any](client *Client, name, path string) *Resource[T] {
	return &Resource[T]{
		client: client,
		name:   name,
		path:   "/" + strings.Trim(path, "/"),
	}
}

func (r *Resource[T]) Name() string { return r.name }

func (r *Resource[T]) Path() string { return r.path }

func (r *Resource[T]) itemPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

func (r *Resource[T]) List(ctx context.Context, q ListQuery) ([]T, ListMeta, error) {
	var items []T
	meta, err := r.client.Do(ctx, Request{
		Method:   http.MethodGet,
		Path:     r.path,
		Query:    q.Values(),
		Resource: r.name,
	}, &items)
	if err != nil {
		return nil, ListMeta{}, err
	}
	if items == nil {
		items = []T{}
	}
	if meta.Total == 0 && meta.Page == 0 {
		// bare array responses carry no meta
		meta = ListMeta{Total: int64(len(items)), Page: q.Page, PageSize: q.PageSize}
	}
	return items, meta, nil
}

// ListAll pages through the collection with the given page size until it is exhausted.
func (r *Resource[T]) ListAll(ctx context.Context, q ListQuery, pageSize int) ([]T, error) {
	if pageSize <= 0 {
		pageSize = 100
	}
	q.PageSize = pageSize

	var all []T
	for page := 1; page <= maxListPages; page++ {
		q.Page = page
		items, meta, err := r.List(ctx, q)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(items) < pageSize || (meta.Total > 0 && int64(len(all)) >= meta.Total) {
			break
		}
	}
	if all == nil {
		all = []T{}
	}
	return all, nil
}

func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var item T
	_, err := r.client.Do(ctx, Request{
		Method:   http.MethodGet,
		Path:     r.itemPath(id),
		Resource: r.name,
	}, &item)
	return item, err
}

func (r *Resource[T]) Create(ctx context.Context, payload any) (T, error) {
	var item T
	_, err := r.client.Do(ctx, Request{
		Method:   http.MethodPost,
		Path:     r.path,
		Body:     payload,
		Resource: r.name,
	}, &item)
	return item, err
}

func (r *Resource[T]) Update(ctx context.Context, id string, payload any) (T, error) {
	var item T
	_, err := r.client.Do(ctx, Request{
		Method:   http.MethodPut,
		Path:     r.itemPath(id),
		Body:     payload,
		Resource: r.name,
	}, &item)
	return item, err
}

func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	_, err := r.client.Do(ctx, Request{
		Method:   http.MethodDelete,
		Path:     r.itemPath(id),
		Resource: r.name,
	}, nil)
	return err
}
