package apiclient

import (
	"context"
	"net/http"
)

// crud implements the five calls every managed resource shares.
type crud[T any, W any] struct {
	c        *Client
	resource string
	base     string
}

func (r crud[T, W]) List(ctx context.Context, p ListParams) (*Page[T], error) {
	var page Page[T]
	err := r.c.do(ctx, request{
		method:   http.MethodGet,
		path:     r.base,
		resource: r.resource,
		query:    p.Query(),
	}, &page)
	if err != nil {
		return nil, err
	}
	if page.Content == nil {
		page.Content = []T{}
	}
	return &page, nil
}

func (r crud[T, W]) Get(ctx context.Context, id string) (*T, error) {
	var out T
	err := r.c.do(ctx, request{
		method:   http.MethodGet,
		path:     r.base + path(id),
		resource: r.resource,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r crud[T, W]) Create(ctx context.Context, in W) (*T, error) {
	var out T
	err := r.c.do(ctx, request{
		method:   http.MethodPost,
		path:     r.base,
		resource: r.resource,
		body:     in,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r crud[T, W]) Update(ctx context.Context, id string, in W) (*T, error) {
	var out T
	err := r.c.do(ctx, request{
		method:   http.MethodPut,
		path:     r.base + path(id),
		resource: r.resource,
		body:     in,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r crud[T, W]) Delete(ctx context.Context, id string) error {
	return r.c.do(ctx, request{
		method:   http.MethodDelete,
		path:     r.base + path(id),
		resource: r.resource,
	}, nil)
}
