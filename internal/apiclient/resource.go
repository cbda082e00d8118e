package apiclient

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
)

type encodeFunc[P any] func(P) (*bytes.Buffer, string, error)

// Resource is one REST collection: GET/POST on the collection path,
// PUT/DELETE on path/{id}.
type Resource[E, P any] struct {
	c      *Client
	path   string
	name   string
	encode encodeFunc[P]
}

func (r *Resource[E, P]) List(ctx context.Context) ([]E, error) {
	op := "list " + r.name
	b, err := r.c.do(ctx, op, http.MethodGet, r.path, nil, "")
	if err != nil {
		return nil, err
	}
	items, err := decodeList[E](b)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	return items, nil
}

func (r *Resource[E, P]) Create(ctx context.Context, payload P) (E, error) {
	return r.send(ctx, "create "+r.name, http.MethodPost, r.path, payload)
}

func (r *Resource[E, P]) Update(ctx context.Context, id string, payload P) (E, error) {
	return r.send(ctx, "update "+r.name, http.MethodPut, r.path+"/"+url.PathEscape(id), payload)
}

func (r *Resource[E, P]) Delete(ctx context.Context, id string) error {
	_, err := r.c.do(ctx, "delete "+r.name, http.MethodDelete, r.path+"/"+url.PathEscape(id), nil, "")
	return err
}

func (r *Resource[E, P]) send(ctx context.Context, op, method, path string, payload P) (E, error) {
	var zero E
	body, contentType, err := r.encode(payload)
	if err != nil {
		return zero, err
	}
	b, err := r.c.do(ctx, op, method, path, body, contentType)
	if err != nil {
		return zero, err
	}
	out, err := decodeOne[E](b)
	if err != nil {
		return zero, &NetworkError{Op: op, Err: err}
	}
	return out, nil
}
