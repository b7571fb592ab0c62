// Package fakestore implements the catalog source against the Fake Store
// REST API. All four operations are plain reads: no request bodies, no
// retries, no caching.
package fakestore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/xenking/storefront-gateway/internal/domain/catalog"
)

// DefaultBaseURL is the public Fake Store API endpoint.
const DefaultBaseURL = "https://fakestoreapi.com"

// RequestError reports a non-2xx response from the catalog API. It is the
// only error kind the catalog defines; it is never retried here and
// propagates to the consuming view.
type RequestError struct {
	Status int
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("catalog request failed: status %d", e.Status)
}

var _ catalog.Source = (*Client)(nil)

// Client talks to the Fake Store API. The zero value is not usable; use
// NewClient.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a catalog client for the given base URL. Outbound
// requests are traced via otelhttp and bounded by the given timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// List fetches every product in the catalog.
func (c *Client) List(ctx context.Context) ([]catalog.Product, error) {
	data, err := c.get(ctx, "/products")
	if err != nil {
		return nil, err
	}
	return decodeProducts(data)
}

// GetByID fetches a single product. Unknown ids map to catalog.ErrNotFound:
// the upstream API answers some of those with a null body rather than a 404.
func (c *Client) GetByID(ctx context.Context, id int) (*catalog.Product, error) {
	data, err := c.get(ctx, "/products/"+strconv.Itoa(id))
	if err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) && reqErr.Status == http.StatusNotFound {
			return nil, catalog.ErrNotFound
		}
		return nil, err
	}

	d := jx.DecodeBytes(data)
	if d.Next() == jx.Null {
		return nil, catalog.ErrNotFound
	}
	p, err := decodeProduct(d)
	if err != nil {
		return nil, errors.Wrap(err, "decode product")
	}
	return &p, nil
}

// ListByCategory fetches the products of a single category.
func (c *Client) ListByCategory(ctx context.Context, category string) ([]catalog.Product, error) {
	data, err := c.get(ctx, "/products/category/"+url.PathEscape(category))
	if err != nil {
		return nil, err
	}
	return decodeProducts(data)
}

// Categories fetches the list of category names.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	data, err := c.get(ctx, "/products/categories")
	if err != nil {
		return nil, err
	}

	var out []string
	d := jx.DecodeBytes(data)
	if err := d.Arr(func(d *jx.Decoder) error {
		s, err := d.Str()
		if err != nil {
			return err
		}
		out = append(out, s)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode categories")
	}
	return out, nil
}

// get performs a GET against the API and returns the raw body. Any status
// outside 2xx yields a *RequestError carrying the status code.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{Status: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	return data, nil
}

func decodeProducts(data []byte) ([]catalog.Product, error) {
	var out []catalog.Product
	d := jx.DecodeBytes(data)
	if err := d.Arr(func(d *jx.Decoder) error {
		p, err := decodeProduct(d)
		if err != nil {
			return err
		}
		out = append(out, p)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	return out, nil
}

// decodeProduct reads one product object. The price is parsed from the raw
// number literal into a decimal, so "10.99" stays exactly 10.99.
func decodeProduct(d *jx.Decoder) (catalog.Product, error) {
	var p catalog.Product
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			v, err := d.Int()
			if err != nil {
				return err
			}
			p.ID = v
		case "title":
			v, err := d.Str()
			if err != nil {
				return err
			}
			p.Title = v
		case "price":
			num, err := d.Num()
			if err != nil {
				return err
			}
			price, err := decimal.NewFromString(num.String())
			if err != nil {
				return errors.Wrap(err, "parse price")
			}
			p.Price = price
		case "description":
			v, err := d.Str()
			if err != nil {
				return err
			}
			p.Description = v
		case "category":
			v, err := d.Str()
			if err != nil {
				return err
			}
			p.Category = v
		case "image":
			v, err := d.Str()
			if err != nil {
				return err
			}
			p.Image = v
		case "rating":
			return d.Obj(func(d *jx.Decoder, key string) error {
				switch key {
				case "rate":
					v, err := d.Float64()
					if err != nil {
						return err
					}
					p.Rating.Rate = v
				case "count":
					v, err := d.Int()
					if err != nil {
						return err
					}
					p.Rating.Count = v
				default:
					return d.Skip()
				}
				return nil
			})
		default:
			return d.Skip()
		}
		return nil
	})
	return p, err
}
