package nekoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	errs "github.com/cacaonk0027/neekuro/pkg/errors"
)

// GifResponse is the JSON envelope of a gif lookup.
type GifResponse struct {
	Code    int      `json:"code"`
	Message string   `json:"message,omitempty"`
	Data    *GifData `json:"data,omitempty"`
}

// GifData is the payload of a successful lookup.
type GifData struct {
	URL   string `json:"url"`
	Anime string `json:"anime,omitempty"`
}

// Gif is a read-only view of one lookup result.
type Gif struct {
	category Category
	name     string
	url      string
	anime    string
}

// URL returns the gif's address.
func (g *Gif) URL() string { return g.url }

// Anime returns the source anime, if the API reported one.
func (g *Gif) Anime() (string, bool) { return g.anime, g.anime != "" }

// Category returns the category the gif was requested from.
func (g *Gif) Category() Category { return g.category }

// Name returns the gif name that was requested.
func (g *Gif) Name() string { return g.name }

// MarshalJSON encodes the gif with its request and result fields.
func (g *Gif) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Category Category `json:"category"`
		Name     string   `json:"name"`
		URL      string   `json:"url"`
		Anime    string   `json:"anime,omitempty"`
	}{g.category, g.name, g.url, g.anime})
}

// GetGif looks up one gif. The category and name are checked against the
// catalog before any request is sent.
func (c *Client) GetGif(ctx context.Context, category Category, name string) (*Gif, error) {
	if err := ValidateGif(category, name); err != nil {
		return nil, err
	}

	endpoint := "/" + string(category) + "?gif=" + url.QueryEscape(name)
	var resp GifResponse
	if err := c.Get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil || resp.Data.URL == "" {
		return nil, errs.API(endpoint, c.baseURL+endpoint, http.StatusBadGateway,
			errs.APIBody{Code: resp.Code, Message: "response carried no data"}, nil)
	}
	return &Gif{
		category: category,
		name:     name,
		url:      resp.Data.URL,
		anime:    resp.Data.Anime,
	}, nil
}
