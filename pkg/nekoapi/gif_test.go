package nekoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"sync"
	"testing"

	errs "github.com/cacaonk0027/neekuro/pkg/errors"
)

func TestGetGif(t *testing.T) {
	var query string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RequestURI()
		json.NewEncoder(w).Encode(GifResponse{
			Code: 200,
			Data: &GifData{URL: "https://cdn.example.com/hug/1.gif", Anime: "K-On!"},
		})
	})

	gif, err := c.GetGif(context.Background(), Action, "hug")
	if err != nil {
		t.Fatalf("GetGif() error: %v", err)
	}
	if query != "/action?gif=hug" {
		t.Errorf("request = %q, want /action?gif=hug", query)
	}
	if gif.URL() != "https://cdn.example.com/hug/1.gif" {
		t.Errorf("URL() = %q", gif.URL())
	}
	if anime, ok := gif.Anime(); !ok || anime != "K-On!" {
		t.Errorf("Anime() = %q, %v", anime, ok)
	}

	out, err := json.Marshal(gif)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `"category":"action"`) || !strings.Contains(string(out), `"name":"hug"`) {
		t.Errorf("MarshalJSON() = %s", out)
	}
}

func TestGetGifReaction(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reaction" || r.URL.Query().Get("gif") != "blush" {
			t.Errorf("unexpected request %s", r.URL)
		}
		w.Write([]byte(`{"code":200,"data":{"url":"https://cdn.example.com/blush.gif"}}`))
	})

	gif, err := c.GetGif(context.Background(), Reaction, "blush")
	if err != nil {
		t.Fatalf("GetGif() error: %v", err)
	}
	if _, ok := gif.Anime(); ok {
		t.Error("Anime() should report absence")
	}
}

func TestGetGifNoData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":200}`))
	})
	_, err := c.GetGif(context.Background(), Action, "pat")
	if !errs.Is(err, errs.ErrCodeAPI) {
		t.Fatalf("GetGif() error = %v, want API_ERROR", err)
	}
	if errs.HTTPStatus(err) != http.StatusBadGateway {
		t.Errorf("HTTPStatus = %d, want 502", errs.HTTPStatus(err))
	}
}

func TestGetGifValidatesBeforeRequest(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	tests := []struct {
		name     string
		category Category
		gif      string
		param    string
	}{
		{"empty category", "", "hug", "category"},
		{"empty gif", Action, "", "gif"},
		{"unknown category", "nsfw", "hug", "category"},
		{"gif from other category", Action, "blush", "gif"},
		{"unknown gif", Reaction, "dab", "gif"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.GetGif(context.Background(), tt.category, tt.gif)
			if !errs.Is(err, errs.ErrCodeValidation) {
				t.Fatalf("GetGif() error = %v, want VALIDATION_ERROR", err)
			}
			if e := err.(*errs.Error); e.Param != tt.param {
				t.Errorf("Param = %q, want %q", e.Param, tt.param)
			}
		})
	}
	if called {
		t.Error("no request should be sent for invalid input")
	}
}

func TestCatalog(t *testing.T) {
	if got := len(Gifs(Action)); got != 28 {
		t.Errorf("len(Gifs(Action)) = %d, want 28", got)
	}
	if got := len(Gifs(Reaction)); got != 14 {
		t.Errorf("len(Gifs(Reaction)) = %d, want 14", got)
	}
	for _, c := range Categories() {
		if !c.Valid() {
			t.Errorf("%q should be valid", c)
		}
		if !slices.IsSorted(catalog[c]) {
			t.Errorf("catalog for %q must stay sorted", c)
		}
	}
	if Gifs("nsfw") != nil {
		t.Error("Gifs() of an unknown category should be nil")
	}

	names := Gifs(Action)
	names[0] = "changed"
	if Gifs(Action)[0] != "cook" {
		t.Error("Gifs() should return a copy")
	}
}

func TestTokenStore(t *testing.T) {
	s := NewTokenStore("")
	if s.Token() != "" {
		t.Errorf("Token() = %q, want empty", s.Token())
	}
	if err := s.SetToken(""); !errs.Is(err, errs.ErrCodeValidation) {
		t.Errorf("SetToken(\"\") error = %v, want VALIDATION_ERROR", err)
	}
	if err := s.SetToken("abc"); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.SetToken("abc")
			_ = s.Token()
		}()
	}
	wg.Wait()
	if s.Token() != "abc" {
		t.Errorf("Token() = %q, want abc", s.Token())
	}
}
