// Package pkg provides the libraries behind neekuro: a client for the neko
// gif API and a welcome card compositor.
//
// # Overview
//
// A welcome card is a background (a color or a cover-cropped image), a
// circular avatar with an optional ring, and two centered lines of text.
// Cards are configured through a fluent builder, or declared in a TOML,
// YAML or JSON document, and rendered to PNG or JPEG.
//
//	card description (flags / TOML / YAML / JSON)
//	         ↓
//	    [card] package (decode, apply setters)
//	         ↓
//	    [welcome] package (validate, load images, compose, encode)
//	         ↓
//	    PNG/JPEG bytes
//
// # Quick Start
//
//	import (
//	    "github.com/cacaonk0027/neekuro/pkg/nekoapi"
//	    "github.com/cacaonk0027/neekuro/pkg/welcome"
//	)
//
//	// 1. Look up a gif
//	client := nekoapi.NewClient(nekoapi.WithToken(token))
//	gif, _ := client.GetGif(ctx, nekoapi.Action, "hug")
//
//	// 2. Render a welcome card
//	png, err := welcome.New().
//	    SetAvatar(welcome.FromURL("https://cdn.example.com/u/42.png")).
//	    SetTitle("Welcome!").
//	    SetDescription("You are member #42").
//	    Build(ctx)
//
// # Main Packages
//
// [welcome] - The builder, the configuration snapshot and the renderer.
// Setters validate eagerly and the first failure sticks until Reset.
//
// [card] - Declarative card documents applied onto a builder.
//
// [nekoapi] - Gif API client, token store and the known gif catalog.
//
// [fonts] - The predefined Go fonts and a registry for custom TrueType files.
//
// [rules] - Pure predicates for hex colors, URLs and image signatures.
//
// [errors] - The structured error type every package returns.
//
// [observability] - Render and HTTP hooks, no-ops unless a binary installs
// an implementation.
//
// [buildinfo] - Version information set at link time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/welcome/...            # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// [welcome]: https://pkg.go.dev/github.com/cacaonk0027/neekuro/pkg/welcome
// [card]: https://pkg.go.dev/github.com/cacaonk0027/neekuro/pkg/card
// [nekoapi]: https://pkg.go.dev/github.com/cacaonk0027/neekuro/pkg/nekoapi
// [fonts]: https://pkg.go.dev/github.com/cacaonk0027/neekuro/pkg/fonts
// [rules]: https://pkg.go.dev/github.com/cacaonk0027/neekuro/pkg/rules
// [errors]: https://pkg.go.dev/github.com/cacaonk0027/neekuro/pkg/errors
// [observability]: https://pkg.go.dev/github.com/cacaonk0027/neekuro/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/cacaonk0027/neekuro/pkg/buildinfo
package pkg
