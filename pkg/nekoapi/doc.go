// Package nekoapi is a client for the SFW gif lookup API.
//
// The API answers GET /{category}?gif={name} with a JSON envelope
//
//	{"code": 200, "data": {"url": "https://...", "anime": "..."}}
//
// and authenticates requests with a static token sent verbatim in the
// Authorization header.
//
// # Usage
//
//	tokens := nekoapi.NewTokenStore(os.Getenv("NEKO_API_TOKEN"))
//	client := nekoapi.NewClient(nekoapi.WithTokenSource(tokens))
//
//	gif, err := client.GetGif(ctx, nekoapi.Action, "hug")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(gif.URL())
//
// Category and gif names are checked against the built-in catalog before any
// request is made. API failures are returned as API_ERROR values from
// pkg/errors; 401 and 403 answers carry token-specific messages.
package nekoapi
