package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/spf13/pflag"

	errs "github.com/cacaonk0027/neekuro/pkg/errors"
	"github.com/cacaonk0027/neekuro/pkg/nekoapi"
)

// execute runs the root command with args and returns what it wrote to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := New(io.Discard, LogInfo).RootCommand()
	var out, stderr bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func gifAPI(t *testing.T, wantToken string, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		if got := r.Header.Get("Authorization"); got != wantToken {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"code":403}`)
			return
		}
		fmt.Fprintf(w, `{"code":200,"data":{"url":"https://cdn.example.com/%s.gif","anime":"K-On!"}}`, r.URL.Query().Get("gif"))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func writeAvatar(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "avatar.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGifCommand(t *testing.T) {
	api := gifAPI(t, "secret", nil)
	t.Setenv(envAPIURL, api.URL)
	t.Setenv(envToken, "secret")

	out, err := execute(t, "gif", "action", "hug")
	if err != nil {
		t.Fatalf("gif: %v", err)
	}
	for _, want := range []string{"https://cdn.example.com/hug.gif", "K-On!"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestGifCommandJSON(t *testing.T) {
	api := gifAPI(t, "secret", nil)
	t.Setenv(envAPIURL, api.URL)
	t.Setenv(envToken, "secret")

	out, err := execute(t, "gif", "reaction", "blush", "--json")
	if err != nil {
		t.Fatalf("gif: %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got["category"] != "reaction" || got["name"] != "blush" || got["url"] != "https://cdn.example.com/blush.gif" {
		t.Errorf("got %v", got)
	}
}

func TestGifCommandFlagsOverrideEnv(t *testing.T) {
	api := gifAPI(t, "from-flag", nil)
	t.Setenv(envAPIURL, "http://127.0.0.1:1")
	t.Setenv(envToken, "from-env")

	if _, err := execute(t, "gif", "action", "pat", "--api-url", api.URL, "--token", "from-flag"); err != nil {
		t.Fatalf("gif: %v", err)
	}
}

func TestGifCommandErrors(t *testing.T) {
	var hits atomic.Int32
	api := gifAPI(t, "secret", &hits)
	t.Setenv(envAPIURL, api.URL)

	t.Run("unknown name is rejected locally", func(t *testing.T) {
		t.Setenv(envToken, "secret")
		_, err := execute(t, "gif", "action", "nope")
		if !errs.Is(err, errs.ErrCodeValidation) {
			t.Fatalf("err = %v, want validation error", err)
		}
		if hits.Load() != 0 {
			t.Errorf("API was called %d times", hits.Load())
		}
	})

	t.Run("bad token", func(t *testing.T) {
		t.Setenv(envToken, "wrong")
		_, err := execute(t, "gif", "action", "hug")
		if !errs.Is(err, errs.ErrCodeAPI) {
			t.Fatalf("err = %v, want API error", err)
		}
		if got := errs.UserMessage(err); got != errs.MsgTokenInvalid {
			t.Errorf("message = %q, want %q", got, errs.MsgTokenInvalid)
		}
	})

	t.Run("wrong arg count", func(t *testing.T) {
		if _, err := execute(t, "gif", "action"); err == nil {
			t.Error("expected an error for a missing name")
		}
	})
}

func TestGifList(t *testing.T) {
	out, err := execute(t, "gif", "list")
	if err != nil {
		t.Fatal(err)
	}
	for _, cat := range nekoapi.Categories() {
		heading := fmt.Sprintf("%s (%d)", cat, len(nekoapi.Gifs(cat)))
		if !strings.Contains(out, heading) {
			t.Errorf("output missing heading %q", heading)
		}
	}
	if !strings.Contains(out, "  hug\n") {
		t.Errorf("output missing hug:\n%s", out)
	}

	out, err = execute(t, "gif", "list", "reaction")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "reaction (") {
		t.Errorf("filtered listing has no reaction heading:\n%s", out)
	}
	if strings.Contains(out, "  hug\n") {
		t.Errorf("reaction listing contains an action gif:\n%s", out)
	}

	if _, err := execute(t, "gif", "list", "dance"); !errs.Is(err, errs.ErrCodeValidation) {
		t.Errorf("err = %v, want validation error", err)
	}
}

func TestGifListJSON(t *testing.T) {
	out, err := execute(t, "gif", "list", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var got map[string][]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatal(err)
	}
	if len(got["action"]) != len(nekoapi.Gifs(nekoapi.Action)) {
		t.Errorf("action has %d gifs", len(got["action"]))
	}
}

func TestWelcomeCommand(t *testing.T) {
	dir := t.TempDir()
	avatar := writeAvatar(t, dir)
	output := filepath.Join(dir, "out.png")

	out, err := execute(t, "welcome",
		"--avatar", avatar,
		"--title", "Welcome!",
		"--description", "You are member #42",
		"--background", "#112233",
		"--width", "400", "--height", "200",
		"--radius", "50",
		"-o", output,
	)
	if err != nil {
		t.Fatalf("welcome: %v", err)
	}
	if !strings.Contains(out, output) {
		t.Errorf("output does not name the file:\n%s", out)
	}

	f, err := os.Open(output)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 200 {
		t.Errorf("size = %dx%d, want 400x200", b.Dx(), b.Dy())
	}
	if got := color.NRGBAModel.Convert(img.At(1, 1)).(color.NRGBA); got != (color.NRGBA{0x11, 0x22, 0x33, 0xff}) {
		t.Errorf("background pixel = %v", got)
	}
}

func TestWelcomeCommandCard(t *testing.T) {
	dir := t.TempDir()
	writeAvatar(t, dir)
	cardPath := filepath.Join(dir, "card.toml")
	doc := `
width = 320
height = 160

[background]
color = "#102030"

[avatar]
file = "avatar.png"
radius = 40

[title]
content = "From the card"

[description]
content = "card description"
`
	if err := os.WriteFile(cardPath, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "card.jpg")

	if _, err := execute(t, "welcome", "--card", cardPath, "--title", "From a flag", "-o", output); err != nil {
		t.Fatalf("welcome: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}) {
		t.Fatalf("output is not a JPEG")
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if format != "jpeg" || cfg.Width != 320 || cfg.Height != 160 {
		t.Errorf("got %s %dx%d, want jpeg 320x160", format, cfg.Width, cfg.Height)
	}
}

func TestWelcomeCommandStdout(t *testing.T) {
	dir := t.TempDir()
	avatar := writeAvatar(t, dir)

	out, err := execute(t, "welcome",
		"--avatar", avatar, "--title", "Hi", "--description", "there",
		"--width", "200", "--height", "100", "-o", "-")
	if err != nil {
		t.Fatalf("welcome: %v", err)
	}
	if !strings.HasPrefix(out, "\x89PNG\r\n\x1a\n") {
		t.Errorf("stdout is not a PNG: %q", out[:min(len(out), 16)])
	}
}

func TestWelcomeCommandErrors(t *testing.T) {
	dir := t.TempDir()
	avatar := writeAvatar(t, dir)
	output := filepath.Join(dir, "out.png")

	tests := []struct {
		name  string
		args  []string
		code  errs.Code
		param string
	}{
		{
			name: "no avatar",
			args: []string{"--title", "x", "--description", "y"},
			code: errs.ErrCodeBuild,
		},
		{
			name:  "bad title color",
			args:  []string{"--avatar", avatar, "--title", "x", "--title-color", "red"},
			code:  errs.ErrCodeValidation,
			param: "text_color",
		},
		{
			name:  "style without text",
			args:  []string{"--avatar", avatar, "--description-size", "20"},
			code:  errs.ErrCodeValidation,
			param: "text",
		},
		{
			name: "missing avatar file",
			args: []string{"--avatar", filepath.Join(dir, "missing.png")},
			code: errs.ErrCodeResource,
		},
		{
			name:  "bad format",
			args:  []string{"--format", "gif"},
			code:  errs.ErrCodeValidation,
			param: "format",
		},
		{
			name:  "bad radius",
			args:  []string{"--avatar", avatar, "--radius", "0"},
			code:  errs.ErrCodeValidation,
			param: "radius",
		},
		{
			name:  "unknown font",
			args:  []string{"--font", "comic-sans"},
			code:  errs.ErrCodeValidation,
			param: "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"welcome", "-o", output}, tt.args...)
			_, err := execute(t, args...)
			if got := errs.GetCode(err); got != tt.code {
				t.Fatalf("code = %q (%v), want %q", got, err, tt.code)
			}
			if tt.param != "" {
				var e *errs.Error
				if !errors.As(err, &e) || e.Param != tt.param {
					t.Errorf("param = %v, want %q", err, tt.param)
				}
			}
		})
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Error("a failed render wrote the output file")
	}
}

func TestStringSetting(t *testing.T) {
	const env = "NEEKURO_TEST_SETTING"

	tests := []struct {
		name string
		args []string
		env  string
		want string
	}{
		{"default", nil, "", "def"},
		{"env", nil, "from-env", "from-env"},
		{"flag wins", []string{"--value", "from-flag"}, "from-env", "from-flag"},
		{"empty flag wins", []string{"--value", ""}, "from-env", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(env, tt.env)
			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			fs.String("value", "", "")
			if err := fs.Parse(tt.args); err != nil {
				t.Fatal(err)
			}
			if got := stringSetting(fs, "value", env, "def"); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAPIHost(t *testing.T) {
	if got := apiHost(nekoapi.NewClient()); got != "localhost:449" {
		t.Errorf("apiHost(default) = %q, want localhost:449", got)
	}
	c := nekoapi.NewClient(nekoapi.WithBaseURL("https://gifs.example.com/api/sfw/"))
	if got := apiHost(c); got != "gifs.example.com" {
		t.Errorf("apiHost() = %q, want gifs.example.com", got)
	}
}

func TestServeSettings(t *testing.T) {
	t.Setenv(envListen, "127.0.0.1:9999")
	t.Setenv(envRateLimit, "2.5")
	t.Setenv(envAssets, "/srv/assets")

	fs := New(io.Discard, LogInfo).serveCommand().Flags()
	if err := fs.Parse([]string{"--burst", "7"}); err != nil {
		t.Fatal(err)
	}
	cfg, assets, err := serveSettings(fs)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != "127.0.0.1:9999" || cfg.RateLimit != 2.5 || cfg.Burst != 7 {
		t.Errorf("cfg = %+v", cfg)
	}
	if assets != "/srv/assets" {
		t.Errorf("assets = %q", assets)
	}

	t.Setenv(envRateLimit, "fast")
	fs = New(io.Discard, LogInfo).serveCommand().Flags()
	if _, _, err := serveSettings(fs); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want invalid input", err)
	}
}

func TestConnectRedisErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := connectRedis(ctx, "not a url"); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("bad URL: err = %v, want invalid input", err)
	}
	if _, err := connectRedis(ctx, "redis://127.0.0.1:1/0"); !errs.Is(err, errs.ErrCodeInternal) {
		t.Errorf("unreachable: err = %v, want internal error", err)
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, err := execute(t, "completion", shell)
		if err != nil {
			t.Fatalf("%s: %v", shell, err)
		}
		if !strings.Contains(out, appName) {
			t.Errorf("%s completion does not mention %s", shell, appName)
		}
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "neekuro version ") {
		t.Errorf("version output = %q", out)
	}
}
