package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cacaonk0027/neekuro/pkg/card"
	errs "github.com/cacaonk0027/neekuro/pkg/errors"
	"github.com/cacaonk0027/neekuro/pkg/fonts"
	"github.com/cacaonk0027/neekuro/pkg/welcome"
)

// welcomeFlags mirror the builder setters. Only flags given on the command
// line are applied, so a card file supplies everything else.
type welcomeFlags struct {
	card   string
	output string
	format string
	assets string

	width, height int
	font          string
	fontPath      string
	background    string

	avatar   string
	avatarX  float64
	avatarY  float64
	radius   float64
	border   string
	noBorder bool

	title, description textFlags
}

type textFlags struct {
	prefix  string
	content string
	color   string
	size    float64
	x, y    float64
}

func (t *textFlags) register(fs *pflag.FlagSet, prefix, label string) {
	t.prefix = prefix
	fs.StringVar(&t.content, prefix, "", label+" text")
	fs.StringVar(&t.color, prefix+"-color", "", label+" color as #RGB or #RRGGBB")
	fs.Float64Var(&t.size, prefix+"-size", 0, label+" font size in pixels")
	fs.Float64Var(&t.x, prefix+"-x", 0, label+" center x")
	fs.Float64Var(&t.y, prefix+"-y", 0, label+" baseline y")
}

func (t *textFlags) options(fs *pflag.FlagSet) []welcome.TextOption {
	var opts []welcome.TextOption
	if fs.Changed(t.prefix + "-color") {
		opts = append(opts, welcome.TextColor(t.color))
	}
	if fs.Changed(t.prefix + "-size") {
		opts = append(opts, welcome.FontSize(t.size))
	}
	if fs.Changed(t.prefix + "-x") {
		opts = append(opts, welcome.TextX(t.x))
	}
	if fs.Changed(t.prefix + "-y") {
		opts = append(opts, welcome.TextY(t.y))
	}
	return opts
}

// apply sets the text when its content or any style flag was given. Style
// flags alone restyle the text the card already set.
func (t *textFlags) apply(fs *pflag.FlagSet, current string, set func(string, ...welcome.TextOption) *welcome.Builder) {
	opts := t.options(fs)
	content := current
	if fs.Changed(t.prefix) {
		content = t.content
	}
	if fs.Changed(t.prefix) || len(opts) > 0 {
		set(content, opts...)
	}
}

func (c *CLI) welcomeCommand() *cobra.Command {
	var f welcomeFlags

	cmd := &cobra.Command{
		Use:   "welcome",
		Short: "Render a welcome card image",
		Long: `Render a welcome card: a background, a circular avatar with an optional
ring, a title and a description.

The card is described with flags, with a card file (TOML, YAML or JSON), or
both; flags override the file. Images are http(s) URLs or local files.`,
		Example: `  neekuro welcome --avatar https://cdn.example.com/u/42.png \
      --title "Welcome!" --description "You are member #42" -o welcome.png
  neekuro welcome --card card.toml --title "Welcome back!" -o card.jpg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWelcome(cmd, &f)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&f.card, "card", "", "card file (.toml, .yaml, .yml or .json)")
	fs.StringVarP(&f.output, "output", "o", "", `output file, "-" for stdout (default welcome.png or welcome.jpg)`)
	fs.StringVar(&f.format, "format", "", "output format: png or jpeg (default from the output extension)")
	fs.StringVar(&f.assets, "assets", "", "directory custom font paths are resolved against (env "+envAssets+")")
	fs.IntVar(&f.width, "width", welcome.DefaultSize, "image width, -1 for the default")
	fs.IntVar(&f.height, "height", welcome.DefaultSize, "image height, -1 for the default")
	fs.StringVar(&f.font, "font", "", "font: "+strings.Join(fonts.Names(), ", ")+" or "+fonts.Custom)
	fs.StringVar(&f.fontPath, "font-path", "", "TrueType file for --font custom")
	fs.StringVar(&f.background, "background", "", "background color (#RRGGBB) or image (URL or file)")
	fs.StringVar(&f.avatar, "avatar", "", "avatar image (URL or file)")
	fs.Float64Var(&f.avatarX, "avatar-x", 0, "avatar left edge")
	fs.Float64Var(&f.avatarY, "avatar-y", 0, "avatar top edge")
	fs.Float64Var(&f.radius, "radius", 0, "avatar radius")
	fs.StringVar(&f.border, "border", "", "avatar ring color")
	fs.BoolVar(&f.noBorder, "no-border", false, "draw the avatar without a ring")
	f.title.register(fs, "title", "title")
	f.description.register(fs, "description", "description")

	_ = cmd.RegisterFlagCompletionFunc("font", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return append(fonts.Names(), fonts.Custom), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{string(welcome.FormatPNG), string(welcome.FormatJPEG)}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.MarkFlagFilename("card", "toml", "yaml", "yml", "json")
	_ = cmd.MarkFlagFilename("font-path", "ttf")

	return cmd
}

func (c *CLI) runWelcome(cmd *cobra.Command, f *welcomeFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	fs := cmd.Flags()

	opts := []welcome.Option{
		welcome.WithAssetsRoot(stringSetting(fs, "assets", envAssets, ".")),
	}

	var b *welcome.Builder
	if f.card != "" {
		doc, err := card.Load(f.card)
		if err != nil {
			return err
		}
		logger.Debug("Loaded card", "path", f.card)
		if b, err = doc.Builder(opts...); err != nil {
			return err
		}
	} else {
		b = welcome.New(opts...)
	}

	if err := f.apply(fs, b); err != nil {
		return err
	}

	cfg := b.Config()
	output := f.output
	if output == "" {
		output = "welcome." + extension(cfg.Format)
	}
	logger.Debug("Rendering", "width", cfg.Width, "height", cfg.Height, "format", cfg.Format)

	timer := startStopwatch(logger)
	spin := newSpinner(ctx, cmd.ErrOrStderr(), "Rendering welcome image...")
	spin.Start()
	data, err := b.Build(ctx)
	spin.Stop()
	if err != nil {
		return err
	}

	if output == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return errs.Resource(err, "cannot write %q", output)
	}
	timer.finish("Rendered card", "path", output, "bytes", len(data))

	out := cmd.OutOrStdout()
	printSuccess(out, "Rendered %dx%d %s", cfg.Width, cfg.Height, cfg.Format)
	printFile(out, output)
	return nil
}

// apply runs the setters for every flag given on the command line.
func (f *welcomeFlags) apply(fs *pflag.FlagSet, b *welcome.Builder) error {
	cfg := b.Config()

	if fs.Changed("width") || fs.Changed("height") {
		width, height := cfg.Width, cfg.Height
		if fs.Changed("width") {
			width = f.width
		}
		if fs.Changed("height") {
			height = f.height
		}
		b.SetResolution(width, height)
	}

	switch {
	case f.format != "":
		b.SetFormat(welcome.Format(f.format))
	case f.output != "" && f.output != "-":
		if format, ok := formatFromExt(f.output); ok {
			b.SetFormat(format)
		}
	}

	if fs.Changed("font") {
		b.SetFont(f.font, f.fontPath)
	}

	if f.background != "" {
		if strings.HasPrefix(f.background, "#") {
			b.SetBackgroundColor(f.background)
		} else {
			src, err := imageSource(f.background)
			if err != nil {
				return err
			}
			b.SetBackgroundImage(src)
		}
	}

	if err := f.applyAvatar(fs, b, cfg.Avatar.Source); err != nil {
		return err
	}

	f.title.apply(fs, cfg.Title.Content, b.SetTitle)
	f.description.apply(fs, cfg.Description.Content, b.SetDescription)
	return b.Err()
}

func (f *welcomeFlags) applyAvatar(fs *pflag.FlagSet, b *welcome.Builder, current welcome.Source) error {
	var opts []welcome.AvatarOption
	if fs.Changed("avatar-x") {
		opts = append(opts, welcome.AvatarX(f.avatarX))
	}
	if fs.Changed("avatar-y") {
		opts = append(opts, welcome.AvatarY(f.avatarY))
	}
	if fs.Changed("radius") {
		opts = append(opts, welcome.Radius(f.radius))
	}
	if f.border != "" {
		opts = append(opts, welcome.BorderColor(f.border))
	}
	if f.noBorder {
		opts = append(opts, welcome.NoBorder())
	}

	src := current
	if f.avatar != "" {
		var err error
		if src, err = imageSource(f.avatar); err != nil {
			return err
		}
	} else if len(opts) == 0 {
		return nil
	}
	b.SetAvatar(src, opts...)
	return nil
}

// imageSource treats http(s) values as URLs and anything else as a file.
func imageSource(value string) (welcome.Source, error) {
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return welcome.FromURL(value), nil
	}
	data, err := os.ReadFile(value)
	if err != nil {
		return welcome.Source{}, errs.Resource(err, "cannot read image %q", value)
	}
	return welcome.FromBytes(data), nil
}

func formatFromExt(path string) (welcome.Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return welcome.FormatPNG, true
	case ".jpg", ".jpeg":
		return welcome.FormatJPEG, true
	}
	return "", false
}

func extension(f welcome.Format) string {
	if f == welcome.FormatJPEG {
		return "jpg"
	}
	return "png"
}
