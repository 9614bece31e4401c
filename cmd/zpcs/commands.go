package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"zpcs/internal/catalog"
	"zpcs/internal/domain"
	"zpcs/internal/generation"
	"zpcs/internal/infra"
	"zpcs/internal/storage"
	"zpcs/internal/store"
	"zpcs/internal/studio"
	"zpcs/pkg/zip"
)

var errUsage = errors.New("usage")

func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func (a *app) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return errUsage
	}
	return nil
}

type optionFlags struct {
	subject    string
	mode       string
	style      string
	lighting   string
	camera     string
	palette    string
	lens       string
	ratio      string
	resolution string
	intensity  string
	thinking   string
	preset     string
	image      string
	save       bool
	name       string
	asJSON     bool
}

func bindOptionFlags(fs *flag.FlagSet, f *optionFlags) {
	fs.StringVar(&f.subject, "subject", "", "what to generate (positional arguments are used when empty)")
	fs.StringVar(&f.mode, "mode", string(domain.DefaultOperationMode), "operation mode")
	fs.StringVar(&f.style, "style", "", "aesthetic style")
	fs.StringVar(&f.lighting, "lighting", "", "lighting setup")
	fs.StringVar(&f.camera, "camera", "", "camera composition")
	fs.StringVar(&f.palette, "palette", "", "color palette")
	fs.StringVar(&f.lens, "lens", "", "lens effect")
	fs.StringVar(&f.ratio, "ratio", string(domain.DefaultAspectRatio), "aspect ratio")
	fs.StringVar(&f.resolution, "resolution", string(domain.DefaultResolution), "resolution quality")
	fs.StringVar(&f.intensity, "intensity", "", "style intensity (STYLE_TRANSFER only)")
	fs.StringVar(&f.thinking, "thinking", string(domain.DefaultThinkingLevel), "thinking level")
	fs.StringVar(&f.preset, "preset", "", "YAML preset applied before the other flags")
	fs.StringVar(&f.image, "image", "", "source image (png, jpeg or webp)")
	fs.BoolVar(&f.save, "save", false, "download the result into DOWNLOAD_DIR")
	fs.StringVar(&f.name, "name", "", "file name used with -save")
	fs.BoolVar(&f.asJSON, "json", false, "print the result as JSON")
}

// apply loads the preset first so explicit flags win over it.
func (f *optionFlags) apply(fs *flag.FlagSet, opts *store.Store, logger *infra.Logger) error {
	if f.preset != "" {
		file, err := os.Open(f.preset)
		if err != nil {
			return fmt.Errorf("open preset: %w", err)
		}
		preset, err := store.LoadPreset(file)
		file.Close()
		if err != nil {
			return err
		}
		opts.ApplyPreset(preset)
	}

	set := map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	upper := func(v string) string { return strings.ToUpper(strings.TrimSpace(v)) }

	switch {
	case set["subject"]:
		opts.SetSubject(f.subject)
	case fs.NArg() > 0:
		opts.SetSubject(strings.Join(fs.Args(), " "))
	}
	if set["mode"] {
		opts.SetOperationMode(domain.OperationMode(upper(f.mode)))
	}
	if set["style"] {
		opts.SetAestheticStyle(domain.AestheticStyle(upper(f.style)))
	}
	if set["lighting"] {
		opts.SetLighting(domain.LightingSetup(upper(f.lighting)))
	}
	if set["camera"] {
		opts.SetCameraComposition(domain.CameraComposition(upper(f.camera)))
	}
	if set["palette"] {
		opts.SetColorPalette(domain.ColorPalette(upper(f.palette)))
	}
	if set["lens"] {
		opts.SetLensEffect(domain.LensEffect(upper(f.lens)))
	}
	if set["ratio"] {
		opts.SetAspectRatio(domain.AspectRatio(upper(f.ratio)))
	}
	if set["resolution"] {
		opts.SetResolution(domain.ResolutionQuality(upper(f.resolution)))
	}
	if set["intensity"] {
		opts.SetStyleIntensity(domain.StyleIntensity(upper(f.intensity)))
	}
	if set["thinking"] {
		opts.SetThinkingLevel(domain.ThinkingLevel(upper(f.thinking)))
	}
	if f.image != "" {
		data, mime, err := store.ReadSourceImage(f.image)
		if err != nil {
			return err
		}
		opts.SetSourceImage(data)
		logger.Debug().Str("path", f.image).Str("mime", mime).Int("bytes", len(data)).Msg("source image loaded")
	}
	return nil
}

func (a *app) generate(ctx context.Context, args []string) error {
	fs := a.flagSet("generate")
	var f optionFlags
	bindOptionFlags(fs, &f)
	if err := a.parse(fs, args); err != nil {
		return err
	}
	return a.submit(ctx, fs, &f, "")
}

func (a *app) edit(ctx context.Context, args []string) error {
	fs := a.flagSet("edit")
	var f optionFlags
	bindOptionFlags(fs, &f)
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if f.image == "" {
		fmt.Fprintln(a.stderr, "edit: -image is required")
		return errUsage
	}
	return a.submit(ctx, fs, &f, domain.ModeEditExisting)
}

func (a *app) submit(ctx context.Context, fs *flag.FlagSet, f *optionFlags, mode domain.OperationMode) error {
	opts := store.New()
	if err := f.apply(fs, opts, &a.logger); err != nil {
		return err
	}
	if mode != "" {
		opts.SetOperationMode(mode)
	}

	metrics := generation.NewMetrics(nil)
	session := generation.NewSession(a.client, generation.WithLogger(&a.logger), generation.WithMetrics(metrics))
	unsubscribe := session.Subscribe(func(snap generation.Snapshot) {
		a.logger.Debug().Str("status", string(snap.Status)).Msg("generation state")
	})
	defer unsubscribe()

	cat := catalog.New(a.client, a.cfg.OptionsCacheTTL, &a.logger)
	st := studio.New(opts, session, studio.WithValidator(cat), studio.WithLogger(&a.logger))

	snap, err := st.Submit(ctx)
	if err != nil {
		return err
	}
	summary := metrics.Summary()
	a.logger.Debug().Int64("requests", summary.Requests).Dur("latency", summary.MaxLatency).Msg("generation finished")
	if snap.Status != generation.StatusSuccess {
		return errors.New(snap.ErrorMessage)
	}

	res := snap.Result
	if f.asJSON {
		if err := a.printJSON(res); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(a.stdout, "%s\t%s\t%s\t%s\n", res.ID, snap.ImageURL, res.GenerationTime(), res.Prompt)
	}
	if f.save {
		path, err := a.saveImage(ctx, res.ID, f.name, a.cfg.DownloadDir)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, path)
	}
	return nil
}

func (a *app) options(ctx context.Context, args []string) error {
	fs := a.flagSet("options")
	check := fs.Bool("check", false, "compare the server's options with the ones compiled into zpcs")
	asJSON := fs.Bool("json", false, "print the raw options map")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	server, err := a.client.GetOptions(ctx)
	if err != nil {
		return err
	}
	if *check {
		mismatches := catalog.Diff(domain.CompiledOptions(), *server)
		for _, m := range mismatches {
			fmt.Fprintln(a.stdout, m.String())
		}
		if len(mismatches) > 0 {
			return fmt.Errorf("%d option mismatches", len(mismatches))
		}
		fmt.Fprintln(a.stdout, "options match")
		return nil
	}
	if *asJSON {
		return a.printJSON(server)
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE\tLABEL")
	for _, field := range domain.OptionFields {
		for _, item := range server.Field(field) {
			label := item.Label
			if label == "" {
				label = catalog.Label(item.Value)
			}
			if item.APIValue != "" {
				label += " [" + item.APIValue + "]"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", field, item.Value, label)
		}
	}
	return tw.Flush()
}

func (a *app) gallery(ctx context.Context, args []string) error {
	fs := a.flagSet("gallery")
	page := fs.Int("page", 0, "zero-based page number")
	size := fs.Int("size", domain.DefaultGalleryPageSize, "page size")
	asJSON := fs.Bool("json", false, "print the raw page")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	res, err := a.client.GetGallery(ctx, *page, *size)
	if err != nil {
		return err
	}
	if *asJSON {
		return a.printJSON(res)
	}
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tMODE\tTIME\tPROMPT")
	for _, rec := range res.Content {
		created := "-"
		if !rec.CreatedAt.IsZero() {
			created = rec.CreatedAt.Local().Format(time.DateTime)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", rec.ID, created, rec.OperationMode,
			time.Duration(rec.GenerationTimeMs)*time.Millisecond, rec.Prompt)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "page %d/%d, %d images\n", res.Number+1, max(res.TotalPages, 1), res.TotalElements)
	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	fs := a.flagSet("delete")
	id := fs.String("id", "", "image id")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	target := idArg(*id, fs)
	if target == "" {
		fmt.Fprintln(a.stderr, "delete: an image id is required")
		return errUsage
	}
	if err := a.client.DeleteImage(ctx, target); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("image %s not found", target)
		}
		return err
	}
	fmt.Fprintln(a.stdout, "deleted", target)
	return nil
}

func (a *app) download(ctx context.Context, args []string) error {
	fs := a.flagSet("download")
	id := fs.String("id", "", "image id")
	name := fs.String("name", "", "file name (default zpcs-<unix millis>.png)")
	dir := fs.String("dir", a.cfg.DownloadDir, "destination directory")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	target := idArg(*id, fs)
	if target == "" {
		fmt.Fprintln(a.stderr, "download: an image id is required")
		return errUsage
	}
	path, err := a.saveImage(ctx, target, *name, *dir)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, path)
	return nil
}

func (a *app) export(ctx context.Context, args []string) error {
	fs := a.flagSet("export")
	page := fs.Int("page", 0, "zero-based gallery page")
	size := fs.Int("size", domain.DefaultGalleryPageSize, "page size")
	name := fs.String("name", "", "archive name (default zpcs-gallery-<unix millis>.zip)")
	dir := fs.String("dir", a.cfg.DownloadDir, "destination directory")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	res, err := a.client.GetGallery(ctx, *page, *size)
	if err != nil {
		return err
	}
	if len(res.Content) == 0 {
		return errors.New("gallery page is empty")
	}
	entries := make([]zip.Entry, 0, len(res.Content))
	for _, rec := range res.Content {
		data, contentType, err := a.client.FetchImage(ctx, rec.ID)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", rec.ID, err)
		}
		entries = append(entries, zip.Entry{
			Filename: rec.ID + extensionFor(contentType),
			ID:       rec.ID,
			Prompt:   rec.Prompt,
			MIME:     contentType,
			Created:  rec.CreatedAt.Time,
			Data:     data,
		})
	}
	archive, err := zip.Archive(entries)
	if err != nil {
		return err
	}

	files, err := storage.NewFileStore(*dir)
	if err != nil {
		return err
	}
	if *name == "" {
		*name = fmt.Sprintf("%sgallery-%d.zip", storage.DownloadPrefix, a.now().UnixMilli())
	}
	path, err := files.Write(ctx, *name, archive)
	if err != nil {
		return err
	}
	a.logger.Info().Int("images", len(entries)).Str("path", path).Msg("gallery exported")
	fmt.Fprintln(a.stdout, path)
	return nil
}

func extensionFor(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/png"):
		return ".png"
	case strings.HasPrefix(contentType, "image/jpeg"):
		return ".jpg"
	case strings.HasPrefix(contentType, "image/webp"):
		return ".webp"
	}
	return ".bin"
}

func (a *app) saveImage(ctx context.Context, id, name, dir string) (string, error) {
	data, contentType, err := a.client.FetchImage(ctx, id)
	if err != nil {
		return "", err
	}
	files, err := storage.NewFileStore(dir)
	if err != nil {
		return "", err
	}
	if name == "" {
		name = storage.DefaultDownloadName(a.now())
	}
	path, err := files.Write(ctx, name, data)
	if err != nil {
		return "", err
	}
	a.logger.Info().Str("id", id).Str("dir", files.Root()).Str("path", path).Str("content_type", contentType).Int("bytes", len(data)).Msg("image saved")
	return path, nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func idArg(flagValue string, fs *flag.FlagSet) string {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v
	}
	return strings.TrimSpace(fs.Arg(0))
}
