package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"cv-tailor/internal/config"
	"cv-tailor/internal/cvsource"
	"cv-tailor/internal/fileio"
	"cv-tailor/internal/posting"
	"cv-tailor/internal/tailor/model"
	tailorSvc "cv-tailor/internal/tailor/service"
)

const msgNeedBoth = "Add both job description and CV text to optimize."

func main() {
	cfg := config.Load()
	logger := config.SetupCLILogger(cfg)

	app := newApp(cfg, logger, os.Stdout)
	if err := app.Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("cv-tailor")
		os.Exit(1)
	}
}

func newApp(cfg config.Config, logger zerolog.Logger, stdout io.Writer) *cli.App {
	formatFlag := func() cli.Flag {
		return &cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "text", Usage: "output format: text, json or yaml"}
	}
	limitFlag := func() cli.Flag {
		return &cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: cfg.KeywordLimit, Usage: "number of posting keywords"}
	}

	return &cli.App{
		Name:      "cv-tailor",
		Usage:     "match a CV against a job posting and draft a targeted version",
		Writer:    stdout,
		ErrWriter: os.Stderr,
		Commands: []*cli.Command{
			{
				Name:  "keywords",
				Usage: "print the top keywords of a job posting",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "posting", Aliases: []string{"p"}, Usage: "posting text file (- for stdin)", Required: true},
					limitFlag(),
					formatFlag(),
				},
				Action: func(c *cli.Context) error {
					text, err := readInput(c.String("posting"), os.Stdin)
					if err != nil {
						return err
					}
					kws := tailorSvc.RankKeywords(text, keywordLimit(c.Int("limit"), cfg))
					if c.String("format") == "text" {
						_, err := fmt.Fprintln(c.App.Writer, strings.Join(kws, "\n"))
						return err
					}
					return render(c.App.Writer, c.String("format"), kws)
				},
			},
			{
				Name:  "scrape",
				Usage: "fetch a job posting through the reader proxy",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Required: true},
					&cli.BoolFlag{Name: "direct", Usage: "fetch the page itself instead of the reader proxy", Value: cfg.FetchDirect},
				},
				Action: func(c *cli.Context) error {
					text, err := newFetcher(cfg, logger, c.Bool("direct")).Fetch(c.Context, c.String("url"))
					if err != nil {
						return fmt.Errorf("could not scrape %s: %w", c.String("url"), err)
					}
					_, err = fmt.Fprintln(c.App.Writer, text)
					return err
				},
			},
			{
				Name:  "optimize",
				Usage: "score a CV against a posting and print the tailored draft",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "posting", Aliases: []string{"p"}, Usage: "posting text file (- for stdin)"},
					&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Usage: "fetch the posting from this URL"},
					&cli.StringFlag{Name: "cv", Usage: "CV file (.txt, .md, .pdf, .docx) or s3://bucket/key"},
					&cli.BoolFlag{Name: "sample", Usage: "use the built-in sample CV"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "also write the tailored CV to this file"},
					limitFlag(),
					formatFlag(),
				},
				Action: func(c *cli.Context) error {
					return optimize(c, cfg, logger)
				},
			},
		},
	}
}

func optimize(c *cli.Context, cfg config.Config, logger zerolog.Logger) error {
	ctx := c.Context

	var (
		postingText string
		err         error
	)
	switch {
	case c.String("url") != "":
		postingText, err = newFetcher(cfg, logger, cfg.FetchDirect).Fetch(ctx, c.String("url"))
	case c.String("posting") != "":
		postingText, err = readInput(c.String("posting"), os.Stdin)
	default:
		err = errors.New("either --posting or --url is required")
	}
	if err != nil {
		return err
	}

	var cvText string
	switch {
	case c.Bool("sample"):
		cvText = cvsource.SampleCV
		logger.Info().Msg("Sample CV loaded.")
	case c.String("cv") != "":
		cvText, err = loadCV(ctx, cfg, c.String("cv"))
		if err != nil {
			return err
		}
		logger.Info().Str("file", c.String("cv")).Msg("CV loaded")
	default:
		return errors.New("either --cv or --sample is required")
	}

	postingText, cvText = strings.TrimSpace(postingText), strings.TrimSpace(cvText)
	if postingText == "" || cvText == "" {
		return errors.New(msgNeedBoth)
	}

	res := tailorSvc.Run(postingText, cvText, model.Options{KeywordLimit: keywordLimit(c.Int("limit"), cfg)})
	logger.Info().Int("score", res.Score).Msg(res.Metrics)

	if out := c.String("out"); out != "" {
		if err := os.WriteFile(out, []byte(res.OptimizedCV+"\n"), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		logger.Info().Str("file", out).Msg("Optimized CV saved.")
	}

	if c.String("format") == "text" {
		_, err := fmt.Fprintf(c.App.Writer, "%s\n\n%s\n", res.Metrics, res.OptimizedCV)
		return err
	}
	return render(c.App.Writer, c.String("format"), res)
}

// keywordLimit: --limit 0 означает POSTING_KEYWORD_LIMIT.
func keywordLimit(n int, cfg config.Config) int {
	if n == 0 {
		return cfg.KeywordLimit
	}
	return n
}

func newFetcher(cfg config.Config, logger zerolog.Logger, direct bool) *posting.Fetcher {
	return posting.NewFetcher(posting.Options{
		ReaderProxy: cfg.ReaderProxy,
		Direct:      direct,
		Timeout:     cfg.FetchTimeout,
		RPS:         cfg.FetchRPS,
		Burst:       cfg.FetchBurst,
	}, logger)
}

func loadCV(ctx context.Context, cfg config.Config, ref string) (string, error) {
	if ref == "-" {
		return readInput(ref, os.Stdin)
	}
	var loader cvsource.Loader
	if strings.HasPrefix(ref, "s3://") {
		client, err := cvsource.NewS3Client(ctx, cvsource.S3Options{
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			return "", err
		}
		loader.S3 = client
	}
	return loader.Load(ctx, ref)
}

// readInput: "-" читает stdin, иначе файл через fileio (pdf/docx/txt).
func readInput(ref string, stdin io.Reader) (string, error) {
	if ref == "-" {
		b, err := io.ReadAll(stdin)
		return string(b), err
	}
	f, err := os.Open(ref)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return fileio.ReadText(f, ref)
}

func render(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
