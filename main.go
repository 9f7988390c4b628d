package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/Petlja/data-preprocessing/config"
	"github.com/Petlja/data-preprocessing/convert"
	"github.com/adnsv/go-utils/fs"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	cli "github.com/jawher/mow.cli"
)

// empty unless --log-level is given, the config file may set it then
var logLevelName string

func main() {
	logJSON := false

	app := cli.App("petlja-prep", "Course directives -> neutral Markdown converter")
	app.Version("v version", app_version())
	app.StringOptPtr(&logLevelName, "log-level", "", "log level: debug, info (default), warn, or error")
	app.BoolOptPtr(&logJSON, "log-json", false, "write log records as json")

	app.Before = func() {
		setupLogger(logLevelName, logJSON)
	}

	app.Command("filter", "run as a pandoc JSON filter (stdin -> stdout)", cmdFilter)
	app.Command("convert", "convert individual rst or markdown files", cmdConvert)
	app.Command("prepare-dataset", "convert every course repository found in the base directory", cmdPrepareDataset)
	app.Command("version", "print the version", func(cmd *cli.Cmd) {
		cmd.Action = func() {
			fmt.Println(app_version())
		}
	})

	app.Run(os.Args)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func cmdFilter(cmd *cli.Cmd) {
	format := ""
	repoBaseDir := ""
	rawRST := false

	cmd.Spec = "[--repo-base-dir=<DIR>] [--raw-rst] [FORMAT]"
	cmd.StringOptPtr(&repoBaseDir, "repo-base-dir", "", "repository root for include options, used when the document metadata has none")
	cmd.BoolOptPtr(&rawRST, "raw-rst", false, "rewrite raw rst directives embedded in markdown")
	cmd.StringArgPtr(&format, "FORMAT", "", "target format passed by pandoc (ignored)")

	cmd.Action = func() {
		c := &convert.Converter{RepoBaseDir: repoBaseDir, RewriteRawRST: rawRST}
		if err := c.Filter(os.Stdin, os.Stdout); err != nil {
			log.Fatal("filter failed", "err", err)
		}
	}
}

func cmdConvert(cmd *cli.Cmd) {
	inputs := []string{}
	outDir := ""
	writer := ""
	pandocExe := ""
	repoBaseDir := ""
	rawRST := false

	cmd.Spec = "[-o=<OUTPUT-DIR>] [--writer=<pandoc|builtin>] [--pandoc=<EXE>] [--repo-base-dir=<DIR>] [--raw-rst] FILES..."
	cmd.StringOptPtr(&outDir, "o output", "", "output directory, converted files are printed to stdout when omitted")
	cmd.StringOptPtr(&writer, "writer", config.WriterPandoc, "markdown writer: pandoc or builtin")
	cmd.StringOptPtr(&pandocExe, "pandoc", "pandoc", "pandoc executable")
	cmd.StringOptPtr(&repoBaseDir, "repo-base-dir", "", "repository root for include options")
	cmd.BoolOptPtr(&rawRST, "raw-rst", false, "rewrite raw rst directives embedded in markdown")
	cmd.StringsArgPtr(&inputs, "FILES", nil, "input file(s), glob patterns are expanded")

	cmd.Action = func() {
		cfg := config.Default()
		cfg.Writer = writer
		cfg.Pandoc = pandocExe
		if err := cfg.Validate(); err != nil {
			log.Fatal("invalid arguments", "err", err)
		}

		files := []string{}
		for _, in := range inputs {
			g, err := doublestar.FilepathGlob(in)
			if err != nil {
				log.Fatal("invalid pattern", "pattern", in, "err", err)
			}
			if len(g) == 0 {
				log.Warn("no files match", "pattern", in)
			}
			files = append(files, g...)
		}

		c := &convert.Converter{
			Pandoc:        &convert.Pandoc{Exec: cfg.Pandoc},
			RepoBaseDir:   repoBaseDir,
			Builtin:       cfg.Writer == config.WriterBuiltin,
			RewriteRawRST: rawRST,
			Log:           log.Default(),
		}

		ctx, cancel := signalContext()
		defer cancel()

		if outDir == "" {
			for _, fn := range files {
				buf, err := c.Markdown(ctx, fn)
				if errors.Is(err, convert.ErrMissingPandoc) {
					log.Fatal(err)
				} else if err != nil {
					log.Error("conversion failed", "src", fn, "err", err)
					continue
				}
				os.Stdout.Write(buf)
			}
			return
		}

		jobs, err := convert.FileJobs(files, outDir)
		if err != nil {
			log.Fatal(err)
		}
		stats, err := c.Batch(ctx, jobs, cfg.Jobs)
		if err != nil {
			log.Fatal(err)
		}
		log.Info("done", "converted", stats.Converted, "failed", stats.Failed)
		if stats.Failed > 0 {
			cli.Exit(1)
		}
	}
}

func cmdPrepareDataset(cmd *cli.Cmd) {
	configFN := ""
	baseDir := ""
	outputDir := ""
	jobs := 0
	writer := ""
	pandocExe := ""
	rawRST := false

	cmd.StringOptPtr(&configFN, "c config", "", "yaml configuration file")
	cmd.StringOptPtr(&baseDir, "base-dir", "", "directory holding the course repositories (default: repos)")
	cmd.StringOptPtr(&outputDir, "output-dir", "", "dataset output directory (default: dataset)")
	cmd.IntOptPtr(&jobs, "j jobs", 0, "number of parallel conversions (default: number of CPUs)")
	cmd.StringOptPtr(&writer, "writer", "", "markdown writer: pandoc or builtin")
	cmd.StringOptPtr(&pandocExe, "pandoc", "", "pandoc executable")
	cmd.BoolOptPtr(&rawRST, "raw-rst", false, "rewrite raw rst directives embedded in markdown")

	cmd.Action = func() {
		cfg := config.Default()
		if configFN != "" {
			if err := fs.ValidateFileExists(configFN); err != nil {
				log.Fatal("missing config file", "file", configFN)
			}
			var err error
			cfg, err = config.Open(configFN)
			if err != nil {
				log.Fatal(err)
			}
			if logLevelName == "" {
				log.SetLevel(logLevel(cfg.LogLevel))
			}
		}

		// command line arguments override the config file
		if baseDir != "" {
			cfg.BaseDir = baseDir
		}
		if outputDir != "" {
			cfg.OutputDir = outputDir
		}
		if jobs > 0 {
			cfg.Jobs = jobs
		}
		if writer != "" {
			cfg.Writer = writer
		}
		if pandocExe != "" {
			cfg.Pandoc = pandocExe
		}
		if rawRST {
			cfg.RewriteRawRST = true
		}
		if err := cfg.Validate(); err != nil {
			log.Fatal("invalid configuration", "err", err)
		}

		log.Info("preparing dataset", "base-dir", cfg.BaseDir, "output-dir", cfg.OutputDir, "jobs", cfg.Jobs)
		jj, err := convert.DatasetJobs(cfg.BaseDir, cfg.OutputDir, func(repo string, err error) {
			log.Warn("skipping repository", "repo", repo, "err", err)
		})
		if err != nil {
			log.Fatal(err)
		}
		if len(jj) == 0 {
			log.Warn("no activity files found", "base-dir", cfg.BaseDir)
			return
		}

		c := &convert.Converter{
			Pandoc:        &convert.Pandoc{Exec: cfg.Pandoc},
			Builtin:       cfg.Writer == config.WriterBuiltin,
			RewriteRawRST: cfg.RewriteRawRST,
			Log:           log.Default(),
		}

		ctx, cancel := signalContext()
		defer cancel()

		stats, err := c.Batch(ctx, jj, cfg.Jobs)
		if err != nil {
			log.Fatal(err)
		}
		log.Info("dataset ready", "converted", stats.Converted, "failed", stats.Failed)
		if stats.Failed > 0 {
			cli.Exit(1)
		}
	}
}
