package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/Petlja/data-preprocessing/model"
	"golang.org/x/sync/errgroup"
)

// Job is a single document conversion.
type Job struct {
	Src string
	Dst string

	RepoBaseDir string // overrides Converter.RepoBaseDir when set
}

type Stats struct {
	Converted int
	Failed    int
}

// ErrDuplicateOutput reports a job whose destination is already taken by an
// earlier job of the same batch.
var ErrDuplicateOutput = errors.New("output file already produced by another source")

// splitDuplicates keeps the first job for every destination and returns the
// rest separately.
func splitDuplicates(jobs []Job) (unique, dups []Job) {
	seen := map[string]bool{}
	for _, j := range jobs {
		dst := filepath.Clean(j.Dst)
		if seen[dst] {
			dups = append(dups, j)
			continue
		}
		seen[dst] = true
		unique = append(unique, j)
	}
	return unique, dups
}

// Batch converts the jobs with at most workers conversions in flight.
// Failed documents are logged and counted, the batch is aborted only by
// a missing pandoc executable or by ctx. Jobs writing to a destination
// claimed by an earlier job are not run and count as failed.
func (c *Converter) Batch(ctx context.Context, jobs []Job, workers int) (Stats, error) {
	if workers < 1 {
		workers = 1
	}
	if len(jobs) > 0 {
		p := c.Pandoc
		if p == nil {
			p = &Pandoc{}
		}
		if err := p.Available(); err != nil {
			return Stats{}, err
		}
	}

	var converted, failed atomic.Int64
	jobs, dups := splitDuplicates(jobs)
	for _, j := range dups {
		failed.Add(1)
		c.logger().Error("conversion skipped", "src", j.Src, "dst", j.Dst, "err", ErrDuplicateOutput)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, j := range jobs {
		if gctx.Err() != nil {
			break
		}
		j := j
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			jc := *c
			if j.RepoBaseDir != "" {
				jc.RepoBaseDir = j.RepoBaseDir
			}
			err := jc.File(gctx, j.Src, j.Dst)
			if errors.Is(err, ErrMissingPandoc) {
				return err
			}
			if err != nil {
				failed.Add(1)
				c.logger().Error("conversion failed", "src", j.Src, "err", err)
				return nil
			}
			converted.Add(1)
			c.logger().Info("converted", "src", j.Src, "dst", j.Dst)
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	return Stats{Converted: int(converted.Load()), Failed: int(failed.Load())}, err
}

// FileJobs maps individual input files into outputDIR. Local relative paths
// keep their directories, other paths contribute only their base name.
// Two different inputs landing on one output file are an error; an input
// listed twice is converted once.
func FileJobs(files []string, outputDIR string) ([]Job, error) {
	jobs := []Job{}
	seen := map[string]string{}
	for _, fn := range files {
		src := filepath.Clean(fn)
		rel := src
		if !filepath.IsLocal(rel) {
			rel = filepath.Base(rel)
		}
		dst := filepath.Join(outputDIR, strings.TrimSuffix(rel, filepath.Ext(rel))+".md")
		if prev, ok := seen[dst]; ok {
			if prev == src {
				continue
			}
			return nil, fmt.Errorf("%s, %s: %w: %s", prev, src, ErrDuplicateOutput, dst)
		}
		seen[dst] = src
		jobs = append(jobs, Job{Src: fn, Dst: dst})
	}
	return jobs, nil
}

// OutputPath maps a repository document to its place in the dataset:
// `<outputDIR>/<repo>/<rel>.md`.
func OutputPath(outputDIR, repo string, af *model.ActivityFile) string {
	rel := af.RelFilePath
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + ".md"
	return filepath.Join(outputDIR, repo, filepath.FromSlash(rel))
}

// DatasetJobs lists the conversions for every git repository directly
// under baseDIR. Repositories without a recognized index are reported
// through skip and left out.
func DatasetJobs(baseDIR, outputDIR string, skip func(repo string, err error)) ([]Job, error) {
	baseDIR, err := filepath.Abs(baseDIR)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(baseDIR)
	if err != nil {
		return nil, fmt.Errorf("base dir > %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	jobs := []Job{}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		repoDIR := filepath.Join(baseDIR, e.Name())
		if !model.IsGitRepo(repoDIR) {
			continue
		}
		files, err := model.CollectActivityFiles(repoDIR)
		if err != nil {
			if skip != nil {
				skip(e.Name(), err)
			}
			continue
		}
		for _, af := range files {
			jobs = append(jobs, Job{
				Src: af.AbsSrcFilePath,
				Dst: OutputPath(outputDIR, e.Name(), af),

				RepoBaseDir: repoDIR,
			})
		}
	}
	return jobs, nil
}
