package repository

import (
	"context"
	"encoding/json"
	"io"
	"runtime"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gnolang/dynfinder/jpql"
	"github.com/gnolang/dynfinder/parser"
	"github.com/gnolang/dynfinder/query"
)

// Result is the outcome of deriving one method. Err is set when the method
// name could not be parsed; the other derived fields are empty then.
type Result struct {
	Repository string
	Entity     string
	Method     Method
	Finder     *query.DynamicFinder
	Statement  string
	Settings   []string
	Err        error
}

type resultJSON struct {
	Repository string   `json:"repository"`
	Entity     string   `json:"entity"`
	Method     string   `json:"method"`
	Arguments  []string `json:"arguments,omitempty"`
	Finder     string   `json:"finder,omitempty"`
	Statement  string   `json:"statement,omitempty"`
	Settings   []string `json:"settings,omitempty"`
	Error      string   `json:"error,omitempty"`
}

func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		Repository: r.Repository,
		Entity:     r.Entity,
		Method:     r.Method.Name,
		Arguments:  r.Method.Arguments,
		Statement:  r.Statement,
		Settings:   r.Settings,
	}
	if r.Finder != nil {
		out.Finder = r.Finder.String()
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return json.Marshal(out)
}

// RendererFactory returns a fresh renderer for an entity.
type RendererFactory func(entity string) query.Renderer

// Deriver derives finders for repository descriptors. Grammars are compiled
// once per property set and shared between workers.
type Deriver struct {
	cache    *parser.Cache
	logger   *zap.Logger
	jobs     int
	progress io.Writer
	renderer RendererFactory
}

// Option configures a Deriver.
type Option func(*Deriver)

// WithLogger sets the logger for per-method failures.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Deriver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithJobs bounds the number of methods derived at once.
func WithJobs(n int) Option {
	return func(d *Deriver) {
		if n > 0 {
			d.jobs = n
		}
	}
}

// WithProgress shows a progress bar on w while deriving.
func WithProgress(w io.Writer) Option {
	return func(d *Deriver) { d.progress = w }
}

// WithRenderer replaces the JPQL renderer.
func WithRenderer(f RendererFactory) Option {
	return func(d *Deriver) {
		if f != nil {
			d.renderer = f
		}
	}
}

// WithCache shares a grammar cache between derivers.
func WithCache(c *parser.Cache) Option {
	return func(d *Deriver) {
		if c != nil {
			d.cache = c
		}
	}
}

func NewDeriver(opts ...Option) *Deriver {
	d := &Deriver{
		cache:  parser.NewCache(),
		logger: zap.NewNop(),
		jobs:   runtime.NumCPU(),
		renderer: func(entity string) query.Renderer {
			return jpql.New(entity)
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Derive parses one method of a repository and renders it.
func (d *Deriver) Derive(repo Repository, m Method) Result {
	res := Result{Repository: repo.Name, Entity: repo.Entity, Method: m}

	g, err := d.cache.Grammar(repo.Properties)
	if err != nil {
		res.Err = err
		return res
	}
	f, err := parser.NewWithGrammar(g).Parse(m.Name, m.Arguments)
	if err != nil {
		res.Err = err
		return res
	}

	res.Finder = f
	res.Statement, res.Settings = query.Render(f, d.renderer(repo.Entity))
	return res
}

type job struct {
	repo   Repository
	method Method
}

// DeriveAll derives every method of every repository, at most `jobs` at a
// time. Results come back in declaration order. Parse failures are reported
// in the results; the returned error is only set when ctx is done first.
func (d *Deriver) DeriveAll(ctx context.Context, cfg *Config) ([]Result, error) {
	var jobs []job
	for _, repo := range cfg.Repositories {
		for _, m := range repo.Methods {
			jobs = append(jobs, job{repo: repo, method: m})
		}
	}
	results := make([]Result, len(jobs))

	var bar *progressbar.ProgressBar
	if d.progress != nil {
		bar = progressbar.NewOptions(len(jobs),
			progressbar.OptionSetWriter(d.progress),
			progressbar.OptionSetDescription("deriving"),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.jobs)
	for i, j := range jobs {
		if gctx.Err() != nil {
			break
		}
		i, j := i, j
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := d.Derive(j.repo, j.method)
			if res.Err != nil {
				d.logger.Warn("Failed to derive method",
					zap.String("repository", j.repo.Name),
					zap.String("method", j.method.Name),
					zap.Error(res.Err))
			} else {
				d.logger.Debug("Derived method",
					zap.String("repository", j.repo.Name),
					zap.String("method", j.method.Name),
					zap.String("statement", res.Statement))
			}
			results[i] = res
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return results, nil
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}
