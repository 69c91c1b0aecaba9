// Package pipeline coordinates the flow from parsed catalog rows through the
// optional matching stage into the database sink.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/davosmed/fb2sqlite/internal/common"
	"github.com/davosmed/fb2sqlite/internal/match"
	"github.com/davosmed/fb2sqlite/internal/model"
)

// Sink is the single-writer destination for catalog rows. Begin receives the
// header and opens the run's transaction; Commit is called only once every
// row has been written. Exactly one goroutine drives a Sink.
type Sink interface {
	Begin(ctx context.Context, header []string) error
	Write(ctx context.Context, row []string) error
	Commit() error
	Rollback() error
}

// Config controls one run of the coordinator.
type Config struct {
	Items    []model.Item
	Index    match.Index
	Workers  int
	Enrich   bool
	Progress bool
}

// Result summarizes one run.
type Result struct {
	TotalRows int
	Matched   int
}

// Coordinator drives one run: collect rows, optionally fan them out to the
// matcher, and emit them in source order to the sink.
type Coordinator struct {
	sink Sink
	cfg  Config
}

// New creates a coordinator writing to sink.
func New(sink Sink, cfg Config) *Coordinator {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Coordinator{sink: sink, cfg: cfg}
}

// Run processes all rows. The first row is the header and is never matched.
// On any error the sink's open transaction is rolled back and the failing
// stage is reported; there is no partial success.
func (c *Coordinator) Run(ctx context.Context, rows [][]string) (Result, error) {
	res, err := c.run(ctx, rows)
	if err != nil {
		_ = c.sink.Rollback()
		return res, err
	}
	return res, nil
}

func (c *Coordinator) run(ctx context.Context, rows [][]string) (Result, error) {
	if len(rows) == 0 {
		return Result{}, common.Abort("collect", fmt.Errorf("%w: catalog has no rows", common.ErrSourceRead))
	}

	header := model.TruncateRow(rows[0])
	data := rows[1:]
	for i := range data {
		data[i] = model.TruncateRow(data[i])
	}

	if c.cfg.Enrich {
		header = append(append(make([]string, 0, len(header)+len(model.EnrichmentColumns)), header...), model.EnrichmentColumns...)
	}

	res := Result{TotalRows: len(data)}

	var matched []bool
	if c.cfg.Enrich {
		enriched, ok, err := c.matchAll(ctx, data)
		if err != nil {
			return res, common.Abort("match", err)
		}
		data, matched = enriched, ok
		for _, m := range matched {
			if m {
				res.Matched++
			}
		}
	}

	if err := c.sink.Begin(ctx, header); err != nil {
		return res, common.Abort("emit", err)
	}
	for i, row := range data {
		if c.cfg.Enrich && !matched[i] {
			// Unmatched rows are dropped from the enriched output on purpose;
			// the plain export keeps every row.
			continue
		}
		if err := c.sink.Write(ctx, row); err != nil {
			return res, common.Abort("emit", err)
		}
	}
	if err := c.sink.Commit(); err != nil {
		return res, common.Abort("emit", err)
	}
	return res, nil
}

// matchAll fans one matching task per row out over the worker pool. Results
// are stored by source position, so output order never depends on completion
// order. A worker panic or context cancellation aborts the whole stage.
func (c *Coordinator) matchAll(ctx context.Context, rows [][]string) ([][]string, []bool, error) {
	out := make([][]string, len(rows))
	matched := make([]bool, len(rows))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var bar *progressbar.ProgressBar
	if c.cfg.Progress {
		bar = progressbar.NewOptions(len(rows),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("Matching catalog rows..."),
		)
	}

	jobs := make(chan int)
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() { firstErr = err })
		cancel()
	}

	for w := 0; w < c.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					fail(fmt.Errorf("match worker panicked: %v", r))
				}
			}()
			for i := range jobs {
				out[i], matched[i] = c.matchRow(rows[i])
				if bar != nil {
					_ = bar.Add(1)
				}
			}
		}()
	}

feed:
	for i := range rows {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return out, matched, nil
}

// matchRow matches one product row and appends the three enrichment fields,
// empty together when nothing matched.
func (c *Coordinator) matchRow(row []string) ([]string, bool) {
	query := strings.Join([]string{
		field(row, model.ColDescriptionDE),
		field(row, model.ColDescriptionFR),
		field(row, model.ColDescriptionIT),
		field(row, model.ColBrandName),
	}, " ")

	enriched := append(make([]string, 0, len(row)+len(model.EnrichmentColumns)), row...)
	if item := match.Best(query, c.cfg.Items, c.cfg.Index); item != nil {
		return append(enriched, item.PositionNr, item.Bezeichnung, item.Limitation), true
	}
	return append(enriched, "", "", ""), false
}

func field(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
