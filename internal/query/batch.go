package query

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

// BatchSeparator is a line that splits a batch file into separate queries
const BatchSeparator = "---"

// Result is the outcome of one query in a batch
type Result struct {
	Query string
	Body  string
	Err   error
}

// SplitBatch splits text on separator lines, dropping blank queries
func SplitBatch(text string) []string {
	var (
		queries []string
		current []string
	)
	flush := func() {
		q := strings.TrimSpace(strings.Join(current, "\n"))
		if q != "" {
			queries = append(queries, q)
		}
		current = current[:0]
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == BatchSeparator {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return queries
}

// ExecuteAll runs queries concurrently, at most limit at a time, and returns
// the results in input order. A failing query does not stop the others.
func (s *Service) ExecuteAll(ctx context.Context, queries []string, limit int) ([]Result, error) {
	results := make([]Result, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, q := range queries {
		g.Go(func() error {
			body, err := s.Execute(gctx, q)
			results[i] = Result{Query: q, Body: body, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, ctx.Err()
}
