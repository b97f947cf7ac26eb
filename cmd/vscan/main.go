// --------------------------------------------------------------------------------
// Author: Thomas F McGeehan V
//
// This file is part of a software project developed by Thomas F McGeehan V.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//
// For more information about the MIT License, please visit:
// https://opensource.org/licenses/MIT
//
// Acknowledgment appreciated but not required.
// --------------------------------------------------------------------------------

// vscan is a demo CLI driving the engine end to end: it scans one or
// more Parquet files through a TableProvider, folds each partition
// stream through a Partial hash-aggregate, merges the partial states
// through a single Final hash-aggregate, and prints the resulting
// batch.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/docopt/docopt-go"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/sync/errgroup"

	"github.com/vectorsql/vectorsql/internal/aggregate"
	"github.com/vectorsql/vectorsql/internal/physical"
	"github.com/vectorsql/vectorsql/pkg/tableprovider"
)

func main() {
	usage := `vscan - scan and hash-aggregate Parquet files.

Usage:
  vscan --path=<path> --group-by=<column> --agg=<function:column:as>... [--batch-size=<rows>] [--log-level=<level>]
  vscan -h | --help

Options:
  -h --help                       Show this screen.
  --path=<path>                   Path to a Parquet file or a directory of Parquet files.
  --group-by=<column>             Name of the grouping column.
  --agg=<function:column:as>      One aggregate spec; repeatable. function is one of count|sum|avg|min|max.
  --batch-size=<rows>             Rows per batch [default: 4096].
  --log-level=<level>             One of debug|info|warn|error [default: info].
`

	arguments, err := docopt.ParseDoc(usage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error parsing arguments: %v\n", err)
		os.Exit(1)
	}

	path, _ := arguments.String("--path")
	groupBy, _ := arguments.String("--group-by")
	batchSizeStr, _ := arguments.String("--batch-size")
	logLevel, _ := arguments.String("--log-level")
	aggSpecs := arguments["--agg"].([]string)

	batchSize, err := strconv.ParseInt(batchSizeStr, 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --batch-size: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(logLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := run(ctx, path, groupBy, aggSpecs, batchSize, logger); err != nil {
		level.Error(logger).Log("err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path, groupBy string, aggSpecs []string, batchSize int64, logger log.Logger) error {
	mem := memory.NewGoAllocator()

	table, err := tableprovider.NewParquetTable(path, mem, logger)
	if err != nil {
		return err
	}

	aggExprs, _, err := parseAggSpecs(aggSpecs)
	if err != nil {
		return err
	}

	groupExprs := []physical.PhysicalExpr{physical.Column(groupBy)}
	groupNames := []string{groupBy}

	streams, err := table.Scan(nil, batchSize)
	if err != nil {
		return err
	}
	for _, s := range streams {
		defer s.Close()
	}

	// Each partition's Partial pass is independent of the others, so
	// they run concurrently; only the Final merge below needs them all.
	partialRecords := make([]arrow.Record, len(streams))
	g, gctx := errgroup.WithContext(ctx)
	for i, s := range streams {
		i, s := i, s
		g.Go(func() error {
			partial := aggregate.New(aggregate.Partial, groupExprs, groupNames, aggExprs, s, mem, logger)
			rec, err := partial.Execute(gctx)
			if err != nil {
				return err
			}
			partialRecords[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	final := aggregate.New(aggregate.Final, groupExprs, groupNames, aggExprs, newRecordSource(partialRecords), mem, logger)
	result, err := final.Execute(ctx)
	if err != nil {
		return err
	}
	defer result.Release()

	fmt.Println(result)
	return nil
}

// recordSource replays a fixed slice of already-materialized records,
// one per Next call, then signals EOF — the bridge between the
// per-partition Partial outputs and the single Final merge pass, which
// spec §4.4 requires to run over one combined partition.
type recordSource struct {
	schema  *arrow.Schema
	records []arrow.Record
	pos     int
}

func newRecordSource(records []arrow.Record) *recordSource {
	var schema *arrow.Schema
	if len(records) > 0 {
		schema = records[0].Schema()
	}
	return &recordSource{schema: schema, records: records}
}

func (s *recordSource) Schema() *arrow.Schema { return s.schema }

func (s *recordSource) Next() (arrow.Record, error) {
	if s.pos >= len(s.records) {
		return nil, nil
	}
	rec := s.records[s.pos]
	s.pos++
	return rec, nil
}

func parseAggSpecs(specs []string) ([]physical.AggregateExpr, []string, error) {
	exprs := make([]physical.AggregateExpr, 0, len(specs))
	names := make([]string, 0, len(specs))
	for _, spec := range specs {
		parts := strings.SplitN(spec, ":", 3)
		if len(parts) != 3 {
			return nil, nil, fmt.Errorf("invalid --agg %q, expected function:column:as", spec)
		}
		fn, col, as := parts[0], parts[1], parts[2]
		input := physical.Column(col)
		switch fn {
		case "count":
			exprs = append(exprs, physical.NewCount(input, as))
		case "sum":
			exprs = append(exprs, physical.NewSum(input, as))
		case "avg":
			exprs = append(exprs, physical.NewAvg(input, as))
		case "min":
			exprs = append(exprs, physical.NewMin(input, as))
		case "max":
			exprs = append(exprs, physical.NewMax(input, as))
		default:
			return nil, nil, fmt.Errorf("unknown aggregate function %q", fn)
		}
		names = append(names, as)
	}
	return exprs, names, nil
}

func newLogger(lvl string) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	switch lvl {
	case "debug":
		logger = level.NewFilter(logger, level.AllowDebug())
	case "warn":
		logger = level.NewFilter(logger, level.AllowWarn())
	case "error":
		logger = level.NewFilter(logger, level.AllowError())
	default:
		logger = level.NewFilter(logger, level.AllowInfo())
	}
	return logger
}
