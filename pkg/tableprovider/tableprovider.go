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

// Package tableprovider supplements spec §4.1/§4.5 with a multi-file
// table abstraction over one or more Parquet files sharing a schema: a
// TableProvider names the columns available and scans into one
// partition stream per file, matching the directory-of-files shape a
// real engine's Parquet datasource has to handle.
package tableprovider

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/go-kit/log"

	"github.com/vectorsql/vectorsql/internal/engineerr"
	"github.com/vectorsql/vectorsql/internal/parquetio"
	"github.com/vectorsql/vectorsql/internal/partition"
)

// TableProvider is the contract a query plan scans against: a schema
// plus a scan operation producing one partition stream per underlying
// file.
type TableProvider interface {
	Schema() *arrow.Schema
	Scan(projection []int, batchSize int64) ([]*partition.Stream, error)
}

// ParquetTable is a TableProvider backed by one or more Parquet files
// discovered under a path (a single file, or every *.parquet file in a
// directory tree). All files are assumed to share the full schema of
// the first file found.
type ParquetTable struct {
	filenames []string
	schema    *arrow.Schema
	mem       memory.Allocator
	logger    log.Logger
}

// NewParquetTable discovers Parquet files under path and opens the
// first one to determine the table's schema.
func NewParquetTable(path string, mem memory.Allocator, logger log.Logger) (*ParquetTable, error) {
	filenames, err := buildFileList(path)
	if err != nil {
		return nil, err
	}
	if len(filenames) == 0 {
		return nil, engineerr.Generalf("tableprovider.NewParquetTable", "no parquet files found under %s", path)
	}
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}

	r, err := parquetio.Open(filenames[0], nil, 1, mem)
	if err != nil {
		return nil, err
	}
	schema := r.Schema()
	_ = r.Close()

	return &ParquetTable{filenames: filenames, schema: schema, mem: mem, logger: logger}, nil
}

// Schema returns the table's full (unprojected) schema.
func (t *ParquetTable) Schema() *arrow.Schema { return t.schema }

// Scan opens one partition.Stream per underlying file, applying
// projection (nil selects every column) and batchSize to each. Every
// returned stream shares the table's projected schema.
func (t *ParquetTable) Scan(projection []int, batchSize int64) ([]*partition.Stream, error) {
	if batchSize <= 0 {
		return nil, engineerr.Generalf("tableprovider.Scan", "batch_size must be positive, got %d", batchSize)
	}

	streams := make([]*partition.Stream, 0, len(t.filenames))
	for _, filename := range t.filenames {
		filename := filename
		proj := projection
		s := partition.New(func() (partition.Underlying, error) {
			return parquetio.Open(filename, proj, batchSize, t.mem)
		}, log.With(t.logger, "file", filepath.Base(filename)))
		streams = append(streams, s)
	}
	return streams, nil
}

// buildFileList resolves path to a sorted list of .parquet files: path
// itself if it is a file, or every *.parquet file under it if it is a
// directory.
func buildFileList(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, engineerr.WrapIO("tableprovider.buildFileList", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var out []string
	err = filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(p), ".parquet") {
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, engineerr.WrapIO("tableprovider.buildFileList", err)
	}
	sort.Strings(out)
	return out, nil
}
