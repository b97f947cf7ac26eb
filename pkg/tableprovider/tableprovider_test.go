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

package tableprovider_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vectorsql/vectorsql/internal/testutil"
	"github.com/vectorsql/vectorsql/pkg/tableprovider"
)

func writeFixtureInDir(t *testing.T, dir, name string, batch arrow.Record) {
	t.Helper()
	src := testutil.WriteParquetFixture(t, testutil.OrdersSchema, []arrow.Record{batch})
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}

func TestParquetTableSchemaFromSingleFile(t *testing.T) {
	t.Parallel()
	mem := memory.NewGoAllocator()
	batch := testutil.OrdersBatch(mem, []int64{1, 2}, []float64{1, 2}, nil)
	defer batch.Release()
	path := testutil.WriteParquetFixture(t, testutil.OrdersSchema, []arrow.Record{batch})

	table, err := tableprovider.NewParquetTable(path, mem, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, table.Schema().NumFields())
	assert.Equal(t, "customer_id", table.Schema().Field(0).Name)
}

func TestParquetTableScanOneStreamPerFile(t *testing.T) {
	t.Parallel()
	mem := memory.NewGoAllocator()
	dir := t.TempDir()

	batch1 := testutil.OrdersBatch(mem, []int64{1, 2}, []float64{1, 2}, nil)
	defer batch1.Release()
	batch2 := testutil.OrdersBatch(mem, []int64{3, 4, 5}, []float64{3, 4, 5}, nil)
	defer batch2.Release()

	writeFixtureInDir(t, dir, "a.parquet", batch1)
	writeFixtureInDir(t, dir, "b.parquet", batch2)

	table, err := tableprovider.NewParquetTable(dir, mem, nil)
	require.NoError(t, err)

	streams, err := table.Scan(nil, 1024)
	require.NoError(t, err)
	require.Len(t, streams, 2)

	var totalRows int64
	for _, s := range streams {
		defer s.Close()
		for {
			rec, err := s.Next()
			require.NoError(t, err)
			if rec == nil {
				break
			}
			totalRows += rec.NumRows()
			rec.Release()
		}
	}
	assert.EqualValues(t, 5, totalRows)
}

func TestParquetTableRejectsMissingPath(t *testing.T) {
	t.Parallel()
	mem := memory.NewGoAllocator()
	_, err := tableprovider.NewParquetTable(filepath.Join(t.TempDir(), "does-not-exist"), mem, nil)
	assert.Error(t, err)
}

func TestParquetTableScanRejectsNonPositiveBatchSize(t *testing.T) {
	t.Parallel()
	mem := memory.NewGoAllocator()
	batch := testutil.OrdersBatch(mem, []int64{1}, []float64{1}, nil)
	defer batch.Release()
	path := testutil.WriteParquetFixture(t, testutil.OrdersSchema, []arrow.Record{batch})

	table, err := tableprovider.NewParquetTable(path, mem, nil)
	require.NoError(t, err)

	_, err = table.Scan(nil, 0)
	assert.Error(t, err)
}
