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

package engineconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vectorsql/vectorsql/pkg/engineconfig"
)

func TestValidateRejectsBadConfigs(t *testing.T) {
	t.Parallel()

	base := func() *engineconfig.EngineConfig {
		cfg := &engineconfig.EngineConfig{}
		cfg.Engine.BatchSize = 4096
		cfg.Engine.LogLevel = "info"
		cfg.Scan.Path = "data.parquet"
		cfg.Aggregate = []engineconfig.Aggregate{{Function: "sum", Column: "amount", As: "total"}}
		return cfg
	}

	tests := []struct {
		description string
		mutate      func(*engineconfig.EngineConfig)
		wantErrSub  string
	}{
		{"zero batch size", func(c *engineconfig.EngineConfig) { c.Engine.BatchSize = 0 }, "batch_size"},
		{"negative batch size", func(c *engineconfig.EngineConfig) { c.Engine.BatchSize = -1 }, "batch_size"},
		{"invalid log level", func(c *engineconfig.EngineConfig) { c.Engine.LogLevel = "verbose" }, "log_level"},
		{"empty scan path", func(c *engineconfig.EngineConfig) { c.Scan.Path = "" }, "scan.path"},
		{"negative row group", func(c *engineconfig.EngineConfig) { c.Scan.RowGroups = []int{0, -2} }, "row_groups"},
		{"aggregate missing column", func(c *engineconfig.EngineConfig) {
			c.Aggregate = []engineconfig.Aggregate{{Function: "sum", As: "total"}}
		}, "must name a column"},
		{"aggregate missing as", func(c *engineconfig.EngineConfig) {
			c.Aggregate = []engineconfig.Aggregate{{Function: "sum", Column: "amount"}}
		}, "'as' output name"},
		{"aggregate unknown function", func(c *engineconfig.EngineConfig) {
			c.Aggregate = []engineconfig.Aggregate{{Function: "median", Column: "amount", As: "m"}}
		}, "not one of count|sum|avg|min|max"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.description, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErrSub)
		})
	}
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	t.Parallel()
	cfg := &engineconfig.EngineConfig{}
	cfg.Engine.BatchSize = 2048
	cfg.Engine.LogLevel = "debug"
	cfg.Scan.Path = "orders.parquet"
	cfg.Scan.RowGroups = []int{0, 1}
	cfg.GroupBy = []string{"customer_id"}
	cfg.Aggregate = []engineconfig.Aggregate{{Function: "avg", Column: "amount", As: "avg_amount"}}

	assert.NoError(t, cfg.Validate())
}

func TestLogLevelOrDefault(t *testing.T) {
	t.Parallel()
	cfg := &engineconfig.EngineConfig{}
	assert.Equal(t, "info", cfg.LogLevelOrDefault())
	cfg.Engine.LogLevel = "warn"
	assert.Equal(t, "warn", cfg.LogLevelOrDefault())
}

func TestBatchSizeOrDefault(t *testing.T) {
	t.Parallel()
	cfg := &engineconfig.EngineConfig{}
	assert.EqualValues(t, 4096, cfg.BatchSizeOrDefault())
	cfg.Engine.BatchSize = 512
	assert.EqualValues(t, 512, cfg.BatchSizeOrDefault())
}

func TestLoadParsesYAMLDocument(t *testing.T) {
	t.Parallel()

	doc := `
engine:
  batch_size: 8192
  log_level: debug
scan:
  path: orders.parquet
  columns: [customer_id, amount]
group_by: [customer_id]
aggregate:
  - function: avg
    column: amount
    as: avg_amount
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := engineconfig.Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8192, cfg.Engine.BatchSize)
	assert.Equal(t, "debug", cfg.Engine.LogLevel)
	assert.Equal(t, "orders.parquet", cfg.Scan.Path)
	assert.Equal(t, []string{"customer_id", "amount"}, cfg.Scan.Columns)
	assert.Equal(t, []string{"customer_id"}, cfg.GroupBy)
	require.Len(t, cfg.Aggregate, 1)
	assert.Equal(t, "avg", cfg.Aggregate[0].Function)
}

func TestLoadReturnsErrorForMissingFile(t *testing.T) {
	t.Parallel()
	_, err := engineconfig.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
