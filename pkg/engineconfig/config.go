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

// Package engineconfig provides YAML-driven configuration for a single
// engine run: the scan source, projection, batch size and logging level.
package engineconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EngineConfig is the top-level document shape.
type EngineConfig struct {
	Engine struct {
		BatchSize int    `yaml:"batch_size"`
		LogLevel  string `yaml:"log_level"`
	} `yaml:"engine"`

	Scan struct {
		Path      string   `yaml:"path"`
		Columns   []string `yaml:"columns,omitempty"`
		RowGroups []int    `yaml:"row_groups,omitempty"`
	} `yaml:"scan"`

	GroupBy   []string    `yaml:"group_by,omitempty"`
	Aggregate []Aggregate `yaml:"aggregate"`
}

// Aggregate names one aggregate expression: a function applied to a
// source column, with its own output name.
type Aggregate struct {
	Function string `yaml:"function"`
	Column   string `yaml:"column"`
	As       string `yaml:"as"`
}

// Load reads and parses an EngineConfig from path.
func Load(path string) (*EngineConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg EngineConfig
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the document for self-consistency. It does not touch
// the filesystem or any Parquet metadata — Scan.Path existing and
// Scan.Columns naming real fields are checked only once the file is
// opened.
func (c *EngineConfig) Validate() error {
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateAggregate(); err != nil {
		return err
	}
	return nil
}

func (c *EngineConfig) validateEngine() error {
	if c.Engine.BatchSize <= 0 {
		return fmt.Errorf("engine.batch_size must be greater than 0")
	}
	switch c.Engine.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("engine.log_level %q is not one of debug|info|warn|error", c.Engine.LogLevel)
	}
	return nil
}

func (c *EngineConfig) validateScan() error {
	if c.Scan.Path == "" {
		return fmt.Errorf("scan.path cannot be empty")
	}
	for _, rg := range c.Scan.RowGroups {
		if rg < 0 {
			return fmt.Errorf("scan.row_groups entries must be non-negative, got %d", rg)
		}
	}
	return nil
}

func (c *EngineConfig) validateAggregate() error {
	for _, a := range c.Aggregate {
		if a.Column == "" {
			return fmt.Errorf("aggregate entry must name a column")
		}
		if a.As == "" {
			return fmt.Errorf("aggregate on column %q must have an 'as' output name", a.Column)
		}
		switch a.Function {
		case "count", "sum", "avg", "min", "max":
		default:
			return fmt.Errorf("aggregate function %q on column %q is not one of count|sum|avg|min|max", a.Function, a.Column)
		}
	}
	return nil
}

// LogLevelOrDefault returns the configured log level, defaulting to
// "info" when unset.
func (c *EngineConfig) LogLevelOrDefault() string {
	if c.Engine.LogLevel == "" {
		return "info"
	}
	return c.Engine.LogLevel
}

// BatchSizeOrDefault returns the configured batch size, defaulting to
// 4096 rows when unset or non-positive.
func (c *EngineConfig) BatchSizeOrDefault() int64 {
	if c.Engine.BatchSize <= 0 {
		return 4096
	}
	return int64(c.Engine.BatchSize)
}
