// Package config loads suite files: YAML documents describing a list of
// named comparisons with their sources and engine options. Credentials in
// locations are resolved from the environment (optionally seeded from a .env
// file) via ${VAR} expansion.
package config

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dataqe/recon/compare"
	"github.com/dataqe/recon/quality"
	"github.com/dataqe/recon/source"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Endpoint struct {
	Location string `mapstructure:"location"`
	Query    string `mapstructure:"query"`
}

func (e Endpoint) Spec() source.Spec {
	return source.Spec{
		Location: os.ExpandEnv(e.Location),
		Query:    e.Query,
	}
}

// Comparison is one named comparison in a suite. List-valued options are
// comma-separated strings, matching the configuration surface the original
// scenario files used.
type Comparison struct {
	Name   string   `mapstructure:"name"`
	Source Endpoint `mapstructure:"source"`
	Target Endpoint `mapstructure:"target"`

	PrimaryKey      string  `mapstructure:"primary_key"`
	OmitColumns     string  `mapstructure:"omit_columns"`
	OmitValues      string  `mapstructure:"omit_values"`
	ToleranceValue  float64 `mapstructure:"tolerance_value"`
	ToleranceMode   string  `mapstructure:"tolerance_mode"`
	CaseInsensitive bool    `mapstructure:"case_insensitive"`

	DuplicateCheck *bool    `mapstructure:"duplicate_check"`
	NullThreshold  *float64 `mapstructure:"null_threshold"`
}

func (c Comparison) KeySpec() compare.KeySpec {
	return compare.KeySpec(splitList(c.PrimaryKey))
}

func (c Comparison) OmitColumnList() []string {
	return splitList(c.OmitColumns)
}

// OmitValueList keeps empty entries: a trailing comma declares the empty
// string as an omit value.
func (c Comparison) OmitValueList() []string {
	if c.OmitValues == "" {
		return nil
	}
	vals := strings.Split(c.OmitValues, ",")
	for i := range vals {
		vals[i] = strings.TrimSpace(vals[i])
	}
	return vals
}

func (c Comparison) Tolerance() (compare.Tolerance, error) {
	mode, err := compare.ParseToleranceMode(c.ToleranceMode)
	if err != nil {
		return compare.Tolerance{}, err
	}
	return compare.Tolerance{Value: c.ToleranceValue, Mode: mode}, nil
}

func (c Comparison) QualityOptions() quality.Options {
	opts := quality.DefaultOptions()
	opts.CaseInsensitive = c.CaseInsensitive
	if c.DuplicateCheck != nil {
		opts.DuplicateCheck = *c.DuplicateCheck
	}
	if c.NullThreshold != nil {
		opts.NullThreshold = *c.NullThreshold
	}
	return opts
}

type Output struct {
	JSONDir string `mapstructure:"json_dir"`
	CSVDir  string `mapstructure:"csv_dir"`
}

type Suite struct {
	Comparisons []Comparison `mapstructure:"comparisons"`
	Output      Output       `mapstructure:"output"`
}

// Load reads a suite file. A .env file next to the working directory is
// loaded first so that ${VAR} references in locations resolve.
func Load(path string) (*Suite, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "error reading suite file %s", path)
	}
	var suite Suite
	if err := v.Unmarshal(&suite); err != nil {
		return nil, errors.Wrapf(err, "error parsing suite file %s", path)
	}
	if len(suite.Comparisons) == 0 {
		return nil, errors.Newf("suite file %s declares no comparisons", path)
	}
	for i := range suite.Comparisons {
		c := &suite.Comparisons[i]
		if c.Name == "" {
			return nil, errors.Newf("comparison %d has no name", i)
		}
		if c.PrimaryKey == "" {
			return nil, errors.Newf("comparison %q has no primary_key", c.Name)
		}
		if c.Source.Location == "" || c.Target.Location == "" {
			return nil, errors.Newf("comparison %q must declare source and target locations", c.Name)
		}
		if _, err := c.Tolerance(); err != nil {
			return nil, errors.Wrapf(err, "comparison %q", c.Name)
		}
	}
	return &suite, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	ret := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			ret = append(ret, p)
		}
	}
	return ret
}
