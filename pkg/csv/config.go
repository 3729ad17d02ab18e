package csv

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/spf13/viper"
	"k8s.io/klog/v2"
)

// Config declares dialects in a file. Any format viper reads works; a YAML
// example:
//
//	use: logs
//	dialects:
//	  logs:
//	    delimiter: "::"
//	    lineTerminator: "\n"
//	    trim: " \t"
//	    ignoreColumns: [thread]
//
// viper folds keys to lower case, so dialect names in a file are lower case.
type Config struct {
	// Use names the dialect to make current after Apply.
	Use string `mapstructure:"use"`
	// Dialects maps names to settings. Absent settings keep their value.
	Dialects map[string]DialectConfig `mapstructure:"dialects"`
}

// DialectConfig is the file form of a dialect. Nil fields are left alone.
type DialectConfig struct {
	Delimiter        *string  `mapstructure:"delimiter"`
	LineTerminator   *string  `mapstructure:"lineTerminator"`
	Quote            *string  `mapstructure:"quote"`
	DoubleQuote      *bool    `mapstructure:"doubleQuote"`
	SkipInitialSpace *bool    `mapstructure:"skipInitialSpace"`
	Trim             string   `mapstructure:"trim"`
	Header           *bool    `mapstructure:"header"`
	IgnoreColumns    []string `mapstructure:"ignoreColumns"`
	ColumnNames      []string `mapstructure:"columnNames"`
}

// LoadConfig reads the configuration file at path.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error parsing configuration file %s: %w", path, err)
	}

	conf := &Config{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("error unmarshal configuration %s: %w", path, err)
	}
	return conf, nil
}

// Apply configures every dialect of c in r, in name order, then switches
// to c.Use if it is set.
func (c *Config) Apply(r *Registry) error {
	names := make([]string, 0, len(c.Dialects))
	for name := range c.Dialects {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := c.Dialects[name].apply(r.ConfigureDialect(name)); err != nil {
			return fmt.Errorf("dialect %q: %w", name, err)
		}
		klog.V(4).InfoS("Configured dialect", "name", name)
	}

	if c.Use != "" {
		return r.UseDialect(c.Use)
	}
	return nil
}

func (dc DialectConfig) apply(d *Dialect) error {
	if dc.Quote != nil {
		q := *dc.Quote
		if utf8.RuneCountInString(q) != 1 {
			return fmt.Errorf("quote must be a single character, got %q", q)
		}
		r, _ := utf8.DecodeRuneInString(q)
		d.QuoteCharacter(r)
	}
	if dc.Delimiter != nil {
		d.Delimiter(*dc.Delimiter)
	}
	if dc.LineTerminator != nil {
		d.LineTerminator(*dc.LineTerminator)
	}
	if dc.DoubleQuote != nil {
		d.DoubleQuote(*dc.DoubleQuote)
	}
	if dc.SkipInitialSpace != nil {
		d.SkipInitialSpace(*dc.SkipInitialSpace)
	}
	if dc.Trim != "" {
		d.TrimCharacters([]rune(dc.Trim)...)
	}
	if dc.Header != nil {
		d.Header(*dc.Header)
	}
	d.IgnoreColumns(dc.IgnoreColumns...)
	d.ColumnNames(dc.ColumnNames...)
	return nil
}
