package main

import (
	"fmt"
	"unicode/utf8"

	"github.com/spf13/pflag"

	"github.com/shapestone/shape-csv-dialect/pkg/csv"
)

// DialectOptions selects and adjusts the dialect a command uses.
type DialectOptions struct {
	Config           string
	Dialect          string
	Delimiter        string
	LineTerminator   string
	Quote            string
	NoDoubleQuote    bool
	SkipInitialSpace bool
	Trim             string
	NoHeader         bool
	IgnoreColumns    []string
	ColumnNames      []string
}

func NewDialectOptions() *DialectOptions {
	return &DialectOptions{}
}

func (o *DialectOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Config, "config", "", "dialect configuration file (yaml, json or toml)")
	fs.StringVar(&o.Dialect, "dialect", "", "name of the dialect to use, default excel")
	fs.StringVarP(&o.Delimiter, "delimiter", "d", "", "field delimiter, may be several characters")
	fs.StringVar(&o.LineTerminator, "line-terminator", "", `record terminator, e.g. "\n"`)
	fs.StringVar(&o.Quote, "quote", "", "quote character")
	fs.BoolVar(&o.NoDoubleQuote, "no-double-quote", false, "do not treat a doubled quote as a literal")
	fs.BoolVar(&o.SkipInitialSpace, "skip-initial-space", false, "drop a space following a delimiter")
	fs.StringVar(&o.Trim, "trim", "", "characters to strip from both ends of every field")
	fs.BoolVar(&o.NoHeader, "no-header", false, "the first line is data; columns are named 0..n-1")
	fs.StringSliceVar(&o.IgnoreColumns, "ignore", nil, "columns to drop from every record")
	fs.StringSliceVar(&o.ColumnNames, "columns", nil, "header line to write")
}

// Apply loads the configuration file, switches to the chosen dialect and
// applies the flags that were set on the command line to it.
func (o *DialectOptions) Apply(fs *pflag.FlagSet, reg *csv.Registry) error {
	if o.Config != "" {
		conf, err := csv.LoadConfig(o.Config)
		if err != nil {
			return err
		}
		if err := conf.Apply(reg); err != nil {
			return err
		}
	}
	if o.Dialect != "" {
		if err := reg.UseDialect(o.Dialect); err != nil {
			return err
		}
	}

	d, err := reg.CurrentDialect()
	if err != nil {
		return err
	}

	if fs.Changed("quote") {
		if utf8.RuneCountInString(o.Quote) != 1 {
			return fmt.Errorf("--quote must be a single character, got %q", o.Quote)
		}
		r, _ := utf8.DecodeRuneInString(o.Quote)
		d.QuoteCharacter(r)
	}
	if fs.Changed("delimiter") {
		d.Delimiter(unescape(o.Delimiter))
	}
	if fs.Changed("line-terminator") {
		d.LineTerminator(unescape(o.LineTerminator))
	}
	if fs.Changed("no-double-quote") {
		d.DoubleQuote(!o.NoDoubleQuote)
	}
	if fs.Changed("skip-initial-space") {
		d.SkipInitialSpace(o.SkipInitialSpace)
	}
	if fs.Changed("trim") {
		d.TrimCharacters([]rune(unescape(o.Trim))...)
	}
	if fs.Changed("no-header") {
		d.Header(!o.NoHeader)
	}
	d.IgnoreColumns(o.IgnoreColumns...)
	d.ColumnNames(o.ColumnNames...)
	return nil
}

// unescape turns the shell-friendly sequences \n, \r and \t into the
// characters they name.
func unescape(s string) string {
	var out []rune
	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		if rs[i] == '\\' && i+1 < len(rs) {
			switch rs[i+1] {
			case 'n':
				out = append(out, '\n')
				i++
				continue
			case 'r':
				out = append(out, '\r')
				i++
				continue
			case 't':
				out = append(out, '\t')
				i++
				continue
			}
		}
		out = append(out, rs[i])
	}
	return string(out)
}
