// Package knowledge resolves a category to its prompt template and table.
package knowledge

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/guidechat/backend/pkg/loader"
	"github.com/guidechat/backend/pkg/loader/csv"
	"github.com/guidechat/backend/pkg/logger"
)

// ErrUnknownCategory is returned when a category key is invalid or its files
// are missing.
var ErrUnknownCategory = errors.New("unknown category")

const (
	templateExt    = ".txt"
	tableExt       = ".csv"
	tableSeparator = ';'
)

var categoryKeyPattern = regexp.MustCompile(`^[\p{L}\p{N}_-]+$`)

// Category identifies a topic and the two files that back it.
type Category struct {
	Key          string
	TemplatePath string
	TablePath    string
}

// ResolveCategory maps a key to its file names.
func ResolveCategory(key string) (Category, error) {
	if !categoryKeyPattern.MatchString(key) {
		return Category{}, fmt.Errorf("%w %q: invalid key", ErrUnknownCategory, key)
	}
	return Category{
		Key:          key,
		TemplatePath: key + templateExt,
		TablePath:    key + tableExt,
	}, nil
}

// Knowledge is everything loaded for one request.
type Knowledge struct {
	Category Category
	Template string
	Table    Table
}

// Loader reads category files from a loader.Source. It holds no per-request
// state and is safe for concurrent use.
type Loader struct {
	source       loader.Source
	priceColumns []string
}

// NewLoaderParams configures a Loader. A nil PriceColumns selects
// DefaultPriceColumns.
type NewLoaderParams struct {
	Source       loader.Source
	PriceColumns []string
}

func NewLoader(params NewLoaderParams) *Loader {
	priceColumns := params.PriceColumns
	if priceColumns == nil {
		priceColumns = DefaultPriceColumns
	}
	return &Loader{
		source:       params.Source,
		priceColumns: priceColumns,
	}
}

// Load reads the template and table of category. Price tiers are normalized
// before the table is returned.
func (l *Loader) Load(ctx context.Context, key string) (Knowledge, error) {
	category, err := ResolveCategory(key)
	if err != nil {
		return Knowledge{}, err
	}

	template, err := l.read(ctx, category, category.TemplatePath)
	if err != nil {
		return Knowledge{}, err
	}
	if missing := MissingPlaceholders(string(template)); len(missing) > 0 {
		logger.Warn("Template is missing placeholders", "category", key, "missing", strings.Join(missing, ","))
	}

	content, err := l.read(ctx, category, category.TablePath)
	if err != nil {
		return Knowledge{}, err
	}
	columns, records, err := csv.ParseRecords(content, tableSeparator)
	if err != nil {
		return Knowledge{}, fmt.Errorf("failed to parse %s: %w", category.TablePath, err)
	}

	table := NewTable(columns, records)
	normalizePrices(&table, l.priceColumns)
	logger.Debug("Loaded knowledge", "category", key, "rows", len(table.Rows))

	return Knowledge{
		Category: category,
		Template: string(template),
		Table:    table,
	}, nil
}

func (l *Loader) read(ctx context.Context, category Category, name string) ([]byte, error) {
	content, err := l.source.ReadFile(ctx, name)
	if err == nil {
		return content, nil
	}
	if errors.Is(err, loader.ErrNotFound) {
		return nil, fmt.Errorf("%w %q: %w", ErrUnknownCategory, category.Key, err)
	}
	return nil, fmt.Errorf("failed to read %s: %w", name, err)
}

// Categories lists the keys that have both a template and a table.
func (l *Loader) Categories(ctx context.Context) ([]string, error) {
	lister, ok := l.source.(loader.Lister)
	if !ok {
		return nil, errors.ErrUnsupported
	}
	names, err := lister.List(ctx)
	if err != nil {
		return nil, err
	}

	templates := make(map[string]bool)
	tables := make(map[string]bool)
	for _, name := range names {
		switch {
		case strings.HasSuffix(name, templateExt):
			templates[strings.TrimSuffix(name, templateExt)] = true
		case strings.HasSuffix(name, tableExt):
			tables[strings.TrimSuffix(name, tableExt)] = true
		}
	}

	keys := make([]string, 0)
	for key := range templates {
		if tables[key] && categoryKeyPattern.MatchString(key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
