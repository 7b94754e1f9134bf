// Package prompt merges a category template with its knowledge table and the
// user's question.
package prompt

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/guidechat/backend/pkg/knowledge"

	"github.com/iancoleman/orderedmap"
)

// SerializeRows renders rows as an indented JSON array. Keys follow column
// order, rows follow file order, absent cells are left out.
func SerializeRows(rows []knowledge.Row) (string, error) {
	objects := make([]*orderedmap.OrderedMap, 0, len(rows))
	for _, row := range rows {
		object := orderedmap.New()
		object.SetEscapeHTML(false)
		row.Fields(func(column, value string) {
			object.Set(column, value)
		})
		objects = append(objects, object)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(objects); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Augment substitutes the serialized table and the raw query into template.
// Only the first occurrence of each placeholder is replaced, data first. The
// query is inserted verbatim.
func Augment(template string, table knowledge.Table, query string) (string, error) {
	data, err := SerializeRows(table.Rows)
	if err != nil {
		return "", err
	}

	out := strings.Replace(template, knowledge.DataPlaceholder, data, 1)
	out = strings.Replace(out, knowledge.QueryPlaceholder, query, 1)
	return out, nil
}
