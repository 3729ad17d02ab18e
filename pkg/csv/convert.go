package csv

import (
	"fmt"

	"github.com/shapestone/shape-core/pkg/ast"
)

// ToAST returns the result of the last parse as an AST.
//
// The root is an *ast.ArrayDataNode of rows. The first row holds the column
// names without the ignored ones, and every following row holds the values
// of one record in the same order. Each field is an *ast.LiteralNode with a
// string value.
func (r *Reader) ToAST() *ast.ArrayDataNode {
	return RecordsToNode(r.columns(), r.rows)
}

// RecordsToNode converts records to an AST with header as its first row.
// A column missing from a record becomes an empty field.
//
// Example:
//
//	node := csv.RecordsToNode([]string{"name", "age"}, []csv.Record{
//	    {"name": "Alice", "age": "30"},
//	})
//	// node holds [["name","age"], ["Alice","30"]]
func RecordsToNode(header []string, records []Record) *ast.ArrayDataNode {
	pos := ast.Position{}

	rows := make([]ast.SchemaNode, 0, len(records)+1)
	rows = append(rows, fieldsToNode(header, pos))
	for _, rec := range records {
		values := make([]string, len(header))
		for i, name := range header {
			values[i] = rec[name]
		}
		rows = append(rows, fieldsToNode(values, pos))
	}
	return ast.NewArrayDataNode(rows, pos)
}

func fieldsToNode(fields []string, pos ast.Position) *ast.ArrayDataNode {
	nodes := make([]ast.SchemaNode, len(fields))
	for i, field := range fields {
		nodes[i] = ast.NewLiteralNode(field, pos)
	}
	return ast.NewArrayDataNode(nodes, pos)
}

// NodeToRecords is the inverse of RecordsToNode. Rows shorter than the
// header leave the remaining columns out of the record; extra fields are
// ignored.
func NodeToRecords(node ast.SchemaNode) ([]string, []Record, error) {
	root, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return nil, nil, fmt.Errorf("unsupported node type: %T", node)
	}

	elements := root.Elements()
	if len(elements) == 0 {
		return nil, nil, nil
	}

	header, err := nodeToFields(elements[0])
	if err != nil {
		return nil, nil, fmt.Errorf("header: %w", err)
	}

	records := make([]Record, 0, len(elements)-1)
	for i, elem := range elements[1:] {
		fields, err := nodeToFields(elem)
		if err != nil {
			return nil, nil, fmt.Errorf("record %d: %w", i, err)
		}
		rec := make(Record, len(header))
		for j, name := range header {
			if j < len(fields) {
				rec[name] = fields[j]
			}
		}
		records = append(records, rec)
	}
	return header, records, nil
}

func nodeToFields(node ast.SchemaNode) ([]string, error) {
	row, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return nil, fmt.Errorf("unsupported row type: %T", node)
	}

	elements := row.Elements()
	fields := make([]string, len(elements))
	for i, elem := range elements {
		lit, ok := elem.(*ast.LiteralNode)
		if !ok {
			return nil, fmt.Errorf("field %d: unsupported node type: %T", i, elem)
		}
		if s, ok := lit.Value().(string); ok {
			fields[i] = s
		} else {
			fields[i] = fmt.Sprintf("%v", lit.Value())
		}
	}
	return fields, nil
}
