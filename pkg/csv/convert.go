package csv

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/shapestone/shape-core/pkg/ast"
)

// NodeToInterface converts an AST node to native Go types.
//
// The conversion mirrors Decode:
//   - *ast.ArrayDataNode → []interface{}
//   - *ast.ObjectNode → map[string]interface{}
//   - *ast.LiteralNode → its value (string, int64, float64, bool or nil)
//
// This function recursively processes nested structures.
//
// Example:
//
//	node, _ := csv.Parse("name,age\nAlice,30\n", csv.DefaultOptions())
//	data := csv.NodeToInterface(node)
//	// data is []interface{}{[]interface{}{"name", "age"}, []interface{}{"Alice", "30"}}
func NodeToInterface(node ast.SchemaNode) interface{} {
	switch n := node.(type) {
	case *ast.LiteralNode:
		return n.Value()

	case *ast.ArrayDataNode:
		elements := n.Elements()
		values := make([]interface{}, len(elements))
		for i, elem := range elements {
			values[i] = NodeToInterface(elem)
		}
		return values

	case *ast.ObjectNode:
		props := n.Properties()
		values := make(map[string]interface{}, len(props))
		for name, prop := range props {
			values[name] = NodeToInterface(prop)
		}
		return values

	default:
		return nil
	}
}

// InterfaceToNode converts native Go types to AST nodes.
//
// It accepts the values produced by Decode and NodeToInterface, as well as
// [][]string and []string records. Integer and float kinds other than int64
// and float64 are widened.
//
// Example:
//
//	node, _ := csv.InterfaceToNode([][]string{{"name", "age"}, {"Alice", "30"}})
//	// node is an *ast.ArrayDataNode of two records
func InterfaceToNode(v interface{}) (ast.SchemaNode, error) {
	pos := ast.Position{}

	switch val := v.(type) {
	case nil:
		return ast.NewLiteralNode(nil, pos), nil
	case string:
		return ast.NewLiteralNode(val, pos), nil
	case bool:
		return ast.NewLiteralNode(val, pos), nil
	case int:
		return ast.NewLiteralNode(int64(val), pos), nil
	case int32:
		return ast.NewLiteralNode(int64(val), pos), nil
	case int64:
		return ast.NewLiteralNode(val, pos), nil
	case float32:
		return ast.NewLiteralNode(float64(val), pos), nil
	case float64:
		return ast.NewLiteralNode(val, pos), nil

	case [][]string:
		records := make([]ast.SchemaNode, len(val))
		for i, record := range val {
			records[i], _ = InterfaceToNode(record)
		}
		return ast.NewArrayDataNode(records, pos), nil

	case []string:
		fields := make([]ast.SchemaNode, len(val))
		for i, field := range val {
			fields[i] = ast.NewLiteralNode(field, pos)
		}
		return ast.NewArrayDataNode(fields, pos), nil

	case []interface{}:
		elements := make([]ast.SchemaNode, len(val))
		for i, item := range val {
			node, err := InterfaceToNode(item)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			elements[i] = node
		}
		return ast.NewArrayDataNode(elements, pos), nil

	case map[string]interface{}:
		props := make(map[string]ast.SchemaNode, len(val))
		for name, item := range val {
			node, err := InterfaceToNode(item)
			if err != nil {
				return nil, fmt.Errorf("member %q: %w", name, err)
			}
			props[name] = node
		}
		return ast.NewObjectNode(props, pos), nil

	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}

// NodeToRecords flattens a row-shaped AST into string records, the shape
// encoding/csv works with.
//
// Array records keep their field order. Object records are written in
// sorted key order. Values are formatted with strconv; null becomes "".
//
// Example:
//
//	node, _ := csv.Parse("name,age\nAlice,30\n", csv.DefaultOptions())
//	records := csv.NodeToRecords(node)
//	// records is [][]string{{"name","age"}, {"Alice","30"}}
func NodeToRecords(node ast.SchemaNode) [][]string {
	root, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return [][]string{}
	}

	records := make([][]string, 0, root.Len())
	for _, elem := range root.Elements() {
		switch rec := NodeToInterface(elem).(type) {
		case []interface{}:
			fields := make([]string, len(rec))
			for i, v := range rec {
				fields[i] = formatValue(v)
			}
			records = append(records, fields)
		case map[string]interface{}:
			names := make([]string, 0, len(rec))
			for name := range rec {
				names = append(names, name)
			}
			sort.Strings(names)
			fields := make([]string, len(names))
			for i, name := range names {
				fields[i] = formatValue(rec[name])
			}
			records = append(records, fields)
		}
	}
	return records
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
