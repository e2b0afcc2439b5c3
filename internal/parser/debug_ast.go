package parser

import (
	"bytes"
	"darix/internal/ast"
	"encoding/json"
	"fmt"
	"io"
	"reflect"

	"gopkg.in/yaml.v3"
)

// WalkAST recursively traverses an AST and serializes it into a map structure
// shared by the JSON and YAML dumps.
func WalkAST(node ast.Node) interface{} {
	if node == nil || (reflect.ValueOf(node).Kind() == reflect.Ptr && reflect.ValueOf(node).IsNil()) {
		return nil
	}

	switch n := node.(type) {
	case *ast.Program:
		return map[string]interface{}{
			"type":       "Program",
			"statements": walkStatements(n.Statements),
		}

	case *ast.VarStatement:
		return map[string]interface{}{
			"type":        "VarStatement",
			"position":    position(n),
			"name":        n.Name,
			"initializer": WalkAST(n.Initializer),
		}

	case *ast.FunctionDeclaration:
		return map[string]interface{}{
			"type":       "FunctionDeclaration",
			"position":   position(n),
			"name":       n.Name,
			"parameters": n.Parameters,
			"body":       walkStatements(n.Body),
		}

	case *ast.ClassDeclaration:
		methods := make([]interface{}, len(n.Methods))
		for i, m := range n.Methods {
			methods[i] = WalkAST(m)
		}
		return map[string]interface{}{
			"type":     "ClassDeclaration",
			"position": position(n),
			"name":     n.Name,
			"methods":  methods,
		}

	case *ast.ReturnStatement:
		return map[string]interface{}{
			"type":        "ReturnStatement",
			"position":    position(n),
			"returnValue": WalkAST(n.ReturnValue),
		}

	case *ast.IfStatement:
		return map[string]interface{}{
			"type":      "IfStatement",
			"position":  position(n),
			"condition": WalkAST(n.Condition),
			"then":      walkStatements(n.ThenBranch),
			"else":      walkStatements(n.ElseBranch),
		}

	case *ast.WhileStatement:
		return map[string]interface{}{
			"type":      "WhileStatement",
			"position":  position(n),
			"condition": WalkAST(n.Condition),
			"body":      walkStatements(n.Body),
		}

	case *ast.ForStatement:
		return map[string]interface{}{
			"type":        "ForStatement",
			"position":    position(n),
			"initializer": WalkAST(n.Initializer),
			"condition":   WalkAST(n.Condition),
			"increment":   WalkAST(n.Increment),
			"body":        walkStatements(n.Body),
		}

	case *ast.TryStatement:
		m := map[string]interface{}{
			"type":     "TryStatement",
			"position": position(n),
			"body":     walkStatements(n.Body),
		}
		if n.HasCatch {
			m["catchName"] = n.CatchName
			m["catchBody"] = walkStatements(n.CatchBody)
		}
		if n.HasFinally {
			m["finallyBody"] = walkStatements(n.FinallyBody)
		}
		return m

	case *ast.BlockStatement:
		return map[string]interface{}{
			"type":       "BlockStatement",
			"position":   position(n),
			"statements": walkStatements(n.Statements),
		}

	case *ast.ExpressionStatement:
		return map[string]interface{}{
			"type":       "ExpressionStatement",
			"position":   position(n),
			"expression": WalkAST(n.Expression),
		}

	case *ast.IntegerLiteral:
		return map[string]interface{}{
			"type":     "IntegerLiteral",
			"position": position(n),
			"value":    n.Value,
		}

	case *ast.FloatLiteral:
		return map[string]interface{}{
			"type":     "FloatLiteral",
			"position": position(n),
			"value":    n.Value,
		}

	case *ast.StringLiteral:
		return map[string]interface{}{
			"type":     "StringLiteral",
			"position": position(n),
			"value":    n.Value,
		}

	case *ast.BooleanLiteral:
		return map[string]interface{}{
			"type":     "BooleanLiteral",
			"position": position(n),
			"value":    n.Value,
		}

	case *ast.NullLiteral:
		return map[string]interface{}{
			"type":     "NullLiteral",
			"position": position(n),
		}

	case *ast.Variable:
		return map[string]interface{}{
			"type":     "Variable",
			"position": position(n),
			"name":     n.Name,
		}

	case *ast.BinaryExpression:
		return map[string]interface{}{
			"type":     "BinaryExpression",
			"position": position(n),
			"left":     WalkAST(n.Left),
			"operator": n.Operator,
			"right":    WalkAST(n.Right),
		}

	case *ast.UnaryExpression:
		return map[string]interface{}{
			"type":     "UnaryExpression",
			"position": position(n),
			"operator": n.Operator,
			"right":    WalkAST(n.Right),
		}

	case *ast.CallExpression:
		return map[string]interface{}{
			"type":      "CallExpression",
			"position":  position(n),
			"callee":    WalkAST(n.Callee),
			"arguments": walkExpressions(n.Arguments),
		}

	case *ast.ArrayLiteral:
		return map[string]interface{}{
			"type":     "ArrayLiteral",
			"position": position(n),
			"elements": walkExpressions(n.Elements),
		}

	case *ast.MapLiteral:
		pairs := make([]interface{}, len(n.Pairs))
		for i, p := range n.Pairs {
			pairs[i] = map[string]interface{}{
				"key":   WalkAST(p.Key),
				"value": WalkAST(p.Value),
			}
		}
		return map[string]interface{}{
			"type":     "MapLiteral",
			"position": position(n),
			"pairs":    pairs,
		}

	case *ast.MemberExpression:
		return map[string]interface{}{
			"type":     "MemberExpression",
			"position": position(n),
			"object":   WalkAST(n.Object),
			"property": n.Property,
		}

	case *ast.IndexExpression:
		return map[string]interface{}{
			"type":     "IndexExpression",
			"position": position(n),
			"left":     WalkAST(n.Left),
			"index":    WalkAST(n.Index),
		}

	case *ast.AssignExpression:
		return map[string]interface{}{
			"type":     "AssignExpression",
			"position": position(n),
			"target":   WalkAST(n.Target),
			"value":    WalkAST(n.Value),
		}

	default:
		return map[string]interface{}{
			"type": fmt.Sprintf("Unknown: %T", n),
		}
	}
}

func position(n ast.Node) string {
	tok := n.Pos()
	return fmt.Sprintf("%d:%d", tok.Line, tok.Column)
}

func walkStatements(stmts []ast.Statement) []interface{} {
	out := make([]interface{}, len(stmts))
	for i, s := range stmts {
		out[i] = WalkAST(s)
	}
	return out
}

func walkExpressions(exprs []ast.Expression) []interface{} {
	out := make([]interface{}, len(exprs))
	for i, e := range exprs {
		out[i] = WalkAST(e)
	}
	return out
}

// RenderJSON writes the WalkAST form of node as indented JSON.
func RenderJSON(w io.Writer, node ast.Node) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")  // Pretty-print the JSON
	encoder.SetEscapeHTML(false) // Disable escaping of characters like <, >, &

	if err := encoder.Encode(WalkAST(node)); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// RenderYAML writes the WalkAST form of node as YAML.
func RenderYAML(w io.Writer, node ast.Node) error {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(WalkAST(node)); err != nil {
		return fmt.Errorf("failed to write YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to write YAML: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Render dumps node in one of the supported debug formats: text, json or yaml.
func Render(w io.Writer, node ast.Node, format string) error {
	switch format {
	case "text", "":
		_, err := io.WriteString(w, RenderText(node, 0)+"\n")
		return err
	case "json":
		return RenderJSON(w, node)
	case "yaml":
		return RenderYAML(w, node)
	default:
		return fmt.Errorf("unknown AST dump format %q (want text, json or yaml)", format)
	}
}
