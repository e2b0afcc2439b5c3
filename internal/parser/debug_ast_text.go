package parser

import (
	"darix/internal/ast"
	"fmt"
	"reflect"
	"strings"
)

// RenderText produces a human-centric, indented representation of the AST.
// It is optimized for debugging precedence and block structure.
func RenderText(node ast.Node, indent int) string {
	if node == nil || (reflect.ValueOf(node).Kind() == reflect.Ptr && reflect.ValueOf(node).IsNil()) {
		return "nil"
	}

	sp := strings.Repeat("  ", indent)

	switch n := node.(type) {
	case *ast.Program:
		var sb strings.Builder
		for i, s := range n.Statements {
			if i > 0 {
				sb.WriteString("\n")
			}
			// Root level statements start at indent 0
			sb.WriteString(RenderText(s, 0))
		}
		return sb.String()

	case *ast.VarStatement:
		if n.Initializer == nil {
			return fmt.Sprintf("%svar %s", sp, n.Name)
		}
		return fmt.Sprintf("%svar %s = %s", sp, n.Name, RenderText(n.Initializer, 0))

	case *ast.FunctionDeclaration:
		return fmt.Sprintf("%sfunc %s(%s) %s", sp, n.Name, strings.Join(n.Parameters, ", "), renderBlock(n.Body, indent))

	case *ast.ClassDeclaration:
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%sclass %s {\n", sp, n.Name))
		for _, m := range n.Methods {
			sb.WriteString(RenderText(m, indent+1))
			sb.WriteString("\n")
		}
		sb.WriteString(sp + "}")
		return sb.String()

	case *ast.ReturnStatement:
		if n.ReturnValue == nil {
			return sp + "return"
		}
		return fmt.Sprintf("%sreturn %s", sp, RenderText(n.ReturnValue, 0))

	case *ast.IfStatement:
		res := fmt.Sprintf("%sif %s %s", sp, RenderText(n.Condition, 0), renderBlock(n.ThenBranch, indent))
		if len(n.ElseBranch) > 0 {
			res += " else " + renderBlock(n.ElseBranch, indent)
		}
		return res

	case *ast.WhileStatement:
		return fmt.Sprintf("%swhile %s %s", sp, RenderText(n.Condition, 0), renderBlock(n.Body, indent))

	case *ast.ForStatement:
		init := ""
		if n.Initializer != nil {
			init = RenderText(n.Initializer, 0)
		}
		cond := ""
		if n.Condition != nil {
			cond = RenderText(n.Condition, 0)
		}
		incr := ""
		if n.Increment != nil {
			incr = RenderText(n.Increment, 0)
		}
		return fmt.Sprintf("%sfor (%s; %s; %s) %s", sp, init, cond, incr, renderBlock(n.Body, indent))

	case *ast.TryStatement:
		res := fmt.Sprintf("%stry %s", sp, renderBlock(n.Body, indent))
		if n.HasCatch {
			res += fmt.Sprintf(" catch (%s) %s", n.CatchName, renderBlock(n.CatchBody, indent))
		}
		if n.HasFinally {
			res += " finally " + renderBlock(n.FinallyBody, indent)
		}
		return res

	case *ast.BlockStatement:
		return sp + renderBlock(n.Statements, indent)

	case *ast.ExpressionStatement:
		// The statement handles the line's starting indentation
		return sp + RenderText(n.Expression, 0)

	case *ast.CallExpression:
		args := []string{}
		for _, a := range n.Arguments {
			args = append(args, RenderText(a, 0))
		}
		return fmt.Sprintf("%s(%s)", RenderText(n.Callee, 0), strings.Join(args, ", "))

	case *ast.BinaryExpression:
		return fmt.Sprintf("(%s %s %s)", RenderText(n.Left, 0), n.Operator, RenderText(n.Right, 0))

	case *ast.UnaryExpression:
		return fmt.Sprintf("(%s%s)", n.Operator, RenderText(n.Right, 0))

	case *ast.AssignExpression:
		return fmt.Sprintf("(%s = %s)", RenderText(n.Target, 0), RenderText(n.Value, 0))

	case *ast.MemberExpression:
		return RenderText(n.Object, 0) + "." + n.Property

	case *ast.IndexExpression:
		return fmt.Sprintf("%s[%s]", RenderText(n.Left, 0), RenderText(n.Index, 0))

	case *ast.Variable:
		return n.Name
	case *ast.IntegerLiteral:
		return n.Token.Lexeme
	case *ast.FloatLiteral:
		return n.Token.Lexeme
	case *ast.StringLiteral:
		return fmt.Sprintf("%q", n.Value)
	case *ast.BooleanLiteral:
		return fmt.Sprintf("%v", n.Value)
	case *ast.NullLiteral:
		return "null"

	case *ast.ArrayLiteral:
		elems := []string{}
		for _, e := range n.Elements {
			elems = append(elems, RenderText(e, 0))
		}
		return "[" + strings.Join(elems, ", ") + "]"

	case *ast.MapLiteral:
		pairs := []string{}
		for _, p := range n.Pairs {
			pairs = append(pairs, fmt.Sprintf("%s: %s", RenderText(p.Key, 0), RenderText(p.Value, 0)))
		}
		return "{" + strings.Join(pairs, ", ") + "}"

	default:
		return fmt.Sprintf("<unknown:%T>", n)
	}
}

// renderBlock renders statements one per line, indented one level deeper
// than the closing brace.
func renderBlock(stmts []ast.Statement, indent int) string {
	if len(stmts) == 0 {
		return "{}"
	}
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, s := range stmts {
		sb.WriteString(RenderText(s, indent+1))
		sb.WriteString("\n")
	}
	// The closing brace aligns with the parent's indent
	sb.WriteString(strings.Repeat("  ", indent) + "}")
	return sb.String()
}
