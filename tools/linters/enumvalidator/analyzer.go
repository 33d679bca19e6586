// Package enumvalidator reports string literals assigned to enum-typed fields.
package enumvalidator

import (
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/analysis"
)

var Analyzer = &analysis.Analyzer{
	Name: "enumvalidator",
	Doc:  "checks that enum fields only use defined constants, not string literals",
	Run:  run,
}

// enumTypes are matched by type name so the analyzer also works on testdata.
var enumTypes = map[string]bool{
	"Role":               true,
	"Permission":         true,
	"TagMode":            true,
	"TagSource":          true,
	"ContentType":        true,
	"ConnectionStatus":   true,
	"InvitationStatus":   true,
	"SubscriptionStatus": true,
	"ScenarioType":       true,
	"ScenarioStatus":     true,
	"NodeType":           true,
	"RunStatus":          true,
	"StepStatus":         true,
	"OrderStatus":        true,
	"TaskType":           true,
}

func run(pass *analysis.Pass) (interface{}, error) {
	for _, file := range pass.Files {
		ast.Inspect(file, func(n ast.Node) bool {
			switch node := n.(type) {
			case *ast.AssignStmt:
				for i, lhs := range node.Lhs {
					if i >= len(node.Rhs) {
						continue
					}
					if sel, ok := lhs.(*ast.SelectorExpr); ok && isEnumField(pass, sel) && isStringLiteral(node.Rhs[i]) {
						pass.Reportf(node.Pos(),
							"enum field %s assigned string literal; use defined constant instead",
							sel.Sel.Name)
					}
				}
			case *ast.KeyValueExpr:
				// Struct literals: Membership{Role: "admin"}.
				key, ok := node.Key.(*ast.Ident)
				if !ok || !isStringLiteral(node.Value) {
					return true
				}
				if obj, ok := pass.TypesInfo.ObjectOf(key).(*types.Var); ok && obj.IsField() && isEnumType(obj.Type()) {
					pass.Reportf(node.Pos(),
						"enum field %s assigned string literal; use defined constant instead",
						key.Name)
				}
			}
			return true
		})
	}
	return nil, nil
}

func isEnumField(pass *analysis.Pass, sel *ast.SelectorExpr) bool {
	return isEnumType(pass.TypesInfo.TypeOf(sel))
}

func isEnumType(t types.Type) bool {
	if t == nil {
		return false
	}
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	named, ok := t.(*types.Named)
	return ok && enumTypes[named.Obj().Name()]
}

func isStringLiteral(expr ast.Expr) bool {
	lit, ok := expr.(*ast.BasicLit)
	return ok && lit.Kind == token.STRING
}
