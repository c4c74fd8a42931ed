package main

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// ExitInMainAnalyzer reports calls in main.main that end the process
// without running deferred calls. The server and client flush the logger,
// stop the listeners and close storage in defers, so main only returns
// and the exit code is set by a helper.
var ExitInMainAnalyzer = &analysis.Analyzer{
	Name:     "exitinmain",
	Doc:      "reports os.Exit, syscall.Exit and log.Fatal calls made directly in main.main",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      runExitInMain,
}

// exits reports whether fn terminates the process and skips defers.
func exits(fn *types.Func) bool {
	if fn.Pkg() == nil {
		return false
	}
	switch fn.Pkg().Path() {
	case "os", "syscall":
		return fn.Name() == "Exit"
	case "log":
		switch fn.Name() {
		case "Fatal", "Fatalf", "Fatalln":
			return true
		}
	}
	return false
}

func runExitInMain(pass *analysis.Pass) (any, error) {
	if pass.Pkg.Name() != "main" {
		return nil, nil
	}

	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	insp.Preorder([]ast.Node{(*ast.FuncDecl)(nil)}, func(n ast.Node) {
		fn := n.(*ast.FuncDecl)
		if fn.Recv != nil || fn.Name.Name != "main" || fn.Body == nil {
			return
		}

		ast.Inspect(fn.Body, func(n ast.Node) bool {
			// closures run later, not on main's own path
			if _, ok := n.(*ast.FuncLit); ok {
				return false
			}
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			sel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			if callee, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func); ok && exits(callee) {
				pass.Reportf(call.Pos(), "%s.%s in main.main skips deferred cleanup; return an error and exit from a helper",
					callee.Pkg().Name(), callee.Name())
			}
			return true
		})
	})
	return nil, nil
}
