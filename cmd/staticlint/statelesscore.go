package main

import (
	"go/ast"
	"go/token"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// codecPackages lists the import path suffixes whose packages must not
// keep mutable state between jobs.
const codecPackages = "internal/huffman,internal/container,internal/engine,internal/lossless"

// StatelessCoreAnalyzer reports package-level variables in the codec
// packages. Two concurrent jobs must share nothing but read-only tables,
// so only sentinel errors, the transform registry and blank assertions
// are accepted.
var StatelessCoreAnalyzer = &analysis.Analyzer{
	Name: "statelesscore",
	Doc:  "reports package-level variables in the codec packages other than sentinel errors and the transform registry",
	Run:  runStatelessCore,
}

func runStatelessCore(pass *analysis.Pass) (any, error) {
	if !inCodecScope(pass.Pkg.Path()) {
		return nil, nil
	}

	errType := types.Universe.Lookup("error").Type().Underlying().(*types.Interface)

	for _, f := range pass.Files {
		if strings.HasSuffix(pass.Fset.File(f.Pos()).Name(), "_test.go") {
			continue
		}
		for _, d := range f.Decls {
			gen, ok := d.(*ast.GenDecl)
			if !ok || gen.Tok != token.VAR {
				continue
			}
			for _, spec := range gen.Specs {
				for _, name := range spec.(*ast.ValueSpec).Names {
					if allowedPackageVar(pass, name, errType) {
						continue
					}
					pass.Reportf(name.Pos(), "package-level variable %s in codec package %s; keep per-job state in values", name.Name, pass.Pkg.Name())
				}
			}
		}
	}
	return nil, nil
}

func inCodecScope(path string) bool {
	for _, suffix := range strings.Split(codecPackages, ",") {
		if path == suffix || strings.HasSuffix(path, "/"+suffix) {
			return true
		}
	}
	return false
}

func allowedPackageVar(pass *analysis.Pass, name *ast.Ident, errType *types.Interface) bool {
	switch {
	case name.Name == "_":
		return true
	case name.Name == "registry":
		return true
	case strings.HasPrefix(name.Name, "Err") || strings.HasPrefix(name.Name, "err"):
		obj := pass.TypesInfo.Defs[name]
		return obj != nil && types.Implements(obj.Type(), errType)
	}
	return false
}
