// Staticlint is the project linter. Besides the x/tools passes and
// staticcheck it carries two project checks: exitinmain keeps both binaries
// returning through their deferred cleanup, and statelesscore keeps the
// codec packages free of shared mutable state.
//
//	go run ./cmd/staticlint ./...
package main

import (
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"

	"golang.org/x/tools/go/analysis/passes/asmdecl"
	"golang.org/x/tools/go/analysis/passes/assign"
	"golang.org/x/tools/go/analysis/passes/atomic"
	"golang.org/x/tools/go/analysis/passes/bools"
	"golang.org/x/tools/go/analysis/passes/buildtag"
	"golang.org/x/tools/go/analysis/passes/cgocall"
	"golang.org/x/tools/go/analysis/passes/composite"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/defers"
	"golang.org/x/tools/go/analysis/passes/directive"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/framepointer"
	"golang.org/x/tools/go/analysis/passes/httpresponse"
	"golang.org/x/tools/go/analysis/passes/ifaceassert"
	"golang.org/x/tools/go/analysis/passes/loopclosure"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/nilfunc"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/reflectvaluecompare"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/shift"
	"golang.org/x/tools/go/analysis/passes/sigchanyzer"
	"golang.org/x/tools/go/analysis/passes/slog"
	"golang.org/x/tools/go/analysis/passes/sortslice"
	"golang.org/x/tools/go/analysis/passes/stdmethods"
	"golang.org/x/tools/go/analysis/passes/stringintconv"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/testinggoroutine"
	"golang.org/x/tools/go/analysis/passes/tests"
	"golang.org/x/tools/go/analysis/passes/timeformat"
	"golang.org/x/tools/go/analysis/passes/unmarshal"
	"golang.org/x/tools/go/analysis/passes/unreachable"
	"golang.org/x/tools/go/analysis/passes/unsafeptr"
	"golang.org/x/tools/go/analysis/passes/unusedresult"
	"golang.org/x/tools/go/analysis/passes/unusedwrite"

	// Staticcheck
	"honnef.co/go/tools/simple"
	"honnef.co/go/tools/staticcheck"
	"honnef.co/go/tools/stylecheck"
	"honnef.co/go/tools/unused"

	"github.com/gostaticanalysis/nilerr"
	"github.com/nishanths/exhaustive"
)

func main() {
	multichecker.Main(analyzers()...)
}

// analyzers returns every check the project runs, project checks last.
func analyzers() []*analysis.Analyzer {
	all := vetPasses()
	all = append(all, staticcheckSuite()...)
	all = append(all, exhaustive.Analyzer, nilerr.Analyzer)
	return append(all, ExitInMainAnalyzer, StatelessCoreAnalyzer)
}

// vetPasses are the x/tools passes. fieldalignment is left out: the codec
// structs are laid out for reading, and none is allocated in bulk.
func vetPasses() []*analysis.Analyzer {
	return []*analysis.Analyzer{
		asmdecl.Analyzer,
		assign.Analyzer,
		atomic.Analyzer,
		bools.Analyzer,
		buildtag.Analyzer,
		cgocall.Analyzer,
		composite.Analyzer,
		copylock.Analyzer,
		defers.Analyzer,
		directive.Analyzer,
		errorsas.Analyzer,
		framepointer.Analyzer,
		httpresponse.Analyzer,
		ifaceassert.Analyzer,
		loopclosure.Analyzer,
		lostcancel.Analyzer,
		nilfunc.Analyzer,
		printf.Analyzer,
		reflectvaluecompare.Analyzer,
		shadow.Analyzer,
		shift.Analyzer,
		sigchanyzer.Analyzer,
		slog.Analyzer,
		sortslice.Analyzer,
		stdmethods.Analyzer,
		stringintconv.Analyzer,
		structtag.Analyzer,
		testinggoroutine.Analyzer,
		tests.Analyzer,
		timeformat.Analyzer,
		unmarshal.Analyzer,
		unreachable.Analyzer,
		unsafeptr.Analyzer,
		unusedresult.Analyzer,
		unusedwrite.Analyzer,
	}
}

// staticcheckSuite returns the SA, S, ST and U classes minus skipped checks.
func staticcheckSuite() []*analysis.Analyzer {
	var out []*analysis.Analyzer
	add := func(a *analysis.Analyzer) {
		if !skipCheck(a.Name) {
			out = append(out, a)
		}
	}
	for _, v := range staticcheck.Analyzers {
		add(v.Analyzer)
	}
	for _, v := range simple.Analyzers {
		add(v.Analyzer)
	}
	for _, v := range stylecheck.Analyzers {
		add(v.Analyzer)
	}
	add(unused.Analyzer.Analyzer)
	return out
}

// skipCheck drops ST1000, as small internal packages go without a package
// comment, and ST1003, which rejects the underscored helper names easyjson
// generates.
func skipCheck(name string) bool {
	return name == "ST1000" || name == "ST1003"
}
