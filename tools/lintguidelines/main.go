// Command lintguidelines checks the layering rules of the internal/ tree:
// domain packages stand alone, GET handlers read through projections,
// storage packages do not reach into each other, and exported names are
// spelled out.
package main

import (
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// violation is one broken rule at a source position.
type violation struct {
	Rule    string
	File    string
	Line    int
	Message string
}

func (v violation) String() string {
	return fmt.Sprintf("%s:%d: [%s] %s", v.File, v.Line, v.Rule, v.Message)
}

// abbreviations are camel-case words exported identifiers must spell out.
var abbreviations = map[string]string{
	"Usr":  "User",
	"Crs":  "Course",
	"Fav":  "Favorite",
	"Favs": "Favorites",
	"Qty":  "Quantity",
	"Btn":  "Button",
	"Cnt":  "Count",
	"Desc": "Description",
}

// sharedStorage are storage packages any other storage package may import.
var sharedStorage = map[string]bool{
	"":             true, // internal/adapters/storage itself
	"localstorage": true,
}

func main() {
	root := flag.String("root", ".", "repository root")
	strict := flag.Bool("strict", false, "exit non-zero when violations are found")
	flag.Parse()

	violations, err := lint(*root)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	for _, v := range violations {
		fmt.Println(v)
	}
	if len(violations) > 0 && *strict {
		os.Exit(1)
	}
}

// lint parses every non-test Go file under root/internal.
// POST: violations are sorted by file then line
func lint(root string) ([]violation, error) {
	internal := filepath.Join(root, "internal")
	var violations []violation
	fset := token.NewFileSet()

	err := filepath.WalkDir(internal, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		file, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		violations = append(violations, checkFile(fset, rel, file)...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].File != violations[j].File {
			return violations[i].File < violations[j].File
		}
		return violations[i].Line < violations[j].Line
	})
	return violations, nil
}

func checkFile(fset *token.FileSet, rel string, file *ast.File) []violation {
	var out []violation
	report := func(rule string, pos token.Pos, format string, args ...any) {
		out = append(out, violation{
			Rule:    rule,
			File:    rel,
			Line:    fset.Position(pos).Line,
			Message: fmt.Sprintf(format, args...),
		})
	}

	dir := filepath.ToSlash(filepath.Dir(rel))
	layer, concept := classify(dir)

	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		impLayer, impConcept := classify(internalSuffix(path))

		switch layer {
		case "domain":
			if impLayer != "" && !(impLayer == "domain" && impConcept == concept) {
				report("concept-coupling", imp.Pos(), "domain/%s imports %s", concept, path)
			}
		case "storage":
			if impLayer == "storage" && impConcept != concept && !sharedStorage[impConcept] {
				report("storage-isolation", imp.Pos(), "storage/%s imports storage/%s", concept, impConcept)
			}
			if impLayer == "application" || impLayer == "http" && impConcept == "" {
				report("storage-isolation", imp.Pos(), "storage/%s imports %s", concept, path)
			}
		}
	}

	ast.Inspect(file, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.TypeSpec:
			checkName(n.Name, report)
			if st, ok := n.Type.(*ast.StructType); ok {
				for _, field := range st.Fields.List {
					for _, name := range field.Names {
						checkName(name, report)
					}
				}
			}
		case *ast.FuncDecl:
			checkName(n.Name, report)
			if layer == "http" && isGetHandler(n) {
				if pos, ok := findSelector(n.Body, "orchestrators"); ok {
					report("route-query", pos, "%s is a GET handler but calls orchestrators; read through projections", n.Name.Name)
				}
			}
		}
		return true
	})
	return out
}

// classify maps a slash path below the module root to its layer and concept.
func classify(dir string) (layer, concept string) {
	parts := strings.Split(dir, "/")
	if len(parts) < 2 || parts[0] != "internal" {
		return "", ""
	}
	switch {
	case parts[1] == "domain" && len(parts) > 2:
		return "domain", parts[2]
	case parts[1] == "application":
		if len(parts) > 2 {
			return "application", parts[2]
		}
		return "application", ""
	case len(parts) > 2 && parts[1] == "adapters" && parts[2] == "storage":
		if len(parts) > 3 {
			return "storage", parts[3]
		}
		return "storage", ""
	case len(parts) > 2 && parts[1] == "adapters" && parts[2] == "http":
		return "http", strings.Join(parts[3:], "/")
	case len(parts) > 2 && parts[1] == "adapters":
		return "adapters", parts[2]
	}
	return "", ""
}

// internalSuffix strips the module path from an import, keeping "internal/...".
func internalSuffix(importPath string) string {
	if strings.HasPrefix(importPath, "internal/") {
		return importPath
	}
	if i := strings.Index(importPath, "/internal/"); i >= 0 {
		return importPath[i+1:]
	}
	return ""
}

func checkName(ident *ast.Ident, report func(string, token.Pos, string, ...any)) {
	if ident == nil || !ident.IsExported() {
		return
	}
	for _, word := range camelWords(ident.Name) {
		if full, ok := abbreviations[word]; ok {
			report("naming", ident.Pos(), "%s abbreviates %q; spell out %q", ident.Name, word, full)
			return
		}
	}
}

// camelWords splits "UsrID" into ["Usr", "ID"] and "HTTPServer" into ["HTTP", "Server"].
func camelWords(name string) []string {
	runes := []rune(name)
	var words []string
	start := 0
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		next := rune(0)
		if i+1 < len(runes) {
			next = runes[i+1]
		}
		lowerToUpper := unicode.IsLower(prev) && unicode.IsUpper(cur)
		acronymEnd := unicode.IsUpper(prev) && unicode.IsUpper(cur) && unicode.IsLower(next)
		if lowerToUpper || acronymEnd || unicode.IsDigit(cur) != unicode.IsDigit(prev) {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	return append(words, string(runes[start:]))
}

// isGetHandler matches handleGet* names and bodies that require r.Method == GET.
func isGetHandler(fn *ast.FuncDecl) bool {
	if fn.Body == nil || !strings.HasPrefix(fn.Name.Name, "handle") {
		return false
	}
	if strings.HasPrefix(fn.Name.Name, "handleGet") {
		return true
	}
	found := false
	ast.Inspect(fn.Body, func(n ast.Node) bool {
		be, ok := n.(*ast.BinaryExpr)
		if !ok || (be.Op != token.EQL && be.Op != token.NEQ) {
			return true
		}
		if isMethodExpr(be.X) && isGetLiteral(be.Y) || isMethodExpr(be.Y) && isGetLiteral(be.X) {
			found = true
		}
		return !found
	})
	return found
}

func isMethodExpr(e ast.Expr) bool {
	sel, ok := e.(*ast.SelectorExpr)
	return ok && sel.Sel.Name == "Method"
}

func isGetLiteral(e ast.Expr) bool {
	switch v := e.(type) {
	case *ast.BasicLit:
		return v.Value == `"GET"`
	case *ast.SelectorExpr:
		return v.Sel.Name == "MethodGet"
	}
	return false
}

func findSelector(body *ast.BlockStmt, pkg string) (token.Pos, bool) {
	var pos token.Pos
	ast.Inspect(body, func(n ast.Node) bool {
		if pos.IsValid() {
			return false
		}
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if id, ok := sel.X.(*ast.Ident); ok && id.Name == pkg {
			pos = sel.Pos()
		}
		return true
	})
	return pos, pos.IsValid()
}
