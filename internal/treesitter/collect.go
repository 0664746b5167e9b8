package treesitter

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ideclang/ideclang/internal/clang"
)

// Decl is one declaration visible from the cursor.
type Decl struct {
	Name       string
	Kind       clang.CursorKind
	ResultType string
	Params     []string
	Line       int
	Local      bool
	Member     bool
}

type collector struct {
	src    []byte
	cursor uint32
	decls  []Decl
	seen   map[string]bool
}

// collectDecls walks the tree and returns every declaration in file scope,
// plus the parameters and locals of the function enclosing cursor.
func collectDecls(root *sitter.Node, src []byte, cursor uint32) []Decl {
	c := &collector{src: src, cursor: cursor, seen: make(map[string]bool)}
	c.walk(root, "")
	return c.decls
}

func (c *collector) add(d Decl) {
	if d.Name == "" {
		return
	}
	key := d.Kind.String() + "\x00" + d.Name
	if c.seen[key] {
		return
	}
	c.seen[key] = true
	c.decls = append(c.decls, d)
}

func (c *collector) contains(node *sitter.Node) bool {
	return node != nil && node.StartByte() <= c.cursor && c.cursor <= node.EndByte()
}

func line(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1
}

func (c *collector) walk(node *sitter.Node, class string) {
	if node == nil {
		return
	}
	switch node.Type() {
	case "function_definition":
		c.function(node, class, false)
		return
	case "declaration", "field_declaration":
		c.declaration(node, class)
		return
	case "type_definition":
		c.walk(node.ChildByFieldName("type"), class)
		for _, d := range declarators(node) {
			info := readDeclarator(d, c.src)
			c.add(Decl{Name: info.name, Kind: clang.CursorTypedefDecl, Line: line(node)})
		}
		return
	case "struct_specifier", "union_specifier", "class_specifier":
		c.record(node, clang.CursorStructDecl)
		return
	case "enum_specifier":
		c.enum(node)
		return
	case "preproc_def", "preproc_function_def":
		c.macro(node)
		return
	case "template_declaration":
		c.template(node, class)
		return
	case "namespace_definition":
		if name := node.ChildByFieldName("name"); name != nil {
			c.add(Decl{Name: name.Content(c.src), Kind: clang.CursorNamespace, Line: line(node)})
		}
		c.walk(node.ChildByFieldName("body"), class)
		return
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		c.walk(node.NamedChild(i), class)
	}
}

func (c *collector) function(node *sitter.Node, class string, template bool) {
	info := readDeclarator(node.ChildByFieldName("declarator"), c.src)
	kind := clang.CursorFunctionDecl
	switch {
	case template:
		kind = clang.CursorFunctionTemplate
	case strings.HasPrefix(info.name, "~"):
		kind = clang.CursorDestructor
	case class != "" && info.name == class:
		kind = clang.CursorConstructor
	case class != "" || info.qualified:
		kind = clang.CursorCXXMethod
	case strings.HasPrefix(info.name, "operator "):
		kind = clang.CursorConversionFunction
	}

	d := Decl{
		Name:       info.name,
		Kind:       kind,
		ResultType: resultType(node, info, c.src),
		Params:     parameterTexts(info.params, c.src),
		Line:       line(node),
		Member:     class != "" || info.qualified,
	}
	c.add(d)

	body := node.ChildByFieldName("body")
	if !c.contains(body) {
		return
	}
	for _, p := range parameterNodes(info.params) {
		pinfo := readDeclarator(p.ChildByFieldName("declarator"), c.src)
		c.add(Decl{
			Name:       pinfo.name,
			Kind:       clang.CursorParmDecl,
			ResultType: resultType(p, pinfo, c.src),
			Line:       line(p),
			Local:      true,
		})
	}
	c.locals(body)
}

func (c *collector) locals(node *sitter.Node) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.StartByte() > c.cursor {
			return
		}
		switch child.Type() {
		case "declaration":
			for _, d := range declarators(child) {
				info := readDeclarator(d, c.src)
				c.add(Decl{
					Name:       info.name,
					Kind:       clang.CursorVarDecl,
					ResultType: resultType(child, info, c.src),
					Line:       line(child),
					Local:      true,
				})
			}
		case "compound_statement", "for_statement", "if_statement", "while_statement",
			"do_statement", "switch_statement", "case_statement", "else_clause", "for_range_loop":
			if c.contains(child) {
				c.locals(child)
			}
		}
	}
}

func (c *collector) declaration(node *sitter.Node, class string) {
	c.walk(node.ChildByFieldName("type"), class)
	for _, d := range declarators(node) {
		info := readDeclarator(d, c.src)
		kind := clang.CursorVarDecl
		switch {
		case class != "" && info.params != nil && info.name == class:
			kind = clang.CursorConstructor
		case class != "" && strings.HasPrefix(info.name, "~"):
			kind = clang.CursorDestructor
		case class != "" && info.params != nil:
			kind = clang.CursorCXXMethod
		case class != "" || node.Type() == "field_declaration":
			kind = clang.CursorFieldDecl
		case info.params != nil:
			kind = clang.CursorFunctionDecl
		}
		c.add(Decl{
			Name:       info.name,
			Kind:       kind,
			ResultType: resultType(node, info, c.src),
			Params:     parameterTexts(info.params, c.src),
			Line:       line(node),
			Member:     kind == clang.CursorFieldDecl || kind == clang.CursorCXXMethod,
		})
	}
}

func (c *collector) record(node *sitter.Node, fallback clang.CursorKind) {
	name := node.ChildByFieldName("name")
	body := node.ChildByFieldName("body")
	if body == nil {
		return
	}
	kind := fallback
	switch node.Type() {
	case "union_specifier":
		kind = clang.CursorUnionDecl
	case "class_specifier":
		if fallback == clang.CursorStructDecl {
			kind = clang.CursorClassDecl
		}
	}
	class := ""
	if name != nil {
		class = name.Content(c.src)
		c.add(Decl{Name: class, Kind: kind, Line: line(node)})
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		switch member.Type() {
		case "field_declaration", "declaration":
			c.declaration(member, class)
		case "function_definition":
			c.function(member, class, false)
		case "template_declaration":
			c.template(member, class)
		default:
			c.walk(member, class)
		}
	}
}

func (c *collector) enum(node *sitter.Node) {
	body := node.ChildByFieldName("body")
	if body == nil {
		return
	}
	if name := node.ChildByFieldName("name"); name != nil {
		c.add(Decl{Name: name.Content(c.src), Kind: clang.CursorEnumDecl, Line: line(node)})
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		e := body.NamedChild(i)
		if e.Type() != "enumerator" {
			continue
		}
		if name := e.ChildByFieldName("name"); name != nil {
			c.add(Decl{Name: name.Content(c.src), Kind: clang.CursorEnumConstantDecl, Line: line(e)})
		}
	}
}

func (c *collector) macro(node *sitter.Node) {
	name := node.ChildByFieldName("name")
	if name == nil {
		return
	}
	d := Decl{Name: name.Content(c.src), Kind: clang.CursorMacroDefinition, Line: line(node)}
	if params := node.ChildByFieldName("parameters"); params != nil {
		d.Params = []string{}
		for i := 0; i < int(params.NamedChildCount()); i++ {
			d.Params = append(d.Params, params.NamedChild(i).Content(c.src))
		}
	}
	c.add(d)
}

func (c *collector) template(node *sitter.Node, class string) {
	if c.contains(node) {
		if params := node.ChildByFieldName("parameters"); params != nil {
			for i := 0; i < int(params.NamedChildCount()); i++ {
				p := params.NamedChild(i)
				if p.Type() != "type_parameter_declaration" {
					continue
				}
				for j := 0; j < int(p.NamedChildCount()); j++ {
					if id := p.NamedChild(j); id.Type() == "type_identifier" {
						c.add(Decl{Name: id.Content(c.src), Kind: clang.CursorTemplateTypeParameter, Line: line(p), Local: true})
					}
				}
			}
		}
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "function_definition":
			c.function(child, class, class == "")
		case "class_specifier", "struct_specifier":
			c.record(child, clang.CursorClassTemplate)
		case "template_parameter_list":
		default:
			c.walk(child, class)
		}
	}
}

type declaratorInfo struct {
	name      string
	pointer   string
	params    *sitter.Node
	qualified bool
}

var declaratorTypes = map[string]bool{
	"identifier":           true,
	"field_identifier":     true,
	"type_identifier":      true,
	"init_declarator":      true,
	"pointer_declarator":   true,
	"reference_declarator": true,
	"array_declarator":     true,
	"function_declarator":  true,
	"qualified_identifier": true,
	"destructor_name":      true,
	"operator_name":        true,
}

// declarators returns the declarator children of a declaration, skipping
// its type and specifiers.
func declarators(node *sitter.Node) []*sitter.Node {
	typ := node.ChildByFieldName("type")
	var out []*sitter.Node
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if typ != nil && child.StartByte() == typ.StartByte() && child.Type() == typ.Type() {
			continue
		}
		if declaratorTypes[child.Type()] {
			out = append(out, child)
		}
	}
	return out
}

func readDeclarator(node *sitter.Node, src []byte) declaratorInfo {
	var info declaratorInfo
	for node != nil {
		switch node.Type() {
		case "identifier", "field_identifier", "type_identifier", "destructor_name", "operator_name":
			info.name = node.Content(src)
			return info
		case "qualified_identifier":
			info.qualified = true
			node = node.ChildByFieldName("name")
			continue
		case "pointer_declarator":
			info.pointer += "*"
		case "reference_declarator":
			info.pointer += "&"
			if node.NamedChildCount() > 0 {
				node = node.NamedChild(0)
				continue
			}
			return info
		case "function_declarator":
			if info.params == nil {
				info.params = node.ChildByFieldName("parameters")
			}
		case "parenthesized_declarator":
			if node.NamedChildCount() > 0 {
				node = node.NamedChild(0)
				continue
			}
			return info
		}
		node = node.ChildByFieldName("declarator")
	}
	return info
}

func resultType(node *sitter.Node, info declaratorInfo, src []byte) string {
	typ := node.ChildByFieldName("type")
	if typ == nil {
		return ""
	}
	text := typ.Content(src)
	if typ.Type() == "struct_specifier" || typ.Type() == "union_specifier" || typ.Type() == "enum_specifier" {
		if name := typ.ChildByFieldName("name"); name != nil {
			text = strings.TrimSuffix(typ.Type(), "_specifier") + " " + name.Content(src)
		}
	}
	if info.pointer != "" {
		text += " " + info.pointer
	}
	return text
}

func parameterNodes(params *sitter.Node) []*sitter.Node {
	if params == nil {
		return nil
	}
	var out []*sitter.Node
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		if p.Type() == "parameter_declaration" || p.Type() == "optional_parameter_declaration" {
			out = append(out, p)
		}
	}
	return out
}

func parameterTexts(params *sitter.Node, src []byte) []string {
	if params == nil {
		return nil
	}
	out := []string{}
	for _, p := range parameterNodes(params) {
		text := strings.Join(strings.Fields(p.Content(src)), " ")
		if text == "void" {
			continue
		}
		out = append(out, text)
	}
	if params.NamedChildCount() > 0 {
		last := params.NamedChild(int(params.NamedChildCount()) - 1)
		if last.Type() == "variadic_parameter" {
			out = append(out, "...")
		}
	}
	return out
}
