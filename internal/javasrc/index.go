package javasrc

import (
	"strings"

	"github.com/mvp-joe/fragment-lint/internal/source"
)

// typeDecl is a class, interface, enum, record or annotation declaration,
// including local and anonymous classes.
type typeDecl struct {
	name  string
	qname string
	// kind is the declaration node type, "anonymous" for class bodies of
	// instance creations.
	kind  string
	node  *Node
	body  *Node
	file  *fileScope
	outer *typeDecl
	typ   *javaType
	// named declarations are addressable by qualified name and become
	// source classes; local and anonymous ones are not.
	named bool

	supers       []source.Type
	fields       []*fieldDecl
	fieldsByName map[string]*fieldDecl
	methods      []*methodDecl
	inits        []*Node
	nested       map[string]*typeDecl
}

type fieldDecl struct {
	name   string
	ref    source.TypeRef
	null   source.Nullability
	init   *Node
	static bool
	node   *Node
	owner  *typeDecl
}

type methodDecl struct {
	name    string
	params  []paramDecl
	returns source.TypeRef
	null    source.Nullability
	body    *Node
	ctor    bool
	varargs bool
	node    *Node
	owner   *typeDecl
}

type paramDecl struct {
	name string
	ref  source.TypeRef
	null source.Nullability
	node *Node
}

// fileScope is the name environment of one compilation unit.
type fileScope struct {
	file      *File
	pkg       string
	imports   map[string]string
	wildcards []string
	decls     []*typeDecl
	analyze   bool
}

// index holds every declaration of a load. It is read-only once built.
type index struct {
	decls    []*typeDecl
	types    map[string]*typeDecl
	byBody   map[*Node]*typeDecl
	byFile   map[*File]*fileScope
	files    []*fileScope
	nullness nullness
}

func newIndex(nl nullness) *index {
	return &index{
		types:    make(map[string]*typeDecl),
		byBody:   make(map[*Node]*typeDecl),
		byFile:   make(map[*File]*fileScope),
		nullness: nl,
	}
}

var declTypes = map[string]bool{
	"class_declaration":           true,
	"interface_declaration":       true,
	"enum_declaration":            true,
	"record_declaration":          true,
	"annotation_type_declaration": true,
}

// declare registers the file's package, imports and type declarations.
// Types are not linked until link runs over every file.
func (ix *index) declare(f *File, analyze bool) {
	fs := &fileScope{file: f, imports: make(map[string]string), analyze: analyze}
	ix.files = append(ix.files, fs)
	ix.byFile[f] = fs

	for _, c := range f.Root.children {
		switch c.typ {
		case "package_declaration":
			fs.pkg = dottedName(firstName(c))
		case "import_declaration":
			fs.addImport(c)
		}
	}

	for _, c := range f.Root.children {
		if declTypes[c.typ] {
			ix.declareType(fs, c, nil)
		}
	}

	// Local and anonymous classes live inside code bodies.
	f.Root.walk(func(n *Node) bool {
		switch {
		case declTypes[n.typ]:
			if body := n.Field("body"); body != nil && ix.byBody[body] == nil {
				ix.declareLocal(fs, n, body)
			}
		case n.typ == "object_creation_expression":
			if body := n.ChildOfType("class_body"); body != nil && ix.byBody[body] == nil {
				ix.declareLocal(fs, n, body)
			}
		}
		return true
	})
}

func firstName(n *Node) *Node {
	for _, c := range n.children {
		if c.typ == "scoped_identifier" || c.typ == "identifier" {
			return c
		}
	}
	return nil
}

func (fs *fileScope) addImport(n *Node) {
	name := firstName(n)
	if name == nil {
		return
	}
	if strings.HasPrefix(strings.TrimSpace(strings.TrimPrefix(n.Text(), "import")), "static") {
		return
	}
	full := dottedName(name)
	if n.ChildOfType("asterisk") != nil {
		fs.wildcards = append(fs.wildcards, full)
		return
	}
	fs.imports[simpleName(full)] = full
}

func (ix *index) declareType(fs *fileScope, n *Node, outer *typeDecl) {
	name := n.Field("name")
	body := n.Field("body")
	if name == nil || body == nil {
		return
	}
	d := &typeDecl{
		name:   name.Text(),
		kind:   n.typ,
		node:   n,
		body:   body,
		file:   fs,
		outer:  outer,
		named:  true,
		nested: make(map[string]*typeDecl),
	}
	switch {
	case outer != nil:
		d.qname = outer.qname + "." + d.name
		outer.nested[d.name] = d
	case fs.pkg != "":
		d.qname = fs.pkg + "." + d.name
	default:
		d.qname = d.name
	}
	d.typ = &javaType{name: d.qname, decl: d}
	ix.types[d.qname] = d
	ix.byBody[body] = d
	ix.decls = append(ix.decls, d)
	fs.decls = append(fs.decls, d)

	for _, m := range members(body) {
		if declTypes[m.typ] {
			ix.declareType(fs, m, d)
		}
	}
}

func (ix *index) declareLocal(fs *fileScope, n, body *Node) {
	outer := ix.enclosingDecl(n)
	d := &typeDecl{
		kind:   "anonymous",
		node:   n,
		body:   body,
		file:   fs,
		outer:  outer,
		nested: make(map[string]*typeDecl),
	}
	if name := n.Field("name"); name != nil {
		d.kind = n.typ
		d.name = name.Text()
	}
	name := d.name
	if name == "" {
		name = "<anonymous>"
	}
	d.qname = name
	if outer != nil {
		d.qname = outer.qname + "." + name
	}
	d.typ = &javaType{name: d.qname, decl: d}
	ix.byBody[body] = d
	ix.decls = append(ix.decls, d)
	if outer != nil && d.name != "" {
		outer.nested[d.name] = d
	}
}

// members returns the member declarations of a class-like body.
func members(body *Node) []*Node {
	if body.typ != "enum_body" {
		return body.children
	}
	var out []*Node
	for _, c := range body.children {
		if c.typ == "enum_body_declarations" {
			out = append(out, c.children...)
		}
	}
	return out
}

// link resolves supertypes, then members, of every declaration in
// declaration order.
func (ix *index) link() {
	for _, d := range ix.decls {
		ix.linkSupers(d)
	}
	for _, d := range ix.decls {
		ix.linkMembers(d)
	}
}

func (ix *index) linkSupers(d *typeDecl) {
	n := d.node
	resolve := ix.resolverAt(n)
	add := func(t *Node) {
		if t == nil {
			return
		}
		if ref := buildRef(t, ix.nullness, resolve); ref.Type != nil {
			d.supers = append(d.supers, ref.Type)
		}
	}
	addList := func(holder *Node) {
		if holder == nil {
			return
		}
		if list := holder.ChildOfType("type_list"); list != nil {
			for _, t := range list.children {
				add(t)
			}
		}
	}

	switch d.kind {
	case "anonymous":
		add(n.Field("type"))
	case "class_declaration":
		if sc := n.Field("superclass"); sc != nil && len(sc.children) > 0 {
			add(sc.children[len(sc.children)-1])
		} else if d.qname != objectName {
			d.supers = append(d.supers, ix.named(objectName))
		}
		addList(n.Field("interfaces"))
	case "interface_declaration":
		addList(n.ChildOfType("extends_interfaces"))
	case "enum_declaration":
		d.supers = append(d.supers, ix.named("java.lang.Enum"))
		addList(n.Field("interfaces"))
	case "record_declaration":
		d.supers = append(d.supers, ix.named("java.lang.Record"))
		addList(n.Field("interfaces"))
	case "annotation_type_declaration":
		d.supers = append(d.supers, ix.named("java.lang.annotation.Annotation"))
	}
}

func (ix *index) named(qname string) source.Type {
	if d := ix.types[qname]; d != nil {
		return d.typ
	}
	return external(qname)
}

func (ix *index) linkMembers(d *typeDecl) {
	d.fieldsByName = make(map[string]*fieldDecl)
	interfaceLike := d.kind == "interface_declaration" || d.kind == "annotation_type_declaration"

	if d.kind == "record_declaration" {
		if params := d.node.Field("parameters"); params != nil {
			for _, p := range ix.params(params) {
				d.addField(&fieldDecl{name: p.name, ref: p.ref, null: p.null, node: p.node, owner: d})
			}
		}
	}
	if d.body.typ == "enum_body" {
		for _, c := range d.body.ChildrenOfType("enum_constant") {
			if name := c.Field("name"); name != nil {
				d.addField(&fieldDecl{
					name:   name.Text(),
					ref:    source.TypeRef{Text: d.name, Type: d.typ},
					null:   source.NonNull,
					static: true,
					node:   name,
					owner:  d,
				})
			}
		}
	}

	for _, m := range members(d.body) {
		switch m.typ {
		case "field_declaration", "constant_declaration":
			ix.linkField(d, m, interfaceLike)
		case "method_declaration", "annotation_type_element_declaration":
			ix.linkMethod(d, m, false)
		case "constructor_declaration", "compact_constructor_declaration":
			ix.linkMethod(d, m, true)
		case "block":
			d.inits = append(d.inits, m)
		case "static_initializer":
			if b := m.ChildOfType("block"); b != nil {
				d.inits = append(d.inits, b)
			}
		}
	}
}

func (d *typeDecl) addField(f *fieldDecl) {
	d.fields = append(d.fields, f)
	if _, dup := d.fieldsByName[f.name]; !dup {
		d.fieldsByName[f.name] = f
	}
}

func (ix *index) linkField(d *typeDecl, n *Node, static bool) {
	mods := n.ChildOfType("modifiers")
	typ := n.Field("type")
	ref := buildRef(typ, ix.nullness, ix.resolverAt(n))
	null := ix.nullness.decl(mods, typ)
	static = static || mods.HasKeyword("static")

	for _, decl := range n.ChildrenOfType("variable_declarator") {
		name := decl.Field("name")
		if name == nil {
			continue
		}
		d.addField(&fieldDecl{
			name:   name.Text(),
			ref:    ref,
			null:   null,
			init:   decl.Field("value"),
			static: static,
			node:   name,
			owner:  d,
		})
	}
}

func (ix *index) linkMethod(d *typeDecl, n *Node, ctor bool) {
	name := n.Field("name")
	if name == nil {
		return
	}
	m := &methodDecl{
		name:  name.Text(),
		body:  n.Field("body"),
		ctor:  ctor,
		node:  name,
		owner: d,
		null:  ix.nullness.decl(n.ChildOfType("modifiers"), n.Field("type")),
	}
	if ctor {
		m.returns = source.TypeRef{Text: d.name, Type: d.typ}
	} else {
		m.returns = buildRef(n.Field("type"), ix.nullness, ix.resolverAt(n))
	}
	if params := n.Field("parameters"); params != nil {
		m.params = ix.params(params)
		m.varargs = params.ChildOfType("spread_parameter") != nil
	}
	d.methods = append(d.methods, m)
}

// params reads formal_parameters. Receiver parameters are skipped.
func (ix *index) params(list *Node) []paramDecl {
	resolve := ix.resolverAt(list)
	var out []paramDecl
	for _, p := range list.children {
		mods := p.ChildOfType("modifiers")
		switch p.typ {
		case "formal_parameter":
			name, typ := p.Field("name"), p.Field("type")
			if name == nil {
				continue
			}
			out = append(out, paramDecl{
				name: name.Text(),
				ref:  buildRef(typ, ix.nullness, resolve),
				null: ix.nullness.decl(mods, typ),
				node: name,
			})
		case "spread_parameter":
			decl := p.ChildOfType("variable_declarator")
			typ := firstType(p)
			if decl == nil || decl.Field("name") == nil {
				continue
			}
			ref := buildRef(typ, ix.nullness, resolve)
			ref.Text += "..."
			if ref.Type != nil {
				ref.Type = external(arrayName(ref.Type.Name(), nil))
			}
			out = append(out, paramDecl{
				name: decl.Field("name").Text(),
				ref:  ref,
				null: ix.nullness.decl(mods, typ),
				node: decl.Field("name"),
			})
		}
	}
	return out
}

// firstType returns the first child that is a type node.
func firstType(n *Node) *Node {
	for _, c := range n.children {
		switch c.typ {
		case "type_identifier", "scoped_type_identifier", "generic_type", "array_type",
			"annotated_type", "integral_type", "floating_point_type", "boolean_type":
			return c
		}
	}
	return nil
}

// enclosingDecl returns the innermost type declaration whose body
// contains n.
func (ix *index) enclosingDecl(n *Node) *typeDecl {
	for cur := n.parent; cur != nil; cur = cur.parent {
		if d := ix.byBody[cur]; d != nil {
			return d
		}
	}
	return nil
}

// resolverAt resolves type names as seen from node at.
func (ix *index) resolverAt(at *Node) typeResolver {
	return func(n *Node, args []source.TypeRef) source.Type {
		return ix.resolveTypeNode(at, n, args)
	}
}

func (ix *index) resolveTypeNode(at, n *Node, args []source.TypeRef) source.Type {
	switch n.typ {
	case "generic_type":
		var base source.Type
		for _, c := range n.children {
			if c.typ == "type_identifier" || c.typ == "scoped_type_identifier" {
				base = ix.resolveTypeNode(at, c, nil)
				break
			}
		}
		if base == nil {
			return nil
		}
		t := &javaType{name: base.Name(), decl: declOf(base)}
		for _, a := range args {
			if a.Type != nil {
				t.args = append(t.args, a.Type)
			} else {
				t.args = append(t.args, external(a.Text))
			}
		}
		return t
	case "type_identifier":
		if d, qname, ok := ix.lookupType(at, n.Text()); ok {
			if d != nil {
				return d.typ
			}
			return external(qname)
		}
		return external(n.Text())
	case "scoped_type_identifier":
		return ix.lookupQualified(at, dottedName(n))
	case "array_type":
		elem := n.Field("element")
		if elem == nil {
			return nil
		}
		var name string
		if t := ix.resolveTypeNode(at, elem, nil); t != nil {
			name = t.Name()
		} else {
			name = elem.Text()
		}
		return external(arrayName(name, n.Field("dimensions")))
	case "annotated_type":
		if inner := unannotated(n); inner != nil {
			return ix.resolveTypeNode(at, inner, args)
		}
	}
	if primitiveTypes[n.typ] {
		return external(n.Text())
	}
	return nil
}

// lookupType resolves a simple type name as seen from at. It returns the
// declaration when the type is loaded, otherwise the best qualified name;
// ok is false when the name is unknown.
func (ix *index) lookupType(at *Node, name string) (*typeDecl, string, bool) {
	for d := ix.enclosingDecl(at); d != nil; d = d.outer {
		if d.name == name && d.named {
			return d, d.qname, true
		}
		if nd := ix.memberType(d, name); nd != nil {
			return nd, nd.qname, true
		}
	}

	fs := ix.byFile[at.file]
	if fs == nil {
		return nil, "", false
	}
	if q, ok := fs.imports[name]; ok {
		return ix.types[q], q, true
	}
	local := name
	if fs.pkg != "" {
		local = fs.pkg + "." + name
	}
	if d := ix.types[local]; d != nil {
		return d, d.qname, true
	}
	for _, w := range fs.wildcards {
		if d := ix.types[w+"."+name]; d != nil {
			return d, d.qname, true
		}
	}
	if d := ix.types["java.lang."+name]; d != nil {
		return d, d.qname, true
	}
	if javaLang[name] {
		return nil, "java.lang." + name, true
	}
	return nil, "", false
}

// memberType finds a nested type of d or of its supertypes.
func (ix *index) memberType(d *typeDecl, name string) *typeDecl {
	visited := make(map[*typeDecl]bool)
	queue := []*typeDecl{d}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		if nd := cur.nested[name]; nd != nil {
			return nd
		}
		for _, s := range cur.supers {
			if sd := declOf(s); sd != nil {
				queue = append(queue, sd)
			}
		}
	}
	return nil
}

// lookupQualified resolves a dotted type name: fully qualified first, then
// as a simple outer name followed by nested names.
func (ix *index) lookupQualified(at *Node, dotted string) source.Type {
	if d := ix.types[dotted]; d != nil {
		return d.typ
	}
	parts := strings.Split(dotted, ".")
	if d, _, ok := ix.lookupType(at, parts[0]); ok && d != nil {
		cur := d
		for _, p := range parts[1:] {
			if cur = ix.memberType(cur, p); cur == nil {
				return external(dotted)
			}
		}
		return cur.typ
	}
	return external(dotted)
}

// findField searches d and its supertypes breadth-first.
func (ix *index) findField(d *typeDecl, name string) *fieldDecl {
	visited := make(map[*typeDecl]bool)
	queue := []*typeDecl{d}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == nil || visited[cur] {
			continue
		}
		visited[cur] = true
		if f := cur.fieldsByName[name]; f != nil {
			return f
		}
		for _, s := range cur.supers {
			queue = append(queue, declOf(s))
		}
	}
	return nil
}

// findMethod searches d and its supertypes for a method named name that
// accepts argc arguments, falling back to the first method of that name.
func (ix *index) findMethod(d *typeDecl, name string, argc int) *methodDecl {
	var fallback *methodDecl
	visited := make(map[*typeDecl]bool)
	queue := []*typeDecl{d}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == nil || visited[cur] {
			continue
		}
		visited[cur] = true
		for _, m := range cur.methods {
			if m.name != name || m.ctor {
				continue
			}
			if len(m.params) == argc || (m.varargs && argc >= len(m.params)-1) {
				return m
			}
			if fallback == nil {
				fallback = m
			}
		}
		for _, s := range cur.supers {
			queue = append(queue, declOf(s))
		}
	}
	return fallback
}
