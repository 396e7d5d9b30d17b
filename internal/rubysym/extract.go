package rubysym

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/unbound-force/zentest/internal/symtab"
)

const (
	public    = "public"
	private   = "private"
	protected = "protected"
)

// implicitlyPrivate lists instance methods Ruby makes private no
// matter where they are defined.
var implicitlyPrivate = map[string]bool{
	"initialize":          true,
	"initialize_copy":     true,
	"initialize_clone":    true,
	"initialize_dup":      true,
	"respond_to_missing?": true,
}

// builder accumulates one class or module across its reopenings.
type builder struct {
	class symtab.Class

	methods    []string
	visibility map[string]string

	singletons          []string
	singletonVisibility map[string]string
}

func newBuilder(name string, kind symtab.Kind, file string) *builder {
	return &builder{
		class:               symtab.Class{Name: name, Kind: kind, File: file},
		visibility:          make(map[string]string),
		singletonVisibility: make(map[string]string),
	}
}

func (b *builder) define(name, vis string) {
	if _, ok := b.visibility[name]; !ok {
		b.methods = append(b.methods, name)
	}
	b.visibility[name] = vis
}

func (b *builder) defineSingleton(name, vis string) {
	if _, ok := b.singletonVisibility[name]; !ok {
		b.singletons = append(b.singletons, name)
	}
	b.singletonVisibility[name] = vis
}

// setVisibility changes the visibility of an already defined method.
// Unknown names are ignored, as Ruby would raise for them.
func (b *builder) setVisibility(name, vis string) {
	if _, ok := b.visibility[name]; ok {
		b.visibility[name] = vis
	}
}

func (b *builder) setSingletonVisibility(name, vis string) {
	if _, ok := b.singletonVisibility[name]; ok {
		b.singletonVisibility[name] = vis
	}
}

func (b *builder) build() symtab.Class {
	c := b.class
	c.Methods = nil
	c.SingletonMethods = nil
	for _, m := range b.methods {
		if b.visibility[m] == public && !implicitlyPrivate[m] {
			c.Methods = append(c.Methods, m)
		}
	}
	for _, m := range b.singletons {
		if b.singletonVisibility[m] == public {
			c.SingletonMethods = append(c.SingletonMethods, m)
		}
	}
	return c
}

// frame is the lexical scope a statement is evaluated in.
type frame struct {
	// b is the enclosing class or module; nil at the top level.
	b *builder

	// namespace is the qualified name of the enclosing class or module.
	namespace string

	// singleton is set inside "class << self".
	singleton bool

	// visibility applies to methods defined from here on.
	visibility string

	// moduleFunction is set after a bare module_function.
	moduleFunction bool
}

type extractor struct {
	content  []byte
	file     string
	order    []string
	builders map[string]*builder
}

func (e *extractor) classes() []symtab.Class {
	out := make([]symtab.Class, 0, len(e.order))
	for _, name := range e.order {
		out = append(out, e.builders[name].build())
	}
	return out
}

func (e *extractor) builder(name string, kind symtab.Kind) *builder {
	if b, ok := e.builders[name]; ok {
		return b
	}
	b := newBuilder(name, kind, e.file)
	e.builders[name] = b
	e.order = append(e.order, name)
	return b
}

func (e *extractor) text(n *sitter.Node) string {
	return n.Content(e.content)
}

func (e *extractor) walkBody(n *sitter.Node, f *frame) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		e.walkStatement(n.NamedChild(i), f)
	}
}

func (e *extractor) walkStatement(n *sitter.Node, f *frame) {
	switch n.Type() {
	case "class":
		e.extractScope(n, f, symtab.KindClass)
	case "module":
		e.extractScope(n, f, symtab.KindModule)
	case "singleton_class":
		e.extractSingletonClass(n, f)
	case "method":
		e.extractMethod(n, f, "")
	case "singleton_method":
		e.extractSingletonMethod(n, f)
	case "identifier":
		e.bareKeyword(e.text(n), f)
	case "call", "method_call":
		e.extractCall(n, f)
	case "alias":
		e.extractAlias(n, f)
	case "body_statement", "begin", "parenthesized_statements", "ERROR":
		e.walkBody(n, f)
	}
}

// qualify returns the full name of a class or module declared as
// written inside f. A leading "::" makes the name absolute.
func qualify(f *frame, written string) string {
	if abs, ok := strings.CutPrefix(written, "::"); ok {
		return abs
	}
	if f.namespace == "" {
		return written
	}
	return f.namespace + "::" + written
}

func (e *extractor) extractScope(n *sitter.Node, f *frame, kind symtab.Kind) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	qname := qualify(f, e.text(nameNode))
	b := e.builder(qname, kind)

	if kind == symtab.KindClass && b.class.Superclass == "" {
		if sup := n.ChildByFieldName("superclass"); sup != nil {
			b.class.Superclass = e.superclassName(sup)
		}
	}

	inner := &frame{b: b, namespace: qname, visibility: public}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if sameNode(child, nameNode) || child.Type() == "superclass" {
			continue
		}
		if child.Type() == "body_statement" {
			e.walkBody(child, inner)
			continue
		}
		e.walkStatement(child, inner)
	}
}

// superclassName returns the constant a superclass clause names, or
// "" for expressions such as Struct.new(...).
func (e *extractor) superclassName(sup *sitter.Node) string {
	for i := 0; i < int(sup.NamedChildCount()); i++ {
		child := sup.NamedChild(i)
		switch child.Type() {
		case "constant", "scope_resolution":
			return e.text(child)
		}
	}
	return ""
}

func (e *extractor) extractSingletonClass(n *sitter.Node, f *frame) {
	if f.b == nil {
		return
	}
	value := n.ChildByFieldName("value")
	if value == nil || value.Type() != "self" {
		return
	}

	inner := &frame{b: f.b, namespace: f.namespace, singleton: true, visibility: public}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if sameNode(child, value) {
			continue
		}
		if child.Type() == "body_statement" {
			e.walkBody(child, inner)
			continue
		}
		e.walkStatement(child, inner)
	}
}

// methodName returns the name of a def, which may be an identifier,
// a setter (foo=), an operator, or a constant.
func (e *extractor) methodName(n *sitter.Node) string {
	if name := n.ChildByFieldName("name"); name != nil {
		return e.text(name)
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "identifier", "setter", "operator", "constant":
			return e.text(child)
		}
	}
	return ""
}

// extractMethod records a def. A non-empty vis overrides the frame's
// current visibility, as in "private def foo".
func (e *extractor) extractMethod(n *sitter.Node, f *frame, vis string) string {
	name := e.methodName(n)
	if name == "" || f.b == nil {
		return name
	}
	if vis == "" {
		vis = f.visibility
	}

	switch {
	case f.singleton:
		f.b.defineSingleton(name, vis)
	case f.moduleFunction:
		f.b.defineSingleton(name, public)
		f.b.define(name, private)
	default:
		f.b.define(name, vis)
	}
	return name
}

func (e *extractor) extractSingletonMethod(n *sitter.Node, f *frame) {
	if f.b == nil {
		return
	}
	obj := n.ChildByFieldName("object")
	if obj != nil && obj.Type() != "self" {
		// def Other.foo defines a method on some other object.
		if e.text(obj) != lastSegment(f.namespace) {
			return
		}
	}
	if name := e.methodName(n); name != "" {
		f.b.defineSingleton(name, public)
	}
}

func lastSegment(name string) string {
	if i := strings.LastIndex(name, "::"); i >= 0 {
		return name[i+2:]
	}
	return name
}

// bareKeyword handles argument-less visibility calls, which
// tree-sitter parses as plain identifiers.
func (e *extractor) bareKeyword(word string, f *frame) {
	if f.b == nil {
		return
	}
	switch word {
	case public, private, protected:
		f.visibility = word
		f.moduleFunction = false
	case "module_function":
		if f.b.class.Kind == symtab.KindModule {
			f.moduleFunction = true
		}
	}
}

func (e *extractor) extractCall(n *sitter.Node, f *frame) {
	if f.b == nil {
		return
	}
	if recv := n.ChildByFieldName("receiver"); recv != nil {
		return
	}
	method := n.ChildByFieldName("method")
	if method == nil {
		return
	}
	word := e.text(method)
	args := n.ChildByFieldName("arguments")
	if args == nil {
		e.bareKeyword(word, f)
		return
	}

	switch word {
	case public, private, protected:
		e.applyVisibility(args, f, word)
	case "private_class_method", "public_class_method":
		vis := strings.TrimSuffix(word, "_class_method")
		for _, name := range e.symbolArgs(args) {
			f.b.setSingletonVisibility(name, vis)
		}
	case "module_function":
		for _, name := range e.symbolArgs(args) {
			f.b.defineSingleton(name, public)
			f.b.setVisibility(name, private)
		}
	case "attr_reader", "attr":
		e.defineAttrs(args, f, true, false)
	case "attr_writer":
		e.defineAttrs(args, f, false, true)
	case "attr_accessor":
		e.defineAttrs(args, f, true, true)
	case "alias_method", "define_method":
		if names := e.symbolArgs(args); len(names) > 0 {
			e.defineNamed(f, names[0])
		}
	case "include":
		if f.singleton {
			return
		}
		for i := 0; i < int(args.NamedChildCount()); i++ {
			child := args.NamedChild(i)
			switch child.Type() {
			case "constant", "scope_resolution":
				f.b.class.Includes = append(f.b.class.Includes, e.text(child))
			}
		}
	}
}

// applyVisibility handles "private :a, :b" and "private def a".
func (e *extractor) applyVisibility(args *sitter.Node, f *frame, vis string) {
	for i := 0; i < int(args.NamedChildCount()); i++ {
		child := args.NamedChild(i)
		switch child.Type() {
		case "method":
			e.extractMethod(child, f, vis)
		case "singleton_method":
			e.extractSingletonMethod(child, f)
		default:
			name, ok := e.symbol(child)
			if !ok {
				continue
			}
			if f.singleton {
				f.b.setSingletonVisibility(name, vis)
			} else {
				f.b.setVisibility(name, vis)
			}
		}
	}
}

func (e *extractor) defineAttrs(args *sitter.Node, f *frame, reader, writer bool) {
	for _, name := range e.symbolArgs(args) {
		if reader {
			e.defineNamed(f, name)
		}
		if writer {
			e.defineNamed(f, name+"=")
		}
	}
}

// defineNamed records a method created by a macro rather than a def.
func (e *extractor) defineNamed(f *frame, name string) {
	if f.singleton {
		f.b.defineSingleton(name, f.visibility)
		return
	}
	f.b.define(name, f.visibility)
}

func (e *extractor) extractAlias(n *sitter.Node, f *frame) {
	if f.b == nil {
		return
	}
	// alias NEW OLD: the grammar labels NEW "name" and OLD "alias".
	newName := n.ChildByFieldName("name")
	if newName == nil && n.NamedChildCount() > 0 {
		newName = n.NamedChild(0)
	}
	if newName == nil {
		return
	}
	name, ok := e.symbol(newName)
	if !ok {
		name = e.text(newName)
	}
	e.defineNamed(f, name)
}

func (e *extractor) symbolArgs(args *sitter.Node) []string {
	var out []string
	for i := 0; i < int(args.NamedChildCount()); i++ {
		if name, ok := e.symbol(args.NamedChild(i)); ok {
			out = append(out, name)
		}
	}
	return out
}

// symbol returns the name a symbol or string literal spells.
func (e *extractor) symbol(n *sitter.Node) (string, bool) {
	text := e.text(n)
	switch n.Type() {
	case "simple_symbol", "hash_key_symbol":
		return strings.TrimPrefix(text, ":"), true
	case "delimited_symbol":
		return strings.Trim(strings.TrimPrefix(text, ":"), `"'`), true
	case "string":
		return strings.Trim(text, `"'`), true
	case "identifier", "operator", "setter", "constant":
		return text, true
	}
	return "", false
}

func sameNode(a, b *sitter.Node) bool {
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}
