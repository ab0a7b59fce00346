package javasrc

import (
	"github.com/mvp-joe/fragment-lint/internal/source"
)

// unit converts one indexed file into the source model. Only named types
// become classes; local and anonymous classes are part of the code that
// declares them.
func (ix *index) unit(fs *fileScope) *source.Unit {
	u := &source.Unit{
		Path:    fs.file.Path,
		Source:  fs.file.Source,
		Analyze: fs.analyze,
	}
	for _, d := range fs.decls {
		u.Classes = append(u.Classes, d.class())
	}
	return u
}

func (d *typeDecl) class() *source.Class {
	c := &source.Class{
		Name:          d.name,
		QualifiedName: d.qname,
		Type:          d.typ,
		Span:          d.node.span,
	}
	for _, f := range d.fields {
		c.Fields = append(c.Fields, &source.Field{
			Name:        f.name,
			Type:        f.ref,
			Nullability: f.null,
			Initializer: asNode(f.init),
			Static:      f.static,
			Span:        f.node.span,
		})
	}
	for _, m := range d.methods {
		sm := &source.Method{
			Name:        m.name,
			Returns:     m.returns,
			Nullability: m.null,
			Body:        asNode(m.body),
			Constructor: m.ctor,
			Class:       c,
			Span:        m.node.span,
		}
		for _, p := range m.params {
			sm.Params = append(sm.Params, source.Param{Name: p.name, Type: p.ref, Nullability: p.null})
		}
		c.Methods = append(c.Methods, sm)
	}
	for _, init := range d.inits {
		c.Initializers = append(c.Initializers, init)
	}
	return c
}
