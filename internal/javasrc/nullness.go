package javasrc

import (
	"strings"

	"github.com/mvp-joe/fragment-lint/internal/source"
)

// nullness classifies annotations by simple name.
type nullness struct {
	nullable map[string]bool
	nonNull  map[string]bool
}

func newNullness(nullable, nonNull []string) nullness {
	nl := nullness{nullable: make(map[string]bool), nonNull: make(map[string]bool)}
	for _, a := range nullable {
		nl.nullable[simpleName(a)] = true
	}
	for _, a := range nonNull {
		nl.nonNull[simpleName(a)] = true
	}
	return nl
}

// of reads the annotations directly under holder, a modifiers or
// annotated_type node. Nullable wins over non-null.
func (nl nullness) of(holder *Node) source.Nullability {
	if holder == nil {
		return source.NullUnknown
	}
	res := source.NullUnknown
	for _, c := range holder.children {
		if c.typ != "marker_annotation" && c.typ != "annotation" {
			continue
		}
		name := c.Field("name")
		if name == nil {
			continue
		}
		switch simple := simpleName(name.Text()); {
		case nl.nullable[simple]:
			return source.Nullable
		case nl.nonNull[simple]:
			res = source.NonNull
		}
	}
	return res
}

// decl combines declaration annotations with type-use annotations on the
// declared type.
func (nl nullness) decl(modifiers, typ *Node) source.Nullability {
	if n := nl.of(modifiers); n != source.NullUnknown {
		return n
	}
	if typ != nil && typ.typ == "annotated_type" {
		return nl.of(typ)
	}
	return source.NullUnknown
}

func simpleName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}
