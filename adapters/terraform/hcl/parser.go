// Package hcl provides Terraform HCL parsing.
package hcl

import (
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// BlockTree is the parsed top-level structure of one configuration
// file. Slices preserve declaration order and keep duplicate blocks.
type BlockTree struct {
	Resources   []ResourceBlock
	DataSources []ResourceBlock
	Variables   []NamedBlock
	Outputs     []NamedBlock
	Modules     []NamedBlock
	Providers   []NamedBlock
	Locals      []*Body
	Terraform   []*Body

	// Other keeps blocks of types the analysis does not model
	// (moved, import, check, ...) so the tree still reflects the
	// whole file.
	Other []RawBlock

	attrs *Body
}

// ResourceBlock is a two-label block: resource or data
type ResourceBlock struct {
	Type string
	Name string
	Body *Body
}

// NamedBlock is a single-label block: variable, output, module, provider
type NamedBlock struct {
	Name string
	Body *Body
}

// RawBlock preserves a block of a type the analysis does not model
type RawBlock struct {
	Type   string
	Labels []string
	Body   *Body
}

// Parse turns raw configuration text into a BlockTree. It never
// fails: on any syntax error the whole file degrades to an empty
// tree and the caller decides how to report it. No partial recovery
// is attempted.
func Parse(filename, content string) *BlockTree {
	tree := &BlockTree{}

	src := []byte(content)
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() || file == nil {
		return tree
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return tree
	}

	for _, block := range body.Blocks {
		b := buildBody(block.Body, src)
		switch block.Type {
		case "resource", "data":
			if len(block.Labels) < 2 {
				tree.Other = append(tree.Other, RawBlock{Type: block.Type, Labels: block.Labels, Body: b})
				continue
			}
			rb := ResourceBlock{Type: block.Labels[0], Name: block.Labels[1], Body: b}
			if block.Type == "data" {
				tree.DataSources = append(tree.DataSources, rb)
			} else {
				tree.Resources = append(tree.Resources, rb)
			}
		case "variable", "output", "module", "provider":
			if len(block.Labels) < 1 {
				tree.Other = append(tree.Other, RawBlock{Type: block.Type, Body: b})
				continue
			}
			nb := NamedBlock{Name: block.Labels[0], Body: b}
			switch block.Type {
			case "variable":
				tree.Variables = append(tree.Variables, nb)
			case "output":
				tree.Outputs = append(tree.Outputs, nb)
			case "module":
				tree.Modules = append(tree.Modules, nb)
			case "provider":
				tree.Providers = append(tree.Providers, nb)
			}
		case "locals":
			tree.Locals = append(tree.Locals, b)
		case "terraform":
			tree.Terraform = append(tree.Terraform, b)
		default:
			tree.Other = append(tree.Other, RawBlock{Type: block.Type, Labels: block.Labels, Body: b})
		}
	}

	tree.attrs = buildAttrs(body, src)
	return tree
}

// Empty reports whether the tree holds no blocks and no attributes.
// A file that failed to parse and a file with no configuration are
// indistinguishable here, deliberately.
func (t *BlockTree) Empty() bool {
	return len(t.Resources) == 0 &&
		len(t.DataSources) == 0 &&
		len(t.Variables) == 0 &&
		len(t.Outputs) == 0 &&
		len(t.Modules) == 0 &&
		len(t.Providers) == 0 &&
		len(t.Locals) == 0 &&
		len(t.Terraform) == 0 &&
		len(t.Other) == 0 &&
		t.attrs.Len() == 0
}

// Text renders the whole tree in literal form for substring matching
func (t *BlockTree) Text() string {
	var sections []string

	add := func(key string, elems []string) {
		if len(elems) > 0 {
			sections = append(sections, "'"+key+"': ["+strings.Join(elems, ", ")+"]")
		}
	}

	add("terraform", renderBodies(t.Terraform))
	add("resource", renderResources(t.Resources))
	add("data", renderResources(t.DataSources))
	add("variable", renderNamed(t.Variables))
	add("output", renderNamed(t.Outputs))
	add("module", renderNamed(t.Modules))
	add("provider", renderNamed(t.Providers))
	add("locals", renderBodies(t.Locals))

	// unmodeled blocks, grouped by type in first-seen order
	groups := make(map[string][]string)
	var order []string
	for _, rb := range t.Other {
		if _, ok := groups[rb.Type]; !ok {
			order = append(order, rb.Type)
		}
		groups[rb.Type] = append(groups[rb.Type], renderRaw(rb))
	}
	for _, key := range order {
		add(key, groups[key])
	}

	for _, key := range t.attrs.Keys() {
		var sb strings.Builder
		t.attrs.Get(key).render(&sb)
		sections = append(sections, "'"+key+"': "+sb.String())
	}

	return "{" + strings.Join(sections, ", ") + "}"
}

func buildBody(body *hclsyntax.Body, src []byte) *Body {
	out := buildAttrs(body, src)
	for _, block := range body.Blocks {
		out.appendBlock(block.Type, wrapLabels(block.Labels, buildBody(block.Body, src)))
	}
	return out
}

func buildAttrs(body *hclsyntax.Body, src []byte) *Body {
	out := newBody()
	attrs := make([]*hclsyntax.Attribute, 0, len(body.Attributes))
	for _, attr := range body.Attributes {
		attrs = append(attrs, attr)
	}
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].SrcRange.Start.Byte < attrs[j].SrcRange.Start.Byte
	})
	for _, attr := range attrs {
		out.put(attr.Name, exprValue(attr.Expr, src))
	}
	return out
}

// wrapLabels folds block labels around the body from the inside out:
// backend "s3" {...} becomes {'s3': {...}}.
func wrapLabels(labels []string, body *Body) Value {
	v := Value{Kind: KindMap, Map: body}
	for i := len(labels) - 1; i >= 0; i-- {
		wrapper := newBody()
		wrapper.put(labels[i], v)
		v = Value{Kind: KindMap, Map: wrapper}
	}
	return v
}

// exprValue evaluates an attribute expression with no variables or
// functions in scope. Literals decode to concrete values; everything
// else keeps its raw source text so references stay searchable.
func exprValue(expr hclsyntax.Expression, src []byte) Value {
	val, diags := expr.Value(nil)
	if !diags.HasErrors() && val.IsKnown() {
		return FromCty(val)
	}
	return Value{Kind: KindExpr, Str: rawSource(expr, src)}
}

// rawSource returns the source text of an expression. For string
// templates the range is narrowed to the template parts so the
// surrounding quote characters are not included.
func rawSource(expr hclsyntax.Expression, src []byte) string {
	rng := expr.Range()
	if tmpl, ok := expr.(*hclsyntax.TemplateExpr); ok && len(tmpl.Parts) > 0 {
		rng = hcl.RangeBetween(tmpl.Parts[0].Range(), tmpl.Parts[len(tmpl.Parts)-1].Range())
	}
	start, end := rng.Start.Byte, rng.End.Byte
	if start < 0 || end > len(src) || start > end {
		return ""
	}
	return string(src[start:end])
}

func renderBodies(bodies []*Body) []string {
	out := make([]string, 0, len(bodies))
	for _, b := range bodies {
		out = append(out, b.Text())
	}
	return out
}

func renderResources(blocks []ResourceBlock) []string {
	out := make([]string, 0, len(blocks))
	for _, rb := range blocks {
		out = append(out, "{'"+rb.Type+"': {'"+rb.Name+"': "+rb.Body.Text()+"}}")
	}
	return out
}

func renderNamed(blocks []NamedBlock) []string {
	out := make([]string, 0, len(blocks))
	for _, nb := range blocks {
		out = append(out, "{'"+nb.Name+"': "+nb.Body.Text()+"}")
	}
	return out
}

func renderRaw(rb RawBlock) string {
	var sb strings.Builder
	wrapLabels(rb.Labels, rb.Body).render(&sb)
	return sb.String()
}
