package manifest

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"

	"github.com/lrevnic/salt/internal/registry"
)

// rootSchema is the top-level structure of a manifest file: one or more
// 'module' blocks.
type rootSchema struct {
	Modules []*moduleBlock `hcl:"module,block"`
}

type moduleBlock struct {
	Name      string           `hcl:"name,label"`
	Functions []*functionBlock `hcl:"function,block"`
}

// functionBlock keeps its body undecoded so that arg blocks can be read in
// declaration order.
type functionBlock struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

var functionBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "doc"},
		{Name: "varargs"},
		{Name: "kwargs"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "arg", LabelNames: []string{"name"}},
	},
}

var argBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "default"},
	},
}

// entry is one decoded function together with where it was declared.
type entry struct {
	Name     string
	Function registry.Function
	Range    hcl.Range
}

// decodeFile decodes every function declared in file. Errors in one function
// do not stop the others from being checked.
func decodeFile(file *hcl.File) ([]entry, hcl.Diagnostics) {
	if file == nil {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "HCL file is nil",
		}}
	}

	var root rootSchema
	diags := gohcl.DecodeBody(file.Body, nil, &root)
	if diags.HasErrors() {
		return nil, diags
	}

	var entries []entry
	seen := make(map[string]hcl.Range)
	for _, mod := range root.Modules {
		for _, fnBlock := range mod.Functions {
			rng := fnBlock.Body.MissingItemRange()
			if !validSegment(mod.Name) || !validSegment(fnBlock.Name) {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid function name",
					Detail: fmt.Sprintf("Module and function labels must be non-empty and must not contain %q; got %q and %q.",
						registry.Separator, mod.Name, fnBlock.Name),
					Subject: &rng,
				})
				continue
			}

			name := mod.Name + registry.Separator + fnBlock.Name
			if prev, dup := seen[name]; dup {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Duplicate function",
					Detail:   fmt.Sprintf("Function %q was already declared at %s.", name, prev),
					Subject:  &rng,
				})
				continue
			}
			seen[name] = rng

			fn, fnDiags := decodeFunction(fnBlock.Body)
			diags = append(diags, fnDiags...)
			if fnDiags.HasErrors() {
				continue
			}
			entries = append(entries, entry{Name: name, Function: fn, Range: rng})
		}
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return entries, diags
}

func decodeFunction(body hcl.Body) (registry.Function, hcl.Diagnostics) {
	var fn registry.Function

	content, diags := body.Content(functionBodySchema)
	if diags.HasErrors() {
		return fn, diags
	}

	if attr, ok := content.Attributes["doc"]; ok {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &fn.Doc)...)
	}
	if attr, ok := content.Attributes["varargs"]; ok {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &fn.Spec.Varargs)...)
	}
	if attr, ok := content.Attributes["kwargs"]; ok {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &fn.Spec.Kwargs)...)
	}

	declared := make(map[string]struct{})
	for _, block := range content.Blocks {
		argName := block.Labels[0]
		if _, dup := declared[argName]; dup {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate argument",
				Detail:   fmt.Sprintf("Argument %q is declared more than once.", argName),
				Subject:  &block.LabelRanges[0],
			})
			continue
		}
		declared[argName] = struct{}{}
		fn.Spec.Args = append(fn.Spec.Args, argName)

		argContent, argDiags := block.Body.Content(argBodySchema)
		diags = append(diags, argDiags...)
		if argDiags.HasErrors() {
			continue
		}

		attr, hasDefault := argContent.Attributes["default"]
		if !hasDefault {
			if len(fn.Spec.Defaults) > 0 {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Non-trailing default",
					Detail:   fmt.Sprintf("Argument %q has no default but follows an argument that has one.", argName),
					Subject:  &block.LabelRanges[0],
				})
			}
			continue
		}

		val, valDiags := attr.Expr.Value(nil)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			continue
		}
		native, err := ctyToNative(val)
		if err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unsupported default value",
				Detail:   fmt.Sprintf("Default of argument %q: %s.", argName, err),
				Subject:  attr.Expr.Range().Ptr(),
			})
			continue
		}
		fn.Spec.Defaults = append(fn.Spec.Defaults, native)
	}

	return fn, diags
}

func validSegment(s string) bool {
	return s != "" && !strings.Contains(s, registry.Separator)
}
