package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func namesProperty(registryKind string) map[string]interface{} {
	return map[string]interface{}{
		"type": "array",
		"description": "Module names (\"pkg\"), module prefixes (\"pkg.\") or fully-qualified " +
			registryKind + " function names (\"pkg.install\"). Omit to select every function.",
		"items": map[string]interface{}{
			"type": "string",
		},
	}
}

func namesSchema(registryKind string) mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"names": namesProperty(registryKind),
		},
	}
}

func emptySchema() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: map[string]interface{}{},
	}
}

// docTool returns the tool definition for sys_doc
func docTool() mcp.Tool {
	return mcp.Tool{
		Name:        "sys_doc",
		Description: "Return the normalized documentation of execution functions, keyed by fully-qualified name",
		InputSchema: namesSchema("execution"),
	}
}

// stateDocTool returns the tool definition for sys_state_doc
func stateDocTool() mcp.Tool {
	return mcp.Tool{
		Name:        "sys_state_doc",
		Description: "Return the normalized documentation of state functions, keyed by fully-qualified name",
		InputSchema: namesSchema("state"),
	}
}

// listFunctionsTool returns the tool definition for sys_list_functions
func listFunctionsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "sys_list_functions",
		Description: "List execution function names in sorted order",
		InputSchema: namesSchema("execution"),
	}
}

// listStateFunctionsTool returns the tool definition for sys_list_state_functions
func listStateFunctionsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "sys_list_state_functions",
		Description: "List state function names in sorted order",
		InputSchema: namesSchema("state"),
	}
}

// listModulesTool returns the tool definition for sys_list_modules
func listModulesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "sys_list_modules",
		Description: "List the distinct modules of the execution registry",
		InputSchema: emptySchema(),
	}
}

// listStateModulesTool returns the tool definition for sys_list_state_modules
func listStateModulesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "sys_list_state_modules",
		Description: "List the distinct modules of the state registry",
		InputSchema: emptySchema(),
	}
}

// argspecTool returns the tool definition for sys_argspec
func argspecTool() mcp.Tool {
	return mcp.Tool{
		Name:        "sys_argspec",
		Description: "Return the argument specification (args, defaults, varargs, kwargs) of execution functions without calling them",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"module": map[string]interface{}{
					"type":        "string",
					"description": "Module or fully-qualified function name. Omit for every function.",
				},
			},
		},
	}
}

// reloadModulesTool returns the tool definition for sys_reload_modules
func reloadModulesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "sys_reload_modules",
		Description: "Acknowledge a module reload request; the host agent performs the reload itself",
		InputSchema: emptySchema(),
	}
}
