// Package tools exposes content generation as callable tools.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/cryptocontent/pkg/tools/toolbox]: Tool type and ToolBox for registering, listing and calling tools
//   - [github.com/germanamz/cryptocontent/pkg/tools/mcpserver]: MCP server using the official MCP Go SDK to serve a ToolBox over stdio
package tools
