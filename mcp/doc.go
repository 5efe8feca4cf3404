// Package mcp implements a minimal Model Context Protocol server over
// stdio. It speaks JSON-RPC 2.0, one message per line: initialize, ping,
// tools/list, and tools/call, with tools registered through a type-safe
// generic registry that derives input schemas from struct tags.
//
// The transport is deliberately narrow: this server exposes tools and
// nothing else (no resources, no prompts), which is all the gemini tool
// needs.
package mcp
