// Package media_tools provides MCP tools for downloading, sending and
// inspecting message media. Downloads land in the client's download directory
// and are stream-copied, not moved, when the caller asks for another
// destination.
package media_tools
