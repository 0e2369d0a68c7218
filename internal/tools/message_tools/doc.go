// Package message_tools implements the MCP tools for reading, sending,
// editing, deleting, forwarding, searching and contextualizing messages.
package message_tools
