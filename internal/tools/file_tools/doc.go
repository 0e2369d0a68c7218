// Package file_tools provides MCP tools for message file attachments:
// downloading them, reading their metadata, and sending local files as
// generic documents.
package file_tools
