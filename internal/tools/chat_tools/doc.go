// Package chat_tools implements the MCP tools for listing, inspecting and
// searching the account's chats.
package chat_tools
