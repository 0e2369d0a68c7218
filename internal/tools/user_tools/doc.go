// Package user_tools provides the MCP tool for looking up Telegram user
// profiles by id, username or phone number.
package user_tools
