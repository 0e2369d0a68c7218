// Package resources provides MCP resources for exposing account data.
// Resources are read-only data sources that MCP clients can fetch, such as
// the signed-in Telegram account profile.
package resources
