package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/telegram-mcp/internal/server"
)

// RegisterAccountResources registers resources describing the signed-in
// Telegram account.
func RegisterAccountResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	accountResource := mcp.NewResource(
		"telegram://account",
		"Telegram Account",
		mcp.WithResourceDescription("Profile of the signed-in Telegram account"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(accountResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleAccount(ctx, request, sc)
	})

	return nil
}

// handleAccount returns the profile of the signed-in account.
func handleAccount(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	api, err := sc.EnsureReady(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Telegram: %w", err)
	}

	me, err := api.GetMe(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get account profile: %w", err)
	}

	accountData := map[string]interface{}{
		"id":        me.ID,
		"firstName": me.FirstName,
		"lastName":  me.LastName,
		"username":  me.Username,
		"phone":     me.Phone,
		"premium":   me.Premium,
		"verified":  me.Verified,
	}

	jsonData, err := json.MarshalIndent(accountData, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal account data: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
