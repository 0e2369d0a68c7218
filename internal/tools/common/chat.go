package common

// ChatIDFromArgs extracts the chat identifier from request arguments for
// audit labeling. Tools that address a chat accept it as "chat_id"; the
// forward tool uses "from_chat_id" for the source chat.
func ChatIDFromArgs(args map[string]interface{}) string {
	if v, ok := args["chat_id"].(string); ok && v != "" {
		return v
	}
	if v, ok := args["from_chat_id"].(string); ok && v != "" {
		return v
	}
	return ""
}
