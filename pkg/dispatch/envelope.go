package dispatch

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// Envelope builders. Every invocation outcome, success or failure, is wrapped
// into a well-formed result here; the caller-facing protocol has no separate
// error channel, so failures travel as ordinary text content prefixed with
// "Error:".

// errorText renders a failure as the envelope body.
func errorText(err error) string {
	return fmt.Sprintf("Error: %s", err.Error())
}

// ToolSuccess wraps a tool result body.
func ToolSuccess(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
	}
}

// ToolError wraps a tool failure.
func ToolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: errorText(err),
			},
		},
		IsError: true,
	}
}

// ResourceSuccess wraps resource content.
func ResourceSuccess(uri, mimeType, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      uri,
				MIMEType: mimeType,
				Text:     text,
			},
		},
	}
}

// ResourceError wraps a resource failure.
func ResourceError(uri string, err error) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      uri,
				MIMEType: "text/plain",
				Text:     errorText(err),
			},
		},
	}
}

// PromptSuccess wraps a rendered prompt as a single user message.
func PromptSuccess(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: text,
				},
			},
		},
	}
}

// PromptError wraps a prompt failure.
func PromptError(err error) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: errorText(err),
				},
			},
		},
	}
}
