package mcp

import "github.com/mark3labs/mcp-go/mcp"

var loadToolDef = mcp.NewTool("studio_load",
	mcp.WithDescription("Load an image file into the studio and make it current. "+
		"With neither width nor height the configured default width is used; "+
		"the missing dimension is inferred from the aspect ratio."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Image file path (png, jpeg, gif, bmp, tiff, webp)")),
	mcp.WithString("alias", mcp.Description("Key to store the image under; defaults to the path")),
	mcp.WithNumber("width", mcp.Description("Target width in characters")),
	mcp.WithNumber("height", mcp.Description("Target height in characters")),
)

var setToolDef = mcp.NewTool("studio_set",
	mcp.WithDescription("Change one property of a loaded image. Width and height keep the aspect ratio; "+
		"brightness and contrast compound on earlier adjustments."),
	mcp.WithString("key", mcp.Required(), mcp.Description("Alias or path of the image")),
	mcp.WithString("property", mcp.Required(), mcp.Description("Property to set"),
		mcp.Enum("width", "height", "brightness", "contrast")),
	mcp.WithString("value", mcp.Required(), mcp.Description("New value: a positive integer for width/height, a positive number for brightness/contrast")),
)

var renderToolDef = mcp.NewTool("studio_render",
	mcp.WithDescription("Render an image as ASCII art. An empty or unknown key renders the current image."),
	mcp.WithString("key", mcp.Description("Alias or path of the image")),
)

var infoToolDef = mcp.NewTool("studio_info",
	mcp.WithDescription("Describe the current image and every loaded image."),
)

var sessionSaveToolDef = mcp.NewTool("session_save",
	mcp.WithDescription("Save the studio under a name, replacing any session with the same name."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Session name (case-insensitive)")),
)

var sessionLoadToolDef = mcp.NewTool("session_load",
	mcp.WithDescription("Replace the studio with a saved session."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Session name (case-insensitive)")),
)

var sessionListToolDef = mcp.NewTool("session_list",
	mcp.WithDescription("List saved sessions, most recently updated first."),
	mcp.WithNumber("limit", mcp.Description("Max items (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Items to skip")),
)

var sessionDeleteToolDef = mcp.NewTool("session_delete",
	mcp.WithDescription("Delete a saved session. The studio is not affected."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Session name (case-insensitive)")),
)
