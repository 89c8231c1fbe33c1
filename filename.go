package pxlsdump

import "strings"

const extension = ".png"

// TagFilename inserts the canvas code before the extension, so canvas.png
// becomes canvas-80a.png. Every occurrence of the extension is replaced. An
// empty code returns the path unchanged.
func TagFilename(path, code string) string {
	if code == "" {
		return path
	}
	return strings.ReplaceAll(path, extension, "-"+code+extension)
}
