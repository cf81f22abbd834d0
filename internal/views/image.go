package views

import "strings"

// ImageURL resolves a pet photo path.
//
// Absolute http(s) URLs are returned unchanged, relative paths are joined to assetBase
// (the backend origin, see config.Config.AssetBaseURL) and an empty path stays empty.
func ImageURL(assetBase, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return assetBase + path
}
