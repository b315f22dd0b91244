package service

import "strings"

// workspaceURL builds the display URL of a project: the slugified name
// (spaces to hyphens, lower-cased) with the id appended. A project with an
// empty name yields a path using only the id.
func workspaceURL(origin, name, id string) string {
	if name == "" {
		return "/workspace/" + id
	}

	slug := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	return origin + "/workspace/" + slug + "-" + id
}
