package rbac

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var Actions = []string{"read", "create", "update", "delete"}

// Resources is the permission catalog, grouped by menu category.
var Resources = map[string][]string{
	"People":       {"employee", "document", "verification", "user"},
	"HR Cases":     {"transfer", "complaint", "warning", "termination", "resignation", "award", "travel"},
	"Performance":  {"goal_type", "goal"},
	"Calendar":     {"calendar_event", "leave"},
	"Organization": {"company", "department", "designation", "location", "project"},
	"Data":         {"import", "export", "report", "activity"},
	"Access":       {"role"},
}

func DefaultPermissions() []Permission {
	title := cases.Title(language.English)
	var perms []Permission
	for category, resources := range Resources {
		for _, res := range resources {
			for _, act := range Actions {
				perms = append(perms, Permission{
					Resource: res,
					Action:   act,
					Label:    fmt.Sprintf("%s %s", title.String(act), strings.ReplaceAll(res, "_", " ")),
					Category: category,
				})
			}
		}
	}
	return perms
}

// ParsePermissionKey splits "employee:read".
func ParsePermissionKey(key string) (resource, action string, ok bool) {
	resource, action, ok = strings.Cut(strings.TrimSpace(key), ":")
	if !ok || resource == "" || action == "" {
		return "", "", false
	}
	return resource, action, true
}
