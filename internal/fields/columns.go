package fields

import (
	"strings"

	"golang.org/x/text/cases"
)

// Role is the semantic meaning of a table column.
type Role int

const (
	RoleCrop Role = iota
	RoleWeeds
	RoleDose
	RoleTiming
	RoleRemarks

	numRoles
)

func (r Role) String() string {
	switch r {
	case RoleCrop:
		return "crop"
	case RoleWeeds:
		return "weeds"
	case RoleDose:
		return "dose"
	case RoleTiming:
		return "timing"
	case RoleRemarks:
		return "remarks"
	}
	return "unknown"
}

// roleKeywords is checked in order; a header binds to the first role with a
// keyword it contains.
var roleKeywords = []struct {
	role     Role
	keywords []string
}{
	{RoleCrop, []string{"cultivo"}},
	{RoleWeeds, []string{"maleza", "objetivo"}},
	{RoleDose, []string{"dosis"}},
	{RoleTiming, []string{"momento", "aplicac"}},
	{RoleRemarks, []string{"observ", "restric"}},
}

// Columns maps roles to header column indexes.
type Columns struct {
	index [numRoles]int
	bound [numRoles]bool
}

// Index returns the column bound to role.
func (c Columns) Index(role Role) (int, bool) {
	if role < 0 || role >= numRoles {
		return 0, false
	}
	return c.index[role], c.bound[role]
}

// Text returns the trimmed text of role's column in row, or "" when the role
// is unbound or the row is too short.
func (c Columns) Text(row []string, role Role) string {
	i, ok := c.Index(role)
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// DetectColumns matches header cells case-insensitively against the role
// keywords. The first header matching a role wins; a later header whose
// first matching role is already bound is ignored.
func DetectColumns(header []string) Columns {
	var cols Columns
	fold := cases.Fold()
	for i, h := range header {
		role, ok := matchRole(fold.String(h))
		if !ok || cols.bound[role] {
			continue
		}
		cols.index[role] = i
		cols.bound[role] = true
	}
	return cols
}

func matchRole(folded string) (Role, bool) {
	for _, rk := range roleKeywords {
		for _, kw := range rk.keywords {
			if strings.Contains(folded, kw) {
				return rk.role, true
			}
		}
	}
	return 0, false
}
