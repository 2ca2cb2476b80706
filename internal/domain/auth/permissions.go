package auth

import "context"

const (
	PermEmployeesRead  = "employees.read"
	PermEmployeesWrite = "employees.write"
	PermProjectsRead   = "projects.read"
	PermProjectsWrite  = "projects.write"
	PermProjectsManage = "projects.manage"
	PermKPIRead        = "kpi.read"
	PermKPIWrite       = "kpi.write"
	PermKPIAssign      = "kpi.assign"
	PermKPIDelete      = "kpi.delete"
	PermAparRead       = "apar.read"
	PermAparWrite      = "apar.write"
	PermReportsRead    = "reports.read"
	PermMetricsRead    = "metrics.read"
)

var DefaultPermissions = []string{
	PermEmployeesRead,
	PermEmployeesWrite,
	PermProjectsRead,
	PermProjectsWrite,
	PermProjectsManage,
	PermKPIRead,
	PermKPIWrite,
	PermKPIAssign,
	PermKPIDelete,
	PermAparRead,
	PermAparWrite,
	PermReportsRead,
	PermMetricsRead,
}

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermProjectsRead,
		PermProjectsWrite,
		PermKPIRead,
		PermKPIWrite,
		PermAparRead,
		PermAparWrite,
		PermReportsRead,
	},
	RoleAdmin: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermProjectsRead,
		PermProjectsWrite,
		PermProjectsManage,
		PermKPIRead,
		PermKPIWrite,
		PermKPIAssign,
		PermKPIDelete,
		PermAparRead,
		PermAparWrite,
		PermReportsRead,
		PermMetricsRead,
	},
	RoleSuperAdmin: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermProjectsRead,
		PermProjectsWrite,
		PermProjectsManage,
		PermKPIRead,
		PermKPIWrite,
		PermKPIAssign,
		PermKPIDelete,
		PermAparRead,
		PermAparWrite,
		PermReportsRead,
		PermMetricsRead,
	},
}

// StaticPermissions resolves permissions from RolePermissions. Roles live in
// the token, so there is nothing to look up in the database.
type StaticPermissions struct {
	index map[string]map[string]struct{}
}

func NewStaticPermissions() *StaticPermissions {
	index := make(map[string]map[string]struct{}, len(RolePermissions))
	for role, perms := range RolePermissions {
		set := make(map[string]struct{}, len(perms))
		for _, perm := range perms {
			set[perm] = struct{}{}
		}
		index[role] = set
	}
	return &StaticPermissions{index: index}
}

func (p *StaticPermissions) HasPermission(_ context.Context, role, permission string) (bool, error) {
	perms, ok := p.index[role]
	if !ok {
		return false, nil
	}
	_, ok = perms[permission]
	return ok, nil
}
