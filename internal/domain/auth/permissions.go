package auth

const (
	PermReferentialRead  = "referential.read"
	PermReferentialWrite = "referential.write"
	PermCompaniesRead    = "companies.read"
	PermCompaniesWrite   = "companies.write"
	PermEmployeesRead    = "employees.read"
	PermEmployeesWrite   = "employees.write"
	PermSalariesRead     = "salaries.read"
	PermSalariesWrite    = "salaries.write"
	PermDashboardRead    = "dashboard.read"
	PermEventsRead       = "events.read"
	PermRolesRead        = "roles.read"
	PermRolesWrite       = "roles.write"
	PermUsersWrite       = "users.write"
	PermSystemAdmin      = "admin.system"
)

var DefaultPermissions = []string{
	PermReferentialRead,
	PermReferentialWrite,
	PermCompaniesRead,
	PermCompaniesWrite,
	PermEmployeesRead,
	PermEmployeesWrite,
	PermSalariesRead,
	PermSalariesWrite,
	PermDashboardRead,
	PermEventsRead,
	PermRolesRead,
	PermRolesWrite,
	PermUsersWrite,
	PermSystemAdmin,
}

const (
	RoleAdmin    = "Admin"
	RoleHR       = "HR"
	RoleManager  = "Manager"
	RoleEmployee = "Employee"
)

var RolePermissions = map[string][]string{
	RoleAdmin: {
		PermReferentialRead,
		PermReferentialWrite,
		PermCompaniesRead,
		PermCompaniesWrite,
		PermEmployeesRead,
		PermEmployeesWrite,
		PermSalariesRead,
		PermSalariesWrite,
		PermDashboardRead,
		PermEventsRead,
		PermRolesRead,
		PermRolesWrite,
		PermUsersWrite,
		PermSystemAdmin,
	},
	RoleHR: {
		PermReferentialRead,
		PermReferentialWrite,
		PermCompaniesRead,
		PermCompaniesWrite,
		PermEmployeesRead,
		PermEmployeesWrite,
		PermSalariesRead,
		PermSalariesWrite,
		PermDashboardRead,
		PermEventsRead,
		PermRolesRead,
		PermUsersWrite,
	},
	RoleManager: {
		PermReferentialRead,
		PermCompaniesRead,
		PermEmployeesRead,
		PermEmployeesWrite,
		PermSalariesRead,
		PermDashboardRead,
		PermEventsRead,
	},
	RoleEmployee: {
		PermReferentialRead,
		PermCompaniesRead,
		PermDashboardRead,
	},
}

// KnownPermission reports whether name is part of the fixed catalog.
func KnownPermission(name string) bool {
	for _, perm := range DefaultPermissions {
		if perm == name {
			return true
		}
	}
	return false
}
