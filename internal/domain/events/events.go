// Package events records immutable audit entries for company and employee
// mutations. Event names form a closed per-entity vocabulary; writes with an
// unknown name are rejected before touching the store.
package events

// Kind selects which event table an entry belongs to.
type Kind string

const (
	KindCompany  Kind = "company"
	KindEmployee Kind = "employee"
)

// Company event names.
const (
	CompanyCreated        = "Company_Created"
	CompanyDeleted        = "Company_Deleted"
	CompanyNameChanged    = "Name_Changed"
	CompanyStatusChanged  = "Status_Changed"
	CompanyCityChanged    = "City_Changed"
	CompanyCountryChanged = "Country_Changed"
)

// Employee event names.
const (
	EmployeeCreated       = "Employee_Created"
	EmployeeDeleted       = "Employee_Deleted"
	FirstNameChanged      = "FirstName_Changed"
	LastNameChanged       = "LastName_Changed"
	EmailChanged          = "Email_Changed"
	CompanyChanged        = "Company_Changed"
	StatusChanged         = "Status_Changed"
	CityChanged           = "City_Changed"
	NationalityChanged    = "Nationality_Changed"
	MaritalStatusChanged  = "MaritalStatus_Changed"
	EducationLevelChanged = "EducationLevel_Changed"
	GenderChanged         = "Gender_Changed"
	ContractCreated       = "Contract_Created"
	ContractUpdated       = "Contract_Updated"
	ContractEnded         = "Contract_Ended"
	SalaryCreated         = "Salary_Created"
	SalaryUpdated         = "Salary_Updated"
)

var companyEvents = map[string]struct{}{
	CompanyCreated:        {},
	CompanyDeleted:        {},
	CompanyNameChanged:    {},
	CompanyStatusChanged:  {},
	CompanyCityChanged:    {},
	CompanyCountryChanged: {},
}

var employeeEvents = map[string]struct{}{
	EmployeeCreated:       {},
	EmployeeDeleted:       {},
	FirstNameChanged:      {},
	LastNameChanged:       {},
	EmailChanged:          {},
	CompanyChanged:        {},
	StatusChanged:         {},
	CityChanged:           {},
	NationalityChanged:    {},
	MaritalStatusChanged:  {},
	EducationLevelChanged: {},
	GenderChanged:         {},
	ContractCreated:       {},
	ContractUpdated:       {},
	ContractEnded:         {},
	SalaryCreated:         {},
	SalaryUpdated:         {},
}

// KnownEvent reports whether name is part of the kind's vocabulary.
func KnownEvent(kind Kind, name string) bool {
	switch kind {
	case KindCompany:
		_, ok := companyEvents[name]
		return ok
	case KindEmployee:
		_, ok := employeeEvents[name]
		return ok
	}
	return false
}
