package employee

import "time"

type Employee struct {
	ID                 string     `json:"id"`
	FirstName          string     `json:"firstName"`
	LastName           string     `json:"lastName"`
	Email              string     `json:"email"`
	HireDate           *time.Time `json:"hireDate,omitempty"`
	CompanyID          *string    `json:"companyId,omitempty"`
	CompanyName        *string    `json:"companyName,omitempty"`
	StatusID           *string    `json:"statusId,omitempty"`
	StatusName         *string    `json:"statusName,omitempty"`
	CityID             *string    `json:"cityId,omitempty"`
	CityName           *string    `json:"cityName,omitempty"`
	NationalityID      *string    `json:"nationalityId,omitempty"`
	NationalityName    *string    `json:"nationalityName,omitempty"`
	MaritalStatusID    *string    `json:"maritalStatusId,omitempty"`
	MaritalStatusName  *string    `json:"maritalStatusName,omitempty"`
	EducationLevelID   *string    `json:"educationLevelId,omitempty"`
	EducationLevelName *string    `json:"educationLevelName,omitempty"`
	GenderID           *string    `json:"genderId,omitempty"`
	GenderName         *string    `json:"genderName,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	CreatedBy          *string    `json:"createdBy,omitempty"`
	ModifiedAt         *time.Time `json:"modifiedAt,omitempty"`
	ModifiedBy         *string    `json:"modifiedBy,omitempty"`
}

// Input carries the mutable employee fields. Nil means "leave unchanged" on
// update; for relation ids an explicit empty string clears the link.
type Input struct {
	FirstName        *string
	LastName         *string
	Email            *string
	HireDate         *time.Time
	CompanyID        *string
	StatusID         *string
	CityID           *string
	NationalityID    *string
	MaritalStatusID  *string
	EducationLevelID *string
	GenderID         *string
}

type Contract struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employeeId"`
	ContractType string     `json:"contractType"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	CreatedBy    *string    `json:"createdBy,omitempty"`
	ModifiedAt   *time.Time `json:"modifiedAt,omitempty"`
	ModifiedBy   *string    `json:"modifiedBy,omitempty"`
}

type Salary struct {
	ID            string     `json:"id"`
	EmployeeID    string     `json:"employeeId"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	EffectiveDate time.Time  `json:"effectiveDate"`
	CreatedAt     time.Time  `json:"createdAt"`
	CreatedBy     *string    `json:"createdBy,omitempty"`
	ModifiedAt    *time.Time `json:"modifiedAt,omitempty"`
	ModifiedBy    *string    `json:"modifiedBy,omitempty"`
}
