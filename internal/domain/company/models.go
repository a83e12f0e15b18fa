package company

import "time"

type Company struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	CityID        *string    `json:"cityId,omitempty"`
	CityName      *string    `json:"cityName,omitempty"`
	CountryID     *string    `json:"countryId,omitempty"`
	CountryName   *string    `json:"countryName,omitempty"`
	StatusID      *string    `json:"statusId,omitempty"`
	StatusName    *string    `json:"statusName,omitempty"`
	EmployeeCount int        `json:"employeeCount"`
	CreatedAt     time.Time  `json:"createdAt"`
	CreatedBy     *string    `json:"createdBy,omitempty"`
	ModifiedAt    *time.Time `json:"modifiedAt,omitempty"`
	ModifiedBy    *string    `json:"modifiedBy,omitempty"`
}

// Input carries the mutable fields. Nil pointers mean "leave unchanged" on
// update and "unset" on create.
type Input struct {
	Name      *string
	CityID    *string
	CountryID *string
	StatusID  *string
}
