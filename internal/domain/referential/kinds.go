// Package referential serves the lookup entities (countries, cities,
// statuses, genders, nationalities, education levels, marital statuses)
// through one kind-parameterized store with uniform soft-delete semantics.
package referential

// Dependent names a column that blocks soft-deletion while active rows
// reference the lookup value.
type Dependent struct {
	Table  string
	Column string
}

// Kind describes one lookup table. The catalog is fixed at compile time;
// table and column names never come from request input.
type Kind struct {
	Label      string
	Table      string
	Path       string
	Dependents []Dependent
}

var Kinds = []Kind{
	{
		Label: "country", Table: "countries", Path: "countries",
		Dependents: []Dependent{{Table: "companies", Column: "country_id"}},
	},
	{
		Label: "city", Table: "cities", Path: "cities",
		Dependents: []Dependent{
			{Table: "employees", Column: "city_id"},
			{Table: "companies", Column: "city_id"},
		},
	},
	{
		Label: "status", Table: "statuses", Path: "statuses",
		Dependents: []Dependent{
			{Table: "employees", Column: "status_id"},
			{Table: "companies", Column: "status_id"},
		},
	},
	{
		Label: "gender", Table: "genders", Path: "genders",
		Dependents: []Dependent{{Table: "employees", Column: "gender_id"}},
	},
	{
		Label: "nationality", Table: "nationalities", Path: "nationalities",
		Dependents: []Dependent{{Table: "employees", Column: "nationality_id"}},
	},
	{
		Label: "education level", Table: "education_levels", Path: "education-levels",
		Dependents: []Dependent{{Table: "employees", Column: "education_level_id"}},
	},
	{
		Label: "marital status", Table: "marital_statuses", Path: "marital-statuses",
		Dependents: []Dependent{{Table: "employees", Column: "marital_status_id"}},
	},
}

func KindByPath(path string) (Kind, bool) {
	for _, kind := range Kinds {
		if kind.Path == path {
			return kind, true
		}
	}
	return Kind{}, false
}
