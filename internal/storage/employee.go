package storage

import "time"

type Employee struct {
	ID                  int64     `json:"id"`
	EmpNo               string    `json:"emp_no"`
	EmpName             string    `json:"emp_name"`
	SiteDesignation     string    `json:"site_designation"`
	Designation         string    `json:"designation"`
	Head                string    `json:"head"`
	Department          string    `json:"department"`
	HOD                 string    `json:"hod"`
	DOJ                 time.Time `json:"doj"`
	Visa                string    `json:"visa"`
	IqamaNo             string    `json:"iqama_no"`
	Status              string    `json:"status"`
	Category            string    `json:"category"`
	Payrole             string    `json:"payrole"`
	Sponser             string    `json:"sponser"`
	Project             string    `json:"project"`
	AccommodationStatus string    `json:"accommodation_status"`
	BatchID             string    `json:"batch_id,omitempty"`
}

// EmployeeFilter narrows GetEmployees. Empty or "all" matches everything.
type EmployeeFilter struct {
	Department  string
	Designation string
	Project     string
	Status      string
}

type EmployeeOptions struct {
	Departments  []string `json:"departments"`
	Designations []string `json:"designations"`
	Projects     []string `json:"projects"`
	Statuses     []string `json:"statuses"`
}
