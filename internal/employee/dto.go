package employee

import (
	"time"

	errors "github.com/frahmantamala/employee-records/internal"
	"github.com/frahmantamala/employee-records/internal/core/common/validation"
)

// MinimumAge is the lowest age accepted at creation time, computed
// calendar-aware from the date of birth.
const MinimumAge = 18

// CreateEmployeeDTO carries the multipart form fields for a new employee.
// The ID-proof payload travels separately as a DocumentUpload.
type CreateEmployeeDTO struct {
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	MiddleName       *string   `json:"middle_name,omitempty"`
	DateOfBirth      time.Time `json:"date_of_birth"`
	Department       string    `json:"department"`
	Salary           float64   `json:"salary"`
	PermanentAddress string    `json:"permanent_address"`
	CurrentAddress   string    `json:"current_address"`
}

func (dto CreateEmployeeDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("first_name", dto.FirstName).Required().MaxLength(100)
	v.Field("last_name", dto.LastName).Required().MaxLength(100)
	v.Field("date_of_birth", dto.DateOfBirth).Required().NotFuture().MinAge(MinimumAge)
	v.Field("department", dto.Department).Required().MaxLength(100)
	v.Field("salary", dto.Salary).NonNegative()
	v.Field("permanent_address", dto.PermanentAddress).Required().MaxLength(500)
	v.Field("current_address", dto.CurrentAddress).Required().MaxLength(500)
	return v.Validate()
}

// DocumentUpload is the caller-declared view of an uploaded file. Declared
// content type and size are what the document store validates.
type DocumentUpload struct {
	Content     []byte
	ContentType string
	Size        int64
}

// IsEmpty reports whether no usable file payload was supplied.
func (d *DocumentUpload) IsEmpty() bool {
	return d == nil || len(d.Content) == 0
}

// DeleteEmployeesDTO is the batch-delete request body.
type DeleteEmployeesDTO struct {
	EmployeeIDs []string `json:"employee_ids"`
}

func (dto DeleteEmployeesDTO) Validate() *errors.AppError {
	if len(dto.EmployeeIDs) == 0 {
		return errors.NewValidationError("Please select at least one employee to delete", errors.ErrCodeEmptySelection)
	}
	return nil
}

// SearchCriteria holds optional filters; empty criteria impose no
// constraint. Text fields match case-insensitive substrings, department is
// an exact match, and the date bounds are inclusive on date_of_birth.
type SearchCriteria struct {
	EmployeeID string     `json:"employee_id,omitempty"`
	FirstName  string     `json:"first_name,omitempty"`
	LastName   string     `json:"last_name,omitempty"`
	LoginID    string     `json:"login_id,omitempty"`
	Department string     `json:"department,omitempty"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
}

// SearchResult is one page of matches. Criteria are echoed back so callers
// can repeat the same search after a mutation; remembering them between
// requests is entirely the caller's concern.
type SearchResult struct {
	Employees     []*Employee    `json:"employees"`
	Page          int            `json:"page"`
	Size          int            `json:"size"`
	TotalPages    int            `json:"total_pages"`
	TotalElements int64          `json:"total_elements"`
	Criteria      SearchCriteria `json:"criteria"`
}
