package employee

import (
	"time"
)

// HistoryAction is the lifecycle transition recorded in an employee's audit trail.
type HistoryAction string

const (
	ActionCreated        HistoryAction = "CREATED"
	ActionIDProofUpdated HistoryAction = "ID_PROOF_UPDATED"
	ActionDeleted        HistoryAction = "DELETED"
)

// Employee is the central record. EmployeeID and LoginID are system-generated
// and never change once assigned. History is owned by the employee and is
// cascade-removed with it; entries are only ever appended.
type Employee struct {
	EmployeeID       string         `json:"employee_id" gorm:"column:employee_id;primaryKey"`
	FirstName        string         `json:"first_name" gorm:"column:first_name;not null"`
	LastName         string         `json:"last_name" gorm:"column:last_name;not null"`
	MiddleName       *string        `json:"middle_name,omitempty" gorm:"column:middle_name"`
	LoginID          string         `json:"login_id" gorm:"column:login_id;uniqueIndex;not null"`
	DateOfBirth      time.Time      `json:"date_of_birth" gorm:"column:date_of_birth;type:date;not null"`
	Department       string         `json:"department" gorm:"column:department;not null"`
	Salary           float64        `json:"salary" gorm:"column:salary;not null"`
	PermanentAddress string         `json:"permanent_address" gorm:"column:permanent_address"`
	CurrentAddress   string         `json:"current_address" gorm:"column:current_address"`
	IDProofPath      *string        `json:"id_proof_path,omitempty" gorm:"column:id_proof_path"`
	History          []HistoryEntry `json:"history" gorm:"foreignKey:EmployeeID;references:EmployeeID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time      `json:"created_at" gorm:"column:created_at"`
	UpdatedAt        time.Time      `json:"updated_at" gorm:"column:updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}

// HistoryEntry has no lifecycle of its own; it exists only through the
// employee that owns it.
type HistoryEntry struct {
	ID         int64         `json:"id" gorm:"column:id;primaryKey"`
	EmployeeID string        `json:"-" gorm:"column:employee_id;not null;index"`
	Action     HistoryAction `json:"action" gorm:"column:action;not null"`
	Timestamp  time.Time     `json:"timestamp" gorm:"column:timestamp;not null"`
}

func (HistoryEntry) TableName() string {
	return "employee_histories"
}

// AppendHistory records a lifecycle action against the employee. The entry
// gets its store-generated ID when the employee is next saved.
func (e *Employee) AppendHistory(action HistoryAction) {
	e.History = append(e.History, HistoryEntry{
		EmployeeID: e.EmployeeID,
		Action:     action,
		Timestamp:  time.Now(),
	})
}
