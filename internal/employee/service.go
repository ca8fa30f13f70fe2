package employee

import (
	"context"
	"io"
	"log/slog"

	errors "github.com/frahmantamala/employee-records/internal"
	"github.com/frahmantamala/employee-records/internal/core/events"
)

// Repository defines the data access methods for employee records.
type Repository interface {
	FindByID(id string) (*Employee, error)
	ExistsByID(id string) (bool, error)
	ExistsByLoginID(loginID string) (bool, error)
	Save(emp *Employee) error
	DeleteByID(id string) error
	Search(criteria SearchCriteria, page, size int) ([]*Employee, int64, error)
}

// IdentityGenerator produces the two unique identifiers every employee gets.
type IdentityGenerator interface {
	EmployeeID() (string, error)
	LoginID(firstName, lastName string) (string, error)
}

// DocumentStore persists validated ID-proof files under opaque names.
type DocumentStore interface {
	Store(content []byte, contentType string, size int64) (string, error)
	Delete(name string) error
	Open(name string) (io.ReadCloser, error)
}

// AuditPublisher delivers lifecycle events to the audit subscriber before
// the triggering operation returns.
type AuditPublisher interface {
	PublishSync(ctx context.Context, event events.Event) error
}

const defaultPageSize = 10

// Service orchestrates the employee lifecycle: validation, ID generation,
// document storage and history recording.
type Service struct {
	repo      Repository
	idgen     IdentityGenerator
	documents DocumentStore
	audit     AuditPublisher
	logger    *slog.Logger
}

func NewService(repo Repository, idgen IdentityGenerator, documents DocumentStore, audit AuditPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		idgen:     idgen,
		documents: documents,
		audit:     audit,
		logger:    logger,
	}
}

// Create builds a new employee record. The ID proof is mandatory. The record
// is persisted first and saved again after the CREATED entry is appended, so
// the history row carries the store-assigned employee reference; the window
// between the two saves is accepted because history is audit-only.
func (s *Service) Create(dto CreateEmployeeDTO, document *DocumentUpload) (*Employee, error) {
	if document.IsEmpty() {
		s.logger.Warn("create employee rejected: no ID proof supplied")
		return nil, errors.NewValidationError("ID proof file is required", errors.ErrCodeIDProofRequired)
	}

	if err := dto.Validate(); err != nil {
		s.logger.Warn("create employee validation failed", "error", err)
		return nil, err
	}

	employeeID, err := s.idgen.EmployeeID()
	if err != nil {
		s.logger.Error("employee ID generation failed", "error", err)
		return nil, err
	}

	loginID, err := s.idgen.LoginID(dto.FirstName, dto.LastName)
	if err != nil {
		s.logger.Error("login ID generation failed", "error", err, "employee_id", employeeID)
		return nil, err
	}

	fileName, err := s.documents.Store(document.Content, document.ContentType, document.Size)
	if err != nil {
		s.logger.Warn("ID proof rejected", "error", err, "employee_id", employeeID)
		return nil, err
	}

	emp := &Employee{
		EmployeeID:       employeeID,
		FirstName:        dto.FirstName,
		LastName:         dto.LastName,
		MiddleName:       dto.MiddleName,
		LoginID:          loginID,
		DateOfBirth:      dto.DateOfBirth,
		Department:       dto.Department,
		Salary:           dto.Salary,
		PermanentAddress: dto.PermanentAddress,
		CurrentAddress:   dto.CurrentAddress,
		IDProofPath:      &fileName,
	}

	if err := s.repo.Save(emp); err != nil {
		s.logger.Error("failed to persist new employee", "error", err, "employee_id", employeeID)
		return nil, errors.NewInternalError("failed to save employee", err)
	}

	emp.AppendHistory(ActionCreated)
	if err := s.repo.Save(emp); err != nil {
		s.logger.Error("failed to persist creation history", "error", err, "employee_id", employeeID)
		return nil, errors.NewInternalError("failed to save employee history", err)
	}

	if err := s.audit.PublishSync(context.Background(), events.NewEmployeeCreatedEvent(emp.EmployeeID, emp.LoginID)); err != nil {
		s.logger.Error("audit publish failed", "error", err, "employee_id", employeeID)
	}

	s.logger.Info("employee created",
		"employee_id", emp.EmployeeID,
		"login_id", emp.LoginID,
		"department", emp.Department)

	return emp, nil
}

// UpdateDocument replaces an employee's ID proof. The new file is written
// before the superseded one is deleted, so a storage failure never leaves
// the record pointing at nothing.
func (s *Service) UpdateDocument(employeeID string, document *DocumentUpload) (*Employee, error) {
	emp, err := s.repo.FindByID(employeeID)
	if err != nil {
		s.logger.Warn("update document: employee lookup failed", "error", err, "employee_id", employeeID)
		return nil, err
	}

	if document.IsEmpty() {
		s.logger.Warn("update document rejected: no file selected", "employee_id", employeeID)
		return nil, errors.NewValidationError("No file selected for ID proof update", errors.ErrCodeIDProofRequired)
	}

	fileName, err := s.documents.Store(document.Content, document.ContentType, document.Size)
	if err != nil {
		s.logger.Warn("update document: ID proof rejected", "error", err, "employee_id", employeeID)
		return nil, err
	}

	if emp.IDProofPath != nil {
		if err := s.documents.Delete(*emp.IDProofPath); err != nil {
			// the new file is already in place; a stale leftover is logged, not fatal
			s.logger.Error("failed to delete superseded ID proof", "error", err, "file_name", *emp.IDProofPath)
		}
	}

	emp.IDProofPath = &fileName
	emp.AppendHistory(ActionIDProofUpdated)

	if err := s.repo.Save(emp); err != nil {
		s.logger.Error("failed to persist document update", "error", err, "employee_id", employeeID)
		return nil, errors.NewInternalError("failed to save employee", err)
	}

	if err := s.audit.PublishSync(context.Background(), events.NewEmployeeIDProofUpdatedEvent(emp.EmployeeID, fileName)); err != nil {
		s.logger.Error("audit publish failed", "error", err, "employee_id", employeeID)
	}

	s.logger.Info("employee ID proof updated", "employee_id", emp.EmployeeID, "file_name", fileName)

	return emp, nil
}

// Delete removes the listed employees in order. The first unknown ID aborts
// the batch; employees already processed stay deleted. Each record gets a
// DELETED history entry persisted before removal, and the audit event is the
// durable trace once the cascade wipes the history rows.
func (s *Service) Delete(employeeIDs []string) error {
	dto := DeleteEmployeesDTO{EmployeeIDs: employeeIDs}
	if err := dto.Validate(); err != nil {
		s.logger.Warn("delete employees rejected: empty selection")
		return err
	}

	for _, id := range employeeIDs {
		emp, err := s.repo.FindByID(id)
		if err != nil {
			s.logger.Warn("delete batch aborted", "error", err, "employee_id", id)
			return err
		}

		emp.AppendHistory(ActionDeleted)
		if err := s.repo.Save(emp); err != nil {
			s.logger.Error("failed to persist deletion history", "error", err, "employee_id", id)
			return errors.NewInternalError("failed to save employee history", err)
		}

		if err := s.audit.PublishSync(context.Background(), events.NewEmployeeDeletedEvent(id)); err != nil {
			s.logger.Error("audit publish failed", "error", err, "employee_id", id)
		}

		if err := s.repo.DeleteByID(id); err != nil {
			s.logger.Error("failed to delete employee", "error", err, "employee_id", id)
			return errors.NewInternalError("failed to delete employee", err)
		}

		if emp.IDProofPath != nil {
			if err := s.documents.Delete(*emp.IDProofPath); err != nil {
				s.logger.Error("failed to delete ID proof of removed employee", "error", err, "file_name", *emp.IDProofPath)
			}
		}

		s.logger.Info("employee deleted", "employee_id", id)
	}

	return nil
}

// GetByID returns the employee with its ordered history.
func (s *Service) GetByID(id string) (*Employee, error) {
	emp, err := s.repo.FindByID(id)
	if err != nil {
		s.logger.Warn("employee lookup failed", "error", err, "employee_id", id)
		return nil, err
	}
	return emp, nil
}

// OpenIDProof returns a read handle on the employee's stored ID proof.
func (s *Service) OpenIDProof(employeeID string) (io.ReadCloser, error) {
	emp, err := s.repo.FindByID(employeeID)
	if err != nil {
		return nil, err
	}
	if emp.IDProofPath == nil {
		return nil, errors.ErrIDProofNotFound
	}
	return s.documents.Open(*emp.IDProofPath)
}

// Search runs a stateless filtered query and returns one zero-based page.
func (s *Service) Search(criteria SearchCriteria, page, size int) (*SearchResult, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = defaultPageSize
	}

	employees, total, err := s.repo.Search(criteria, page, size)
	if err != nil {
		s.logger.Error("employee search failed", "error", err)
		return nil, errors.NewInternalError("failed to search employees", err)
	}

	totalPages := int((total + int64(size) - 1) / int64(size))

	return &SearchResult{
		Employees:     employees,
		Page:          page,
		Size:          size,
		TotalPages:    totalPages,
		TotalElements: total,
		Criteria:      criteria,
	}, nil
}
