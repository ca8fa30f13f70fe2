package employee

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/employee-records/internal/transport"
	"github.com/frahmantamala/employee-records/pkg/logger"
	"github.com/go-chi/chi"
)

// ServiceAPI is the surface the HTTP layer consumes.
type ServiceAPI interface {
	Create(dto CreateEmployeeDTO, document *DocumentUpload) (*Employee, error)
	UpdateDocument(employeeID string, document *DocumentUpload) (*Employee, error)
	Delete(employeeIDs []string) error
	GetByID(id string) (*Employee, error)
	OpenIDProof(employeeID string) (io.ReadCloser, error)
	Search(criteria SearchCriteria, page, size int) (*SearchResult, error)
}

const (
	dateLayout = "2006-01-02"

	// multipart memory ceiling; the largest legal ID proof is 1 MiB
	maxMultipartMemory = 4 << 20
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// CreateEmployee handles the multipart create form: text fields plus the
// mandatory idProof PDF.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		h.Logger.Error("CreateEmployee: failed to parse multipart form", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	dto := CreateEmployeeDTO{
		FirstName:        r.FormValue("firstName"),
		LastName:         r.FormValue("lastName"),
		Department:       r.FormValue("department"),
		PermanentAddress: r.FormValue("permanentAddress"),
		CurrentAddress:   r.FormValue("currentAddress"),
	}

	if middle := r.FormValue("middleName"); middle != "" {
		dto.MiddleName = &middle
	}

	if dobStr := r.FormValue("dateOfBirth"); dobStr != "" {
		dob, err := time.Parse(dateLayout, dobStr)
		if err != nil {
			h.Logger.Error("CreateEmployee: invalid date of birth", "value", dobStr)
			h.WriteError(w, http.StatusBadRequest, "dateOfBirth must be formatted as YYYY-MM-DD")
			return
		}
		dto.DateOfBirth = dob
	}

	if salaryStr := r.FormValue("salary"); salaryStr != "" {
		salary, err := strconv.ParseFloat(salaryStr, 64)
		if err != nil {
			h.Logger.Error("CreateEmployee: invalid salary", "value", salaryStr)
			h.WriteError(w, http.StatusBadRequest, "salary must be numeric")
			return
		}
		dto.Salary = salary
	}

	document, err := h.readDocument(r)
	if err != nil {
		h.Logger.Error("CreateEmployee: failed to read ID proof", "error", err)
		h.WriteError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	emp, err := h.Service.Create(dto, document)
	if err != nil {
		h.Logger.Error("CreateEmployee: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateEmployee: employee created",
		"employee_id", emp.EmployeeID,
		"login_id", emp.LoginID)

	h.WriteJSON(w, http.StatusCreated, emp)
}

// GetEmployee returns one record with its full history.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	emp, err := h.Service.GetByID(id)
	if err != nil {
		h.Logger.Error("GetEmployee: service error", "error", err, "employee_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, emp)
}

// UpdateIDProof replaces the stored ID proof for an employee.
func (h *Handler) UpdateIDProof(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		h.Logger.Error("UpdateIDProof: failed to parse multipart form", "error", err, "employee_id", id)
		h.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	document, err := h.readDocument(r)
	if err != nil {
		h.Logger.Error("UpdateIDProof: failed to read ID proof", "error", err, "employee_id", id)
		h.WriteError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	emp, err := h.Service.UpdateDocument(id, document)
	if err != nil {
		h.Logger.Error("UpdateIDProof: service error", "error", err, "employee_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("UpdateIDProof: document replaced", "employee_id", id)
	h.WriteJSON(w, http.StatusOK, emp)
}

// DownloadIDProof streams the stored PDF back to the caller.
func (h *Handler) DownloadIDProof(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	file, err := h.Service.OpenIDProof(id)
	if err != nil {
		h.Logger.Error("DownloadIDProof: service error", "error", err, "employee_id", id)
		h.HandleServiceError(w, err)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", "application/pdf")
	if _, err := io.Copy(w, file); err != nil {
		h.Logger.Error("DownloadIDProof: stream failed", "error", err, "employee_id", id)
	}
}

// DeleteEmployees removes a batch of records; processing stops at the first
// unknown ID.
func (h *Handler) DeleteEmployees(w http.ResponseWriter, r *http.Request) {
	var dto DeleteEmployeesDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("DeleteEmployees: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.Delete(dto.EmployeeIDs); err != nil {
		h.Logger.Error("DeleteEmployees: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("DeleteEmployees: batch deleted", "count", len(dto.EmployeeIDs))
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"deleted": len(dto.EmployeeIDs),
	})
}

// SearchEmployees runs a filtered, paginated query from query parameters.
func (h *Handler) SearchEmployees(w http.ResponseWriter, r *http.Request) {
	criteria := SearchCriteria{
		EmployeeID: r.URL.Query().Get("employeeId"),
		FirstName:  r.URL.Query().Get("firstName"),
		LastName:   r.URL.Query().Get("lastName"),
		LoginID:    r.URL.Query().Get("loginId"),
		Department: r.URL.Query().Get("department"),
	}

	if startStr := r.URL.Query().Get("startDate"); startStr != "" {
		start, err := time.Parse(dateLayout, startStr)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "startDate must be formatted as YYYY-MM-DD")
			return
		}
		criteria.StartDate = &start
	}

	if endStr := r.URL.Query().Get("endDate"); endStr != "" {
		end, err := time.Parse(dateLayout, endStr)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "endDate must be formatted as YYYY-MM-DD")
			return
		}
		criteria.EndDate = &end
	}

	page := 0
	size := 10

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p >= 0 {
			page = p
		}
	}

	if sizeStr := r.URL.Query().Get("size"); sizeStr != "" {
		if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
			size = s
		}
	}

	result, err := h.Service.Search(criteria, page, size)
	if err != nil {
		h.Logger.Error("SearchEmployees: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// readDocument pulls the optional idProof part out of a parsed multipart
// form. A missing part is not an error here; the service decides whether
// the document is mandatory.
func (h *Handler) readDocument(r *http.Request) (*DocumentUpload, error) {
	file, header, err := r.FormFile("idProof")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &DocumentUpload{
		Content:     content,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}, nil
}
