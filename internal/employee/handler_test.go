package employee_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/go-chi/chi"

	internal "github.com/frahmantamala/employee-records/internal"
	"github.com/frahmantamala/employee-records/internal/employee"
)

// Stub service for handler tests
type stubService struct {
	createdDTO      *employee.CreateEmployeeDTO
	createdDocument *employee.DocumentUpload
	createResult    *employee.Employee
	createError     error

	updateID       string
	updateDocument *employee.DocumentUpload
	updateError    error

	deletedIDs  []string
	deleteError error

	getError error

	proofContent []byte
	proofError   error

	searchCriteria *employee.SearchCriteria
	searchPage     int
	searchSize     int
}

func (s *stubService) Create(dto employee.CreateEmployeeDTO, document *employee.DocumentUpload) (*employee.Employee, error) {
	s.createdDTO = &dto
	s.createdDocument = document
	if s.createError != nil {
		return nil, s.createError
	}
	if s.createResult != nil {
		return s.createResult, nil
	}
	return &employee.Employee{EmployeeID: "123451", LoginID: "jd"}, nil
}

func (s *stubService) UpdateDocument(employeeID string, document *employee.DocumentUpload) (*employee.Employee, error) {
	s.updateID = employeeID
	s.updateDocument = document
	if s.updateError != nil {
		return nil, s.updateError
	}
	return &employee.Employee{EmployeeID: employeeID}, nil
}

func (s *stubService) Delete(employeeIDs []string) error {
	s.deletedIDs = employeeIDs
	return s.deleteError
}

func (s *stubService) GetByID(id string) (*employee.Employee, error) {
	if s.getError != nil {
		return nil, s.getError
	}
	return &employee.Employee{EmployeeID: id}, nil
}

func (s *stubService) OpenIDProof(employeeID string) (io.ReadCloser, error) {
	if s.proofError != nil {
		return nil, s.proofError
	}
	return io.NopCloser(bytes.NewReader(s.proofContent)), nil
}

func (s *stubService) Search(criteria employee.SearchCriteria, page, size int) (*employee.SearchResult, error) {
	s.searchCriteria = &criteria
	s.searchPage = page
	s.searchSize = size
	return &employee.SearchResult{
		Employees: []*employee.Employee{},
		Page:      page,
		Size:      size,
		Criteria:  criteria,
	}, nil
}

func newTestRouter(service employee.ServiceAPI) chi.Router {
	handler := employee.NewHandler(service)
	router := chi.NewRouter()
	router.Route("/employees", func(r chi.Router) {
		r.Post("/", handler.CreateEmployee)
		r.Get("/", handler.SearchEmployees)
		r.Post("/delete", handler.DeleteEmployees)
		r.Get("/{id}", handler.GetEmployee)
		r.Patch("/{id}/id-proof", handler.UpdateIDProof)
		r.Get("/{id}/id-proof", handler.DownloadIDProof)
	})
	return router
}

type formField struct {
	name  string
	value string
}

func multipartBody(fields []formField, fileContent []byte) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, field := range fields {
		Expect(writer.WriteField(field.name, field.value)).To(Succeed())
	}

	if fileContent != nil {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="idProof"; filename="proof.pdf"`)
		header.Set("Content-Type", "application/pdf")
		part, err := writer.CreatePart(header)
		Expect(err).ToNot(HaveOccurred())
		_, err = part.Write(fileContent)
		Expect(err).ToNot(HaveOccurred())
	}

	Expect(writer.Close()).To(Succeed())
	return body, writer.FormDataContentType()
}

func createFormFields() []formField {
	return []formField{
		{"firstName", "John"},
		{"lastName", "Doe"},
		{"dateOfBirth", "1990-05-20"},
		{"department", "Engineering"},
		{"salary", "75000"},
		{"permanentAddress", "12 Main Street"},
		{"currentAddress", "34 Side Street"},
	}
}

var _ = Describe("EmployeeHandler", func() {
	var (
		service *stubService
		router  chi.Router
	)

	BeforeEach(func() {
		service = &stubService{}
		router = newTestRouter(service)
	})

	Describe("POST /employees", func() {
		It("should parse the form and hand the upload to the service", func() {
			body, contentType := multipartBody(createFormFields(), []byte("%PDF-1.4 test"))

			req := httptest.NewRequest(http.MethodPost, "/employees", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusCreated))

			Expect(service.createdDTO).ToNot(BeNil())
			Expect(service.createdDTO.FirstName).To(Equal("John"))
			Expect(service.createdDTO.Salary).To(Equal(75000.0))
			Expect(service.createdDTO.DateOfBirth.Format("2006-01-02")).To(Equal("1990-05-20"))

			Expect(service.createdDocument).ToNot(BeNil())
			Expect(service.createdDocument.ContentType).To(Equal("application/pdf"))
			Expect(service.createdDocument.Content).To(Equal([]byte("%PDF-1.4 test")))

			var created employee.Employee
			Expect(json.Unmarshal(rec.Body.Bytes(), &created)).To(Succeed())
			Expect(created.EmployeeID).To(Equal("123451"))
		})

		It("should pass a missing file through as a nil document", func() {
			body, contentType := multipartBody(createFormFields(), nil)

			req := httptest.NewRequest(http.MethodPost, "/employees", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(service.createdDocument).To(BeNil())
		})

		It("should reject a malformed date of birth before calling the service", func() {
			fields := createFormFields()
			fields[2] = formField{"dateOfBirth", "20-05-1990"}
			body, contentType := multipartBody(fields, []byte("%PDF-1.4 test"))

			req := httptest.NewRequest(http.MethodPost, "/employees", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(service.createdDTO).To(BeNil())
		})

		It("should map validation errors from the service to 400 with the error body", func() {
			service.createError = internal.NewValidationError("ID proof file is required", internal.ErrCodeIDProofRequired)
			body, contentType := multipartBody(createFormFields(), nil)

			req := httptest.NewRequest(http.MethodPost, "/employees", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(rec.Body.String()).To(ContainSubstring("ID_PROOF_REQUIRED"))
		})

		It("should map retry exhaustion to 503", func() {
			service.createError = internal.NewResourceExhaustedError(
				"Unable to generate a unique login ID after 1000 attempts", internal.ErrCodeLoginIDExhausted)
			body, contentType := multipartBody(createFormFields(), []byte("%PDF-1.4 test"))

			req := httptest.NewRequest(http.MethodPost, "/employees", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
		})
	})

	Describe("GET /employees/{id}", func() {
		It("should return the employee as JSON", func() {
			req := httptest.NewRequest(http.MethodGet, "/employees/123451", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring("123451"))
		})

		It("should map an unknown ID to 404", func() {
			service.getError = internal.ErrEmployeeNotFound

			req := httptest.NewRequest(http.MethodGet, "/employees/999991", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(rec.Body.String()).To(ContainSubstring("EMPLOYEE_NOT_FOUND"))
		})
	})

	Describe("PATCH /employees/{id}/id-proof", func() {
		It("should pass the path ID and the upload to the service", func() {
			body, contentType := multipartBody(nil, []byte("%PDF-1.4 replacement"))

			req := httptest.NewRequest(http.MethodPatch, "/employees/123451/id-proof", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(service.updateID).To(Equal("123451"))
			Expect(service.updateDocument).ToNot(BeNil())
			Expect(service.updateDocument.Content).To(Equal([]byte("%PDF-1.4 replacement")))
		})
	})

	Describe("GET /employees/{id}/id-proof", func() {
		It("should stream the PDF with the right content type", func() {
			service.proofContent = []byte("%PDF-1.4 stored")

			req := httptest.NewRequest(http.MethodGet, "/employees/123451/id-proof", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(Equal("application/pdf"))
			Expect(rec.Body.Bytes()).To(Equal([]byte("%PDF-1.4 stored")))
		})

		It("should map a missing document to 404", func() {
			service.proofError = internal.ErrIDProofNotFound

			req := httptest.NewRequest(http.MethodGet, "/employees/123451/id-proof", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("POST /employees/delete", func() {
		It("should pass the batch to the service", func() {
			payload := strings.NewReader(`{"employee_ids":["123451","678901"]}`)

			req := httptest.NewRequest(http.MethodPost, "/employees/delete", payload)
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(service.deletedIDs).To(Equal([]string{"123451", "678901"}))
		})

		It("should map an empty selection to 400", func() {
			service.deleteError = internal.NewValidationError(
				"Please select at least one employee to delete", internal.ErrCodeEmptySelection)
			payload := strings.NewReader(`{"employee_ids":[]}`)

			req := httptest.NewRequest(http.MethodPost, "/employees/delete", payload)
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(rec.Body.String()).To(ContainSubstring("EMPTY_SELECTION"))
		})

		It("should reject a malformed body without calling the service", func() {
			req := httptest.NewRequest(http.MethodPost, "/employees/delete", strings.NewReader("{"))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(service.deletedIDs).To(BeNil())
		})
	})

	Describe("GET /employees", func() {
		It("should build criteria from the query parameters", func() {
			req := httptest.NewRequest(http.MethodGet,
				"/employees?firstName=an&department=Engineering&startDate=1990-01-01&endDate=1995-12-31&page=2&size=25", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(service.searchCriteria).ToNot(BeNil())
			Expect(service.searchCriteria.FirstName).To(Equal("an"))
			Expect(service.searchCriteria.Department).To(Equal("Engineering"))
			Expect(service.searchCriteria.StartDate.Format("2006-01-02")).To(Equal("1990-01-01"))
			Expect(service.searchCriteria.EndDate.Format("2006-01-02")).To(Equal("1995-12-31"))
			Expect(service.searchPage).To(Equal(2))
			Expect(service.searchSize).To(Equal(25))
		})

		It("should fall back to default paging for bad values", func() {
			req := httptest.NewRequest(http.MethodGet, "/employees?page=-1&size=9999", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(service.searchPage).To(Equal(0))
			Expect(service.searchSize).To(Equal(10))
		})

		It("should reject a malformed date filter", func() {
			req := httptest.NewRequest(http.MethodGet, "/employees?startDate=01-01-1990", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})
})
