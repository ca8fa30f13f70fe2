package postgres

import (
	"strings"

	internal "github.com/frahmantamala/employee-records/internal"
	"github.com/frahmantamala/employee-records/internal/employee"
	"gorm.io/gorm"
)

// EmployeeRepository implements the employee.Repository interface using GORM.
type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.Repository {
	return &EmployeeRepository{db: db}
}

// FindByID loads a record with its history in append order.
func (r *EmployeeRepository) FindByID(id string) (*employee.Employee, error) {
	var emp employee.Employee
	err := r.db.Preload("History", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).Where("employee_id = ?", id).First(&emp).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &emp, nil
}

func (r *EmployeeRepository) ExistsByID(id string) (bool, error) {
	var count int64
	err := r.db.Model(&employee.Employee{}).Where("employee_id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *EmployeeRepository) ExistsByLoginID(loginID string) (bool, error) {
	var count int64
	err := r.db.Model(&employee.Employee{}).Where("login_id = ?", loginID).Count(&count).Error
	return count > 0, err
}

// Save upserts the record together with its owned history entries; freshly
// appended entries get their store-generated IDs here.
func (r *EmployeeRepository) Save(emp *employee.Employee) error {
	return r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(emp).Error
}

// DeleteByID removes the record and its history in one transaction. The
// history delete mirrors the FK cascade so stores without enforced foreign
// keys behave identically.
func (r *EmployeeRepository) DeleteByID(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", id).Delete(&employee.HistoryEntry{}).Error; err != nil {
			return err
		}
		return tx.Where("employee_id = ?", id).Delete(&employee.Employee{}).Error
	})
}

// Search applies the optional criteria and returns one zero-based page plus
// the total match count. Text criteria are case-insensitive substring
// matches; department is exact; the date-of-birth bounds are inclusive.
func (r *EmployeeRepository) Search(criteria employee.SearchCriteria, page, size int) ([]*employee.Employee, int64, error) {
	var total int64
	if err := r.applyCriteria(r.db.Model(&employee.Employee{}), criteria).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var employees []*employee.Employee
	err := r.applyCriteria(r.db.Model(&employee.Employee{}), criteria).
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Order("employee_id ASC").
		Limit(size).
		Offset(page * size).
		Find(&employees).Error
	if err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

func (r *EmployeeRepository) applyCriteria(query *gorm.DB, criteria employee.SearchCriteria) *gorm.DB {
	query = likeFilter(query, "employee_id", criteria.EmployeeID)
	query = likeFilter(query, "first_name", criteria.FirstName)
	query = likeFilter(query, "last_name", criteria.LastName)
	query = likeFilter(query, "login_id", criteria.LoginID)

	if criteria.Department != "" {
		query = query.Where("department = ?", criteria.Department)
	}
	if criteria.StartDate != nil {
		query = query.Where("date_of_birth >= ?", *criteria.StartDate)
	}
	if criteria.EndDate != nil {
		query = query.Where("date_of_birth <= ?", *criteria.EndDate)
	}

	return query
}

func likeFilter(query *gorm.DB, column, term string) *gorm.DB {
	if term == "" {
		return query
	}
	return query.Where("LOWER("+column+") LIKE ?", "%"+strings.ToLower(term)+"%")
}
