package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample employee records for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			if _, err := db.Exec("DELETE FROM employee_histories"); err != nil {
				log.Fatalf("failed to clear employee histories: %v", err)
			}
			if _, err := db.Exec("DELETE FROM employees"); err != nil {
				log.Fatalf("failed to clear employees: %v", err)
			}
			fmt.Println("Cleared existing employee data")
		}

		seedEmployees := []struct {
			EmployeeID  string
			FirstName   string
			LastName    string
			LoginID     string
			DateOfBirth string
			Department  string
			Salary      float64
		}{
			{"104821", "Anna", "Kowalski", "ak", "1991-03-14", "Engineering", 78000},
			{"235911", "Juan", "Moreno", "jm", "1987-11-02", "Finance", 64000},
			{"478231", "Marianne", "Dubois", "md", "1993-06-30", "Engineering", 81000},
		}

		for _, e := range seedEmployees {
			var exists int
			row := db.QueryRow("SELECT 1 FROM employees WHERE employee_id = $1", e.EmployeeID)
			if err := row.Scan(&exists); err == nil {
				fmt.Printf("employee %s already exists; skipping\n", e.EmployeeID)
				continue
			}

			if _, err := db.Exec(
				`INSERT INTO employees (employee_id, first_name, last_name, login_id, date_of_birth, department, salary, permanent_address, current_address, created_at, updated_at)
				 VALUES ($1, $2, $3, $4, $5::date, $6, $7, '', '', now(), now())`,
				e.EmployeeID, e.FirstName, e.LastName, e.LoginID, e.DateOfBirth, e.Department, e.Salary,
			); err != nil {
				log.Fatalf("failed to insert employee %s: %v", e.EmployeeID, err)
			}

			if _, err := db.Exec(
				`INSERT INTO employee_histories (employee_id, action, "timestamp") VALUES ($1, $2, $3)`,
				e.EmployeeID, "CREATED", time.Now(),
			); err != nil {
				log.Fatalf("failed to insert history for %s: %v", e.EmployeeID, err)
			}

			fmt.Println("Seeded employee:", e.EmployeeID)
		}
	},
}
