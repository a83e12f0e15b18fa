// Package reports renders printable documents for employees.
package reports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"paydesk/internal/domain/employee"
)

type Service struct {
	employees *employee.Service
}

func NewService(employees *employee.Service) *Service {
	return &Service{employees: employees}
}

// SalaryCertificate renders a PDF attesting the employee's current salary.
// The latest salary row is optional; the certificate is still issued without
// remuneration details when none exists.
func (s *Service) SalaryCertificate(ctx context.Context, employeeID string) ([]byte, error) {
	emp, err := s.employees.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	var salary *employee.Salary
	latest, err := s.employees.LatestSalary(ctx, employeeID)
	switch {
	case err == nil:
		salary = &latest
	case errors.Is(err, employee.ErrSalaryNotFound):
	default:
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Salary Certificate")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s %s", emp.FirstName, emp.LastName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Email: %s", emp.Email))
	pdf.Ln(7)
	if emp.CompanyName != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Company: %s", *emp.CompanyName))
		pdf.Ln(7)
	}
	if emp.HireDate != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Hired: %s", emp.HireDate.Format("2006-01-02")))
		pdf.Ln(7)
	}
	if salary != nil {
		pdf.Ln(3)
		pdf.Cell(0, 8, fmt.Sprintf("Current salary: %.2f %s", salary.Amount, salary.Currency))
		pdf.Ln(7)
		pdf.Cell(0, 8, fmt.Sprintf("Effective since: %s", salary.EffectiveDate.Format("2006-01-02")))
		pdf.Ln(7)
	}
	pdf.Ln(5)
	pdf.Cell(0, 8, fmt.Sprintf("Issued: %s", time.Now().UTC().Format("2006-01-02")))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
