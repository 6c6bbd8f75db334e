package batch

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rbenavente/cargas-api/internal/registration"
	"github.com/rbenavente/cargas-api/internal/rut"
)

// Sheet and column names are the persisted contract with the insurer's
// intake process; they stay in Spanish.
const (
	workersSheet    = "Trabajadores"
	dependentsSheet = "Cargas Familiares"

	exportDateLayout = "02-01-06"
)

var workerHeader = []string{
	"RUT", "Nombre", "Email", "Banco", "Tipo Cuenta", "Número Cuenta", "Fecha Registro",
}

var dependentHeaderShort = []string{
	"RUT Trabajador", "Nombre Trabajador",
	"Tipo Carga", "RUT Carga", "Nombre Carga", "Fecha Nacimiento", "Edad",
}

var dependentHeaderFull = []string{
	"RUT Trabajador", "Nombre Trabajador", "Email Trabajador", "Banco", "Tipo Cuenta", "Número Cuenta",
	"Tipo Carga", "RUT Carga", "Nombre Carga", "Fecha Nacimiento", "Edad",
}

// BuildWorkbook renders the two-sheet insurer export. With fullDetail the
// dependents sheet carries the worker's email and bank columns (the admin
// full download); without it, the slimmer batch layout. Late additions,
// if any, are appended to the dependents sheet after the regular rows.
func BuildWorkbook(regs []*registration.Registration, late []*LateAddition, fullDetail bool) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := writeWorkersSheet(f, regs); err != nil {
		return nil, err
	}
	if err := writeDependentsSheet(f, regs, late, fullDetail); err != nil {
		return nil, err
	}

	f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex(workersSheet); err == nil {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

func writeWorkersSheet(f *excelize.File, regs []*registration.Registration) error {
	if _, err := f.NewSheet(workersSheet); err != nil {
		return err
	}
	if err := writeHeader(f, workersSheet, workerHeader); err != nil {
		return err
	}

	for i, reg := range regs {
		row := []interface{}{
			rut.FormatDisplay(reg.EmployeeRUT),
			reg.EmployeeName,
			reg.Email,
			deref(reg.BankName),
			deref(reg.AccountType),
			deref(reg.AccountNumber),
			reg.CreatedAt.Format(exportDateLayout),
		}
		if err := setRow(f, workersSheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeDependentsSheet(f *excelize.File, regs []*registration.Registration, late []*LateAddition, fullDetail bool) error {
	if _, err := f.NewSheet(dependentsSheet); err != nil {
		return err
	}

	header := dependentHeaderShort
	if fullDetail {
		header = dependentHeaderFull
	}
	if err := writeHeader(f, dependentsSheet, header); err != nil {
		return err
	}

	rowNum := 2
	for _, reg := range regs {
		for _, dep := range reg.Dependents {
			if !dep.Active {
				continue
			}
			row := dependentRow(reg.EmployeeRUT, reg.EmployeeName, reg, dep, fullDetail)
			if err := setRow(f, dependentsSheet, rowNum, row); err != nil {
				return err
			}
			rowNum++
		}
	}

	for _, add := range late {
		row := dependentRow(add.EmployeeRUT, add.EmployeeName, nil, add.Dependent, fullDetail)
		if err := setRow(f, dependentsSheet, rowNum, row); err != nil {
			return err
		}
		rowNum++
	}
	return nil
}

func dependentRow(employeeRUT, employeeName string, reg *registration.Registration, dep *registration.Dependent, fullDetail bool) []interface{} {
	row := []interface{}{
		rut.FormatDisplay(employeeRUT),
		employeeName,
	}
	if fullDetail {
		email, bank, accType, accNum := "", "", "", ""
		if reg != nil {
			email = reg.Email
			bank = deref(reg.BankName)
			accType = deref(reg.AccountType)
			accNum = deref(reg.AccountNumber)
		}
		row = append(row, email, bank, accType, accNum)
	}
	return append(row,
		dep.Relationship,
		rut.FormatDisplay(dep.RUT),
		dep.Name,
		dep.BirthDate.Format(exportDateLayout),
		dep.AgeAtRegistration,
	)
}

func writeHeader(f *excelize.File, sheet string, header []string) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	for i, title := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", rowNum, sheet, err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ExportFileName builds the timestamped artifact name used for both the
// admin download and the mail attachment.
func ExportFileName(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, now.Format("20060102_150405"))
}
