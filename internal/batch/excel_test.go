package batch_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rbenavente/cargas-api/internal/batch"
	"github.com/rbenavente/cargas-api/internal/registration"
)

var _ = Describe("BuildWorkbook", func() {
	sampleRegs := func() []*registration.Registration {
		bank := "Banco Estado"
		return []*registration.Registration{
			{
				ID:           1,
				EmployeeRUT:  "123456785",
				EmployeeName: "María González",
				Email:        "maria@empresa.cl",
				BankName:     &bank,
				CreatedAt:    time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
				Active:       true,
				Dependents: []*registration.Dependent{
					{
						Relationship:      registration.RelationshipChild,
						RUT:               "98765433",
						Name:              "Pedro Soto",
						BirthDate:         time.Date(2022, 3, 15, 0, 0, 0, 0, time.UTC),
						AgeAtRegistration: 4,
						Active:            true,
					},
					{
						Relationship: registration.RelationshipChild,
						RUT:          "14123456K",
						Name:         "Carga Eliminada",
						Active:       false,
					},
				},
			},
		}
	}

	It("should write both sheets with the insurer's column layout", func() {
		f, err := batch.BuildWorkbook(sampleRegs(), nil, false)
		Expect(err).ToNot(HaveOccurred())
		defer f.Close()

		Expect(f.GetSheetList()).To(ConsistOf("Trabajadores", "Cargas Familiares"))

		rows, err := f.GetRows("Trabajadores")
		Expect(err).ToNot(HaveOccurred())
		Expect(rows).To(HaveLen(2))
		Expect(rows[0][:3]).To(Equal([]string{"RUT", "Nombre", "Email"}))
		Expect(rows[1][0]).To(Equal("12.345.678-5"))
		Expect(rows[1][6]).To(Equal("20-08-26"))
	})

	It("should skip removed dependents", func() {
		f, err := batch.BuildWorkbook(sampleRegs(), nil, false)
		Expect(err).ToNot(HaveOccurred())
		defer f.Close()

		rows, err := f.GetRows("Cargas Familiares")
		Expect(err).ToNot(HaveOccurred())
		Expect(rows).To(HaveLen(2))
		Expect(rows[1]).To(Equal([]string{
			"12.345.678-5", "María González", "Hijo", "9.876.543-3", "Pedro Soto", "15-03-22", "4",
		}))
	})

	It("should append late additions after the regular dependent rows", func() {
		late := []*batch.LateAddition{
			{
				Dependent: &registration.Dependent{
					Relationship:      registration.RelationshipSpouse,
					RUT:               "18456789K",
					Name:              "Camila Rojas",
					BirthDate:         time.Date(1990, 6, 1, 0, 0, 0, 0, time.UTC),
					AgeAtRegistration: 36,
					Active:            true,
				},
				EmployeeRUT:  "98765433",
				EmployeeName: "Juan Soto",
			},
		}

		f, err := batch.BuildWorkbook(sampleRegs(), late, false)
		Expect(err).ToNot(HaveOccurred())
		defer f.Close()

		rows, err := f.GetRows("Cargas Familiares")
		Expect(err).ToNot(HaveOccurred())
		Expect(rows).To(HaveLen(3))
		Expect(rows[2][0]).To(Equal("9.876.543-3"))
		Expect(rows[2][2]).To(Equal("Cónyuge"))
		Expect(rows[2][4]).To(Equal("Camila Rojas"))
	})

	It("should carry the worker bank columns in the full-detail layout", func() {
		f, err := batch.BuildWorkbook(sampleRegs(), nil, true)
		Expect(err).ToNot(HaveOccurred())
		defer f.Close()

		rows, err := f.GetRows("Cargas Familiares")
		Expect(err).ToNot(HaveOccurred())
		Expect(rows[0]).To(HaveLen(11))
		Expect(rows[0][2]).To(Equal("Email Trabajador"))
		Expect(rows[1][2]).To(Equal("maria@empresa.cl"))
		Expect(rows[1][3]).To(Equal("Banco Estado"))
	})
})
