package validation_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rbenavente/cargas-api/internal/core/validation"
)

var _ = Describe("Name", func() {
	It("accepts plain and accented names", func() {
		Expect(validation.Name("Juan Pérez")).To(BeNil())
		Expect(validation.Name("María José Núñez")).To(BeNil())
		Expect(validation.Name("O'Brien")).To(BeNil())
	})

	It("rejects empty and too short names", func() {
		Expect(validation.Name("")).ToNot(BeNil())
		Expect(validation.Name("A")).ToNot(BeNil())
	})

	It("rejects digits and symbols", func() {
		Expect(validation.Name("Juan123")).ToNot(BeNil())
		Expect(validation.Name("Juan_Pérez")).ToNot(BeNil())
	})
})

var _ = Describe("Email", func() {
	It("accepts common addresses", func() {
		Expect(validation.Email("persona@empresa.cl")).To(BeNil())
		Expect(validation.Email("a.b+c@mail.com")).To(BeNil())
	})

	It("rejects malformed addresses", func() {
		Expect(validation.Email("")).ToNot(BeNil())
		Expect(validation.Email("no-arroba.cl")).ToNot(BeNil())
	})

	It("rejects unknown domain suffixes", func() {
		Expect(validation.Email("persona@empresa.xyz")).ToNot(BeNil())
	})
})

var _ = Describe("AgeAt", func() {
	ref := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	It("counts the anniversary day as completed", func() {
		birth := time.Date(1996, 8, 28, 0, 0, 0, 0, time.UTC)
		Expect(validation.AgeAt(birth, ref)).To(Equal(30))
	})

	It("is one less the day before the anniversary", func() {
		birth := time.Date(1996, 8, 29, 0, 0, 0, 0, time.UTC)
		Expect(validation.AgeAt(birth, ref)).To(Equal(29))
	})
})

var _ = Describe("BirthDate", func() {
	It("rejects future dates", func() {
		Expect(validation.BirthDate(time.Now().AddDate(0, 0, 1), 0)).ToNot(BeNil())
	})

	It("rejects ages above 120", func() {
		Expect(validation.BirthDate(time.Date(1800, 1, 1, 0, 0, 0, 0, time.UTC), 0)).ToNot(BeNil())
	})

	It("enforces the ceiling only when given", func() {
		birth := time.Now().AddDate(-30, 0, -1)
		Expect(validation.BirthDate(birth, 25)).ToNot(BeNil())
		Expect(validation.BirthDate(birth, 0)).To(BeNil())
	})
})

var _ = Describe("AccountNumber", func() {
	It("accepts 5 to 20 digits, ignoring separators", func() {
		Expect(validation.AccountNumber("12345")).To(BeNil())
		Expect(validation.AccountNumber("123-456-789")).To(BeNil())
		Expect(validation.AccountNumber("1234 5678 9012")).To(BeNil())
	})

	It("rejects letters and wrong lengths", func() {
		Expect(validation.AccountNumber("12ab34")).ToNot(BeNil())
		Expect(validation.AccountNumber("1234")).ToNot(BeNil())
		Expect(validation.AccountNumber("123456789012345678901")).ToNot(BeNil())
		Expect(validation.AccountNumber("")).ToNot(BeNil())
	})
})

var _ = Describe("TitleCase", func() {
	It("normalizes names", func() {
		Expect(validation.TitleCase("juan PÉREZ soto")).To(Equal("Juan Pérez Soto"))
		Expect(validation.TitleCase("  maría  ")).To(Equal("María"))
	})
})
