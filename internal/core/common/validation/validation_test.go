package validation_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internal "github.com/frahmantamala/employee-records/internal"
	"github.com/frahmantamala/employee-records/internal/core/common/validation"
)

func TestValidation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Validation Suite")
}

var _ = Describe("AgeAt", func() {
	It("should count full calendar years only", func() {
		dob := time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC)

		Expect(validation.AgeAt(dob, time.Date(2008, 5, 19, 0, 0, 0, 0, time.UTC))).To(Equal(17))
		Expect(validation.AgeAt(dob, time.Date(2008, 5, 20, 0, 0, 0, 0, time.UTC))).To(Equal(18))
		Expect(validation.AgeAt(dob, time.Date(2008, 5, 21, 0, 0, 0, 0, time.UTC))).To(Equal(18))
	})

	It("should not round up across month boundaries", func() {
		dob := time.Date(2000, 12, 31, 0, 0, 0, 0, time.UTC)

		Expect(validation.AgeAt(dob, time.Date(2018, 12, 30, 0, 0, 0, 0, time.UTC))).To(Equal(17))
		Expect(validation.AgeAt(dob, time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC))).To(Equal(18))
	})
})

var _ = Describe("ValidationBuilder", func() {
	It("should aggregate every failing field into one error", func() {
		v := validation.NewValidator()
		v.Field("first_name", "").Required()
		v.Field("salary", -1.0).NonNegative()

		err := v.Validate()

		Expect(err).ToNot(BeNil())
		Expect(err.Type).To(Equal(internal.ErrorTypeValidation))
		details, ok := err.Details.(internal.ValidationErrors)
		Expect(ok).To(BeTrue())
		Expect(details.Errors).To(HaveLen(2))
	})

	It("should pass when every rule holds", func() {
		v := validation.NewValidator()
		v.Field("first_name", "Anna").Required().MaxLength(100)
		v.Field("date_of_birth", time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC)).Required().NotFuture().MinAge(18)

		Expect(v.Validate()).To(BeNil())
	})

	It("should reject future dates of birth", func() {
		v := validation.NewValidator()
		v.Field("date_of_birth", time.Now().AddDate(1, 0, 0)).NotFuture()

		err := v.Validate()

		Expect(err).ToNot(BeNil())
		Expect(err.GetDetailedMessage()).To(ContainSubstring("future"))
	})
})
