package utils

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Truncate", func() {
	It("keeps short strings intact", func() {
		Expect(Truncate("alpha", 20)).To(Equal("alpha"))
	})

	It("keeps strings exactly at the limit intact", func() {
		Expect(Truncate("alpha", 5)).To(Equal("alpha"))
	})

	It("appends an ellipsis when truncating", func() {
		Expect(Truncate("alpha text beta text", 10)).To(Equal("alpha text..."))
	})

	It("handles the empty string", func() {
		Expect(Truncate("", 4)).To(Equal(""))
	})
})
