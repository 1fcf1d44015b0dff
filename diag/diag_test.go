package diag_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kahefi/triplestore/diag"
)

var _ = Describe("CollectingSink", func() {
	It("records warnings with a correlation id", func() {
		sink := &diag.CollectingSink{}
		diag.Warnf(sink, diag.KindUnknownFilterFunction, "bogus()")
		Expect(sink.Warnings).To(HaveLen(1))
		Expect(sink.Warnings[0].Kind).To(Equal(diag.KindUnknownFilterFunction))
		Expect(sink.Warnings[0].ID).NotTo(BeEmpty())
	})
})

var _ = Describe("Warnf with a nil sink", func() {
	It("does not panic", func() {
		Expect(func() { diag.Warnf(nil, diag.KindInvalidPattern, "x") }).NotTo(Panic())
	})
})
