package cliui_test

import (
	"bytes"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/corpusware/corpusq/pkg/cliui"
)

var _ = Describe("Step", func() {
	It("returns the function's nil result and prints a success mark", func() {
		var buf bytes.Buffer
		err := cliui.Step(&buf, "embedding chunks", func() error { return nil })
		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).To(ContainSubstring("embedding chunks"))
		Expect(buf.String()).To(ContainSubstring(cliui.SuccessMark))
	})

	It("propagates the function's error and prints a failure mark", func() {
		var buf bytes.Buffer
		wantErr := errors.New("collection rejected")
		err := cliui.Step(&buf, "creating collection", func() error { return wantErr })
		Expect(err).To(MatchError(wantErr))
		Expect(buf.String()).To(ContainSubstring(cliui.FailMark))
	})
})

var _ = Describe("Mark", func() {
	It("marks nil as success", func() {
		Expect(cliui.Mark(nil)).To(Equal(cliui.SuccessMark))
	})

	It("marks errors as failure", func() {
		Expect(cliui.Mark(errors.New("boom"))).To(Equal(cliui.FailMark))
	})
})

var _ = Describe("FormatDuration", func() {
	It("formats sub-second durations in milliseconds", func() {
		Expect(cliui.FormatDuration(250 * time.Millisecond)).To(Equal("250ms"))
	})

	It("formats second-scale durations with one decimal", func() {
		Expect(cliui.FormatDuration(3200 * time.Millisecond)).To(Equal("3.2s"))
	})
})
