package notice_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/giberode/gib/notice"
)

var _ = Describe("Board", func() {
	var board *notice.Board

	BeforeEach(func() {
		board = notice.NewBoard(2, zap.NewNop().Sugar())
	})

	It("drains notices in order", func() {
		board.Post(notice.Info, "", "first")
		board.Post(notice.Error, "Error", "second")
		Expect(board.Len()).To(Equal(2))

		notices := board.Drain()
		Expect(notices).To(HaveLen(2))
		Expect(notices[0].Text).To(Equal("first"))
		Expect(notices[1].Level).To(Equal(notice.Error))
		Expect(board.Len()).To(Equal(0))
	})

	It("drops the oldest notice when full", func() {
		board.Post(notice.Info, "", "first")
		board.Post(notice.Info, "", "second")
		board.Post(notice.Info, "", "third")

		notices := board.Drain()
		Expect(notices).To(HaveLen(2))
		Expect(notices[0].Text).To(Equal("second"))
		Expect(notices[1].Text).To(Equal("third"))
	})

	It("returns an empty slice when there is nothing to drain", func() {
		Expect(board.Drain()).To(BeEmpty())
	})
})
