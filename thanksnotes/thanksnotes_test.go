package thanksnotes_test

import (
	"context"
	"errors"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	errs "github.com/giberode/gib/errors"
	"github.com/giberode/gib/members"
	"github.com/giberode/gib/remote"
	remoteTest "github.com/giberode/gib/remote/test"
	"github.com/giberode/gib/session"
	sessionTest "github.com/giberode/gib/session/test"
	"github.com/giberode/gib/store"
	"github.com/giberode/gib/test"
	"github.com/giberode/gib/thanksnotes"
)

var _ = Describe("Thanks notes", func() {
	var backend *remoteTest.BackendServer
	var sessions *session.Manager
	var service *thanksnotes.Service
	var current session.Session
	ctx := context.Background()

	BeforeEach(func() {
		backend = remoteTest.ServerStub()
		client, err := remote.NewClient(backend.Config(), zap.NewNop().Sugar())
		Expect(err).ToNot(HaveOccurred())

		sessions = session.NewManager(store.NewMemoryDatabase(), zap.NewNop().Sugar())
		current = sessionTest.RandomSession()
		_, err = sessions.Create(ctx, current)
		Expect(err).ToNot(HaveOccurred())

		recipients, err := members.NewService(client, sessions, zap.NewNop().Sugar())
		Expect(err).ToNot(HaveOccurred())
		service = thanksnotes.NewService(client, recipients, sessions, zap.NewNop().Sugar())
	})

	AfterEach(func() {
		backend.Close()
	})

	Describe("Totals", func() {
		It("returns the given and taken totals", func() {
			backend.RespondJSON("thanksnotecalculationv2.php", `{"status": "success", "total_given": "12,500", "total_taken": 3000}`)

			totals, err := service.Totals(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(totals).To(Equal(thanksnotes.Totals{Given: 12500, Taken: 3000}))
			Expect(backend.Requests("thanksnotecalculationv2.php")[0].JSON).To(HaveKeyWithValue("phone", current.Phone))
		})

		It("reports no data when the status is not success", func() {
			backend.RespondJSON("thanksnotecalculationv2.php", `{"status": "error"}`)

			_, err := service.Totals(ctx)
			Expect(errs.Message(err)).To(Equal("No data found"))
		})

		It("reports a failed fetch", func() {
			backend.Respond("thanksnotecalculationv2.php", http.StatusInternalServerError, "")

			_, err := service.Totals(ctx)
			Expect(errs.Message(err)).To(Equal("Failed to fetch data"))
			Expect(errors.Is(err, errs.Network)).To(BeTrue())
		})

		It("requires a stored phone", func() {
			Expect(sessions.Clear(ctx)).To(Succeed())

			_, err := service.Totals(ctx)
			Expect(errs.Message(err)).To(Equal("Phone number not found"))
			Expect(backend.Count("thanksnotecalculationv2.php")).To(Equal(0))
		})
	})

	Describe("Calculation", func() {
		It("posts the phone as a form", func() {
			backend.RespondJSON("thanksnote_calculation.php", `{"status": "success", "data": {"total_given": 500, "total_taken": "1,200"}}`)

			totals, err := service.Calculation(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(totals).To(Equal(thanksnotes.Totals{Given: 500, Taken: 1200}))
			Expect(backend.Requests("thanksnote_calculation.php")[0].Form.Get("phone")).To(Equal(current.Phone))
		})

		It("returns the backend message on failure", func() {
			backend.RespondJSON("thanksnote_calculation.php", `{"status": "error", "message": "No stats yet"}`)

			_, err := service.Calculation(ctx)
			Expect(errs.Message(err)).To(Equal("No stats yet"))
		})
	})

	Describe("BusinessTotal", func() {
		It("returns the total of all members", func() {
			backend.RespondJSON("thanksnoteservealldata.php", `{"status": "success", "total_business_amount": "1,00,000"}`)

			total, err := service.BusinessTotal(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(total).To(Equal(100000.0))
		})

		It("rejects an unsuccessful response", func() {
			backend.RespondJSON("thanksnoteservealldata.php", `{"status": "error"}`)

			_, err := service.BusinessTotal(ctx)
			Expect(errs.Message(err)).To(Equal("Invalid response from server"))
		})
	})

	Describe("Submit", func() {
		var recipient string

		BeforeEach(func() {
			recipient = test.RandomPhone()
			for recipient == current.Phone {
				recipient = test.RandomPhone()
			}
			backend.RespondJSON("search_userbyname.php", map[string]any{
				"success": true,
				"users": []map[string]any{
					{"name": "Kavin", "phone": recipient, "business_name": "Kavin Motors"},
				},
			})
		})

		It("resolves the recipient once from the recipients list", func() {
			backend.RespondJSON("thanksnote_attach.php", `{"status": "success"}`)
			backend.RespondJSON("admin-dashboard/auto_noti.php", `{"success": true}`)

			message, err := service.Submit(ctx, thanksnotes.Submission{ToPhone: recipient, Amount: 100, Direction: thanksnotes.Given})
			Expect(err).ToNot(HaveOccurred())
			Expect(message).To(Equal("Thanks note submitted to Kavin"))

			_, err = service.Submit(ctx, thanksnotes.Submission{ToPhone: recipient, Amount: 200, Direction: thanksnotes.Taken})
			Expect(err).ToNot(HaveOccurred())
			Expect(backend.Count("search_userbyname.php")).To(Equal(1))
			Expect(backend.Count("thanksnote_attach.php")).To(Equal(2))
		})

		It("rejects a recipient that is not a member", func() {
			stranger := "9111111111"
			for stranger == current.Phone || stranger == recipient {
				stranger = test.RandomPhone()
			}

			_, err := service.Submit(ctx, thanksnotes.Submission{ToPhone: stranger, Amount: 100, Direction: thanksnotes.Given})
			Expect(err).To(MatchError(members.ErrUnknownMember))
			Expect(backend.Count("thanksnote_attach.php")).To(Equal(0))
		})

		It("fails when the recipients cannot be fetched", func() {
			backend.Respond("search_userbyname.php", http.StatusInternalServerError, "")

			_, err := service.Submit(ctx, thanksnotes.Submission{ToPhone: recipient, Amount: 100, Direction: thanksnotes.Given})
			Expect(errors.Is(err, errs.Network)).To(BeTrue())
			Expect(backend.Count("thanksnote_attach.php")).To(Equal(0))
		})

		It("submits the note and notifies the recipient", func() {
			backend.RespondJSON("thanksnote_attach.php", `{"status": "success", "message": "Saved"}`)
			backend.RespondJSON("admin-dashboard/auto_noti.php", `{"success": true}`)

			message, err := service.Submit(ctx, thanksnotes.Submission{ToPhone: recipient, Amount: 2500, Direction: thanksnotes.Given})
			Expect(err).ToNot(HaveOccurred())
			Expect(message).To(Equal("Saved"))

			submitted := backend.Requests("thanksnote_attach.php")
			Expect(submitted).To(HaveLen(1))
			Expect(submitted[0].Form.Get("from_phone")).To(Equal(current.Phone))
			Expect(submitted[0].Form.Get("to_phone")).To(Equal(recipient))
			Expect(submitted[0].Form.Get("business_amount")).To(Equal("2500"))

			notified := backend.Requests("admin-dashboard/auto_noti.php")
			Expect(notified).To(HaveLen(1))
			Expect(notified[0].JSON).To(HaveKeyWithValue("phone", recipient))
			Expect(notified[0].JSON["body"]).To(ContainSubstring("Given ₹2500"))
		})

		It("succeeds when the notification fails", func() {
			backend.RespondJSON("thanksnote_attach.php", `{"status": "success"}`)
			backend.Respond("admin-dashboard/auto_noti.php", http.StatusInternalServerError, "")

			_, err := service.Submit(ctx, thanksnotes.Submission{ToPhone: recipient, Amount: 10, Direction: thanksnotes.Taken})
			Expect(err).ToNot(HaveOccurred())
		})

		It("returns the backend message on failure", func() {
			backend.RespondJSON("thanksnote_attach.php", `{"status": "error", "message": "Invalid file type"}`)

			_, err := service.Submit(ctx, thanksnotes.Submission{ToPhone: recipient, Amount: 10, Direction: thanksnotes.Given})
			Expect(errs.Message(err)).To(Equal("Invalid file type"))
			Expect(backend.Count("admin-dashboard/auto_noti.php")).To(Equal(0))
		})

		DescribeTable("validation",
			func(submission func() thanksnotes.Submission, expected error) {
				_, err := service.Submit(ctx, submission())
				Expect(err).To(MatchError(expected))
				Expect(backend.Count("thanksnote_attach.php")).To(Equal(0))
			},
			Entry("recipient", func() thanksnotes.Submission {
				return thanksnotes.Submission{Amount: 10, Direction: thanksnotes.Given}
			}, thanksnotes.ErrMissingFields),
			Entry("amount", func() thanksnotes.Submission {
				return thanksnotes.Submission{ToPhone: recipient, Amount: 0, Direction: thanksnotes.Given}
			}, thanksnotes.ErrInvalidAmount),
			Entry("negative amount", func() thanksnotes.Submission {
				return thanksnotes.Submission{ToPhone: recipient, Amount: -5, Direction: thanksnotes.Given}
			}, thanksnotes.ErrInvalidAmount),
			Entry("direction", func() thanksnotes.Submission {
				return thanksnotes.Submission{ToPhone: recipient, Amount: 10, Direction: "Borrowed"}
			}, thanksnotes.ErrInvalidDirection),
			Entry("self", func() thanksnotes.Submission {
				return thanksnotes.Submission{ToPhone: current.Phone, Amount: 10, Direction: thanksnotes.Given}
			}, thanksnotes.ErrSelfNote),
		)
	})

	Describe("History", func() {
		BeforeEach(func() {
			backend.RespondJSON("thanksnotehistoryv2.php", `{"status": "success", "data": [
				{"id": 1, "type": "Given", "name": "Arun", "business_amount": "1000", "created_at": "2025-06-01"},
				{"id": 2, "type": "Taken", "name": "Bala", "business_amount": 250, "created_at": "2025-06-02"},
				{"id": 3, "type": "Given", "name": "Chitra", "business_amount": 500, "created_at": "2025-06-03"}
			]}`)
		})

		It("filters by direction", func() {
			all, err := service.History(ctx, thanksnotes.FilterAll)
			Expect(err).ToNot(HaveOccurred())
			Expect(all).To(HaveLen(3))

			given, err := service.History(ctx, thanksnotes.FilterGiven)
			Expect(err).ToNot(HaveOccurred())
			Expect(given).To(HaveLen(2))

			taken, err := service.History(ctx, thanksnotes.FilterTaken)
			Expect(err).ToNot(HaveOccurred())
			Expect(taken).To(HaveLen(1))
			Expect(taken[0].Name).To(Equal("Bala"))
		})

		It("rejects unknown filters", func() {
			_, err := service.History(ctx, "Borrowed")
			Expect(err).To(MatchError(thanksnotes.ErrInvalidFilter))
		})

		It("edits a note", func() {
			backend.RespondJSON("thanksnotehistoryv2.php", `{"status": "success"}`)

			Expect(service.Edit(ctx, "2", 300, "Team A")).To(Succeed())
			requests := backend.Requests("thanksnotehistoryv2.php")
			Expect(requests[0].Method).To(Equal(http.MethodPut))
			Expect(requests[0].JSON).To(HaveKeyWithValue("business_amount", "300"))
		})

		It("deletes a note", func() {
			backend.RespondJSON("thanksnotehistoryv2.php", `{"status": "success"}`)

			Expect(service.Delete(ctx, "2")).To(Succeed())
			requests := backend.Requests("thanksnotehistoryv2.php")
			Expect(requests[0].Method).To(Equal(http.MethodDelete))
			Expect(requests[0].JSON).To(HaveKeyWithValue("id", "2"))
		})

		It("requires an id to edit or delete", func() {
			Expect(service.Edit(ctx, "", 300, "")).To(MatchError(thanksnotes.ErrMissingIdentifier))
			Expect(service.Delete(ctx, "")).To(MatchError(thanksnotes.ErrMissingIdentifier))
		})

		It("exports the history", func() {
			items, err := service.History(ctx, thanksnotes.FilterAll)
			Expect(err).ToNot(HaveOccurred())

			file, err := thanksnotes.NewReport(items).Generate()
			Expect(err).ToNot(HaveOccurred())

			m, err := file.ToSlice()
			Expect(err).ToNot(HaveOccurred())
			Expect(m).To(HaveLen(2))
			Expect(m[0]).To(HaveLen(4))
			Expect(m[0][0][0]).To(Equal("Date"))
			Expect(m[0][2][2]).To(Equal("Bala"))
			Expect(m[1][1][0]).To(Equal("Total Given"))
			Expect(m[1][1][1]).To(Equal("1500"))
		})
	})
})
