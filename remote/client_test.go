package remote_test

import (
	"context"
	"errors"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	errs "github.com/giberode/gib/errors"
	"github.com/giberode/gib/remote"
	remoteTest "github.com/giberode/gib/remote/test"
	"github.com/giberode/gib/test"
)

var _ = Describe("Client", func() {
	var backend *remoteTest.BackendServer
	var client *remote.Client
	var phone string
	ctx := context.Background()

	BeforeEach(func() {
		var err error
		backend = remoteTest.ServerStub()
		client, err = remote.NewClient(backend.Config(), zap.NewNop().Sugar())
		Expect(err).ToNot(HaveOccurred())
		phone = test.RandomPhone()
	})

	AfterEach(func() {
		backend.Close()
	})

	It("rejects a base url without a host", func() {
		_, err := remote.NewClient(&remote.Config{BaseURL: "giberode_app"}, zap.NewNop().Sugar())
		Expect(err).To(HaveOccurred())
	})

	Describe("Login", func() {
		It("posts the phone as json and decodes the user", func() {
			backend.RespondJSON("login.php", map[string]any{
				"status": "success",
				"user": map[string]any{
					"phone":         9876543210,
					"name":          "Kumar",
					"role":          "Executive",
					"profile_image": nil,
				},
			})

			res, err := client.Login(ctx, "9876543210")
			Expect(err).ToNot(HaveOccurred())
			Expect(res.Registered()).To(BeTrue())
			Expect(res.User.Phone.String()).To(Equal("9876543210"))
			Expect(res.User.Role).To(Equal("Executive"))

			requests := backend.Requests("login.php")
			Expect(requests).To(HaveLen(1))
			Expect(requests[0].Method).To(Equal(http.MethodPost))
			Expect(requests[0].JSON).To(HaveKeyWithValue("phone", "9876543210"))
		})

		It("reports unregistered phones", func() {
			backend.RespondJSON("login.php", map[string]any{"status": "error", "message": "User not found"})

			res, err := client.Login(ctx, phone)
			Expect(err).ToNot(HaveOccurred())
			Expect(res.Registered()).To(BeFalse())
		})

		It("fails with a parse error when the user has no phone", func() {
			backend.RespondJSON("login.php", map[string]any{"status": "success", "user": map[string]any{"name": "Kumar"}})

			_, err := client.Login(ctx, phone)
			Expect(errors.Is(err, errs.Parse)).To(BeTrue())
		})

		It("fails with a parse error on html", func() {
			backend.RespondJSON("login.php", "<html>Fatal error</html>")

			_, err := client.Login(ctx, phone)
			Expect(errors.Is(err, errs.Parse)).To(BeTrue())
		})

		It("fails with a network error on server errors", func() {
			backend.Respond("login.php", http.StatusInternalServerError, "")

			_, err := client.Login(ctx, phone)
			Expect(errors.Is(err, errs.Network)).To(BeTrue())

			httpErr := errs.HttpError{}
			Expect(errors.As(err, &httpErr)).To(BeTrue())
			Expect(httpErr.Code).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("CheckDeviceID", func() {
		It("posts a form", func() {
			backend.RespondJSON("check_device_id.php", map[string]any{"status": "blocked", "message": "Already logged in on another device"})

			res, err := client.CheckDeviceID(ctx, phone, "device-1")
			Expect(err).ToNot(HaveOccurred())
			Expect(res.Status.String()).To(Equal("blocked"))
			Expect(res.Message).To(Equal("Already logged in on another device"))

			requests := backend.Requests("check_device_id.php")
			Expect(requests).To(HaveLen(1))
			Expect(requests[0].Form.Get("phone")).To(Equal(phone))
			Expect(requests[0].Form.Get("device_id")).To(Equal("device-1"))
		})
	})

	DescribeTable("UpdateDeviceID accepts bodies that are not a status object",
		func(body string) {
			backend.Respond("update_device_id.php", http.StatusOK, body)

			res, err := client.UpdateDeviceID(ctx, phone, "device-1")
			Expect(err).ToNot(HaveOccurred())
			Expect(res.Status.String()).To(BeEmpty())

			requests := backend.Requests("update_device_id.php")
			Expect(requests).To(HaveLen(1))
			Expect(requests[0].Form.Get("device_id")).To(Equal("device-1"))
		},
		Entry("plain text", "Device ID updated"),
		Entry("empty", ""),
		Entry("json array", "[]"),
	)

	Describe("ClearDeviceID", func() {
		It("decodes a status object", func() {
			backend.RespondJSON("cleardevice_id.php", map[string]any{"status": "error", "message": "Phone not found"})

			res, err := client.ClearDeviceID(ctx, phone)
			Expect(err).ToNot(HaveOccurred())
			Expect(res.Status.String()).To(Equal("error"))
			Expect(res.Message).To(Equal("Phone not found"))
		})

		It("accepts a plain text body", func() {
			backend.Respond("cleardevice_id.php", http.StatusOK, "Device cleared")

			res, err := client.ClearDeviceID(ctx, phone)
			Expect(err).ToNot(HaveOccurred())
			Expect(res.Status.String()).To(BeEmpty())
		})

		It("still fails on server errors", func() {
			backend.Respond("cleardevice_id.php", http.StatusInternalServerError, "")

			_, err := client.ClearDeviceID(ctx, phone)
			Expect(errors.Is(err, errs.Network)).To(BeTrue())
		})
	})

	Describe("LogoutDevice", func() {
		It("reports revoked devices on an explicit null", func() {
			backend.RespondJSON("logoutdevice.php", `{"device_id": null}`)

			status, err := client.LogoutDevice(ctx, phone)
			Expect(err).ToNot(HaveOccurred())
			Expect(status.Revoked).To(BeTrue())
		})

		It("does not treat a missing device id as revoked", func() {
			backend.RespondJSON("logoutdevice.php", `{"status": "ok"}`)

			status, err := client.LogoutDevice(ctx, phone)
			Expect(err).ToNot(HaveOccurred())
			Expect(status.Revoked).To(BeFalse())
		})

		It("returns the current device id", func() {
			backend.RespondJSON("logoutdevice.php", `{"device_id": "abc"}`)

			status, err := client.LogoutDevice(ctx, phone)
			Expect(err).ToNot(HaveOccurred())
			Expect(status.Revoked).To(BeFalse())
			Expect(status.DeviceID).To(Equal("abc"))
		})
	})

	Describe("AllUsers", func() {
		It("decodes numeric phones", func() {
			backend.RespondJSON("get_all_users.php", `{"success": true, "users": [{"name": "Arun", "phone": 9000000001, "blood_group": "O+"}]}`)

			users, err := client.AllUsers(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(users).To(HaveLen(1))
			Expect(users[0].Phone.String()).To(Equal("9000000001"))
			Expect(users[0].BloodGroup).To(Equal("O+"))
		})

		It("surfaces the backend message when unsuccessful", func() {
			backend.RespondJSON("get_all_users.php", `{"success": false, "message": "Database offline"}`)

			_, err := client.AllUsers(ctx)
			Expect(errs.Message(err)).To(Equal("Database offline"))
		})
	})

	Describe("ThanksTotals", func() {
		It("accepts amounts encoded as strings", func() {
			backend.RespondJSON("thanksnotecalculationv2.php", `{"status": "success", "total_given": "1,500", "total_taken": 250.5}`)

			totals, err := client.ThanksTotals(ctx, phone)
			Expect(err).ToNot(HaveOccurred())
			Expect(totals.TotalGiven.Float64()).To(Equal(1500.0))
			Expect(totals.TotalTaken.Float64()).To(Equal(250.5))
		})
	})

	Describe("SubmitThanksNote", func() {
		It("posts multipart fields and the attachment", func() {
			backend.RespondJSON("thanksnote_attach.php", `{"status": "success"}`)

			res, err := client.SubmitThanksNote(ctx, remote.ThanksNote{
				FromPhone: phone,
				ToPhone:   "9000000001",
				Amount:    1200,
				Direction: "Given",
				Attachment: &remote.File{
					Name:        "bill.jpg",
					ContentType: "image/jpeg",
					Content:     []byte("jpeg"),
				},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(res.OK()).To(BeTrue())

			requests := backend.Requests("thanksnote_attach.php")
			Expect(requests).To(HaveLen(1))
			Expect(requests[0].Form.Get("from_phone")).To(Equal(phone))
			Expect(requests[0].Form.Get("to_phone")).To(Equal("9000000001"))
			Expect(requests[0].Form.Get("business_amount")).To(Equal("1200"))
			Expect(requests[0].Form.Get("given_take")).To(Equal("Given"))
			Expect(requests[0].Files).To(HaveKeyWithValue("attachment", []byte("jpeg")))
		})
	})

	Describe("InsertAttendance", func() {
		It("aborts after the attendance timeout", func() {
			cfg := backend.Config()
			cfg.AttendanceTimeout = 50 * time.Millisecond
			client, err := remote.NewClient(cfg, zap.NewNop().Sugar())
			Expect(err).ToNot(HaveOccurred())
			backend.RespondDelayed("Insert_atten.php", http.StatusOK, "success", time.Second)

			_, err = client.InsertAttendance(ctx, remote.AttendanceEntry{MeetingCode: "ABC12345", Phone: phone})
			Expect(errors.Is(err, context.DeadlineExceeded)).To(BeTrue())
			Expect(errors.Is(err, errs.Network)).To(BeTrue())
		})

		It("reports a deadline when the rate limit would outlast the attendance timeout", func() {
			cfg := backend.Config()
			cfg.AttendanceTimeout = time.Second
			cfg.RateLimit = 0.001
			cfg.RateBurst = 1
			client, err := remote.NewClient(cfg, zap.NewNop().Sugar())
			Expect(err).ToNot(HaveOccurred())
			backend.RespondJSON("Insert_atten.php", "Attendance inserted successfully")

			_, err = client.InsertAttendance(ctx, remote.AttendanceEntry{MeetingCode: "ABC12345", Phone: phone})
			Expect(err).ToNot(HaveOccurred())

			_, err = client.InsertAttendance(ctx, remote.AttendanceEntry{MeetingCode: "ABC12345", Phone: phone})
			Expect(errors.Is(err, context.DeadlineExceeded)).To(BeTrue())
			Expect(errors.Is(err, errs.Network)).To(BeTrue())
			Expect(backend.Count("Insert_atten.php")).To(Equal(1))
		})

		It("returns the raw response text", func() {
			backend.RespondJSON("Insert_atten.php", "Attendance inserted successfully")

			text, err := client.InsertAttendance(ctx, remote.AttendanceEntry{MeetingCode: "ABC12345", Phone: phone, CurrentDate: "2025-06-30"})
			Expect(err).ToNot(HaveOccurred())
			Expect(text).To(Equal("Attendance inserted successfully"))
			Expect(backend.Requests("Insert_atten.php")[0].Form.Get("current_date")).To(Equal("2025-06-30"))
		})
	})

	Describe("Events", func() {
		It("requires a date on every event", func() {
			backend.RespondJSON("get_events.php", `[{"id": 1, "title": "Meet"}]`)

			_, err := client.Events(ctx)
			Expect(errors.Is(err, errs.Parse)).To(BeTrue())
		})
	})
})
